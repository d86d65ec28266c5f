package application_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/infrastructure/memory"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

type fixture struct {
	ctx     context.Context
	users   *memory.UserRepository
	courses *memory.CourseRepository
	ledger  *memory.LedgerRepository

	userSvc    *application.UserService
	courseSvc  *application.CourseService
	enrollSvc  *application.EnrollmentService
	progress   *application.ProgressService
	commentSvc *application.CommentService
}

func init() {
	helpers.BcryptCost = bcrypt.MinCost
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewDB()
	logger := quietLogger()
	f := &fixture{
		ctx:     context.Background(),
		users:   memory.NewUserRepository(db),
		courses: memory.NewCourseRepository(db),
		ledger:  memory.NewLedgerRepository(db),
	}
	jwt := helpers.NewJWTManager("access-test", "refresh-test", time.Minute, time.Hour)
	f.userSvc = application.NewUserService(f.users, f.ledger, jwt, nil, logger, 100)
	f.courseSvc = application.NewCourseService(f.courses, f.users, nil, nil, logger)
	f.enrollSvc = application.NewEnrollmentService(f.courses, f.users, f.ledger, nil, logger)
	f.progress = application.NewProgressService(f.users, f.courses, logger)
	f.commentSvc = application.NewCommentService(f.courses, f.users, logger)
	return f
}

func (f *fixture) newUser(t *testing.T, name string, role entity.Role, balance int64) *entity.User {
	t.Helper()
	u := &entity.User{
		Name:         name,
		Email:        name + "@example.com",
		Password:     "x",
		Role:         role,
		TokenBalance: balance,
	}
	require.NoError(t, f.users.Create(f.ctx, u))
	return u
}

func (f *fixture) newCourse(t *testing.T, author *entity.User, title string, price int64, sectionIDs ...string) *entity.Course {
	t.Helper()
	sections := make([]entity.Section, 0, len(sectionIDs))
	for _, id := range sectionIDs {
		sections = append(sections, entity.Section{SectionID: id, Title: "section " + id})
	}
	c, err := f.courseSvc.Create(f.ctx, author.ID, application.CreateCourseInput{
		Title:    title,
		Category: "programming",
		Price:    price,
		Sections: sections,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) balance(t *testing.T, userID string) int64 {
	t.Helper()
	u, err := f.users.GetByID(f.ctx, userID)
	require.NoError(t, err)
	return u.TokenBalance
}

func (f *fixture) transactions(t *testing.T, userID string) []entity.Transaction {
	t.Helper()
	txs, err := f.ledger.ListByUser(f.ctx, userID)
	require.NoError(t, err)
	return txs
}
