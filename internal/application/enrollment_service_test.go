package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) EnrollmentCompleted(ctx context.Context, student, teacher *entity.User, course *entity.Course, tx *entity.Transaction) error {
	args := m.Called(ctx, student, teacher, course, tx)
	return args.Error(0)
}

func TestEnroll_TransfersPriceAndRecordsEnrollment(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 5)
	student := f.newUser(t, "student", entity.RoleStudent, 100)
	course := f.newCourse(t, teacher, "Go", 30, "s1", "s2")

	got, err := f.enrollSvc.Enroll(f.ctx, course.ID, student.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(70), got.TokenBalance)
	assert.Equal(t, int64(70), f.balance(t, student.ID))
	assert.Equal(t, int64(35), f.balance(t, teacher.ID))

	require.Len(t, got.EnrolledCourses, 1)
	assert.Equal(t, course.ID, got.EnrolledCourses[0].CourseID)
	assert.Empty(t, got.EnrolledCourses[0].CompletedSections)
	assert.NotEmpty(t, got.EnrolledCourses[0].ID)

	txs := f.transactions(t, student.ID)
	require.Len(t, txs, 1)
	assert.Equal(t, student.ID, txs[0].FromUser)
	assert.Equal(t, teacher.ID, txs[0].ToUser)
	assert.Equal(t, course.ID, txs[0].CourseID)
	assert.Equal(t, int64(30), txs[0].Amount)
	assert.Len(t, f.transactions(t, teacher.ID), 1)
}

func TestEnroll_TwiceIsConflictAndLeavesBalances(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	student := f.newUser(t, "student", entity.RoleStudent, 100)
	course := f.newCourse(t, teacher, "Go", 30)

	_, err := f.enrollSvc.Enroll(f.ctx, course.ID, student.ID)
	require.NoError(t, err)

	_, err = f.enrollSvc.Enroll(f.ctx, course.ID, student.ID)
	require.ErrorIs(t, err, application.ErrAlreadyEnrolled)
	assert.ErrorIs(t, err, application.ErrConflict)

	assert.Equal(t, int64(70), f.balance(t, student.ID))
	assert.Equal(t, int64(30), f.balance(t, teacher.ID))
	assert.Len(t, f.transactions(t, student.ID), 1)
}

func TestEnroll_InsufficientBalanceWritesNothing(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	student := f.newUser(t, "student", entity.RoleStudent, 10)
	course := f.newCourse(t, teacher, "Go", 30)

	_, err := f.enrollSvc.Enroll(f.ctx, course.ID, student.ID)
	require.ErrorIs(t, err, application.ErrInsufficientBalance)

	assert.Equal(t, int64(10), f.balance(t, student.ID))
	assert.Equal(t, int64(0), f.balance(t, teacher.ID))
	assert.Empty(t, f.transactions(t, student.ID))

	u, err := f.users.GetByID(f.ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, u.EnrolledCourses)
}

func TestEnroll_FreeCourseWithEmptyWallet(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	student := f.newUser(t, "student", entity.RoleStudent, 0)
	course := f.newCourse(t, teacher, "Intro", 0)

	got, err := f.enrollSvc.Enroll(f.ctx, course.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.TokenBalance)
	assert.Len(t, f.transactions(t, student.ID), 1)
}

func TestEnroll_MissingCourseOrStudent(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	course := f.newCourse(t, teacher, "Go", 30)

	_, err := f.enrollSvc.Enroll(f.ctx, "missing", teacher.ID)
	require.ErrorIs(t, err, application.ErrCourseNotFound)
	assert.ErrorIs(t, err, application.ErrNotFound)

	_, err = f.enrollSvc.Enroll(f.ctx, course.ID, "missing")
	require.ErrorIs(t, err, application.ErrUserNotFound)
}

func TestEnroll_AuthorInOwnCourseNetsZero(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 50)
	course := f.newCourse(t, teacher, "Go", 30)

	got, err := f.enrollSvc.Enroll(f.ctx, course.ID, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.TokenBalance)
	assert.Equal(t, int64(50), f.balance(t, teacher.ID))
	assert.Len(t, f.transactions(t, teacher.ID), 1)
}

func TestEnroll_ConcurrentRequestsDebitOnce(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	student := f.newUser(t, "student", entity.RoleStudent, 100)
	course := f.newCourse(t, teacher, "Go", 30)

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.enrollSvc.Enroll(f.ctx, course.ID, student.ID)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, application.ErrAlreadyEnrolled)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, int64(70), f.balance(t, student.ID))
	assert.Equal(t, int64(30), f.balance(t, teacher.ID))
	assert.Len(t, f.transactions(t, student.ID), 1)
}

func TestEnroll_NotifiesAndIgnoresNotifierFailure(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	student := f.newUser(t, "student", entity.RoleStudent, 100)
	course := f.newCourse(t, teacher, "Go", 30)

	n := &notifierMock{}
	n.On("EnrollmentCompleted", mock.Anything,
		mock.MatchedBy(func(u *entity.User) bool { return u.ID == student.ID && u.TokenBalance == 70 }),
		mock.MatchedBy(func(u *entity.User) bool { return u.ID == teacher.ID && u.TokenBalance == 30 }),
		mock.MatchedBy(func(c *entity.Course) bool { return c.ID == course.ID }),
		mock.MatchedBy(func(tx *entity.Transaction) bool { return tx.Amount == 30 }),
	).Return(errors.New("broker down")).Once()
	f.enrollSvc.Notifier = n

	_, err := f.enrollSvc.Enroll(f.ctx, course.ID, student.ID)
	require.NoError(t, err)
	n.AssertExpectations(t)
}

// racingLedger commits another enrollment for the same student just before
// the wrapped call, as a concurrent request would between the service's
// checks and its ledger write.
type racingLedger struct {
	repo.LedgerRepository
	first repo.EnrollParams
	once  sync.Once
}

func (l *racingLedger) Enroll(ctx context.Context, p repo.EnrollParams) (*entity.Enrollment, *entity.Transaction, error) {
	var err error
	l.once.Do(func() { _, _, err = l.LedgerRepository.Enroll(ctx, l.first) })
	if err != nil {
		return nil, nil, err
	}
	return l.LedgerRepository.Enroll(ctx, p)
}

func TestEnroll_ReturnsCommittedStateAfterConcurrentEnrollment(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	student := f.newUser(t, "student", entity.RoleStudent, 100)
	courseA := f.newCourse(t, teacher, "A", 30)
	courseB := f.newCourse(t, teacher, "B", 40)

	n := &notifierMock{}
	n.On("EnrollmentCompleted", mock.Anything,
		mock.MatchedBy(func(u *entity.User) bool { return u.TokenBalance == 30 }),
		mock.MatchedBy(func(u *entity.User) bool { return u.TokenBalance == 70 }),
		mock.Anything, mock.Anything).Return(nil).Once()

	f.enrollSvc.Notifier = n
	f.enrollSvc.Ledger = &racingLedger{
		LedgerRepository: f.ledger,
		first:            repo.EnrollParams{StudentID: student.ID, TeacherID: teacher.ID, CourseID: courseB.ID, Amount: courseB.Price},
	}

	got, err := f.enrollSvc.Enroll(f.ctx, courseA.ID, student.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(30), got.TokenBalance)
	assert.Equal(t, f.balance(t, student.ID), got.TokenBalance)
	require.Len(t, got.EnrolledCourses, 2)
	assert.Equal(t, courseB.ID, got.EnrolledCourses[0].CourseID)
	assert.Equal(t, courseA.ID, got.EnrolledCourses[1].CourseID)
	n.AssertExpectations(t)
}
