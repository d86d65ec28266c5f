package application

import (
	"context"
	"errors"
	"expvar"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
)

var (
	enrollmentsTotal  = expvar.NewInt("enrollments_total")
	tokensTransferred = expvar.NewInt("tokens_transferred_total")
)

// EnrollmentService sells a course seat to a student for the course price.
type EnrollmentService struct {
	Courses  repo.CourseRepository
	Users    repo.UserRepository
	Ledger   repo.LedgerRepository
	Notifier EnrollmentNotifier
	Logger   *logrus.Logger
}

func NewEnrollmentService(courses repo.CourseRepository, users repo.UserRepository, ledger repo.LedgerRepository, notifier EnrollmentNotifier, logger *logrus.Logger) *EnrollmentService {
	return &EnrollmentService{Courses: courses, Users: users, Ledger: ledger, Notifier: notifier, Logger: logger}
}

// Enroll debits the student, credits the course author, records the
// transaction and appends the enrollment. It returns the updated student.
//
// The checks below give precise errors for the common case; the ledger
// repeats the enrollment and balance checks inside its own transaction, so
// concurrent requests cannot debit twice.
func (s *EnrollmentService) Enroll(ctx context.Context, courseID, studentID string) (*entity.User, error) {
	course, err := loadCourse(ctx, s.Courses, courseID)
	if err != nil {
		return nil, err
	}
	student, err := loadUser(ctx, s.Users, studentID)
	if err != nil {
		return nil, err
	}
	teacher, err := loadUser(ctx, s.Users, course.AuthorID)
	if err != nil {
		return nil, err
	}
	if IsEnrolled(student, course.ID) {
		return nil, ErrAlreadyEnrolled
	}
	if student.TokenBalance < course.Price {
		return nil, ErrInsufficientBalance
	}

	enrollment, tx, err := s.Ledger.Enroll(ctx, repo.EnrollParams{
		StudentID: student.ID,
		TeacherID: teacher.ID,
		CourseID:  course.ID,
		Amount:    course.Price,
	})
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return nil, ErrAlreadyEnrolled
	case errors.Is(err, repo.ErrInsufficientFunds):
		return nil, ErrInsufficientBalance
	case errors.Is(err, repo.ErrNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, unavailable("enroll", err)
	}

	enrollmentsTotal.Add(1)
	tokensTransferred.Add(tx.Amount)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"course_id":      course.ID,
			"student_id":     student.ID,
			"teacher_id":     teacher.ID,
			"amount":         tx.Amount,
			"transaction_id": tx.ID,
		}).Info("student enrolled")
	}

	student = s.reload(ctx, student, tx, enrollment)
	if teacher.ID == student.ID {
		teacher = student
	} else if t, err := s.Users.GetByID(ctx, teacher.ID); err == nil {
		teacher = t
	} else {
		teacher.TokenBalance += tx.Amount
	}

	if s.Notifier != nil {
		if nErr := s.Notifier.EnrollmentCompleted(ctx, student, teacher, course, tx); nErr != nil && s.Logger != nil {
			s.Logger.WithError(nErr).WithField("transaction_id", tx.ID).Warn("enrollment notification failed")
		}
	}
	return student, nil
}

// reload reads the student back after the ledger write so the response
// carries committed state, including enrollments made by concurrent
// requests. If the read fails the pre-write copy is patched instead.
func (s *EnrollmentService) reload(ctx context.Context, student *entity.User, tx *entity.Transaction, e *entity.Enrollment) *entity.User {
	u, err := s.Users.GetByID(ctx, student.ID)
	if err == nil {
		return u
	}
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("student_id", student.ID).Warn("reload after enroll failed")
	}
	student.TokenBalance -= tx.Amount
	if tx.ToUser == student.ID {
		student.TokenBalance += tx.Amount
	}
	student.EnrolledCourses = append(student.EnrolledCourses, *e)
	return student
}
