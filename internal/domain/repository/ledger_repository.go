package repository

import (
	"context"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

// EnrollParams describes a paid enrollment: Amount moves from StudentID to TeacherID.
type EnrollParams struct {
	StudentID string
	TeacherID string
	CourseID  string
	Amount    int64
}

// LedgerRepository owns every write that moves tokens.
type LedgerRepository interface {
	// Enroll debits the student, credits the teacher, appends the transaction
	// and the enrollment as one unit. It returns ErrDuplicate when the
	// student already holds the enrollment and ErrInsufficientFunds when the
	// balance does not cover Amount; in both cases nothing is written.
	Enroll(ctx context.Context, p EnrollParams) (*entity.Enrollment, *entity.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Transaction, error)
}
