package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type LedgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Enroll(_ context.Context, p repository.EnrollParams) (*entity.Enrollment, *entity.Transaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	student, ok := r.db.users[p.StudentID]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	teacher, ok := r.db.users[p.TeacherID]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	if student.Enrollment(p.CourseID) != nil {
		return nil, nil, repository.ErrDuplicate
	}
	if student.TokenBalance < p.Amount {
		return nil, nil, repository.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	student.TokenBalance -= p.Amount
	teacher.TokenBalance += p.Amount
	tx := entity.Transaction{
		ID:        uuid.NewString(),
		FromUser:  p.StudentID,
		ToUser:    p.TeacherID,
		CourseID:  p.CourseID,
		Amount:    p.Amount,
		CreatedAt: now,
	}
	r.db.transactions = append(r.db.transactions, tx)
	e := entity.Enrollment{
		ID:                uuid.NewString(),
		CourseID:          p.CourseID,
		CompletedSections: []string{},
		EnrolledAt:        now,
	}
	student.EnrolledCourses = append(student.EnrolledCourses, e)
	student.UpdatedAt, teacher.UpdatedAt = now, now

	out := cloneEnrollment(e)
	return &out, &tx, nil
}

// ListByUser returns the user's transactions newest first.
func (r *LedgerRepository) ListByUser(_ context.Context, userID string) ([]entity.Transaction, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []entity.Transaction{}
	for i := len(r.db.transactions) - 1; i >= 0; i-- {
		tx := r.db.transactions[i]
		if tx.FromUser == userID || tx.ToUser == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

var _ repository.LedgerRepository = (*LedgerRepository)(nil)
