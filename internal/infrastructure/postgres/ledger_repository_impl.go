package postgres

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Enroll moves the course price from student to teacher and records the
// enrollment in one transaction. Both user rows are locked in id order so
// two concurrent enrollments between the same pair cannot deadlock.
func (r *LedgerRepository) Enroll(ctx context.Context, p repository.EnrollParams) (*entity.Enrollment, *entity.Transaction, error) {
	if !validID(p.StudentID) || !validID(p.TeacherID) || !validID(p.CourseID) {
		return nil, nil, repository.ErrNotFound
	}

	var (
		e *entity.Enrollment
		t *entity.Transaction
	)
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		ids := []string{p.StudentID, p.TeacherID}
		sort.Strings(ids)
		if ids[0] == ids[1] {
			ids = ids[:1]
		}
		balances := make(map[string]int64, len(ids))
		for _, id := range ids {
			var balance int64
			if err := tx.QueryRow(ctx, `SELECT token_balance FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&balance); err != nil {
				return notFound(err)
			}
			balances[id] = balance
		}

		var enrolled bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)
		`, p.StudentID, p.CourseID).Scan(&enrolled); err != nil {
			return err
		}
		if enrolled {
			return repository.ErrDuplicate
		}
		if balances[p.StudentID] < p.Amount {
			return repository.ErrInsufficientFunds
		}

		if _, err := tx.Exec(ctx, `UPDATE users SET token_balance = token_balance - $2, updated_at = now() WHERE id = $1`, p.StudentID, p.Amount); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE users SET token_balance = token_balance + $2, updated_at = now() WHERE id = $1`, p.TeacherID, p.Amount); err != nil {
			return err
		}

		t = &entity.Transaction{FromUser: p.StudentID, ToUser: p.TeacherID, CourseID: p.CourseID, Amount: p.Amount}
		if err := tx.QueryRow(ctx, `
			INSERT INTO transactions (from_user, to_user, course_id, amount)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`, t.FromUser, t.ToUser, t.CourseID, t.Amount).Scan(&t.ID, &t.CreatedAt); err != nil {
			return err
		}

		var err error
		e, err = scanEnrollment(tx.QueryRow(ctx, `
			INSERT INTO enrollments (user_id, course_id)
			VALUES ($1, $2)
			RETURNING id, course_id, completed_sections, enrolled_at
		`, p.StudentID, p.CourseID))
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return e, t, nil
}

func (r *LedgerRepository) ListByUser(ctx context.Context, userID string) ([]entity.Transaction, error) {
	if !validID(userID) {
		return []entity.Transaction{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, from_user, to_user, course_id, amount, created_at
		FROM transactions
		WHERE from_user = $1 OR to_user = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Transaction{}
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.FromUser, &t.ToUser, &t.CourseID, &t.Amount, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

var _ repository.LedgerRepository = (*LedgerRepository)(nil)
