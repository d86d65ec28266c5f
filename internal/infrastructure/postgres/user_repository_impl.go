package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, token_balance, created_at, updated_at`

func scanUser(row scanner) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &role, &u.TokenBalance,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, token_balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password, string(u.Role), u.TokenBalance)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	u.EnrolledCourses = []entity.Enrollment{}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	if u.EnrolledCourses, err = r.enrollments(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFound(err)
	}
	if u.EnrolledCourses, err = r.enrollments(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) enrollments(ctx context.Context, userID string) ([]entity.Enrollment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, course_id, completed_sections, enrolled_at
		FROM enrollments
		WHERE user_id = $1
		ORDER BY enrolled_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanEnrollment(row scanner) (*entity.Enrollment, error) {
	e := &entity.Enrollment{}
	if err := row.Scan(&e.ID, &e.CourseID, &e.CompletedSections, &e.EnrolledAt); err != nil {
		return nil, err
	}
	if e.CompletedSections == nil {
		e.CompletedSections = []string{}
	}
	return e, nil
}

// ListByCourse returns enrolled users without their own enrollment lists.
func (r *UserRepository) ListByCourse(ctx context.Context, courseID string) ([]entity.User, error) {
	if !validID(courseID) {
		return []entity.User{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.token_balance, u.created_at, u.updated_at
		FROM users u
		JOIN enrollments e ON e.user_id = u.id
		WHERE e.course_id = $1
		ORDER BY e.enrolled_at
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// MarkSectionComplete appends in a single statement so concurrent marks of
// the same section cannot produce duplicates.
func (r *UserRepository) MarkSectionComplete(ctx context.Context, userID, courseID, sectionID string) (*entity.Enrollment, error) {
	if !validID(userID) || !validID(courseID) {
		return nil, repository.ErrNotFound
	}
	if _, err := r.pool.Exec(ctx, `
		UPDATE enrollments
		SET completed_sections = array_append(completed_sections, $3::text)
		WHERE user_id = $1 AND course_id = $2 AND NOT ($3::text = ANY (completed_sections))
	`, userID, courseID, sectionID); err != nil {
		return nil, err
	}
	e, err := scanEnrollment(r.pool.QueryRow(ctx, `
		SELECT id, course_id, completed_sections, enrolled_at
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2
	`, userID, courseID))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *UserRepository) RemoveEnrollment(ctx context.Context, userID, courseID string) error {
	if !validID(userID) {
		return repository.ErrNotFound
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	if !validID(courseID) {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM enrollments WHERE user_id = $1 AND course_id = $2`, userID, courseID)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
