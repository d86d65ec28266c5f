package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/repository"
)

// CourseRepository stores sections and comments as JSONB arrays on the
// course row.
type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, title, category, author, author_id, price, image, sections, comments, is_featured, created_at, updated_at`

func scanCourse(row scanner) (*entity.Course, error) {
	c := &entity.Course{}
	if err := row.Scan(&c.ID, &c.Title, &c.Category, &c.Author, &c.AuthorID, &c.Price, &c.Image,
		&c.Sections, &c.Comments, &c.IsFeatured, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if c.Sections == nil {
		c.Sections = []entity.Section{}
	}
	if c.Comments == nil {
		c.Comments = []entity.Comment{}
	}
	return c, nil
}

func collectCourses(rows pgx.Rows) ([]entity.Course, error) {
	defer rows.Close()
	out := []entity.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func nonNilSections(s []entity.Section) []entity.Section {
	if s == nil {
		return []entity.Section{}
	}
	return s
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO courses (title, category, author, author_id, price, image, sections)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.Title, c.Category, c.Author, c.AuthorID, c.Price, c.Image, nonNilSections(c.Sections))

	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}
	if c.Comments == nil {
		c.Comments = []entity.Comment{}
	}
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	c, err := scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// Update writes the authoring fields only; comments and the featured flag
// are changed through their own statements.
func (r *CourseRepository) Update(ctx context.Context, c *entity.Course) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE courses
		SET title = $1, category = $2, price = $3, image = $4, sections = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`, c.Title, c.Category, c.Price, c.Image, nonNilSections(c.Sections), c.ID)
	return notFound(row.Scan(&c.UpdatedAt))
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) List(ctx context.Context, search string) ([]entity.Course, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		rows, err := r.pool.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at`)
		if err != nil {
			return nil, err
		}
		return collectCourses(rows)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+courseColumns+`
		FROM courses
		WHERE to_tsvector('simple', title || ' ' || category) @@ plainto_tsquery('simple', $1)
		ORDER BY ts_rank(to_tsvector('simple', title || ' ' || category), plainto_tsquery('simple', $1)) DESC, created_at
	`, search)
	if err != nil {
		return nil, err
	}
	return collectCourses(rows)
}

// ListByIDs keeps the order of ids and skips unknown ones.
func (r *CourseRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.Course, error) {
	if len(ids) == 0 {
		return []entity.Course{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+courseColumns+` FROM courses WHERE id::text = ANY ($1::text[])`, ids)
	if err != nil {
		return nil, err
	}
	found, err := collectCourses(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.Course, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]entity.Course, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CourseRepository) ListByAuthor(ctx context.Context, authorID string) ([]entity.Course, error) {
	if !validID(authorID) {
		return []entity.Course{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+courseColumns+` FROM courses WHERE author_id = $1 ORDER BY created_at`, authorID)
	if err != nil {
		return nil, err
	}
	return collectCourses(rows)
}

func (r *CourseRepository) GetFeatured(ctx context.Context) (*entity.Course, error) {
	c, err := scanCourse(r.pool.QueryRow(ctx, `
		SELECT `+courseColumns+`
		FROM courses
		WHERE is_featured
		ORDER BY updated_at DESC
		LIMIT 1
	`))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// SetFeatured runs both updates in one transaction; the partial unique index
// on (author_id) WHERE is_featured backs the one-per-author rule. The
// author's rows are locked first so concurrent calls for the same author
// serialize instead of tripping the index.
func (r *CourseRepository) SetFeatured(ctx context.Context, authorID, courseID string) error {
	if !validID(courseID) || !validID(authorID) {
		return repository.ErrNotFound
	}
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT id FROM courses WHERE author_id = $1 ORDER BY id FOR UPDATE`, authorID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE courses SET is_featured = false WHERE author_id = $1 AND is_featured`, authorID); err != nil {
			return err
		}
		res, err := tx.Exec(ctx, `UPDATE courses SET is_featured = true, updated_at = now() WHERE id = $1`, courseID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *CourseRepository) PrependComment(ctx context.Context, courseID string, cm entity.Comment) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.pool.QueryRow(ctx, `
		UPDATE courses
		SET comments = $2::jsonb || comments, updated_at = now()
		WHERE id = $1
		RETURNING comments
	`, courseID, []entity.Comment{cm}).Scan(&comments)
	if err != nil {
		return nil, notFound(err)
	}
	return comments, nil
}

func (r *CourseRepository) RemoveComment(ctx context.Context, courseID, commentID string) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.pool.QueryRow(ctx, `
		UPDATE courses
		SET comments = COALESCE((
			SELECT jsonb_agg(c.elem ORDER BY c.ord)
			FROM jsonb_array_elements(comments) WITH ORDINALITY AS c(elem, ord)
			WHERE c.elem->>'_id' IS DISTINCT FROM $2
		), '[]'::jsonb)
		WHERE id = $1
		RETURNING comments
	`, courseID, commentID).Scan(&comments)
	if err != nil {
		return nil, notFound(err)
	}
	if comments == nil {
		comments = []entity.Comment{}
	}
	return comments, nil
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
