package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type CourseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(_ context.Context, c *entity.Course) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.db.courses[c.ID] = cloneCourse(c)
	r.db.courseOrder = append(r.db.courseOrder, c.ID)
	return nil
}

func (r *CourseRepository) GetByID(_ context.Context, id string) (*entity.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneCourse(c), nil
}

// Update replaces the authoring fields. Comments and the featured flag have
// their own operations and are left untouched.
func (r *CourseRepository) Update(_ context.Context, c *entity.Course) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.courses[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = c.Title
	stored.Category = c.Category
	stored.Price = c.Price
	stored.Image = c.Image
	stored.Sections = append([]entity.Section{}, c.Sections...)
	stored.UpdatedAt = time.Now()
	c.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *CourseRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.courses, id)
	for i, cid := range r.db.courseOrder {
		if cid == id {
			r.db.courseOrder = append(r.db.courseOrder[:i], r.db.courseOrder[i+1:]...)
			break
		}
	}
	return nil
}

// query walks courses in insertion order.
func (r *CourseRepository) query(match func(*entity.Course) bool) []entity.Course {
	out := []entity.Course{}
	for _, id := range r.db.courseOrder {
		if c := r.db.courses[id]; match(c) {
			out = append(out, *cloneCourse(c))
		}
	}
	return out
}

func (r *CourseRepository) List(_ context.Context, search string) ([]entity.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(search))
	return r.query(func(c *entity.Course) bool {
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(c.Category), q)
	}), nil
}

// ListByIDs keeps the order of ids and skips unknown ones.
func (r *CourseRepository) ListByIDs(_ context.Context, ids []string) ([]entity.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]entity.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.db.courses[id]; ok {
			out = append(out, *cloneCourse(c))
		}
	}
	return out, nil
}

func (r *CourseRepository) ListByAuthor(_ context.Context, authorID string) ([]entity.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.query(func(c *entity.Course) bool { return c.AuthorID == authorID }), nil
}

func (r *CourseRepository) GetFeatured(_ context.Context) (*entity.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	featured := r.query(func(c *entity.Course) bool { return c.IsFeatured })
	if len(featured) == 0 {
		return nil, repository.ErrNotFound
	}
	return &featured[0], nil
}

func (r *CourseRepository) SetFeatured(_ context.Context, authorID, courseID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	target, ok := r.db.courses[courseID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, c := range r.db.courses {
		if c.AuthorID == authorID {
			c.IsFeatured = false
		}
	}
	target.IsFeatured = true
	target.UpdatedAt = time.Now()
	return nil
}

func (r *CourseRepository) PrependComment(_ context.Context, courseID string, cm entity.Comment) ([]entity.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.courses[courseID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Comments = append([]entity.Comment{cm}, c.Comments...)
	return append([]entity.Comment{}, c.Comments...), nil
}

func (r *CourseRepository) RemoveComment(_ context.Context, courseID, commentID string) ([]entity.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.courses[courseID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	kept := make([]entity.Comment, 0, len(c.Comments))
	for _, cm := range c.Comments {
		if cm.ID != commentID {
			kept = append(kept, cm)
		}
	}
	c.Comments = kept
	return append([]entity.Comment{}, kept...), nil
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
