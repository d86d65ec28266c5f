package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.EnrolledCourses == nil {
		u.EnrolledCourses = []entity.Enrollment{}
	}
	r.db.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) ListByCourse(_ context.Context, courseID string) ([]entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []entity.User{}
	for _, u := range r.db.users {
		if u.Enrollment(courseID) != nil {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *UserRepository) MarkSectionComplete(_ context.Context, userID, courseID, sectionID string) (*entity.Enrollment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e := u.Enrollment(courseID)
	if e == nil {
		return nil, repository.ErrNotFound
	}
	if !e.HasCompleted(sectionID) {
		e.CompletedSections = append(e.CompletedSections, sectionID)
		u.UpdatedAt = time.Now()
	}
	out := cloneEnrollment(*e)
	return &out, nil
}

func (r *UserRepository) RemoveEnrollment(_ context.Context, userID, courseID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := u.EnrolledCourses[:0]
	for _, e := range u.EnrolledCourses {
		if e.CourseID != courseID {
			kept = append(kept, e)
		}
	}
	u.EnrolledCourses = kept
	u.UpdatedAt = time.Now()
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
