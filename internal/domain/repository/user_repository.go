package repository

import (
	"context"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// GetByID and GetByEmail return users with EnrolledCourses loaded.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByCourse(ctx context.Context, courseID string) ([]entity.User, error)

	// MarkSectionComplete adds sectionID to the enrollment's completed set
	// unless already present and returns the resulting enrollment, or
	// ErrNotFound when the user holds no enrollment for courseID.
	MarkSectionComplete(ctx context.Context, userID, courseID, sectionID string) (*entity.Enrollment, error)
	// RemoveEnrollment returns ErrNotFound only when the user does not exist;
	// removing an enrollment the user does not hold is not an error.
	RemoveEnrollment(ctx context.Context, userID, courseID string) error
}
