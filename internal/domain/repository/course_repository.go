package repository

import (
	"context"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

type CourseRepository interface {
	Create(ctx context.Context, c *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	Update(ctx context.Context, c *entity.Course) error
	Delete(ctx context.Context, id string) error

	// List returns all courses, or those whose title or category match search.
	List(ctx context.Context, search string) ([]entity.Course, error)
	ListByIDs(ctx context.Context, ids []string) ([]entity.Course, error)
	ListByAuthor(ctx context.Context, authorID string) ([]entity.Course, error)

	GetFeatured(ctx context.Context) (*entity.Course, error)
	// SetFeatured clears the flag on every course of authorID, then sets it on courseID.
	SetFeatured(ctx context.Context, authorID, courseID string) error

	// PrependComment stores c as the newest comment and returns the full list.
	PrependComment(ctx context.Context, courseID string, c entity.Comment) ([]entity.Comment, error)
	RemoveComment(ctx context.Context, courseID, commentID string) ([]entity.Comment, error)
}
