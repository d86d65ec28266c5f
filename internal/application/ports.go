package application

import (
	"context"
	"io"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

// CourseIndex is an optional full-text index over course title and category.
type CourseIndex interface {
	Index(ctx context.Context, c *entity.Course) error
	Remove(ctx context.Context, courseID string) error
	// Search returns matching course ids, best match first.
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// ImageStore persists uploaded course images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// EnrollmentNotifier is told about every committed enrollment.
type EnrollmentNotifier interface {
	EnrollmentCompleted(ctx context.Context, student, teacher *entity.User, course *entity.Course, tx *entity.Transaction) error
}

// ImageUpload is a course image received from a client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
