package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
)

// CommentService manages course comments, newest first.
type CommentService struct {
	Courses repo.CourseRepository
	Users   repo.UserRepository
	Logger  *logrus.Logger
}

func NewCommentService(courses repo.CourseRepository, users repo.UserRepository, logger *logrus.Logger) *CommentService {
	return &CommentService{Courses: courses, Users: users, Logger: logger}
}

func (s *CommentService) List(ctx context.Context, courseID string) ([]entity.Comment, error) {
	c, err := loadCourse(ctx, s.Courses, courseID)
	if err != nil {
		return nil, err
	}
	return c.Comments, nil
}

// Add prepends a comment. Only users enrolled in the course may comment.
func (s *CommentService) Add(ctx context.Context, userID, courseID, text string) ([]entity.Comment, error) {
	u, err := loadUser(ctx, s.Users, userID)
	if err != nil {
		return nil, err
	}
	c, err := loadCourse(ctx, s.Courses, courseID)
	if err != nil {
		return nil, err
	}
	if !IsEnrolled(u, c.ID) {
		return nil, ErrMustEnroll
	}
	comment := entity.Comment{
		ID:       uuid.NewString(),
		UserID:   u.ID,
		UserName: u.Name,
		Text:     text,
		Date:     time.Now().UTC(),
	}
	comments, err := s.Courses.PrependComment(ctx, c.ID, comment)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, unavailable("add comment", err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"course_id": c.ID, "user_id": u.ID, "comment_id": comment.ID}).Info("comment added")
	}
	return comments, nil
}

// Delete removes commentID. Only the course author may delete, and an
// unknown commentID leaves the list unchanged.
func (s *CommentService) Delete(ctx context.Context, userID, courseID, commentID string) ([]entity.Comment, error) {
	c, err := loadCourse(ctx, s.Courses, courseID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(userID, c.AuthorID) {
		return nil, ErrNotCommentAuthor
	}
	comments, err := s.Courses.RemoveComment(ctx, c.ID, commentID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, unavailable("delete comment", err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"course_id": c.ID, "comment_id": commentID}).Info("comment deleted")
	}
	return comments, nil
}
