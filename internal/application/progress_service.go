package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type ProgressService struct {
	Users   repo.UserRepository
	Courses repo.CourseRepository
	Logger  *logrus.Logger
}

func NewProgressService(users repo.UserRepository, courses repo.CourseRepository, logger *logrus.Logger) *ProgressService {
	return &ProgressService{Users: users, Courses: courses, Logger: logger}
}

type Stats struct {
	CoursesInProgress  int `json:"coursesInProgress"`
	CoursesCompleted   int `json:"coursesCompleted"`
	CertificatesEarned int `json:"certificatesEarned"`
}

// EnrolledCourse is an enrollment with its course details attached.
type EnrolledCourse struct {
	ID                string         `json:"_id"`
	CompletedSections []string       `json:"completedSections"`
	Course            *entity.Course `json:"course"`
}

// MarkSectionComplete is idempotent: marking a completed section again is a no-op.
func (s *ProgressService) MarkSectionComplete(ctx context.Context, userID, courseID, sectionID string) (*entity.Enrollment, error) {
	e, err := s.Users.MarkSectionComplete(ctx, userID, courseID, sectionID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, unavailable("mark section complete", err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"course_id":  courseID,
			"section_id": sectionID,
			"completed":  len(e.CompletedSections),
		}).Info("section marked complete")
	}
	return e, nil
}

// Stats counts a course as completed only when it has sections and every
// one of them is in the completed set. One certificate per completed course.
func (s *ProgressService) Stats(ctx context.Context, userID string) (Stats, error) {
	u, err := loadUser(ctx, s.Users, userID)
	if err != nil {
		return Stats{}, err
	}
	courses, err := s.enrolledCourseMap(ctx, u)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{CoursesInProgress: len(u.EnrolledCourses)}
	for _, e := range u.EnrolledCourses {
		c, ok := courses[e.CourseID]
		if !ok {
			continue
		}
		total := len(c.Sections)
		if total > 0 && len(e.CompletedSections) == total {
			st.CoursesCompleted++
		}
	}
	st.CertificatesEarned = st.CoursesCompleted
	return st, nil
}

// MyCourses lists the user's enrollments with course details, skipping
// enrollments whose course has been deleted.
func (s *ProgressService) MyCourses(ctx context.Context, userID string) ([]EnrolledCourse, error) {
	u, err := loadUser(ctx, s.Users, userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.enrolledCourseMap(ctx, u)
	if err != nil {
		return nil, err
	}
	out := make([]EnrolledCourse, 0, len(u.EnrolledCourses))
	for _, e := range u.EnrolledCourses {
		c, ok := courses[e.CourseID]
		if !ok {
			continue
		}
		out = append(out, EnrolledCourse{ID: e.ID, CompletedSections: e.CompletedSections, Course: &c})
	}
	return out, nil
}

func (s *ProgressService) enrolledCourseMap(ctx context.Context, u *entity.User) (map[string]entity.Course, error) {
	ids := make([]string, 0, len(u.EnrolledCourses))
	for _, e := range u.EnrolledCourses {
		ids = append(ids, e.CourseID)
	}
	out := make(map[string]entity.Course, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	courses, err := s.Courses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, unavailable("list enrolled courses", err)
	}
	for _, c := range courses {
		out[c.ID] = c
	}
	return out, nil
}
