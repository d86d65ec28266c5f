package application

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
)

const searchSize = 50

// CourseService handles authoring, listing, featuring and roster management.
type CourseService struct {
	Courses repo.CourseRepository
	Users   repo.UserRepository
	Index   CourseIndex
	Images  ImageStore
	Logger  *logrus.Logger
}

func NewCourseService(courses repo.CourseRepository, users repo.UserRepository, index CourseIndex, images ImageStore, logger *logrus.Logger) *CourseService {
	return &CourseService{Courses: courses, Users: users, Index: index, Images: images, Logger: logger}
}

type CreateCourseInput struct {
	Title    string
	Category string
	Price    int64
	Image    string
	Sections []entity.Section
}

// UpdateCourseInput fields are applied only when truthy: an empty string,
// zero price or empty section list keeps the stored value.
type UpdateCourseInput struct {
	Title    string
	Category string
	Price    int64
	Image    string
	Sections []entity.Section
}

func loadCourse(ctx context.Context, courses repo.CourseRepository, id string) (*entity.Course, error) {
	c, err := courses.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, unavailable("load course", err)
	}
	return c, nil
}

func loadUser(ctx context.Context, users repo.UserRepository, id string) (*entity.User, error) {
	u, err := users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, unavailable("load user", err)
	}
	return u, nil
}

// loadOwnedCourse checks existence before ownership.
func (s *CourseService) loadOwnedCourse(ctx context.Context, actorID, courseID string) (*entity.Course, error) {
	c, err := loadCourse(ctx, s.Courses, courseID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(actorID, c.AuthorID) {
		return nil, ErrNotAuthorized
	}
	return c, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*entity.Course, error) {
	return loadCourse(ctx, s.Courses, id)
}

// List returns every course, or the ones matching search over title and category.
func (s *CourseService) List(ctx context.Context, search string) ([]entity.Course, error) {
	search = strings.TrimSpace(search)
	if search != "" && s.Index != nil {
		ids, err := s.Index.Search(ctx, search, searchSize)
		if err == nil {
			courses, err := s.Courses.ListByIDs(ctx, ids)
			if err != nil {
				return nil, unavailable("list courses", err)
			}
			return courses, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("search", search).Warn("course index search failed, falling back to store")
		}
	}
	courses, err := s.Courses.List(ctx, search)
	if err != nil {
		return nil, unavailable("list courses", err)
	}
	return courses, nil
}

func (s *CourseService) ListByAuthor(ctx context.Context, authorID string) ([]entity.Course, error) {
	courses, err := s.Courses.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, unavailable("list author courses", err)
	}
	return courses, nil
}

func (s *CourseService) Featured(ctx context.Context) (*entity.Course, error) {
	c, err := s.Courses.GetFeatured(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNoFeaturedCourse
	}
	if err != nil {
		return nil, unavailable("load featured course", err)
	}
	return c, nil
}

// Create stores a new course authored by actorID, who must be a teacher.
func (s *CourseService) Create(ctx context.Context, actorID string, in CreateCourseInput) (*entity.Course, error) {
	actor, err := loadUser(ctx, s.Users, actorID)
	if err != nil {
		return nil, err
	}
	if !HasRole(actor, entity.RoleTeacher) {
		return nil, ErrNotTeacher
	}
	c := &entity.Course{
		Title:    in.Title,
		Category: in.Category,
		Author:   actor.Name,
		AuthorID: actor.ID,
		Price:    in.Price,
		Image:    in.Image,
		Sections: withSectionIDs(in.Sections),
		Comments: []entity.Comment{},
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		return nil, unavailable("create course", err)
	}
	s.index(ctx, c)
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, actorID, courseID string, in UpdateCourseInput) (*entity.Course, error) {
	c, err := s.loadOwnedCourse(ctx, actorID, courseID)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		c.Title = in.Title
	}
	if in.Category != "" {
		c.Category = in.Category
	}
	if in.Price != 0 {
		c.Price = in.Price
	}
	if in.Image != "" {
		c.Image = in.Image
	}
	if len(in.Sections) > 0 {
		c.Sections = withSectionIDs(in.Sections)
	}
	if err := s.Courses.Update(ctx, c); err != nil {
		return nil, unavailable("update course", err)
	}
	s.index(ctx, c)
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, actorID, courseID string) error {
	if _, err := s.loadOwnedCourse(ctx, actorID, courseID); err != nil {
		return err
	}
	if err := s.Courses.Delete(ctx, courseID); err != nil {
		return unavailable("delete course", err)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, courseID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("course_id", courseID).Warn("course index remove failed")
		}
	}
	return nil
}

// Feature makes courseID the single featured course of its author.
func (s *CourseService) Feature(ctx context.Context, actorID, courseID string) (*entity.Course, error) {
	c, err := s.loadOwnedCourse(ctx, actorID, courseID)
	if err != nil {
		return nil, err
	}
	previous := s.featuredByAuthor(ctx, c.AuthorID, c.ID)
	if err := s.Courses.SetFeatured(ctx, c.AuthorID, c.ID); err != nil {
		return nil, unavailable("feature course", err)
	}
	c.IsFeatured = true
	s.index(ctx, c)
	for i := range previous {
		previous[i].IsFeatured = false
		s.index(ctx, &previous[i])
	}
	return c, nil
}

// UploadImage stores the image under courses/<id>/ and points the course at it.
func (s *CourseService) UploadImage(ctx context.Context, actorID, courseID string, file ImageUpload) (*entity.Course, error) {
	c, err := s.loadOwnedCourse(ctx, actorID, courseID)
	if err != nil {
		return nil, err
	}
	if s.Images == nil {
		return nil, unavailable("upload image", errors.New("image storage not configured"))
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	objectPath := filepath.ToSlash(filepath.Join("courses", c.ID, uuid.NewString()+ext))
	url, err := s.Images.Upload(ctx, objectPath, file.ContentType, file.Body)
	if err != nil {
		return nil, unavailable("upload image", err)
	}
	c.Image = url
	if err := s.Courses.Update(ctx, c); err != nil {
		return nil, unavailable("update course", err)
	}
	return c, nil
}

// EnrolledStudents lists users enrolled in courseID.
// Only the teacher role is required; authorship of the course is not checked.
func (s *CourseService) EnrolledStudents(ctx context.Context, courseID string) ([]entity.User, error) {
	users, err := s.Users.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, unavailable("list students", err)
	}
	return users, nil
}

// RemoveStudent drops the student's enrollment without refunding tokens.
// Like EnrolledStudents it does not check authorship of the course.
func (s *CourseService) RemoveStudent(ctx context.Context, courseID, studentID string) error {
	err := s.Users.RemoveEnrollment(ctx, studentID, courseID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrStudentNotFound
	}
	if err != nil {
		return unavailable("remove enrollment", err)
	}
	return nil
}

// featuredByAuthor returns the author's featured courses other than exceptID,
// whose index documents must be cleared once the flag moves.
func (s *CourseService) featuredByAuthor(ctx context.Context, authorID, exceptID string) []entity.Course {
	if s.Index == nil {
		return nil
	}
	own, err := s.Courses.ListByAuthor(ctx, authorID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("author_id", authorID).Warn("list featured courses failed")
		}
		return nil
	}
	var out []entity.Course
	for _, o := range own {
		if o.IsFeatured && o.ID != exceptID {
			out = append(out, o)
		}
	}
	return out
}

func (s *CourseService) index(ctx context.Context, c *entity.Course) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, c); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("course_id", c.ID).Warn("course index failed")
	}
}

func withSectionIDs(in []entity.Section) []entity.Section {
	out := make([]entity.Section, len(in))
	for i, sec := range in {
		if sec.SectionID == "" {
			sec.SectionID = uuid.NewString()
		}
		out[i] = sec
	}
	return out
}
