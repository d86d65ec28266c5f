package application_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

type indexMock struct {
	mock.Mock
}

func (m *indexMock) Index(ctx context.Context, c *entity.Course) error {
	return m.Called(ctx, c).Error(0)
}

func (m *indexMock) Remove(ctx context.Context, courseID string) error {
	return m.Called(ctx, courseID).Error(0)
}

func (m *indexMock) Search(ctx context.Context, q string, size int) ([]string, error) {
	args := m.Called(ctx, q, size)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type imageStoreMock struct {
	mock.Mock
}

func (m *imageStoreMock) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, objectPath, contentType, r)
	return args.String(0), args.Error(1)
}

func featuredOf(t *testing.T, f *fixture, authorID string) []string {
	t.Helper()
	courses, err := f.courseSvc.ListByAuthor(f.ctx, authorID)
	require.NoError(t, err)
	var ids []string
	for _, c := range courses {
		if c.IsFeatured {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func TestCreateCourse(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	student := f.newUser(t, "student", entity.RoleStudent, 0)

	_, err := f.courseSvc.Create(f.ctx, student.ID, application.CreateCourseInput{Title: "x", Category: "y"})
	require.ErrorIs(t, err, application.ErrNotTeacher)

	c, err := f.courseSvc.Create(f.ctx, teacher.ID, application.CreateCourseInput{
		Title:    "Go",
		Category: "programming",
		Price:    25,
		Sections: []entity.Section{{SectionID: "intro"}, {Title: "no id"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "teacher", c.Author)
	assert.Equal(t, teacher.ID, c.AuthorID)
	assert.False(t, c.IsFeatured)
	assert.Empty(t, c.Comments)
	require.Len(t, c.Sections, 2)
	assert.Equal(t, "intro", c.Sections[0].SectionID)
	assert.NotEmpty(t, c.Sections[1].SectionID)
}

func TestUpdateCourse_KeepsFalsyFields(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	course := f.newCourse(t, teacher, "Go", 25, "s1")

	got, err := f.courseSvc.Update(f.ctx, teacher.ID, course.ID, application.UpdateCourseInput{Category: "backend"})
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Title)
	assert.Equal(t, "backend", got.Category)
	assert.Equal(t, int64(25), got.Price)
	require.Len(t, got.Sections, 1)

	got, err = f.courseSvc.Update(f.ctx, teacher.ID, course.ID, application.UpdateCourseInput{
		Price:    40,
		Sections: []entity.Section{{SectionID: "a"}, {SectionID: "b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(40), got.Price)
	assert.Len(t, got.Sections, 2)

	stored, err := f.courseSvc.Get(f.ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "backend", stored.Category)
	assert.Equal(t, int64(40), stored.Price)
}

func TestCourseOwnership_NotFoundBeforeForbidden(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	other := f.newUser(t, "other", entity.RoleTeacher, 0)
	course := f.newCourse(t, teacher, "Go", 25)

	_, err := f.courseSvc.Update(f.ctx, other.ID, "missing", application.UpdateCourseInput{Title: "x"})
	require.ErrorIs(t, err, application.ErrCourseNotFound)

	_, err = f.courseSvc.Update(f.ctx, other.ID, course.ID, application.UpdateCourseInput{Title: "x"})
	require.ErrorIs(t, err, application.ErrNotAuthorized)

	require.ErrorIs(t, f.courseSvc.Delete(f.ctx, other.ID, course.ID), application.ErrForbidden)
	_, err = f.courseSvc.Feature(f.ctx, other.ID, course.ID)
	require.ErrorIs(t, err, application.ErrForbidden)

	require.NoError(t, f.courseSvc.Delete(f.ctx, teacher.ID, course.ID))
	_, err = f.courseSvc.Get(f.ctx, course.ID)
	require.ErrorIs(t, err, application.ErrNotFound)
}

func TestFeature_OnePerAuthor(t *testing.T) {
	f := newFixture(t)
	alice := f.newUser(t, "alice", entity.RoleTeacher, 0)
	bob := f.newUser(t, "bob", entity.RoleTeacher, 0)
	a1 := f.newCourse(t, alice, "A1", 0)
	a2 := f.newCourse(t, alice, "A2", 0)
	a3 := f.newCourse(t, alice, "A3", 0)
	b1 := f.newCourse(t, bob, "B1", 0)

	_, err := f.courseSvc.Featured(f.ctx)
	require.ErrorIs(t, err, application.ErrNoFeaturedCourse)

	_, err = f.courseSvc.Feature(f.ctx, bob.ID, b1.ID)
	require.NoError(t, err)

	for _, c := range []*entity.Course{a1, a2, a3, a1} {
		got, err := f.courseSvc.Feature(f.ctx, alice.ID, c.ID)
		require.NoError(t, err)
		assert.True(t, got.IsFeatured)
		assert.Equal(t, []string{c.ID}, featuredOf(t, f, alice.ID))
	}
	assert.Equal(t, []string{b1.ID}, featuredOf(t, f, bob.ID))

	featured, err := f.courseSvc.Featured(f.ctx)
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)
}

func TestListCourses_SearchMatchesTitleAndCategory(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	f.newCourse(t, teacher, "Intro to Go", 0)
	f.newCourse(t, teacher, "Cooking Basics", 0)

	all, err := f.courseSvc.List(f.ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hits, err := f.courseSvc.List(f.ctx, "go")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Intro to Go", hits[0].Title)

	hits, err = f.courseSvc.List(f.ctx, "PROGRAMMING")
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestListCourses_UsesIndexAndFallsBack(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	first := f.newCourse(t, teacher, "Intro to Go", 0)
	second := f.newCourse(t, teacher, "Advanced Go", 0)

	idx := &indexMock{}
	idx.On("Search", mock.Anything, "go", mock.Anything).Return([]string{second.ID, first.ID}, nil).Once()
	idx.On("Search", mock.Anything, "cooking", mock.Anything).Return(nil, errors.New("cluster red")).Once()
	f.courseSvc.Index = idx

	hits, err := f.courseSvc.List(f.ctx, "go")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, second.ID, hits[0].ID)

	hits, err = f.courseSvc.List(f.ctx, "cooking")
	require.NoError(t, err)
	assert.Empty(t, hits)
	idx.AssertExpectations(t)
}

func TestCourseIndex_FollowsWrites(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)

	idx := &indexMock{}
	idx.On("Index", mock.Anything, mock.AnythingOfType("*entity.Course")).Return(nil)
	idx.On("Remove", mock.Anything, mock.AnythingOfType("string")).Return(errors.New("ignored"))
	f.courseSvc.Index = idx

	c := f.newCourse(t, teacher, "Go", 0)
	_, err := f.courseSvc.Update(f.ctx, teacher.ID, c.ID, application.UpdateCourseInput{Title: "Go 2"})
	require.NoError(t, err)
	require.NoError(t, f.courseSvc.Delete(f.ctx, teacher.ID, c.ID))

	idx.AssertNumberOfCalls(t, "Index", 2)
	idx.AssertCalled(t, "Remove", mock.Anything, c.ID)
}

func TestUploadImage(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	course := f.newCourse(t, teacher, "Go", 0)
	upload := application.ImageUpload{Filename: "Cover.PNG", ContentType: "image/png", Body: strings.NewReader("png")}

	_, err := f.courseSvc.UploadImage(f.ctx, teacher.ID, course.ID, upload)
	require.ErrorIs(t, err, application.ErrUnavailable)

	images := &imageStoreMock{}
	images.On("Upload", mock.Anything,
		mock.MatchedBy(func(p string) bool {
			return strings.HasPrefix(p, "courses/"+course.ID+"/") && strings.HasSuffix(p, ".png")
		}),
		"image/png", mock.Anything,
	).Return("https://cdn.example.com/cover.png", nil).Once()
	f.courseSvc.Images = images

	got, err := f.courseSvc.UploadImage(f.ctx, teacher.ID, course.ID, upload)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cover.png", got.Image)
	images.AssertExpectations(t)

	stored, err := f.courseSvc.Get(f.ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cover.png", stored.Image)
}

func TestStudentsRoster(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	student := f.newUser(t, "student", entity.RoleStudent, 100)
	course := f.newCourse(t, teacher, "Go", 30)
	_, err := f.enrollSvc.Enroll(f.ctx, course.ID, student.ID)
	require.NoError(t, err)

	students, err := f.courseSvc.EnrolledStudents(f.ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, student.ID, students[0].ID)

	require.ErrorIs(t, f.courseSvc.RemoveStudent(f.ctx, course.ID, "missing"), application.ErrStudentNotFound)
	require.NoError(t, f.courseSvc.RemoveStudent(f.ctx, course.ID, student.ID))

	students, err = f.courseSvc.EnrolledStudents(f.ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, students)
	// no refund on removal
	assert.Equal(t, int64(70), f.balance(t, student.ID))
}

func TestFeature_ClearsPreviousFeaturedInIndex(t *testing.T) {
	f := newFixture(t)
	teacher := f.newUser(t, "teacher", entity.RoleTeacher, 0)
	first := f.newCourse(t, teacher, "Go", 0)
	second := f.newCourse(t, teacher, "Rust", 0)
	_, err := f.courseSvc.Feature(f.ctx, teacher.ID, first.ID)
	require.NoError(t, err)

	idx := &indexMock{}
	idx.On("Index", mock.Anything, mock.MatchedBy(func(c *entity.Course) bool {
		return c.ID == second.ID && c.IsFeatured
	})).Return(nil).Once()
	idx.On("Index", mock.Anything, mock.MatchedBy(func(c *entity.Course) bool {
		return c.ID == first.ID && !c.IsFeatured
	})).Return(nil).Once()
	f.courseSvc.Index = idx

	_, err = f.courseSvc.Feature(f.ctx, teacher.ID, second.ID)
	require.NoError(t, err)
	idx.AssertExpectations(t)
	idx.AssertNumberOfCalls(t, "Index", 2)
}
