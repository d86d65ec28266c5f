package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/pkg/response"
	"github.com/oksasatya/course-marketplace/pkg/validation"
)

const maxImageBytes = 5 << 20

type CourseHandler struct {
	Courses    *application.CourseService
	Enrollment *application.EnrollmentService
	Comments   *application.CommentService
	Logger     *logrus.Logger
}

func NewCourseHandler(courses *application.CourseService, enrollment *application.EnrollmentService, comments *application.CommentService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{Courses: courses, Enrollment: enrollment, Comments: comments, Logger: logger}
}

type sectionRequest struct {
	SectionID   string `json:"sectionId"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl" binding:"omitempty,url"`
}

type createCourseRequest struct {
	Title    string           `json:"title" binding:"required,max=200"`
	Category string           `json:"category" binding:"required,max=100"`
	Price    int64            `json:"price" binding:"tokens"`
	Image    string           `json:"image"`
	Sections []sectionRequest `json:"sections" binding:"omitempty,dive"`
}

// updateCourseRequest has no required fields; zero values mean "unchanged".
type updateCourseRequest struct {
	Title    string           `json:"title" binding:"omitempty,max=200"`
	Category string           `json:"category" binding:"omitempty,max=100"`
	Price    int64            `json:"price" binding:"tokens"`
	Image    string           `json:"image"`
	Sections []sectionRequest `json:"sections" binding:"omitempty,dive"`
}

type commentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

func toSections(in []sectionRequest) []entity.Section {
	out := make([]entity.Section, 0, len(in))
	for _, s := range in {
		out = append(out, entity.Section{SectionID: s.SectionID, Title: s.Title, Description: s.Description, VideoURL: s.VideoURL})
	}
	return out
}

// List GET /api/courses?search=
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.Courses.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courses, "courses", map[string]any{"count": len(courses)})
}

// Featured GET /api/courses/featured
func (h *CourseHandler) Featured(c *gin.Context) {
	course, err := h.Courses.Featured(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, course, "featured course", nil)
}

// MyCourses GET /api/courses/mycourses (teacher)
func (h *CourseHandler) MyCourses(c *gin.Context) {
	courses, err := h.Courses.ListByAuthor(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courses, "courses", map[string]any{"count": len(courses)})
}

// Get GET /api/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.Courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, course, "course", nil)
}

// Create POST /api/courses (teacher)
func (h *CourseHandler) Create(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	course, err := h.Courses.Create(c.Request.Context(), currentUserID(c), application.CreateCourseInput{
		Title:    req.Title,
		Category: req.Category,
		Price:    req.Price,
		Image:    req.Image,
		Sections: toSections(req.Sections),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, course, "course created", nil)
}

// Update PUT /api/courses/:id (author)
func (h *CourseHandler) Update(c *gin.Context) {
	var req updateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	course, err := h.Courses.Update(c.Request.Context(), currentUserID(c), c.Param("id"), application.UpdateCourseInput{
		Title:    req.Title,
		Category: req.Category,
		Price:    req.Price,
		Image:    req.Image,
		Sections: toSections(req.Sections),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, course, "course updated", nil)
}

// Delete DELETE /api/courses/:id (author)
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.Courses.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Course removed successfully", nil)
}

// Enroll POST /api/courses/:id/enroll
func (h *CourseHandler) Enroll(c *gin.Context) {
	student, err := h.Enrollment.Enroll(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(student), "enrolled", nil)
}

// ListComments GET /api/courses/:id/comments
func (h *CourseHandler) ListComments(c *gin.Context) {
	comments, err := h.Comments.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, comments, "comments", nil)
}

// AddComment POST /api/courses/:id/comments (enrolled)
func (h *CourseHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	comments, err := h.Comments.Add(c.Request.Context(), currentUserID(c), c.Param("id"), req.Text)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, comments, "comment added", nil)
}

// DeleteComment DELETE /api/courses/:id/comments/:commentId (author)
func (h *CourseHandler) DeleteComment(c *gin.Context) {
	comments, err := h.Comments.Delete(c.Request.Context(), currentUserID(c), c.Param("id"), c.Param("commentId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, comments, "comments", nil)
}

// Students GET /api/courses/:id/students (teacher)
func (h *CourseHandler) Students(c *gin.Context) {
	users, err := h.Courses.EnrolledStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toStudentViews(users), "students", nil)
}

// RemoveStudent DELETE /api/courses/:id/students/:studentId (teacher)
func (h *CourseHandler) RemoveStudent(c *gin.Context) {
	if err := h.Courses.RemoveStudent(c.Request.Context(), c.Param("id"), c.Param("studentId")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Student removed from course", nil)
}

// Feature PUT /api/courses/:id/feature (author)
func (h *CourseHandler) Feature(c *gin.Context) {
	course, err := h.Courses.Feature(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, course, `Course "`+course.Title+`" is now featured.`, nil)
}

// UploadImage POST /api/courses/:id/image (author, multipart field "image")
func (h *CourseHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	if fh.Size > maxImageBytes {
		response.Error[any](c, http.StatusBadRequest, "image too large", map[string]any{"max_bytes": maxImageBytes})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read image", nil)
		return
	}
	defer func() { _ = f.Close() }()

	course, err := h.Courses.UploadImage(c.Request.Context(), currentUserID(c), c.Param("id"), application.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, course, "image uploaded", nil)
}
