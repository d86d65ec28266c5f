package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/pkg/response"
	"github.com/oksasatya/course-marketplace/pkg/validation"
)

type UserHandler struct {
	Users    *application.UserService
	Progress *application.ProgressService
	Logger   *logrus.Logger
}

func NewUserHandler(users *application.UserService, progress *application.ProgressService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Progress: progress, Logger: logger}
}

type progressRequest struct {
	CourseID  string `json:"courseId" binding:"required"`
	SectionID string `json:"sectionId" binding:"required"`
}

// MyCourses GET /api/users/my-courses
func (h *UserHandler) MyCourses(c *gin.Context) {
	courses, err := h.Progress.MyCourses(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courses, "enrolled courses", map[string]any{"count": len(courses)})
}

// MarkProgress POST /api/users/my-courses/progress
func (h *UserHandler) MarkProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	enrollment, err := h.Progress.MarkSectionComplete(c.Request.Context(), currentUserID(c), req.CourseID, req.SectionID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, enrollment, "progress updated", nil)
}

// Stats GET /api/users/stats
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.Progress.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, stats, "stats", nil)
}

// Profile GET /api/users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	u, err := h.Users.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "profile", nil)
}

// Transactions GET /api/users/transactions
func (h *UserHandler) Transactions(c *gin.Context) {
	txs, err := h.Users.Transactions(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, txs, "transactions", map[string]any{"count": len(txs)})
}
