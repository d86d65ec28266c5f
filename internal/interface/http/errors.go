package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/pkg/response"
)

// statusFor maps an application error kind to its HTTP status. Unknown
// errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrNotFound), errors.Is(err, application.ErrNotEnrolled):
		return http.StatusNotFound
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, application.ErrConflict),
		errors.Is(err, application.ErrInsufficientBalance),
		errors.Is(err, application.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Client errors carry their own message; anything
// else is logged and surfaced as a bare "server error".
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"method":     c.Request.Method,
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error[any](c, status, "server error", nil)
		return
	}
	msg := err.Error()
	var appErr *application.Error
	if errors.As(err, &appErr) {
		msg = appErr.Msg
	}
	response.Error[any](c, status, msg, nil)
}

func currentUserID(c *gin.Context) string {
	return c.GetString("userID")
}
