package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/course-marketplace/internal/application"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{application.ErrCourseNotFound, http.StatusNotFound},
		{application.ErrNotEnrolled, http.StatusNotFound},
		{application.ErrNotAuthorized, http.StatusForbidden},
		{application.ErrMustEnroll, http.StatusForbidden},
		{application.ErrAlreadyEnrolled, http.StatusBadRequest},
		{application.ErrInsufficientBalance, http.StatusBadRequest},
		{application.ErrInvalidCredentials, http.StatusBadRequest},
		{fmt.Errorf("%w: load user: %w", application.ErrUnavailable, errors.New("dial tcp")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, logger, fmt.Errorf("%w: secret dsn", application.ErrUnavailable))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "server error", body["message"])
	assert.NotContains(t, w.Body.String(), "secret")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	writeError(c, logger, application.ErrMustEnroll)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user must be enrolled to comment", body["message"])
	assert.Equal(t, false, body["success"])
}
