package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

// Context keys set by Auth.
const (
	CtxUserIDKey    = "userID"
	CtxUserNameKey  = "userName"
	CtxUserEmailKey = "userEmail"
	CtxUserRoleKey  = "userRole"
)

// accessToken prefers the access_token cookie and falls back to an
// Authorization: Bearer header.
func accessToken(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessCookie); err == nil && token != "" {
		return token
	}
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
