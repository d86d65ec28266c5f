package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/course-marketplace/pkg/helpers"
	"github.com/oksasatya/course-marketplace/pkg/response"
)

// Auth validates the access token. When rdb is set, the token's session id
// must also match the live session hash in Redis, so logout and re-login
// revoke older tokens. On success it sets userID, userRole, userName and
// userEmail in the Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserRoleKey, claims.Role)

		if rdb != nil {
			data, err := rdb.HGetAll(c.Request.Context(), helpers.SessionKey(claims.UserID)).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
				c.Abort()
				return
			}
			c.Set(CtxUserNameKey, data["name"])
			c.Set(CtxUserEmailKey, data["email"])
			if role := data["role"]; role != "" {
				c.Set(CtxUserRoleKey, role)
			}
		}
		c.Next()
	}
}

// RequireRole rejects callers whose token role differs from role. It must
// run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRoleKey) != role {
			response.Error[any](c, http.StatusForbidden, "user not authorized", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
