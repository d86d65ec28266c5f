package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/course-marketplace/internal/interface/http"
	"github.com/oksasatya/course-marketplace/internal/interface/middleware"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

// UserModule serves the caller's own data under /api/users; every route
// requires authentication.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(
		middleware.Auth(m.Redis, m.JWT),
		middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/my-courses", m.Handler.MyCourses)
		auth.POST("/my-courses/progress", m.Handler.MarkProgress)
		auth.GET("/stats", m.Handler.Stats)
		auth.GET("/profile", m.Handler.Profile)
		auth.GET("/transactions", m.Handler.Transactions)
	}
}
