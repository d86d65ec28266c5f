package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/course-marketplace/internal/interface/http"
	"github.com/oksasatya/course-marketplace/internal/interface/middleware"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

// AuthModule serves /api/auth. Register and login are limited per IP and
// route to slow down credential stuffing.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	credsLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP(), nil)

	g := rg.Group("/auth")
	g.POST("/register", credsLimiter, m.Handler.Register)
	g.POST("/login", credsLimiter, m.Handler.Login)
	g.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	g.POST("/logout", middleware.Auth(m.Redis, m.JWT), m.Handler.Logout)
}
