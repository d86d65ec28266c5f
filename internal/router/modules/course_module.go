package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	handlers "github.com/oksasatya/course-marketplace/internal/interface/http"
	"github.com/oksasatya/course-marketplace/internal/interface/middleware"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

// CourseModule serves /api/courses.
// Public: list, featured, get, comments.
// Authenticated: enroll, comment. Author checks happen in the services.
// Teacher role: create, mycourses, students.
type CourseModule struct {
	Handler *handlers.CourseHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewCourseModule(h *handlers.CourseHandler, jwt *helpers.JWTManager, rdb *redis.Client) *CourseModule {
	return &CourseModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/courses")

	// static segments are registered before /:id
	g.GET("", m.Handler.List)
	g.GET("/featured", m.Handler.Featured)

	auth := g.Group("")
	auth.Use(
		middleware.Auth(m.Redis, m.JWT),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	teacher := auth.Group("")
	teacher.Use(middleware.RequireRole(string(entity.RoleTeacher)))

	teacher.GET("/mycourses", m.Handler.MyCourses)
	teacher.POST("", m.Handler.Create)

	g.GET("/:id", m.Handler.Get)
	g.GET("/:id/comments", m.Handler.ListComments)

	auth.PUT("/:id", m.Handler.Update)
	auth.DELETE("/:id", m.Handler.Delete)
	auth.POST("/:id/enroll", m.Handler.Enroll)
	auth.POST("/:id/comments", m.Handler.AddComment)
	auth.DELETE("/:id/comments/:commentId", m.Handler.DeleteComment)
	auth.PUT("/:id/feature", m.Handler.Feature)
	auth.POST("/:id/image", m.Handler.UploadImage)

	teacher.GET("/:id/students", m.Handler.Students)
	teacher.DELETE("/:id/students/:studentId", m.Handler.RemoveStudent)
}
