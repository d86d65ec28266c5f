package router

import (
	"context"

	"github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/container"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
	"github.com/oksasatya/course-marketplace/internal/infrastructure/media"
	"github.com/oksasatya/course-marketplace/internal/infrastructure/memory"
	"github.com/oksasatya/course-marketplace/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/course-marketplace/internal/infrastructure/postgres"
	"github.com/oksasatya/course-marketplace/internal/infrastructure/search"
	handlers "github.com/oksasatya/course-marketplace/internal/interface/http"
	"github.com/oksasatya/course-marketplace/internal/router/modules"
)

// Repositories is the store behind every service.
type Repositories struct {
	Users   repo.UserRepository
	Courses repo.CourseRepository
	Ledger  repo.LedgerRepository
}

// buildRepositories picks Postgres when a pool is set and falls back to the
// in-memory store otherwise.
func buildRepositories() Repositories {
	if pool := container.GetPGPool(); pool != nil {
		return Repositories{
			Users:   pginfra.NewUserRepository(pool),
			Courses: pginfra.NewCourseRepository(pool),
			Ledger:  pginfra.NewLedgerRepository(pool),
		}
	}
	db := container.GetMemoryDB()
	if db == nil {
		db = memory.NewDB()
		container.SetMemoryDB(db)
	}
	return Repositories{
		Users:   memory.NewUserRepository(db),
		Courses: memory.NewCourseRepository(db),
		Ledger:  memory.NewLedgerRepository(db),
	}
}

type Services struct {
	Users      *application.UserService
	Courses    *application.CourseService
	Enrollment *application.EnrollmentService
	Progress   *application.ProgressService
	Comments   *application.CommentService
}

func buildServices(repos Repositories) Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	var index application.CourseIndex
	if es := container.GetES(); es != nil && cfg.ESCoursesIndex != "" {
		index = search.NewCourseIndex(es, cfg.ESCoursesIndex)
	}
	var images application.ImageStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		images = media.NewGCSImageStore(gcs, cfg.GCSBucket)
	}
	var notifier application.EnrollmentNotifier
	if pub := container.GetRabbitPub(); pub != nil {
		notifier = notify.NewEnrollmentNotifier(pub, cfg.AppName)
	}

	return Services{
		Users:      application.NewUserService(repos.Users, repos.Ledger, container.GetJWT(), container.GetRedis(), logger, cfg.SignupTokenBalance),
		Courses:    application.NewCourseService(repos.Courses, repos.Users, index, images, logger),
		Enrollment: application.NewEnrollmentService(repos.Courses, repos.Users, repos.Ledger, notifier, logger),
		Progress:   application.NewProgressService(repos.Users, repos.Courses, logger),
		Comments:   application.NewCommentService(repos.Courses, repos.Users, logger),
	}
}

func healthChecks() map[string]modules.Pinger {
	checks := map[string]modules.Pinger{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// InitModules builds the application from the container and registers every
// module with the registry. Call it once during startup.
func InitModules(r *Registry) Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	rdb := container.GetRedis()

	svc := buildServices(buildRepositories())

	authHandler := handlers.NewAuthHandler(svc.Users, logger, cfg.CookieDomain, cfg.CookieSecure)
	courseHandler := handlers.NewCourseHandler(svc.Courses, svc.Enrollment, svc.Comments, logger)
	userHandler := handlers.NewUserHandler(svc.Users, svc.Progress, logger)

	r.Add(modules.NewDebugModule(rdb, cfg.DebugMetricsEnabled, healthChecks()))
	r.Add(modules.NewAuthModule(authHandler, jwt, rdb))
	r.Add(modules.NewCourseModule(courseHandler, jwt, rdb))
	r.Add(modules.NewUserModule(userHandler, jwt, rdb))
	return svc
}
