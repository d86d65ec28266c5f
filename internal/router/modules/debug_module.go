package modules

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/course-marketplace/internal/interface/middleware"
	"github.com/oksasatya/course-marketplace/pkg/response"
)

// Pinger is a dependency the health check pings.
type Pinger func(ctx context.Context) error

// DebugModule exposes /api/health and, when enabled, the expvar counters at
// /api/debug/vars.
type DebugModule struct {
	Redis          *redis.Client
	MetricsEnabled bool
	Checks         map[string]Pinger
}

func NewDebugModule(rdb *redis.Client, metricsEnabled bool, checks map[string]Pinger) *DebugModule {
	return &DebugModule{Redis: rdb, MetricsEnabled: metricsEnabled, Checks: checks}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.health)
	if m.MetricsEnabled {
		rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
}

func (m *DebugModule) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, ping := range m.Checks {
		if err := ping(ctx); err != nil {
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}
	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "degraded", status)
		return
	}
	response.Success(c, http.StatusOK, status, "ok", nil)
}
