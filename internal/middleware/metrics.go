package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InitMetrics creates the HTTP metrics collector for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request instrumentation handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}

// Application metrics. Registered once at import via promauto and
// exposed on /metrics by the fiberprometheus middleware.
var (
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "questlog_redis_errors_total",
		Help: "Redis command errors by command name",
	}, []string{"command"})

	StampToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "questlog_stamp_toggles_total",
		Help: "Stamp toggle operations by resulting action",
	}, []string{"action"})

	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questlog_posts_created_total",
		Help: "Posts successfully created",
	})

	PostLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questlog_post_limit_rejections_total",
		Help: "Post submissions rejected by the daily limit",
	})
)
