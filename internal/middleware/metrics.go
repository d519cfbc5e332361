package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneta_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// LikeToggles counts like-toggle operations by outcome.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneta_like_toggles_total",
		Help: "Total number of like-toggle operations by outcome",
	}, []string{"outcome"})

	// FeedRefreshes counts feed list reads by scope.
	FeedRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneta_feed_refreshes_total",
		Help: "Total number of feed reads by scope",
	}, []string{"scope"})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
