package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sups/practice-server/internal/infrastructure/http/handlers"
)

// RegisterOps mounts the operational endpoints: health checks, Prometheus
// metrics and the Swagger UI. None of them require authentication.
func RegisterOps(e *echo.Echo, checks map[string]handlers.Check, gatherer prometheus.Gatherer) {
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(checks)

	e.GET("/health", healthHandler.Liveness)           // liveness, is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness, are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
