package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// NewRouter builds the echo instance with the API, /health and /metrics.
// checks are run by /health; any failure turns it into a 503.
func NewRouter(server *Server, gatherer prometheus.Gatherer, checks map[string]HealthCheck, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.ERROR)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	e.GET("/health", health(checks))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	server.RegisterRoutes(e)
	return e
}

func health(checks map[string]HealthCheck) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		c, cancel := context.WithTimeout(ctx.Request().Context(), 2*time.Second)
		defer cancel()

		failed := map[string]string{}
		for name, check := range checks {
			if err := check(c); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			return ctx.JSON(http.StatusServiceUnavailable, failed)
		}
		return ctx.String(http.StatusOK, "Healthy")
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	logger = logger.With(zap.String("component", "http"))

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		Skipper: func(ctx echo.Context) bool {
			return ctx.Path() == "/metrics" || ctx.Path() == "/health"
		},
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("requestId", v.RequestID),
				zap.Error(v.Error))
			return nil
		},
	})
}
