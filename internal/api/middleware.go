package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/observability/metrics"
)

// NewRequestLogger logs one line per request
func NewRequestLogger(log logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper:     skipProbes,
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []logger.Field{
				logger.String("method", v.Method),
				logger.String("uri", v.URI),
				logger.Int("status", v.Status),
				logger.String("ip", v.RemoteIP),
				logger.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, logger.Error(v.Error))
			}
			log.WithContext(c.Request().Context()).Info("request", fields...)
			return nil
		},
	})
}

// NewMetricsMiddleware records request counts and latencies by route
func NewMetricsMiddleware(m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.RecordRequest(c.Request().Method, path, status, time.Since(start).Seconds())
			return err
		}
	}
}

// rateLimiter throttles API clients by remote address
func (c *Controller) rateLimiter() echo.MiddlewareFunc {
	rl := c.config.RateLimit
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: skipProbes,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(rl.Rate),
				Burst:     rl.Burst,
				ExpiresIn: rl.ExpiresIn,
			},
		),
		IdentifierExtractor: middleware.DefaultRateLimiterConfig.IdentifierExtractor,
		ErrorHandler: func(ctx echo.Context, err error) error {
			return c.HandleError(ctx, err, "Unable to identify client", http.StatusForbidden)
		},
		DenyHandler: func(ctx echo.Context, identifier string, err error) error {
			if c.metrics != nil {
				c.metrics.HTTP.RecordRateLimited()
			}
			return c.HandleError(ctx, err, "Too many requests, please slow down", http.StatusTooManyRequests)
		},
	})
}

// skipProbes excludes health checks and metric scrapes
func skipProbes(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/health" || strings.HasSuffix(path, "/metrics")
}
