package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"onchainiq/pkg/logger"
)

// RequestLogging logs one line per HTTP request. Server errors are logged
// at error level.
func RequestLogging(l *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)

			status := statusOf(c, err)
			fields := []logger.Field{
				logger.String("method", req.Method),
				logger.String("route", routeLabel(c)),
				logger.String("uri", req.RequestURI),
				logger.String("remote_ip", c.RealIP()),
				logger.Int("status", status),
				logger.Duration("duration_ms", time.Since(start)),
			}
			switch {
			case status >= 500:
				if err != nil {
					fields = append(fields, logger.Error(err))
				}
				l.Error("http request", fields...)
			default:
				l.Debug("http request", fields...)
			}
			return err
		}
	}
}
