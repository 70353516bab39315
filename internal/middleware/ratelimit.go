package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"onchainiq/internal/service/ratelimit"
	xhttp "onchainiq/pkg/http"
	"onchainiq/pkg/logger"
)

// RateLimit rejects clients that ran out of tokens with 429 and a
// Retry-After header. Clients are keyed by their real IP.
func RateLimit(l *ratelimit.Limiter, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			ok, wait := l.Reserve(key)
			if ok {
				return next(c)
			}

			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
			log.Warn("rate limited",
				logger.String("client", key),
				logger.String("route", c.Path()),
				logger.Int("retry_after_s", secs),
			)
			return xhttp.AppErrorResponse(c, xhttp.RateLimitedError("too many requests").WithParam("retryAfterSeconds", secs))
		}
	}
}
