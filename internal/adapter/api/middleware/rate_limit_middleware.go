package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"trifoody/internal/infrastructure/ratelimit"
	"trifoody/pkg/errors"
	"trifoody/pkg/logger"
	"trifoody/pkg/response"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(c echo.Context) string

func KeyByIP(c echo.Context) string {
	return c.RealIP()
}

// KeyByUser counts authenticated requests per user and falls back to the client IP.
func KeyByUser(c echo.Context) string {
	if uid := UserID(c); uid != "" {
		return "user:" + uid
	}
	return "ip:" + c.RealIP()
}

func RateLimit(limiter *ratelimit.RateLimiter, key KeyFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			k := key(c)
			allowed, wait := limiter.Allow(k)
			if !allowed {
				logger.Warn("Rate limit exceeded: key=%s, path=%s", k, c.Path())
				if wait > 0 {
					c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				}
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}
			return next(c)
		}
	}
}
