package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/pkg/config"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"github.com/oduppinsjr/rapid-web-ai/prometheus"
	"go.uber.org/zap"
)

const rateLimitWindow = time.Minute

// Counter is a fixed-window counter, implemented by database.Redis
type Counter interface {
	IncrWithExpire(ctx context.Context, key string, expiration time.Duration) (int64, error)
}

// RateLimit limits each caller to RequestsPerMinute (plus BurstSize) requests per minute.
// Callers are keyed by user ID when authenticated, by IP otherwise. A nil counter
// disables limiting; counter errors let the request through.
func RateLimit(counter Counter, scope string, cfg config.RateLimitConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if counter == nil {
			return next
		}

		return func(c echo.Context) error {
			clientID := "ip:" + c.RealIP()
			if userID, ok := UserIDFromContext(c); ok {
				clientID = "user:" + userID
			}
			key := fmt.Sprintf("ratelimit:%s:%s", scope, clientID)

			count, err := counter.IncrWithExpire(c.Request().Context(), key, rateLimitWindow)
			if err != nil {
				logger.FromContext(c).Warn("Rate limiter unavailable, allowing request", zap.Error(err))
				return next(c)
			}

			limit := cfg.RequestsPerMinute
			remaining := limit - int(count)
			if remaining < 0 {
				remaining = 0
			}

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			header.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(rateLimitWindow).Unix(), 10))

			if int(count) > limit+cfg.BurstSize {
				header.Set("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
				prometheus.RecordRateLimited()
				logger.FromContext(c).Warn("Rate limit exceeded", zap.String("key", key), zap.Int64("count", count))
				return apperror.RateLimited()
			}

			return next(c)
		}
	}
}
