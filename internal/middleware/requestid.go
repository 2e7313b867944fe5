package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"go.uber.org/zap"
)

// RequestIDMiddleware adds a unique request ID to each request and a request-scoped logger
// to both the echo context and the request context
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Keep an ID assigned by a proxy, otherwise generate one
		requestID := c.Request().Header.Get(logger.RequestIDKey)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}

		c.Request().Header.Set(logger.RequestIDKey, requestID)
		c.Response().Header().Set(logger.RequestIDKey, requestID)
		c.Set("request_id", requestID)

		log := logger.GetLogger().With(zap.String("request_id", requestID))
		setLogger(c, log)

		return next(c)
	}
}

// setLogger stores log where both handlers and context-only code can find it
func setLogger(c echo.Context, log *zap.Logger) {
	c.Set("logger", log)
	req := c.Request()
	c.SetRequest(req.WithContext(logger.WithContext(req.Context(), log)))
}
