package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string                `json:"message"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

// ErrorHandler maps errors returned by handlers and middleware to a status and an
// ErrorResponse. Internal causes are logged, never returned.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	log := logger.FromContext(c)
	status, body := errorResponse(err)

	switch {
	case status >= http.StatusInternalServerError:
		log.Error("Request failed",
			zap.String("kind", apperror.KindOf(err).String()),
			zap.Error(err))
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		log.Warn("Request rejected", zap.Int("status", status), zap.String("message", body.Message))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Error("Failed to write error response", zap.Error(err))
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	if appErr, ok := apperror.As(err); ok {
		status := appErr.Kind.StatusCode()
		switch appErr.Kind {
		case apperror.KindStorage, apperror.KindInternal:
			return status, ErrorResponse{Message: "Internal server error"}
		default:
			return status, ErrorResponse{Message: appErr.Message, Errors: appErr.Fields}
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && he.Code < http.StatusInternalServerError {
			message = m
		}
		return he.Code, ErrorResponse{Message: message}
	}

	return http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"}
}
