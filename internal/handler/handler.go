// Package handler implements the HTTP API: auth profile, template gallery, website CRUD,
// AI generation and public site serving.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/internal/events"
	"github.com/oduppinsjr/rapid-web-ai/internal/generator"
	"github.com/oduppinsjr/rapid-web-ai/internal/middleware"
	"github.com/oduppinsjr/rapid-web-ai/internal/repository"
	"github.com/oduppinsjr/rapid-web-ai/pkg/config"
)

// Handler holds the dependencies shared by all endpoints
type Handler struct {
	store     repository.Store
	generator generator.Generator
	events    events.Publisher
	quota     config.QuotaConfig
}

// New creates a Handler. A nil publisher disables events.
func New(store repository.Store, gen generator.Generator, publisher events.Publisher, quota config.QuotaConfig) *Handler {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Handler{
		store:     store,
		generator: gen,
		events:    publisher,
		quota:     quota,
	}
}

// Health reports that the process is serving requests
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// currentUserID returns the authenticated user set by the auth middleware
func currentUserID(c echo.Context) (string, error) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return "", apperror.Unauthenticated()
	}
	return userID, nil
}
