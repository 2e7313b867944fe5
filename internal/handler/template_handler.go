package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"github.com/oduppinsjr/rapid-web-ai/prometheus"
	"go.uber.org/zap"
)

// ListTemplates returns active templates, optionally filtered by ?category=
func (h *Handler) ListTemplates(c echo.Context) error {
	log := logger.FromContext(c)

	category := model.Category(c.QueryParam("category"))
	if category != "" && !category.Valid() {
		return apperror.Validation("Validation error", apperror.FieldError{Field: "category", Message: "unknown category"})
	}

	templates, err := h.store.ListTemplates(c.Request().Context(), category)
	if err != nil {
		return err
	}

	log.Debug("Templates retrieved", zap.String("category", string(category)), zap.Int("count", len(templates)))
	return c.JSON(http.StatusOK, templates)
}

// GetTemplate returns one template and counts the view
func (h *Handler) GetTemplate(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if err := h.store.IncrementTemplateViewCount(ctx, id); err != nil {
		return err
	}

	template, err := h.store.GetTemplate(ctx, id)
	if err != nil {
		return err
	}

	prometheus.RecordTemplateView(string(template.Category))
	return c.JSON(http.StatusOK, template)
}
