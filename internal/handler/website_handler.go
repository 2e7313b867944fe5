package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"github.com/oduppinsjr/rapid-web-ai/prometheus"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// emptyDocument is the content of a website created without content or template
var emptyDocument = datatypes.JSON(`{"pages":[],"styling":{}}`)

// CreateWebsiteRequest defines the body of POST /api/websites
type CreateWebsiteRequest struct {
	Name         string          `json:"name" validate:"required,max=255"`
	Subdomain    string          `json:"subdomain" validate:"required"`
	CustomDomain *string         `json:"customDomain" validate:"omitempty,max=255"`
	TemplateID   *string         `json:"templateId"`
	Content      json.RawMessage `json:"content"`
	IsPublished  *bool           `json:"isPublished"`
}

// UpdateWebsiteRequest defines the body of PATCH /api/websites/:id. Absent fields are
// left unchanged; an empty customDomain or templateId clears it.
type UpdateWebsiteRequest struct {
	Name         *string         `json:"name" validate:"omitempty,max=255"`
	Subdomain    *string         `json:"subdomain"`
	CustomDomain *string         `json:"customDomain" validate:"omitempty,max=255"`
	TemplateID   *string         `json:"templateId"`
	Content      json.RawMessage `json:"content"`
	IsPublished  *bool           `json:"isPublished"`
}

// ListWebsites returns the caller's websites, most recently updated first
func (h *Handler) ListWebsites(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	websites, err := h.store.ListWebsitesByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, websites)
}

// GetWebsite returns one of the caller's websites
func (h *Handler) GetWebsite(c echo.Context) error {
	website, err := h.loadOwnedWebsite(c, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, website)
}

// CreateWebsite creates a website for the caller. Without content the website copies the
// referenced template's content, or starts empty.
func (h *Handler) CreateWebsite(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateWebsiteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apperror.Validation("Validation error", apperror.FieldError{Field: "name", Message: "is required"})
	}
	subdomain, err := model.NormalizeSubdomain(req.Subdomain)
	if err != nil {
		return err
	}
	if req.Content != nil {
		if err := model.ValidateDocument("content", req.Content); err != nil {
			return err
		}
	}

	website := &model.Website{
		UserID:       userID,
		Name:         name,
		Subdomain:    subdomain,
		CustomDomain: nonEmpty(req.CustomDomain),
		TemplateID:   nonEmpty(req.TemplateID),
		Content:      datatypes.JSON(req.Content),
	}
	if req.IsPublished != nil {
		website.IsPublished = *req.IsPublished
	}

	if website.TemplateID != nil {
		template, err := h.store.GetTemplate(ctx, *website.TemplateID)
		if err != nil {
			return err
		}
		if website.Content == nil {
			website.Content = template.Content
		}
	}
	if website.Content == nil {
		website.Content = emptyDocument
	}

	if err := h.store.CreateWebsite(ctx, website); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			log.Info("Subdomain already taken", zap.String("subdomain", subdomain))
		}
		return err
	}

	prometheus.RecordWebsiteOperation("create")
	h.publish(c, "website.created", h.events.PublishWebsiteCreated(website))
	if website.IsPublished {
		h.publish(c, "website.published", h.events.PublishWebsitePublished(website))
	}

	log.Info("Website created",
		zap.String("website_id", website.ID),
		zap.String("subdomain", website.Subdomain))
	return c.JSON(http.StatusCreated, website)
}

// UpdateWebsite applies a partial update to one of the caller's websites. Setting
// isPublished moves the website between draft and published.
func (h *Handler) UpdateWebsite(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	if _, err := currentUserID(c); err != nil {
		return err
	}

	var req UpdateWebsiteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch, err := req.patch()
	if err != nil {
		return err
	}

	current, err := h.loadOwnedWebsite(c, c.Param("id"))
	if err != nil {
		return err
	}

	if patch.TemplateID != nil && *patch.TemplateID != "" {
		if _, err := h.store.GetTemplate(ctx, *patch.TemplateID); err != nil {
			return err
		}
	}

	website, err := h.store.UpdateWebsite(ctx, current.ID, patch)
	if err != nil {
		return err
	}

	prometheus.RecordWebsiteOperation("update")
	if !current.IsPublished && website.IsPublished {
		prometheus.RecordWebsiteOperation("publish")
		h.publish(c, "website.published", h.events.PublishWebsitePublished(website))
	}

	log.Info("Website updated", zap.String("website_id", website.ID))
	return c.JSON(http.StatusOK, website)
}

// DeleteWebsite removes one of the caller's websites
func (h *Handler) DeleteWebsite(c echo.Context) error {
	log := logger.FromContext(c)

	website, err := h.loadOwnedWebsite(c, c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.store.DeleteWebsite(c.Request().Context(), website.ID); err != nil {
		return err
	}

	prometheus.RecordWebsiteOperation("delete")
	h.publish(c, "website.deleted", h.events.PublishWebsiteDeleted(website.ID, website.UserID))

	log.Info("Website deleted", zap.String("website_id", website.ID))
	return c.NoContent(http.StatusNoContent)
}

// loadOwnedWebsite fetches a website and checks that the caller owns it. Every handler
// touching a single website goes through here.
func (h *Handler) loadOwnedWebsite(c echo.Context, id string) (*model.Website, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return nil, err
	}

	website, err := h.store.GetWebsite(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}

	if !website.OwnedBy(userID) {
		logger.FromContext(c).Warn("Access to website denied",
			zap.String("website_id", website.ID),
			zap.String("user_id", userID))
		return nil, apperror.Forbidden()
	}

	return website, nil
}

// patch validates the request and converts it to a model.WebsitePatch
func (r UpdateWebsiteRequest) patch() (model.WebsitePatch, error) {
	patch := model.WebsitePatch{
		CustomDomain: r.CustomDomain,
		TemplateID:   r.TemplateID,
		IsPublished:  r.IsPublished,
	}

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return patch, apperror.Validation("Validation error", apperror.FieldError{Field: "name", Message: "must not be empty"})
		}
		patch.Name = &name
	}

	if r.Subdomain != nil {
		subdomain, err := model.NormalizeSubdomain(*r.Subdomain)
		if err != nil {
			return patch, err
		}
		patch.Subdomain = &subdomain
	}

	if r.Content != nil {
		if err := model.ValidateDocument("content", r.Content); err != nil {
			return patch, err
		}
		patch.Content = datatypes.JSON(r.Content)
	}

	return patch, nil
}

// publish logs a failed event. Events never fail the request.
func (h *Handler) publish(c echo.Context, subject string, err error) {
	if err != nil {
		logger.FromContext(c).Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
