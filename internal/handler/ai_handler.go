package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/internal/generator"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"github.com/oduppinsjr/rapid-web-ai/prometheus"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ModifyWebsiteRequest defines the body of POST /api/ai/modify-website
type ModifyWebsiteRequest struct {
	WebsiteID   string `json:"websiteId" validate:"required"`
	Instruction string `json:"instruction" validate:"required,min=5,max=4000"`
}

// GenerateContentRequest defines the body of POST /api/ai/generate-content
type GenerateContentRequest struct {
	BusinessType string `json:"businessType" validate:"required,max=255"`
	Prompt       string `json:"prompt" validate:"max=4000"`
}

// ModifyWebsiteResponse is returned by POST /api/ai/modify-website
type ModifyWebsiteResponse struct {
	Message string         `json:"message"`
	Content datatypes.JSON `json:"content"`
	Website *model.Website `json:"website"`
}

// GenerateWebsite generates a complete website from a business description. Free plan
// users are limited to the configured number of successful generations.
func (h *Handler) GenerateWebsite(c echo.Context) error {
	log := logger.FromContext(c)

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req generator.WebsiteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.checkQuota(c, userID); err != nil {
		return err
	}

	website, err := h.generator.GenerateWebsite(c.Request().Context(), req)
	if err != nil {
		return err
	}

	if err := h.consumeGeneration(c, userID, "generate_website"); err != nil {
		return err
	}

	log.Info("Website generated", zap.Int("bytes", len(website)))
	return c.JSONBlob(http.StatusOK, website)
}

// ModifyWebsite applies a natural language instruction to one of the caller's websites.
// The stored content only changes when generation succeeds.
func (h *Handler) ModifyWebsite(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	var req ModifyWebsiteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	website, err := h.loadOwnedWebsite(c, req.WebsiteID)
	if err != nil {
		return err
	}

	content, err := h.generator.ModifyWebsite(ctx, website.Content, req.Instruction)
	if err != nil {
		return err
	}

	updated, err := h.store.UpdateWebsite(ctx, website.ID, model.WebsitePatch{Content: content})
	if err != nil {
		return err
	}

	prometheus.RecordWebsiteOperation("modify")
	h.publish(c, "ai.generation.completed", h.events.PublishGenerationCompleted(website.UserID, "modify_website"))

	log.Info("Website modified", zap.String("website_id", website.ID))
	return c.JSON(http.StatusOK, ModifyWebsiteResponse{
		Message: "Website modified successfully",
		Content: content,
		Website: updated,
	})
}

// GenerateContent writes section copy for a business type. It draws on the same quota
// as GenerateWebsite.
func (h *Handler) GenerateContent(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req GenerateContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.checkQuota(c, userID); err != nil {
		return err
	}

	content, err := h.generator.GenerateContent(c.Request().Context(), req.BusinessType, req.Prompt)
	if err != nil {
		return err
	}

	if err := h.consumeGeneration(c, userID, "generate_content"); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]datatypes.JSON{"content": content})
}

// checkQuota rejects free plan users who used up their generations
func (h *Handler) checkQuota(c echo.Context, userID string) error {
	user, err := h.store.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	if !user.HasGenerationsLeft(h.quota.FreeGenerationLimit) {
		prometheus.RecordQuotaRejection()
		logger.FromContext(c).Info("AI generation limit reached",
			zap.String("plan", string(user.Plan)),
			zap.Int("ai_generations_used", user.AIGenerationsUsed))
		return apperror.QuotaExceeded()
	}
	return nil
}

// consumeGeneration counts one successful generation against the user
func (h *Handler) consumeGeneration(c echo.Context, userID, operation string) error {
	user, err := h.store.IncrementAIGenerations(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	h.publish(c, "ai.generation.completed", h.events.PublishGenerationCompleted(userID, operation))
	logger.FromContext(c).Debug("AI generation counted",
		zap.String("operation", operation),
		zap.Int("ai_generations_used", user.AIGenerationsUsed))
	return nil
}
