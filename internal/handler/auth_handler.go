package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"go.uber.org/zap"
)

// GetCurrentUser returns the authenticated user's record
func (h *Handler) GetCurrentUser(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.store.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateCurrentUser edits the profile fields of the authenticated user. Plan and usage
// counters are not writable here.
func (h *Handler) UpdateCurrentUser(c echo.Context) error {
	log := logger.FromContext(c)

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req model.ProfileUpdate
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.store.UpdateUserProfile(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}

	log.Info("Profile updated", zap.String("user_id", userID))
	return c.JSON(http.StatusOK, user)
}
