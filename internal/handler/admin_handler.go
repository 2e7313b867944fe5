package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"go.uber.org/zap"
)

// UpdatePlanRequest defines the body of PUT /api/admin/users/:id/plan
type UpdatePlanRequest struct {
	Plan model.Plan `json:"plan" validate:"required,oneof=free pro done-for-you"`
}

// UpdateUserPlan changes a user's billing plan. Called by operators or billing hooks.
func (h *Handler) UpdateUserPlan(c echo.Context) error {
	log := logger.FromContext(c)
	userID := c.Param("id")

	var req UpdatePlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.store.UpdateUserPlan(c.Request().Context(), userID, req.Plan)
	if err != nil {
		return err
	}

	log.Info("User plan updated",
		zap.String("target_user_id", userID),
		zap.String("plan", string(req.Plan)))
	return c.JSON(http.StatusOK, user)
}
