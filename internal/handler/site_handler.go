package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
)

// GetPublishedSite serves a published website by subdomain. Unknown, invalid and
// unpublished subdomains get the same 404.
func (h *Handler) GetPublishedSite(c echo.Context) error {
	subdomain, err := model.NormalizeSubdomain(c.Param("subdomain"))
	if err != nil {
		return apperror.NotFound("Website")
	}

	website, err := h.store.GetWebsiteBySubdomain(c.Request().Context(), subdomain)
	if err != nil {
		return err
	}
	if !website.IsPublished {
		return apperror.NotFound("Website")
	}

	return c.JSON(http.StatusOK, website)
}
