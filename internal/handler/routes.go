package handler

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/oduppinsjr/rapid-web-ai/internal/middleware"
	"github.com/oduppinsjr/rapid-web-ai/pkg/config"
)

// RouteOptions carries the middleware the routes are wrapped in
type RouteOptions struct {
	Auth        *middleware.Authenticator
	AdminKey    string
	RateCounter middleware.Counter
	RateLimit   config.RateLimitConfig
	// BodyLimit caps request bodies under /api, e.g. "1M". Empty means no limit.
	BodyLimit   string
}

// RegisterRoutes mounts the API on e
func (h *Handler) RegisterRoutes(e *echo.Echo, opts RouteOptions) {
	e.GET("/health", h.Health)

	api := e.Group("/api")
	if opts.BodyLimit != "" {
		api.Use(echomw.BodyLimit(opts.BodyLimit))
	}

	// Identity
	authAPI := api.Group("/auth", opts.Auth.Middleware)
	authAPI.GET("/user", h.GetCurrentUser)
	authAPI.PATCH("/user", h.UpdateCurrentUser)

	// Template gallery, public
	api.GET("/templates", h.ListTemplates)
	api.GET("/templates/:id", h.GetTemplate)

	// Websites
	websiteAPI := api.Group("/websites", opts.Auth.Middleware)
	websiteAPI.GET("", h.ListWebsites)
	websiteAPI.GET("/:id", h.GetWebsite)
	websiteAPI.POST("", h.CreateWebsite)
	websiteAPI.PATCH("/:id", h.UpdateWebsite)
	websiteAPI.DELETE("/:id", h.DeleteWebsite)

	// AI generation, rate limited per user
	aiAPI := api.Group("/ai", opts.Auth.Middleware, middleware.RateLimit(opts.RateCounter, "ai", opts.RateLimit))
	aiAPI.POST("/generate-website", h.GenerateWebsite)
	aiAPI.POST("/modify-website", h.ModifyWebsite)
	aiAPI.POST("/generate-content", h.GenerateContent)

	// Public site serving
	api.GET("/sites/:subdomain", h.GetPublishedSite)

	// Operators
	adminAPI := api.Group("/admin", middleware.AdminKeyMiddleware(opts.AdminKey))
	adminAPI.PUT("/users/:id/plan", h.UpdateUserPlan)
}
