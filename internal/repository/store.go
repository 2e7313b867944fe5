// Package repository is the persistence gateway over users, templates and websites.
package repository

import (
	"context"

	"github.com/oduppinsjr/rapid-web-ai/internal/model"
)

// Store is implemented by GormStore and by the in-memory fakes used in handler tests.
// Missing rows are reported as apperror.KindNotFound, unique violations as
// apperror.KindConflict and any other failure as apperror.KindStorage.
type Store interface {
	// Users
	GetUser(ctx context.Context, id string) (*model.User, error)
	EnsureUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id string, update model.ProfileUpdate) (*model.User, error)
	UpdateUserPlan(ctx context.Context, id string, plan model.Plan) (*model.User, error)
	IncrementAIGenerations(ctx context.Context, id string) (*model.User, error)

	// Templates
	ListTemplates(ctx context.Context, category model.Category) ([]model.Template, error)
	GetTemplate(ctx context.Context, id string) (*model.Template, error)
	CreateTemplate(ctx context.Context, template *model.Template) error
	CountTemplates(ctx context.Context) (int64, error)
	IncrementTemplateViewCount(ctx context.Context, id string) error

	// Websites
	ListWebsitesByUser(ctx context.Context, userID string) ([]model.Website, error)
	GetWebsite(ctx context.Context, id string) (*model.Website, error)
	GetWebsiteBySubdomain(ctx context.Context, subdomain string) (*model.Website, error)
	CreateWebsite(ctx context.Context, website *model.Website) error
	UpdateWebsite(ctx context.Context, id string, patch model.WebsitePatch) (*model.Website, error)
	DeleteWebsite(ctx context.Context, id string) error
}
