package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	"github.com/oduppinsjr/rapid-web-ai/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const subdomainTaken = "Subdomain already taken"

// GormStore implements Store on PostgreSQL through gorm
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a store over an open connection pool
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GetUser fetches a user by identity subject
func (s *GormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	defer prometheus.TrackDBOperation("select_user")(time.Now())

	var user model.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate("get user", "User", "", err)
	}
	return &user, nil
}

// identityColumns are refreshed from the identity provider on every login. A claim
// missing from a later token keeps the stored value.
var identityColumns = []string{"email", "first_name", "last_name", "profile_image_url"}

// EnsureUser inserts the user on first login and afterwards refreshes the identity
// provider fields. Plan and usage counters are never touched here.
func (s *GormStore) EnsureUser(ctx context.Context, user *model.User) (*model.User, error) {
	defer prometheus.TrackDBOperation("upsert_user")(time.Now())

	if user.Plan == "" {
		user.Plan = model.PlanFree
	}

	refresh := make(clause.Set, 0, len(identityColumns))
	for _, col := range identityColumns {
		refresh = append(refresh, clause.Assignment{
			Column: clause.Column{Name: col},
			Value:  gorm.Expr(fmt.Sprintf("COALESCE(EXCLUDED.%s, users.%s)", col, col)),
		})
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoUpdates: refresh}).
		Create(user).Error
	if err != nil {
		return nil, translate("ensure user", "User", "Email already registered", err)
	}
	return s.GetUser(ctx, user.ID)
}

// UpdateUserProfile sets the non-nil profile fields
func (s *GormStore) UpdateUserProfile(ctx context.Context, id string, update model.ProfileUpdate) (*model.User, error) {
	cols := map[string]interface{}{}
	if update.FirstName != nil {
		cols["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		cols["last_name"] = *update.LastName
	}
	if update.ProfileImageURL != nil {
		cols["profile_image_url"] = *update.ProfileImageURL
	}
	if len(cols) == 0 {
		return s.GetUser(ctx, id)
	}
	return s.updateUser(ctx, "update_user_profile", id, cols)
}

// UpdateUserPlan changes the billing plan of a user
func (s *GormStore) UpdateUserPlan(ctx context.Context, id string, plan model.Plan) (*model.User, error) {
	return s.updateUser(ctx, "update_user_plan", id, map[string]interface{}{"plan": plan})
}

// IncrementAIGenerations adds one to the generation counter in a single statement
func (s *GormStore) IncrementAIGenerations(ctx context.Context, id string) (*model.User, error) {
	return s.updateUser(ctx, "increment_ai_generations", id, map[string]interface{}{
		"ai_generations_used": gorm.Expr("ai_generations_used + ?", 1),
	})
}

func (s *GormStore) updateUser(ctx context.Context, op, id string, cols map[string]interface{}) (*model.User, error) {
	defer prometheus.TrackDBOperation(op)(time.Now())

	var user model.User
	result := s.db.WithContext(ctx).
		Model(&user).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(cols)
	if result.Error != nil {
		return nil, translate(op, "User", "", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperror.NotFound("User")
	}
	return &user, nil
}

// ListTemplates returns active templates, most viewed first. An empty category lists all.
func (s *GormStore) ListTemplates(ctx context.Context, category model.Category) ([]model.Template, error) {
	defer prometheus.TrackDBOperation("select_templates")(time.Now())

	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	templates := []model.Template{}
	if err := query.Order("view_count DESC").Order("created_at ASC").Find(&templates).Error; err != nil {
		return nil, translate("list templates", "Template", "", err)
	}
	return templates, nil
}

// GetTemplate fetches a template by ID, active or not
func (s *GormStore) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	if !validUUID(id) {
		return nil, apperror.NotFound("Template")
	}
	defer prometheus.TrackDBOperation("select_template")(time.Now())

	var template model.Template
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&template).Error; err != nil {
		return nil, translate("get template", "Template", "", err)
	}
	return &template, nil
}

// CreateTemplate inserts a template
func (s *GormStore) CreateTemplate(ctx context.Context, template *model.Template) error {
	defer prometheus.TrackDBOperation("insert_template")(time.Now())

	if err := s.db.WithContext(ctx).Create(template).Error; err != nil {
		return translate("create template", "Template", "", err)
	}
	return nil
}

// CountTemplates returns the number of stored templates, active or not
func (s *GormStore) CountTemplates(ctx context.Context) (int64, error) {
	defer prometheus.TrackDBOperation("count_templates")(time.Now())

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Template{}).Count(&count).Error; err != nil {
		return 0, translate("count templates", "Template", "", err)
	}
	return count, nil
}

// IncrementTemplateViewCount adds one to the view counter in a single statement
func (s *GormStore) IncrementTemplateViewCount(ctx context.Context, id string) error {
	if !validUUID(id) {
		return apperror.NotFound("Template")
	}
	defer prometheus.TrackDBOperation("increment_template_views")(time.Now())

	result := s.db.WithContext(ctx).
		Model(&model.Template{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return translate("increment template views", "Template", "", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Template")
	}
	return nil
}

// ListWebsitesByUser returns the user's websites, most recently updated first
func (s *GormStore) ListWebsitesByUser(ctx context.Context, userID string) ([]model.Website, error) {
	defer prometheus.TrackDBOperation("select_websites")(time.Now())

	websites := []model.Website{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&websites).Error
	if err != nil {
		return nil, translate("list websites", "Website", "", err)
	}
	return websites, nil
}

// GetWebsite fetches a website by ID
func (s *GormStore) GetWebsite(ctx context.Context, id string) (*model.Website, error) {
	if !validUUID(id) {
		return nil, apperror.NotFound("Website")
	}
	defer prometheus.TrackDBOperation("select_website")(time.Now())

	var website model.Website
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&website).Error; err != nil {
		return nil, translate("get website", "Website", "", err)
	}
	return &website, nil
}

// GetWebsiteBySubdomain fetches a website by its canonical subdomain
func (s *GormStore) GetWebsiteBySubdomain(ctx context.Context, subdomain string) (*model.Website, error) {
	defer prometheus.TrackDBOperation("select_website_by_subdomain")(time.Now())

	var website model.Website
	if err := s.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&website).Error; err != nil {
		return nil, translate("get website by subdomain", "Website", "", err)
	}
	return &website, nil
}

// CreateWebsite inserts a website. The unique index on subdomain decides races.
func (s *GormStore) CreateWebsite(ctx context.Context, website *model.Website) error {
	defer prometheus.TrackDBOperation("insert_website")(time.Now())

	if err := s.db.WithContext(ctx).Create(website).Error; err != nil {
		return translate("create website", "Website", subdomainTaken, err)
	}
	return nil
}

// UpdateWebsite applies a top-level partial update and returns the stored row
func (s *GormStore) UpdateWebsite(ctx context.Context, id string, patch model.WebsitePatch) (*model.Website, error) {
	if patch.Empty() {
		return s.GetWebsite(ctx, id)
	}
	if !validUUID(id) {
		return nil, apperror.NotFound("Website")
	}
	defer prometheus.TrackDBOperation("update_website")(time.Now())

	var website model.Website
	result := s.db.WithContext(ctx).
		Model(&website).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(patch.Columns())
	if result.Error != nil {
		return nil, translate("update website", "Website", subdomainTaken, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperror.NotFound("Website")
	}
	return &website, nil
}

// DeleteWebsite removes a website
func (s *GormStore) DeleteWebsite(ctx context.Context, id string) error {
	if !validUUID(id) {
		return apperror.NotFound("Website")
	}
	defer prometheus.TrackDBOperation("delete_website")(time.Now())

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Website{})
	if result.Error != nil {
		return translate("delete website", "Website", "", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Website")
	}
	return nil
}
