package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Website is a user's site instance, publicly served at its subdomain once published
type Website struct {
	ID           string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       string         `json:"userId" gorm:"type:varchar(255);not null;index"`
	User         *User          `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	Subdomain    string         `json:"subdomain" gorm:"type:varchar(63);not null;uniqueIndex"`
	CustomDomain *string        `json:"customDomain" gorm:"type:varchar(255)"`
	TemplateID   *string        `json:"templateId" gorm:"type:uuid"`
	Content      datatypes.JSON `json:"content" gorm:"type:jsonb;not null"`
	IsPublished  bool           `json:"isPublished" gorm:"not null"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// BeforeCreate assigns an ID when none is set
func (w *Website) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// OwnedBy reports whether userID owns the website
func (w *Website) OwnedBy(userID string) bool {
	return w.UserID == userID
}

// WebsitePatch is a partial update. Nil fields are left unchanged; Content replaces the
// stored document wholesale.
type WebsitePatch struct {
	Name         *string
	Subdomain    *string
	CustomDomain *string
	TemplateID   *string
	Content      datatypes.JSON
	IsPublished  *bool
}

// Empty reports whether the patch changes nothing
func (p WebsitePatch) Empty() bool {
	return p.Name == nil && p.Subdomain == nil && p.CustomDomain == nil &&
		p.TemplateID == nil && p.Content == nil && p.IsPublished == nil
}

// Columns returns the column assignments for the patch
func (p WebsitePatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Subdomain != nil {
		cols["subdomain"] = *p.Subdomain
	}
	if p.CustomDomain != nil {
		cols["custom_domain"] = nullable(*p.CustomDomain)
	}
	if p.TemplateID != nil {
		cols["template_id"] = nullable(*p.TemplateID)
	}
	if p.Content != nil {
		cols["content"] = p.Content
	}
	if p.IsPublished != nil {
		cols["is_published"] = *p.IsPublished
	}
	return cols
}

// nullable maps an empty string to NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
