package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category groups templates in the gallery
type Category string

const (
	CategoryRestaurant  Category = "restaurant"
	CategoryPersonal    Category = "personal"
	CategoryService     Category = "service"
	CategoryPortfolio   Category = "portfolio"
	CategoryCreative    Category = "creative"
	CategoryHealth      Category = "health"
	CategoryAutomotive  Category = "automotive"
	CategoryPhotography Category = "photography"
	CategoryOther       Category = "other"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryRestaurant, CategoryPersonal, CategoryService, CategoryPortfolio,
		CategoryCreative, CategoryHealth, CategoryAutomotive, CategoryPhotography, CategoryOther:
		return true
	}
	return false
}

// Template is platform-owned starter content
type Template struct {
	ID           string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	Description  string         `json:"description" gorm:"type:text"`
	Category     Category       `json:"category" gorm:"type:varchar(50);not null;index"`
	PreviewImage *string        `json:"previewImage" gorm:"type:varchar(1024)"`
	Content      datatypes.JSON `json:"content" gorm:"type:jsonb;not null"`
	IsActive     bool           `json:"isActive" gorm:"not null;default:true;index"`
	ViewCount    int            `json:"viewCount" gorm:"not null;default:0"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// BeforeCreate assigns an ID when none is set
func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
