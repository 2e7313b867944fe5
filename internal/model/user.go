package model

import (
	"time"
)

// Plan is the billing tier of a user
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanDoneForYou Plan = "done-for-you"
)

// Valid reports whether p is a known plan
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanDoneForYou:
		return true
	}
	return false
}

// User represents an authenticated account. The ID is the identity provider subject.
type User struct {
	ID                string    `json:"id" gorm:"type:varchar(255);primaryKey"`
	Email             *string   `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	FirstName         *string   `json:"firstName" gorm:"type:varchar(255)"`
	LastName          *string   `json:"lastName" gorm:"type:varchar(255)"`
	ProfileImageURL   *string   `json:"profileImageUrl" gorm:"type:varchar(1024)"`
	Plan              Plan      `json:"plan" gorm:"type:varchar(32);not null;default:'free'"`
	AIGenerationsUsed int       `json:"aiGenerationsUsed" gorm:"not null;default:0"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// HasGenerationsLeft reports whether the user may run another AI generation under limit.
// Only the free plan is capped.
func (u *User) HasGenerationsLeft(freeLimit int) bool {
	if u.Plan != PlanFree && u.Plan != "" {
		return true
	}
	return u.AIGenerationsUsed < freeLimit
}

// ProfileUpdate holds the user-editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName       *string `json:"firstName" validate:"omitempty,max=255"`
	LastName        *string `json:"lastName" validate:"omitempty,max=255"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitempty,url,max=1024"`
}
