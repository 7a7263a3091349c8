package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RestaurantStatusActive  = "active"
	RestaurantStatusPending = "pending"
)

// Restaurant is a tenant owned by exactly one user. IsTrialDefault marks the
// restaurant created at registration; it carries the deletion guard.
type Restaurant struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UUID           string         `gorm:"type:char(36);uniqueIndex" json:"uuid"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	User           User           `gorm:"foreignKey:UserID" json:"-"`
	Name           string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Subdomain      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"subdomain" validate:"required,min=2,max=100"`
	Status         string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active pending"`
	IsTrialDefault bool           `gorm:"default:false" json:"is_trial_default"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Restaurant) Validate() error {
	v := validator.New()

	return v.Struct(r)
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.New().String()
	}
	return nil
}

// Slugify converts a restaurant name into a subdomain-safe slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
