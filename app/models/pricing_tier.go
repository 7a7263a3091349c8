package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// PricingTier is a catalog entry selectable by an administrator. A NULL
// MaxRestaurants means the tier has no published capacity bound.
type PricingTier struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,min=2,max=100"`
	Price          float64   `gorm:"type:decimal(10,2);not null;default:0" json:"price" validate:"gte=0"`
	MaxRestaurants *int      `json:"max_restaurants,omitempty"`
	SortOrder      int       `gorm:"default:0" json:"sort_order"`
	IsActive       bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *PricingTier) Validate() error {
	v := validator.New()

	return v.Struct(t)
}

// Covers reports whether the tier's capacity bound admits the given
// restaurant count. Tiers without a bound cover nothing; they are excluded
// from automatic selection and only assignable by an administrator.
func (t *PricingTier) Covers(count int) bool {
	return t.MaxRestaurants != nil && *t.MaxRestaurants >= count
}
