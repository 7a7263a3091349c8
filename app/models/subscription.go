package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SubscriptionPlanTrial   = "trial"
	SubscriptionPlanMonthly = "monthly"
	SubscriptionPlanYearly  = "yearly"
	SubscriptionPlanPending = "pending"
)

const (
	SubscriptionStatusTrial     = "trial"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription attaches billing state to a user. Each row also references the
// restaurant it was created for, but entitlement is evaluated per user.
type Subscription struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	UserID             uint           `gorm:"not null;index" json:"user_id"`
	RestaurantID       uint           `gorm:"not null;index" json:"restaurant_id"`
	Plan               string         `gorm:"type:varchar(50);not null;default:'trial'" json:"plan"`
	Status             string         `gorm:"type:varchar(32);not null;default:'trial';index" json:"status"`
	PricingTierID      *uint          `gorm:"index" json:"pricing_tier_id,omitempty"`
	TrialEndsAt        *time.Time     `gorm:"type:timestamp;default:null" json:"trial_ends_at,omitempty"`
	CurrentPeriodStart *time.Time     `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time     `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
