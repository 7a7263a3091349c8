package models

import "time"

// DefaultTrialDays applies when no TrialConfig row exists.
const DefaultTrialDays = 7

// TrialConfig is a singleton-like record overriding the default trial length.
type TrialConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Days      int       `gorm:"not null;default:7" json:"days"`
	Name      string    `gorm:"type:varchar(100);default:'Free Trial'" json:"name"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
