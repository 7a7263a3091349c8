package models

import (
	"time"

	"gorm.io/gorm"
)

// RestaurantStaff links an employee account to a restaurant. Rows are removed
// when the owning user is deleted.
type RestaurantStaff struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RestaurantID uint           `gorm:"not null;index" json:"restaurant_id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Role         string         `gorm:"type:varchar(50);default:'staff'" json:"role"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
