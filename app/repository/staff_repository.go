package repository

import (
	"github.com/tablefox/TableFox/app/models"
	"gorm.io/gorm"
)

// staffRepository implements the StaffRepository interface
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository instance
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

// ListByRestaurantID retrieves staff links for a restaurant
func (r *staffRepository) ListByRestaurantID(restaurantID uint) ([]models.RestaurantStaff, error) {
	var staff []models.RestaurantStaff
	err := r.db.Where("restaurant_id = ?", restaurantID).Find(&staff).Error
	return staff, err
}

// DeleteByRestaurantID removes all staff links for a restaurant
func (r *staffRepository) DeleteByRestaurantID(restaurantID uint) error {
	return r.db.Unscoped().Where("restaurant_id = ?", restaurantID).Delete(&models.RestaurantStaff{}).Error
}

// DeleteByOwner removes staff links for every restaurant owned by the user
func (r *staffRepository) DeleteByOwner(ownerID uint) error {
	sub := r.db.Model(&models.Restaurant{}).Select("id").Where("user_id = ?", ownerID)
	return r.db.Unscoped().Where("restaurant_id IN (?)", sub).Delete(&models.RestaurantStaff{}).Error
}
