package repository

import (
	"strings"

	"github.com/tablefox/TableFox/app/models"
	"gorm.io/gorm"
)

// restaurantRepository implements the RestaurantRepository interface
type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new restaurant repository instance
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

// Create creates a new restaurant in the database
func (r *restaurantRepository) Create(restaurant *models.Restaurant) error {
	return r.db.Create(restaurant).Error
}

// GetByID retrieves a restaurant by its ID
func (r *restaurantRepository) GetByID(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.First(&restaurant, id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// GetByUUID retrieves a restaurant by its public UUID
func (r *restaurantRepository) GetByUUID(uuid string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.Where("uuid = ?", uuid).First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// ListByUserID retrieves all restaurants owned by a user
func (r *restaurantRepository) ListByUserID(userID uint) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&restaurants).Error
	return restaurants, err
}

// CountByUserID returns the number of restaurants owned by a user
func (r *restaurantRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Restaurant{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// SubdomainExists reports whether a subdomain is already in use
func (r *restaurantRepository) SubdomainExists(subdomain string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Restaurant{}).
		Where("subdomain = ?", strings.ToLower(strings.TrimSpace(subdomain))).
		Count(&count).Error
	return count > 0, err
}

// Update updates an existing restaurant in the database
func (r *restaurantRepository) Update(restaurant *models.Restaurant) error {
	return r.db.Save(restaurant).Error
}

// Delete removes a restaurant by its ID
func (r *restaurantRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Restaurant{}, id).Error
}

// DeleteByUserID removes all restaurants owned by a user
func (r *restaurantRepository) DeleteByUserID(userID uint) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&models.Restaurant{}).Error
}
