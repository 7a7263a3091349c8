package repository

import (
	"encoding/json"
	"time"

	"github.com/tablefox/TableFox/app/models"
	"github.com/tablefox/TableFox/internal/pkg/cache"
	"gorm.io/gorm"
)

const (
	activeTiersCacheKey = "pricing:active_tiers"
	activeTiersCacheTTL = 5 * time.Minute
)

// pricingTierRepository implements the PricingTierRepository interface.
// The active-tier catalog is read on every entitlement decision, so it is
// cached in Redis with a short TTL and invalidated on writes. Cache failures
// fall through to the database.
type pricingTierRepository struct {
	db *gorm.DB
}

// NewPricingTierRepository creates a new pricing tier repository instance
func NewPricingTierRepository(db *gorm.DB) PricingTierRepository {
	return &pricingTierRepository{db: db}
}

// GetByID retrieves a pricing tier by its ID
func (r *pricingTierRepository) GetByID(id uint) (*models.PricingTier, error) {
	var tier models.PricingTier
	err := r.db.First(&tier, id).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

// ListActiveByCapacity returns active tiers that publish a capacity bound,
// cheapest-covering first: max_restaurants ascending, then sort_order.
func (r *pricingTierRepository) ListActiveByCapacity() ([]models.PricingTier, error) {
	if cached, err := cache.Get(activeTiersCacheKey); err == nil && cached != "" {
		var tiers []models.PricingTier
		if err := json.Unmarshal([]byte(cached), &tiers); err == nil {
			return tiers, nil
		}
	}

	var tiers []models.PricingTier
	err := r.db.
		Where("is_active = ? AND max_restaurants IS NOT NULL", true).
		Order("max_restaurants ASC").
		Order("sort_order ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(tiers); err == nil {
		_ = cache.Set(activeTiersCacheKey, string(payload), activeTiersCacheTTL)
	}
	return tiers, nil
}

// List returns the full tier catalog ordered for display
func (r *pricingTierRepository) List() ([]models.PricingTier, error) {
	var tiers []models.PricingTier
	err := r.db.Order("sort_order ASC").Order("id ASC").Find(&tiers).Error
	return tiers, err
}

// Save creates or updates a pricing tier and drops the catalog cache
func (r *pricingTierRepository) Save(tier *models.PricingTier) error {
	if err := r.db.Save(tier).Error; err != nil {
		return err
	}
	_ = cache.Delete(activeTiersCacheKey)
	return nil
}
