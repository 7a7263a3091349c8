package repository

import (
	"sync"

	"github.com/tablefox/TableFox/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByIDForUpdate(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	EmailTaken(email string, excludeID uint) (bool, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// RestaurantRepository defines the interface for restaurant-related database operations
type RestaurantRepository interface {
	Create(restaurant *models.Restaurant) error
	GetByID(id uint) (*models.Restaurant, error)
	GetByUUID(uuid string) (*models.Restaurant, error)
	ListByUserID(userID uint) ([]models.Restaurant, error)
	CountByUserID(userID uint) (int64, error)
	SubdomainExists(subdomain string) (bool, error)
	Update(restaurant *models.Restaurant) error
	Delete(id uint) error
	DeleteByUserID(userID uint) error
}

// SubscriptionRepository defines the interface for subscription-related database operations
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	GetByID(id uint) (*models.Subscription, error)
	GetByRestaurantID(restaurantID uint) (*models.Subscription, error)
	ListByUserID(userID uint) ([]models.Subscription, error)
	Update(sub *models.Subscription) error
	DeleteByUserID(userID uint) error
	DeleteByRestaurantID(restaurantID uint) error
}

// PricingTierRepository defines the read/write interface for the tier catalog
type PricingTierRepository interface {
	GetByID(id uint) (*models.PricingTier, error)
	// ListActiveByCapacity returns active tiers with a published capacity
	// bound, ordered by max_restaurants ascending then sort_order.
	ListActiveByCapacity() ([]models.PricingTier, error)
	List() ([]models.PricingTier, error)
	Save(tier *models.PricingTier) error
}

// StaffRepository defines operations on restaurant staff links
type StaffRepository interface {
	ListByRestaurantID(restaurantID uint) ([]models.RestaurantStaff, error)
	DeleteByRestaurantID(restaurantID uint) error
	DeleteByOwner(ownerID uint) error
}

// TrialConfigRepository reads and writes the singleton trial configuration
type TrialConfigRepository interface {
	Get() (*models.TrialConfig, error)
	Save(cfg *models.TrialConfig) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Restaurant   RestaurantRepository
	Subscription SubscriptionRepository
	PricingTier  PricingTierRepository
	Staff        StaffRepository
	TrialConfig  TrialConfigRepository

	db *gorm.DB
	mu *sync.Mutex
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Restaurant:   NewRestaurantRepository(db),
		Subscription: NewSubscriptionRepository(db),
		PricingTier:  NewPricingTierRepository(db),
		Staff:        NewStaffRepository(db),
		TrialConfig:  NewTrialConfigRepository(db),
		db:           db,
	}
}

// WithTransaction runs fn against a Repositories bound to a single database
// transaction. Returning an error rolls everything back. The in-memory
// implementation serializes transactions with a mutex instead.
func (r *Repositories) WithTransaction(fn func(*Repositories) error) error {
	if r.db == nil {
		if r.mu != nil {
			r.mu.Lock()
			defer r.mu.Unlock()
		}
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
