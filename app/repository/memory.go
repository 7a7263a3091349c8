package repository

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tablefox/TableFox/app/models"
	"gorm.io/gorm"
)

// NewMemoryRepositories returns Repositories backed by in-process maps.
// It honors the same not-found semantics as the GORM implementation
// (gorm.ErrRecordNotFound) so services behave identically against either.
// Used by tests and local tooling; transactions degrade to a process-wide
// mutex without rollback.
func NewMemoryRepositories() *Repositories {
	store := &memoryStore{
		users:       make(map[uint]models.User),
		restaurants: make(map[uint]models.Restaurant),
		subs:        make(map[uint]models.Subscription),
		tiers:       make(map[uint]models.PricingTier),
		staff:       make(map[uint]models.RestaurantStaff),
	}
	return &Repositories{
		User:         &memoryUserRepository{store},
		Restaurant:   &memoryRestaurantRepository{store},
		Subscription: &memorySubscriptionRepository{store},
		PricingTier:  &memoryPricingTierRepository{store},
		Staff:        &memoryStaffRepository{store},
		TrialConfig:  &memoryTrialConfigRepository{store},
		mu:           &sync.Mutex{},
	}
}

type memoryStore struct {
	mu          sync.RWMutex
	users       map[uint]models.User
	restaurants map[uint]models.Restaurant
	subs        map[uint]models.Subscription
	tiers       map[uint]models.PricingTier
	staff       map[uint]models.RestaurantStaff
	trialConfig *models.TrialConfig

	nextUserID       uint
	nextRestaurantID uint
	nextSubID        uint
	nextTierID       uint
}

type memoryUserRepository struct{ s *memoryStore }

func (r *memoryUserRepository) Create(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(id uint) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

// GetByIDForUpdate has no row locking in memory; WithTransaction serializes
// callers instead.
func (r *memoryUserRepository) GetByIDForUpdate(id uint) (*models.User, error) {
	return r.GetByID(id)
}

func (r *memoryUserRepository) GetByEmail(email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == strings.TrimSpace(email) {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepository) EmailTaken(email string, excludeID uint) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == strings.TrimSpace(email) && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUserRepository) Update(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *memoryUserRepository) List(offset, limit int) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	if offset >= len(users) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(users) {
		end = len(users)
	}
	return users[offset:end], nil
}

func (r *memoryUserRepository) Count() (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

type memoryRestaurantRepository struct{ s *memoryStore }

func (r *memoryRestaurantRepository) Create(restaurant *models.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextRestaurantID++
	restaurant.ID = r.s.nextRestaurantID
	// GORM runs this as a BeforeCreate hook; mirror it here.
	if restaurant.UUID == "" {
		restaurant.UUID = uuid.New().String()
	}
	r.s.restaurants[restaurant.ID] = *restaurant
	return nil
}

func (r *memoryRestaurantRepository) GetByID(id uint) (*models.Restaurant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rest, ok := r.s.restaurants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rest, nil
}

func (r *memoryRestaurantRepository) GetByUUID(uuid string) (*models.Restaurant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rest := range r.s.restaurants {
		if rest.UUID == uuid {
			found := rest
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRestaurantRepository) ListByUserID(userID uint) ([]models.Restaurant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var restaurants []models.Restaurant
	for _, rest := range r.s.restaurants {
		if rest.UserID == userID {
			restaurants = append(restaurants, rest)
		}
	}
	sort.Slice(restaurants, func(i, j int) bool { return restaurants[i].ID < restaurants[j].ID })
	return restaurants, nil
}

func (r *memoryRestaurantRepository) CountByUserID(userID uint) (int64, error) {
	restaurants, _ := r.ListByUserID(userID)
	return int64(len(restaurants)), nil
}

func (r *memoryRestaurantRepository) SubdomainExists(subdomain string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(subdomain))
	for _, rest := range r.s.restaurants {
		if rest.Subdomain == needle {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRestaurantRepository) Update(restaurant *models.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.restaurants[restaurant.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.restaurants[restaurant.ID] = *restaurant
	return nil
}

func (r *memoryRestaurantRepository) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.restaurants, id)
	return nil
}

func (r *memoryRestaurantRepository) DeleteByUserID(userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, rest := range r.s.restaurants {
		if rest.UserID == userID {
			delete(r.s.restaurants, id)
		}
	}
	return nil
}

type memorySubscriptionRepository struct{ s *memoryStore }

func (r *memorySubscriptionRepository) Create(sub *models.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextSubID++
	sub.ID = r.s.nextSubID
	r.s.subs[sub.ID] = *sub
	return nil
}

func (r *memorySubscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sub, ok := r.s.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sub, nil
}

func (r *memorySubscriptionRepository) GetByRestaurantID(restaurantID uint) (*models.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, sub := range r.s.subs {
		if sub.RestaurantID == restaurantID {
			found := sub
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memorySubscriptionRepository) ListByUserID(userID uint) ([]models.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var subs []models.Subscription
	for _, sub := range r.s.subs {
		if sub.UserID == userID {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (r *memorySubscriptionRepository) Update(sub *models.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subs[sub.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.subs[sub.ID] = *sub
	return nil
}

func (r *memorySubscriptionRepository) DeleteByUserID(userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, sub := range r.s.subs {
		if sub.UserID == userID {
			delete(r.s.subs, id)
		}
	}
	return nil
}

func (r *memorySubscriptionRepository) DeleteByRestaurantID(restaurantID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, sub := range r.s.subs {
		if sub.RestaurantID == restaurantID {
			delete(r.s.subs, id)
		}
	}
	return nil
}

type memoryPricingTierRepository struct{ s *memoryStore }

func (r *memoryPricingTierRepository) GetByID(id uint) (*models.PricingTier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tier, ok := r.s.tiers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &tier, nil
}

func (r *memoryPricingTierRepository) ListActiveByCapacity() ([]models.PricingTier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var tiers []models.PricingTier
	for _, tier := range r.s.tiers {
		if tier.IsActive && tier.MaxRestaurants != nil {
			tiers = append(tiers, tier)
		}
	}
	sort.Slice(tiers, func(i, j int) bool {
		if *tiers[i].MaxRestaurants != *tiers[j].MaxRestaurants {
			return *tiers[i].MaxRestaurants < *tiers[j].MaxRestaurants
		}
		return tiers[i].SortOrder < tiers[j].SortOrder
	})
	return tiers, nil
}

func (r *memoryPricingTierRepository) List() ([]models.PricingTier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tiers := make([]models.PricingTier, 0, len(r.s.tiers))
	for _, tier := range r.s.tiers {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool {
		if tiers[i].SortOrder != tiers[j].SortOrder {
			return tiers[i].SortOrder < tiers[j].SortOrder
		}
		return tiers[i].ID < tiers[j].ID
	})
	return tiers, nil
}

func (r *memoryPricingTierRepository) Save(tier *models.PricingTier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if tier.ID == 0 {
		r.s.nextTierID++
		tier.ID = r.s.nextTierID
	}
	r.s.tiers[tier.ID] = *tier
	return nil
}

type memoryStaffRepository struct{ s *memoryStore }

func (r *memoryStaffRepository) ListByRestaurantID(restaurantID uint) ([]models.RestaurantStaff, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var staff []models.RestaurantStaff
	for _, link := range r.s.staff {
		if link.RestaurantID == restaurantID {
			staff = append(staff, link)
		}
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].ID < staff[j].ID })
	return staff, nil
}

func (r *memoryStaffRepository) DeleteByRestaurantID(restaurantID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, link := range r.s.staff {
		if link.RestaurantID == restaurantID {
			delete(r.s.staff, id)
		}
	}
	return nil
}

func (r *memoryStaffRepository) DeleteByOwner(ownerID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owned := make(map[uint]bool)
	for _, rest := range r.s.restaurants {
		if rest.UserID == ownerID {
			owned[rest.ID] = true
		}
	}
	for id, link := range r.s.staff {
		if owned[link.RestaurantID] {
			delete(r.s.staff, id)
		}
	}
	return nil
}

type memoryTrialConfigRepository struct{ s *memoryStore }

func (r *memoryTrialConfigRepository) Get() (*models.TrialConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.trialConfig == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cfg := *r.s.trialConfig
	return &cfg, nil
}

func (r *memoryTrialConfigRepository) Save(cfg *models.TrialConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cfg.ID == 0 {
		cfg.ID = 1
	}
	saved := *cfg
	r.s.trialConfig = &saved
	return nil
}
