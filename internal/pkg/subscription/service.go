package subscription

import (
	"errors"
	"log"

	"github.com/tablefox/TableFox/app/models"
	"github.com/tablefox/TableFox/app/repository"
	"github.com/tablefox/TableFox/internal/pkg/clock"
	"github.com/tablefox/TableFox/internal/pkg/entitlements"
	"github.com/tablefox/TableFox/internal/pkg/notify"
	"gorm.io/gorm"
)

// Fixed billing period applied on tier assignment, regardless of tier.
const billingPeriodDays = 30

// Service is the administrative entitlement surface: tier assignment, period
// extension, user deactivation and deletion, credential updates, and the
// trial-default restaurant deletion guard. Every mutation is atomic; the
// notifier is invoked only after commit.
type Service struct {
	repos    *repository.Repositories
	clock    clock.Clock
	notifier notify.Notifier
}

// NewService creates a subscription service from injected collaborators.
func NewService(repos *repository.Repositories, clk clock.Clock, notifier notify.Notifier) *Service {
	return &Service{repos: repos, clock: clk, notifier: notifier}
}

// TrialDays returns the configured trial length, falling back to the default
// when no trial configuration exists.
func (s *Service) TrialDays() int {
	cfg, err := s.repos.TrialConfig.Get()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("subscription: trial config lookup failed, using default: %v", err)
		}
		return models.DefaultTrialDays
	}
	if cfg.Days <= 0 {
		return models.DefaultTrialDays
	}
	return cfg.Days
}

// GetTrialConfig returns the stored trial configuration, or the defaults when
// none exists.
func (s *Service) GetTrialConfig() (*models.TrialConfig, error) {
	cfg, err := s.repos.TrialConfig.Get()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.TrialConfig{Days: models.DefaultTrialDays, Name: "Free Trial"}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// UpdateTrialConfig sets the trial length and copy shown to new users.
func (s *Service) UpdateTrialConfig(days int, name, message string) (*models.TrialConfig, error) {
	if days < 1 {
		return nil, &entitlements.ValidationError{Message: "trial days must be at least 1"}
	}

	cfg, err := s.repos.TrialConfig.Get()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		cfg = &models.TrialConfig{}
	}
	cfg.Days = days
	if name != "" {
		cfg.Name = name
	}
	cfg.Message = message
	if err := s.repos.TrialConfig.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DeleteRestaurant removes a restaurant and its subscription rows. The
// user's original trial-default restaurant is protected: it can only be
// deleted while the user owns at least one other restaurant with a
// currently-active paid subscription, in which case the default marker moves
// to the oldest remaining restaurant.
func (s *Service) DeleteRestaurant(restaurantID uint) error {
	return s.repos.WithTransaction(func(tx *repository.Repositories) error {
		restaurant, err := tx.Restaurant.GetByID(restaurantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &entitlements.NotFoundError{Entity: "restaurant", ID: restaurantID}
			}
			return err
		}

		siblings, err := tx.Restaurant.ListByUserID(restaurant.UserID)
		if err != nil {
			return err
		}

		if restaurant.IsTrialDefault {
			subs, err := tx.Subscription.ListByUserID(restaurant.UserID)
			if err != nil {
				return err
			}
			if !hasOtherPaidRestaurant(siblings, subs, restaurant.ID, s.clock) {
				return &entitlements.TrialDefaultError{RestaurantID: restaurant.ID}
			}
			if next := oldestOther(siblings, restaurant.ID); next != nil {
				next.IsTrialDefault = true
				if err := tx.Restaurant.Update(next); err != nil {
					return err
				}
			}
		}

		if err := tx.Staff.DeleteByRestaurantID(restaurant.ID); err != nil {
			return err
		}
		if err := tx.Subscription.DeleteByRestaurantID(restaurant.ID); err != nil {
			return err
		}
		return tx.Restaurant.Delete(restaurant.ID)
	})
}

// hasOtherPaidRestaurant reports whether any restaurant besides excludeID
// carries a subscription that resolves to ACTIVE right now.
func hasOtherPaidRestaurant(restaurants []models.Restaurant, subs []models.Subscription, excludeID uint, clk clock.Clock) bool {
	now := clk.Now()
	for _, r := range restaurants {
		if r.ID == excludeID {
			continue
		}
		for i := range subs {
			if subs[i].RestaurantID == r.ID && entitlements.Resolve(&subs[i], now) == entitlements.StatusActive {
				return true
			}
		}
	}
	return false
}

func oldestOther(restaurants []models.Restaurant, excludeID uint) *models.Restaurant {
	for i := range restaurants {
		if restaurants[i].ID != excludeID {
			return &restaurants[i]
		}
	}
	return nil
}
