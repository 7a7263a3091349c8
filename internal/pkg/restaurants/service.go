package restaurants

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tablefox/TableFox/app/models"
	"github.com/tablefox/TableFox/app/repository"
	"github.com/tablefox/TableFox/internal/pkg/clock"
	"github.com/tablefox/TableFox/internal/pkg/entitlements"
	"github.com/tablefox/TableFox/internal/pkg/notify"
	"gorm.io/gorm"
)

// Trial-ending notices fire when a denial reports this many days or fewer
// left in the trial.
const trialEndingNoticeDays = 2

// Service handles tenant creation under quota enforcement. The entitlement
// check and the restaurant/subscription insert run inside one transaction
// with the user row locked, so concurrent requests from the same user are
// serialized and the quota is never overshot.
type Service struct {
	repos    *repository.Repositories
	enforcer *entitlements.Enforcer
	clock    clock.Clock
	notifier notify.Notifier
}

// NewService creates a restaurant service from injected collaborators.
func NewService(repos *repository.Repositories, clk clock.Clock, notifier notify.Notifier) *Service {
	return &Service{
		repos:    repos,
		enforcer: entitlements.NewEnforcer(repos.PricingTier),
		clock:    clk,
		notifier: notifier,
	}
}

// CreateInput carries the owner-provided fields of a new restaurant.
type CreateInput struct {
	Name      string `json:"name" validate:"required,min=2,max=150"`
	Subdomain string `json:"subdomain,omitempty"`
}

// CreationPricing summarizes the billing position after a successful
// creation.
type CreationPricing struct {
	IsFirstRestaurant bool    `json:"is_first_restaurant"`
	TotalRestaurants  int     `json:"total_restaurants"`
	MonthlyPrice      float64 `json:"monthly_price"`
	Currency          string  `json:"currency"`
	RequiresPayment   bool    `json:"requires_payment"`
}

// TrialInfo reports the remaining trial window.
type TrialInfo struct {
	DaysRemaining int `json:"days_remaining"`
}

// CreateResult is the post-creation response shape.
type CreateResult struct {
	Restaurant   *models.Restaurant   `json:"restaurant"`
	Subscription *models.Subscription `json:"subscription"`
	Pricing      CreationPricing      `json:"pricing"`
	Trial        *TrialInfo           `json:"trial,omitempty"`
}

// CreateRestaurant creates a tenant for the user if their entitlement
// permits it. On denial the decision is returned instead; the caller renders
// it with the attached pricing quote. Notifications go out after commit.
func (s *Service) CreateRestaurant(userID uint, input CreateInput) (*CreateResult, *entitlements.Decision, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 {
		return nil, nil, &entitlements.ValidationError{Message: "restaurant name must be at least 2 characters"}
	}

	var (
		result    *CreateResult
		denial    *entitlements.Decision
		userEmail string
		trialDays int
	)

	err := s.repos.WithTransaction(func(tx *repository.Repositories) error {
		user, err := tx.User.GetByIDForUpdate(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &entitlements.NotFoundError{Entity: "user", ID: userID}
			}
			return err
		}

		existing, err := tx.Restaurant.ListByUserID(userID)
		if err != nil {
			return err
		}
		subs, err := tx.Subscription.ListByUserID(userID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		decision := s.enforcer.CanCreateRestaurant(entitlements.Snapshot{
			Restaurants:   existing,
			Subscriptions: subs,
		}, now)
		if !decision.Allowed {
			denial = &decision
			userEmail = user.Email
			return nil
		}

		subdomain, err := s.resolveSubdomain(tx, input.Subdomain, name)
		if err != nil {
			return err
		}

		first := entitlements.IsFirstRestaurant(len(existing))
		restaurant := &models.Restaurant{
			UserID:         userID,
			Name:           name,
			Subdomain:      subdomain,
			Status:         models.RestaurantStatusActive,
			IsTrialDefault: first,
		}
		if err := tx.Restaurant.Create(restaurant); err != nil {
			return err
		}

		sub := s.buildSubscription(tx, user.ID, restaurant.ID, first)
		if err := tx.Subscription.Create(sub); err != nil {
			return err
		}

		total := len(existing) + 1
		quote := entitlements.NewPriceSelector(tx.PricingTier).PriceFor(total)
		result = &CreateResult{
			Restaurant:   restaurant,
			Subscription: sub,
			Pricing: CreationPricing{
				IsFirstRestaurant: first,
				TotalRestaurants:  total,
				MonthlyPrice:      quote.MonthlyPrice,
				Currency:          entitlements.Currency,
				RequiresPayment:   !first,
			},
		}
		if first {
			result.Trial = &TrialInfo{DaysRemaining: entitlements.TrialDaysRemaining(sub, now)}
			trialDays = result.Trial.DaysRemaining
		}

		userEmail = user.Email
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if denial != nil {
		if denial.TrialDaysRemaining > 0 && denial.TrialDaysRemaining <= trialEndingNoticeDays {
			s.notifier.TrialEnding(userEmail, denial.TrialDaysRemaining)
		}
		return nil, denial, nil
	}

	if result.Pricing.IsFirstRestaurant {
		s.notifier.TrialStarted(userEmail, trialDays)
	}
	return result, nil, nil
}

// ListByOwner returns the restaurants owned by a user.
func (s *Service) ListByOwner(userID uint) ([]models.Restaurant, error) {
	return s.repos.Restaurant.ListByUserID(userID)
}

// GetByUUID returns a restaurant by its public identifier.
func (s *Service) GetByUUID(id string) (*models.Restaurant, error) {
	restaurant, err := s.repos.Restaurant.GetByUUID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &entitlements.NotFoundError{Entity: "restaurant"}
		}
		return nil, err
	}
	return restaurant, nil
}

// buildSubscription prepares the subscription row inserted with a new
// restaurant: a trial for the user's first tenant, otherwise a pending row
// awaiting administrative tier activation.
func (s *Service) buildSubscription(tx *repository.Repositories, userID, restaurantID uint, first bool) *models.Subscription {
	now := s.clock.Now()
	if !first {
		return &models.Subscription{
			UserID:       userID,
			RestaurantID: restaurantID,
			Plan:         models.SubscriptionPlanPending,
			Status:       models.SubscriptionStatusPending,
		}
	}

	days := models.DefaultTrialDays
	if cfg, err := tx.TrialConfig.Get(); err == nil && cfg.Days > 0 {
		days = cfg.Days
	}
	endsAt := entitlements.TrialEndDate(now, days)
	return &models.Subscription{
		UserID:       userID,
		RestaurantID: restaurantID,
		Plan:         models.SubscriptionPlanTrial,
		Status:       models.SubscriptionStatusTrial,
		TrialEndsAt:  &endsAt,
	}
}

// resolveSubdomain slugifies the requested subdomain (or the restaurant
// name) and appends a short random suffix on collision.
func (s *Service) resolveSubdomain(tx *repository.Repositories, requested, name string) (string, error) {
	slug := models.Slugify(requested)
	if slug == "" {
		slug = models.Slugify(name)
	}
	if slug == "" {
		return "", &entitlements.ValidationError{Message: "subdomain could not be derived from the restaurant name"}
	}

	exists, err := tx.Restaurant.SubdomainExists(slug)
	if err != nil {
		return "", err
	}
	if !exists {
		return slug, nil
	}
	return fmt.Sprintf("%s-%s", slug, uuid.New().String()[:8]), nil
}
