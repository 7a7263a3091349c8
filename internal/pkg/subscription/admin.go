package subscription

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tablefox/TableFox/app/models"
	"github.com/tablefox/TableFox/app/repository"
	"github.com/tablefox/TableFox/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// AssignTierToUser replaces every subscription of the user with a fresh row
// per owned restaurant on the given tier, opening a 30-day billing period.
// Rejected when the user's restaurant count exceeds the tier capacity. The
// whole replacement is one transaction.
func (s *Service) AssignTierToUser(userID, tierID uint) ([]models.Subscription, error) {
	var (
		created   []models.Subscription
		userEmail string
		tierName  string
	)

	err := s.repos.WithTransaction(func(tx *repository.Repositories) error {
		user, err := tx.User.GetByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &entitlements.NotFoundError{Entity: "user", ID: userID}
			}
			return err
		}

		tier, err := loadTier(tx, tierID)
		if err != nil {
			return err
		}

		restaurants, err := tx.Restaurant.ListByUserID(userID)
		if err != nil {
			return err
		}
		if err := checkTierCapacity(tier, len(restaurants)); err != nil {
			return err
		}

		if err := tx.Subscription.DeleteByUserID(userID); err != nil {
			return err
		}

		now := s.clock.Now()
		end := now.AddDate(0, 0, billingPeriodDays)
		for _, r := range restaurants {
			sub := models.Subscription{
				UserID:             userID,
				RestaurantID:       r.ID,
				Plan:               tier.Name,
				Status:             models.SubscriptionStatusActive,
				PricingTierID:      &tier.ID,
				CurrentPeriodStart: &now,
				CurrentPeriodEnd:   &end,
			}
			if err := tx.Subscription.Create(&sub); err != nil {
				return err
			}
			created = append(created, sub)
		}

		userEmail = user.Email
		tierName = tier.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.SubscriptionActivated(userEmail, tierName)
	return created, nil
}

// AssignTierToSubscription activates a single subscription on the given
// tier, subject to the same capacity check against the owning user's
// restaurant count.
func (s *Service) AssignTierToSubscription(subscriptionID, tierID uint) (*models.Subscription, error) {
	var (
		updated   *models.Subscription
		userEmail string
		tierName  string
	)

	err := s.repos.WithTransaction(func(tx *repository.Repositories) error {
		sub, err := tx.Subscription.GetByID(subscriptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &entitlements.NotFoundError{Entity: "subscription", ID: subscriptionID}
			}
			return err
		}

		tier, err := loadTier(tx, tierID)
		if err != nil {
			return err
		}

		count, err := tx.Restaurant.CountByUserID(sub.UserID)
		if err != nil {
			return err
		}
		if err := checkTierCapacity(tier, int(count)); err != nil {
			return err
		}

		user, err := tx.User.GetByID(sub.UserID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		end := now.AddDate(0, 0, billingPeriodDays)
		sub.Plan = tier.Name
		sub.Status = models.SubscriptionStatusActive
		sub.PricingTierID = &tier.ID
		sub.TrialEndsAt = nil
		sub.CurrentPeriodStart = &now
		sub.CurrentPeriodEnd = &end
		if err := tx.Subscription.Update(sub); err != nil {
			return err
		}

		updated = sub
		userEmail = user.Email
		tierName = tier.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.SubscriptionActivated(userEmail, tierName)
	return updated, nil
}

// ExtendPeriod adds whole calendar months to a subscription's current period
// end and forces it active. Months below 1 are rejected.
func (s *Service) ExtendPeriod(subscriptionID uint, months int) (*models.Subscription, error) {
	if months < 1 {
		return nil, &entitlements.ValidationError{Message: "months must be at least 1"}
	}

	var updated *models.Subscription
	err := s.repos.WithTransaction(func(tx *repository.Repositories) error {
		sub, err := tx.Subscription.GetByID(subscriptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &entitlements.NotFoundError{Entity: "subscription", ID: subscriptionID}
			}
			return err
		}

		base := s.clock.Now()
		if sub.CurrentPeriodEnd != nil {
			base = *sub.CurrentPeriodEnd
		}
		end := base.AddDate(0, months, 0)
		sub.CurrentPeriodEnd = &end
		sub.Status = models.SubscriptionStatusActive
		if err := tx.Subscription.Update(sub); err != nil {
			return err
		}
		updated = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeactivateUser cancels every subscription of the user with immediate
// expiry. No data is deleted. Administrator accounts are protected.
func (s *Service) DeactivateUser(userID uint) error {
	return s.repos.WithTransaction(func(tx *repository.Repositories) error {
		user, err := loadProtectedUser(tx, userID)
		if err != nil {
			return err
		}

		subs, err := tx.Subscription.ListByUserID(user.ID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		for i := range subs {
			subs[i].Status = models.SubscriptionStatusCancelled
			subs[i].CurrentPeriodEnd = &now
			if err := tx.Subscription.Update(&subs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteUser removes the user and all owned data. Dependents are deleted in
// explicit order inside one transaction: staff links, subscriptions,
// restaurants, then the user row. Administrator accounts are protected.
func (s *Service) DeleteUser(userID uint) error {
	return s.repos.WithTransaction(func(tx *repository.Repositories) error {
		user, err := loadProtectedUser(tx, userID)
		if err != nil {
			return err
		}

		if err := tx.Staff.DeleteByOwner(user.ID); err != nil {
			return err
		}
		if err := tx.Subscription.DeleteByUserID(user.ID); err != nil {
			return err
		}
		if err := tx.Restaurant.DeleteByUserID(user.ID); err != nil {
			return err
		}
		return tx.User.Delete(user.ID)
	})
}

// UpdateCredentials changes a user's email and/or password. Emails must be
// unique across accounts; passwords are stored only as a salted hash.
// Administrator accounts are protected.
func (s *Service) UpdateCredentials(userID uint, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)

	var updated *models.User
	err := s.repos.WithTransaction(func(tx *repository.Repositories) error {
		user, err := loadProtectedUser(tx, userID)
		if err != nil {
			return err
		}

		if email != "" && email != user.Email {
			if err := validator.New().Var(email, "email"); err != nil {
				return &entitlements.ValidationError{Message: "invalid email address"}
			}
			taken, err := tx.User.EmailTaken(email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return &entitlements.DuplicateEmailError{Email: email}
			}
			user.Email = email
		}

		if password != "" {
			if len(password) < 6 {
				return &entitlements.ValidationError{Message: "password must be at least 6 characters"}
			}
			if err := user.SetPassword(password); err != nil {
				return err
			}
		}

		if err := tx.User.Update(user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// loadProtectedUser fetches a user for an administrative mutation, rejecting
// administrator targets.
func loadProtectedUser(tx *repository.Repositories, userID uint) (*models.User, error) {
	user, err := tx.User.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &entitlements.NotFoundError{Entity: "user", ID: userID}
		}
		return nil, err
	}
	if user.IsAdmin() {
		return nil, &entitlements.AdminProtectionError{UserID: userID}
	}
	return user, nil
}

func loadTier(tx *repository.Repositories, tierID uint) (*models.PricingTier, error) {
	tier, err := tx.PricingTier.GetByID(tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &entitlements.NotFoundError{Entity: "pricing tier", ID: tierID}
		}
		return nil, err
	}
	return tier, nil
}

func checkTierCapacity(tier *models.PricingTier, restaurantCount int) error {
	if tier.MaxRestaurants != nil && restaurantCount > *tier.MaxRestaurants {
		return &entitlements.TierCapacityError{
			TierName:           tier.Name,
			MaxRestaurants:     *tier.MaxRestaurants,
			CurrentRestaurants: restaurantCount,
		}
	}
	return nil
}
