package entitlements

import (
	"log"
	"time"

	"github.com/tablefox/TableFox/app/models"
)

// Deny reasons returned to the creation boundary.
const (
	DenyActiveSubscriptionRequired = "ActiveSubscriptionRequired"
	DenySubscriptionLimitReached   = "SubscriptionLimitReached"
)

// TierSource is the tier store view the enforcer needs: ordered selection
// plus lookup of an assigned tier.
type TierSource interface {
	TierCatalog
	GetByID(id uint) (*models.PricingTier, error)
}

// Snapshot is a consistent view of a user's restaurants and subscriptions,
// loaded by the caller inside the same transaction that will perform the
// insert.
type Snapshot struct {
	Restaurants   []models.Restaurant
	Subscriptions []models.Subscription
}

// PricingDetails accompanies a denial so the boundary can quote an upgrade.
type PricingDetails struct {
	MonthlyPrice       float64 `json:"monthly_price"`
	CurrentRestaurants int     `json:"current_restaurants"`
	ActiveRestaurants  int     `json:"active_restaurants"`
	PendingRestaurants int     `json:"pending_restaurants,omitempty"`
	MaxRestaurants     int     `json:"max_restaurants,omitempty"`
	Currency           string  `json:"currency"`
}

// Decision is the outcome of a quota check. It carries no side effects; the
// caller performs the insert when Allowed.
type Decision struct {
	Allowed            bool
	Reason             string
	Message            string
	Pricing            *PricingDetails
	TrialDaysRemaining int
}

// Enforcer decides whether a user may create another restaurant.
type Enforcer struct {
	tiers    TierSource
	selector *PriceSelector
}

// NewEnforcer creates a quota enforcer backed by the given tier store.
func NewEnforcer(tiers TierSource) *Enforcer {
	return &Enforcer{
		tiers:    tiers,
		selector: NewPriceSelector(tiers),
	}
}

// CanCreateRestaurant evaluates the quota for one more restaurant at the
// given instant. The first restaurant is always allowed; afterwards an
// active paid subscription is required and its tier capacity is enforced.
func (e *Enforcer) CanCreateRestaurant(snap Snapshot, now time.Time) Decision {
	existing := len(snap.Restaurants)
	if IsFirstRestaurant(existing) {
		return Decision{Allowed: true}
	}

	active := findActiveSubscription(snap.Subscriptions, now)
	if active != nil {
		max := e.maxRestaurantsFor(active)
		if existing >= max {
			return Decision{
				Allowed: false,
				Reason:  DenySubscriptionLimitReached,
				Message: "Your current subscription tier has reached its restaurant limit. Upgrade to add more restaurants.",
				Pricing: e.pricingDetails(snap, max),
			}
		}
		return Decision{Allowed: true}
	}

	return Decision{
		Allowed:            false,
		Reason:             DenyActiveSubscriptionRequired,
		Message:            "An active subscription is required to create additional restaurants.",
		Pricing:            e.pricingDetails(snap, 0),
		TrialDaysRemaining: bestTrialDaysRemaining(snap.Subscriptions, now),
	}
}

// maxRestaurantsFor resolves the restaurant limit of an active paid
// subscription. Without an assigned tier, or when the tier publishes no
// limit, the subscription covers a single restaurant.
func (e *Enforcer) maxRestaurantsFor(sub *models.Subscription) int {
	if sub.PricingTierID == nil {
		return 1
	}
	tier, err := e.tiers.GetByID(*sub.PricingTierID)
	if err != nil {
		log.Printf("quota: failed to load pricing tier %d for subscription %d: %v", *sub.PricingTierID, sub.ID, err)
		return 1
	}
	if tier.MaxRestaurants == nil {
		return 1
	}
	return *tier.MaxRestaurants
}

func (e *Enforcer) pricingDetails(snap Snapshot, max int) *PricingDetails {
	existing := len(snap.Restaurants)
	quote := e.selector.PriceFor(existing + 1)

	details := &PricingDetails{
		MonthlyPrice:       quote.MonthlyPrice,
		CurrentRestaurants: existing,
		MaxRestaurants:     max,
		Currency:           Currency,
	}
	for _, r := range snap.Restaurants {
		switch r.Status {
		case models.RestaurantStatusActive:
			details.ActiveRestaurants++
		case models.RestaurantStatusPending:
			details.PendingRestaurants++
		}
	}
	return details
}

func findActiveSubscription(subs []models.Subscription, now time.Time) *models.Subscription {
	for i := range subs {
		if Resolve(&subs[i], now) == StatusActive {
			return &subs[i]
		}
	}
	return nil
}

func bestTrialDaysRemaining(subs []models.Subscription, now time.Time) int {
	best := 0
	for i := range subs {
		if days := TrialDaysRemaining(&subs[i], now); days > best {
			best = days
		}
	}
	return best
}
