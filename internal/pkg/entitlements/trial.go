package entitlements

import (
	"math"
	"time"

	"github.com/tablefox/TableFox/app/models"
)

// TrialEndDate returns the end of a trial window starting now. Calendar day
// arithmetic, so month and year rollovers are respected.
func TrialEndDate(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, days)
}

// TrialDaysRemaining returns the whole days left in a trial subscription,
// rounded up: a trial ending in 30 minutes still has 1 day remaining.
// Non-trial or expired subscriptions report 0.
func TrialDaysRemaining(sub *models.Subscription, now time.Time) int {
	if sub == nil || sub.Status != models.SubscriptionStatusTrial || sub.TrialEndsAt == nil {
		return 0
	}
	remaining := sub.TrialEndsAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// IsFirstRestaurant reports whether a creation request is for the user's
// first restaurant, which is always trial-eligible.
func IsFirstRestaurant(existingCount int) bool {
	return existingCount == 0
}
