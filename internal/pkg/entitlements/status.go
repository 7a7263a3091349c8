package entitlements

import (
	"time"

	"github.com/tablefox/TableFox/app/models"
)

// Status is the normalized lifecycle state of a subscription at an instant.
type Status string

const (
	StatusNone         Status = "none"
	StatusTrialActive  Status = "trial_active"
	StatusTrialExpired Status = "trial_expired"
	StatusActive       Status = "active"
	StatusExpired      Status = "expired"
	StatusCancelled    Status = "cancelled"
	StatusPending      Status = "pending"
)

// Resolve maps a stored subscription and the current instant to its lifecycle
// status. Expiry comparison is strict: a subscription is expired exactly at
// its end instant.
func Resolve(sub *models.Subscription, now time.Time) Status {
	if sub == nil {
		return StatusNone
	}

	switch sub.Status {
	case models.SubscriptionStatusTrial:
		if sub.TrialEndsAt != nil && now.Before(*sub.TrialEndsAt) {
			return StatusTrialActive
		}
		return StatusTrialExpired
	case models.SubscriptionStatusActive:
		if sub.CurrentPeriodEnd != nil && now.Before(*sub.CurrentPeriodEnd) {
			return StatusActive
		}
		return StatusExpired
	default:
		// PENDING, CANCELLED and anything else pass through unchanged.
		return Status(sub.Status)
	}
}

// IsUsable reports whether the resolved status grants access.
func (s Status) IsUsable() bool {
	return s == StatusTrialActive || s == StatusActive
}
