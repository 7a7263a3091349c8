package entitlements

import (
	"testing"
	"time"

	"github.com/tablefox/TableFox/app/models"
)

func TestResolve(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		sub  *models.Subscription
		want Status
	}{
		{"nil subscription", nil, StatusNone},
		{"trial before end", &models.Subscription{Status: models.SubscriptionStatusTrial, TrialEndsAt: &future}, StatusTrialActive},
		{"trial exactly at end", &models.Subscription{Status: models.SubscriptionStatusTrial, TrialEndsAt: &now}, StatusTrialExpired},
		{"trial past end", &models.Subscription{Status: models.SubscriptionStatusTrial, TrialEndsAt: &past}, StatusTrialExpired},
		{"trial without end date", &models.Subscription{Status: models.SubscriptionStatusTrial}, StatusTrialExpired},
		{"active before period end", &models.Subscription{Status: models.SubscriptionStatusActive, CurrentPeriodEnd: &future}, StatusActive},
		{"active exactly at period end", &models.Subscription{Status: models.SubscriptionStatusActive, CurrentPeriodEnd: &now}, StatusExpired},
		{"active past period end", &models.Subscription{Status: models.SubscriptionStatusActive, CurrentPeriodEnd: &past}, StatusExpired},
		{"active without period end", &models.Subscription{Status: models.SubscriptionStatusActive}, StatusExpired},
		{"pending passes through", &models.Subscription{Status: models.SubscriptionStatusPending}, StatusPending},
		{"cancelled passes through", &models.Subscription{Status: models.SubscriptionStatusCancelled}, StatusCancelled},
		{"expired passes through", &models.Subscription{Status: models.SubscriptionStatusExpired}, StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.sub, now); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusIsUsable(t *testing.T) {
	usable := map[Status]bool{
		StatusTrialActive:  true,
		StatusActive:       true,
		StatusNone:         false,
		StatusTrialExpired: false,
		StatusExpired:      false,
		StatusCancelled:    false,
		StatusPending:      false,
	}

	for status, want := range usable {
		if got := status.IsUsable(); got != want {
			t.Errorf("%q.IsUsable() = %v, want %v", status, got, want)
		}
	}
}
