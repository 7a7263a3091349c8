package notify

import (
	"fmt"
	"log"

	"github.com/tablefox/TableFox/internal/pkg/mail"
)

// Notifier is a one-way sink for entitlement lifecycle events. Delivery is
// best-effort: implementations log failures and never propagate them, so a
// broken mail relay can never fail an entitlement decision.
type Notifier interface {
	TrialStarted(email string, days int)
	TrialEnding(email string, daysRemaining int)
	SubscriptionActivated(email string, tierName string)
}

type mailNotifier struct{}

// NewMailNotifier returns a Notifier that sends emails over SMTP.
func NewMailNotifier() Notifier {
	return mailNotifier{}
}

func (mailNotifier) TrialStarted(email string, days int) {
	subject := "Welcome to TableFox - your trial has started"
	body := fmt.Sprintf("<p>Your restaurant is live. Your free trial runs for %d days.</p>", days)
	if err := mail.SendMail(email, subject, body); err != nil {
		log.Printf("notify: trial started email to %s failed: %v", email, err)
	}
}

func (mailNotifier) TrialEnding(email string, daysRemaining int) {
	subject := "Your TableFox trial is ending soon"
	body := fmt.Sprintf("<p>Your free trial ends in %d day(s). Pick a plan to keep your restaurant online.</p>", daysRemaining)
	if err := mail.SendMail(email, subject, body); err != nil {
		log.Printf("notify: trial ending email to %s failed: %v", email, err)
	}
}

func (mailNotifier) SubscriptionActivated(email string, tierName string) {
	subject := "Your TableFox subscription is active"
	body := fmt.Sprintf("<p>Your %s subscription is now active. Thank you!</p>", tierName)
	if err := mail.SendMail(email, subject, body); err != nil {
		log.Printf("notify: subscription activated email to %s failed: %v", email, err)
	}
}

// Noop discards all events. Used in tests.
type Noop struct{}

func (Noop) TrialStarted(string, int)             {}
func (Noop) TrialEnding(string, int)              {}
func (Noop) SubscriptionActivated(string, string) {}
