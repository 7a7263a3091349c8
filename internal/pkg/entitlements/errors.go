package entitlements

import "fmt"

// ValidationError reports missing or malformed input, rejected before any
// mutation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// AdminProtectionError reports an attempted mutation of an administrator
// account.
type AdminProtectionError struct {
	UserID uint
}

func (e *AdminProtectionError) Error() string {
	return fmt.Sprintf("user %d is an administrator and cannot be modified", e.UserID)
}

// DuplicateEmailError reports a credential update colliding with an existing
// account.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("email %s is already in use", e.Email)
}

// TierCapacityError reports a tier assignment whose capacity is below the
// user's current restaurant count.
type TierCapacityError struct {
	TierName           string
	MaxRestaurants     int
	CurrentRestaurants int
}

func (e *TierCapacityError) Error() string {
	return fmt.Sprintf("tier %q allows %d restaurants but the user owns %d (%d over capacity)",
		e.TierName, e.MaxRestaurants, e.CurrentRestaurants, e.CurrentRestaurants-e.MaxRestaurants)
}

// TrialDefaultError reports a blocked deletion of the user's original trial
// restaurant.
type TrialDefaultError struct {
	RestaurantID uint
}

func (e *TrialDefaultError) Error() string {
	return fmt.Sprintf("restaurant %d is the trial default and cannot be deleted without another actively subscribed restaurant", e.RestaurantID)
}
