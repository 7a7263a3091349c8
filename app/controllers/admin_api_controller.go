package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tablefox/TableFox/app/repository"
	"github.com/tablefox/TableFox/internal/pkg/subscription"
)

// AdminController serves the internal administrative entitlement surface.
// Routes are mounted behind the gateway's admin guard; they are not public.
type AdminController struct {
	subscription *subscription.Service
	repos        *repository.Repositories
}

// NewAdminController creates an admin controller with its dependencies.
func NewAdminController(ss *subscription.Service, repos *repository.Repositories) *AdminController {
	return &AdminController{subscription: ss, repos: repos}
}

type assignTierRequest struct {
	UserID         uint `json:"user_id"`
	SubscriptionID uint `json:"subscription_id"`
	PricingTierID  uint `json:"pricing_tier_id"`
}

// HandleAssignTier activates a tier for a whole user or a single
// subscription.
func (ac *AdminController) HandleAssignTier(c *fiber.Ctx) error {
	var req assignTierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid request body"})
	}
	if req.PricingTierID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "pricing_tier_id is required"})
	}

	switch {
	case req.UserID != 0:
		subs, err := ac.subscription.AssignTierToUser(req.UserID, req.PricingTierID)
		if err != nil {
			return respondServiceError(c, "assign tier to user", err)
		}
		return c.JSON(fiber.Map{"subscriptions": subs})
	case req.SubscriptionID != 0:
		sub, err := ac.subscription.AssignTierToSubscription(req.SubscriptionID, req.PricingTierID)
		if err != nil {
			return respondServiceError(c, "assign tier to subscription", err)
		}
		return c.JSON(fiber.Map{"subscription": sub})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "user_id or subscription_id is required"})
	}
}

type extendRequest struct {
	Months int `json:"months"`
}

// HandleExtendSubscription adds calendar months to a subscription period.
func (ac *AdminController) HandleExtendSubscription(c *fiber.Ctx) error {
	subID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": err.Error()})
	}

	var req extendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid request body"})
	}

	sub, err := ac.subscription.ExtendPeriod(subID, req.Months)
	if err != nil {
		return respondServiceError(c, "extend subscription", err)
	}
	return c.JSON(fiber.Map{"subscription": sub})
}

// HandleDeactivateUser cancels all of a user's subscriptions immediately.
func (ac *AdminController) HandleDeactivateUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": err.Error()})
	}

	if err := ac.subscription.DeactivateUser(userID); err != nil {
		return respondServiceError(c, "deactivate user", err)
	}
	return c.JSON(fiber.Map{"message": "User deactivated"})
}

// HandleDeleteUser removes a user and cascades over all owned data.
func (ac *AdminController) HandleDeleteUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": err.Error()})
	}

	if err := ac.subscription.DeleteUser(userID); err != nil {
		return respondServiceError(c, "delete user", err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleUpdateCredentials changes a user's email and/or password.
func (ac *AdminController) HandleUpdateCredentials(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": err.Error()})
	}

	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid request body"})
	}
	if req.Email == "" && req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "email or password is required"})
	}

	user, err := ac.subscription.UpdateCredentials(userID, req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, "update credentials", err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// HandleGetTrialConfig returns the current trial configuration.
func (ac *AdminController) HandleGetTrialConfig(c *fiber.Ctx) error {
	cfg, err := ac.subscription.GetTrialConfig()
	if err != nil {
		return respondServiceError(c, "get trial config", err)
	}
	return c.JSON(fiber.Map{"trial_config": cfg})
}

type trialConfigRequest struct {
	Days    int    `json:"days"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// HandleUpdateTrialConfig updates the trial length and copy.
func (ac *AdminController) HandleUpdateTrialConfig(c *fiber.Ctx) error {
	var req trialConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid request body"})
	}

	cfg, err := ac.subscription.UpdateTrialConfig(req.Days, req.Name, req.Message)
	if err != nil {
		return respondServiceError(c, "update trial config", err)
	}
	return c.JSON(fiber.Map{"trial_config": cfg})
}

// HandleListTiers returns the full tier catalog for administration.
func (ac *AdminController) HandleListTiers(c *fiber.Ctx) error {
	tiers, err := ac.repos.PricingTier.List()
	if err != nil {
		return respondServiceError(c, "list pricing tiers", err)
	}
	return c.JSON(fiber.Map{"pricing_tiers": tiers})
}
