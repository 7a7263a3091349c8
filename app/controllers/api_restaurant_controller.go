package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tablefox/TableFox/internal/pkg/restaurants"
	"github.com/tablefox/TableFox/internal/pkg/subscription"
)

// RestaurantController serves the tenant creation and management endpoints.
type RestaurantController struct {
	restaurants  *restaurants.Service
	subscription *subscription.Service
}

// NewRestaurantController creates a restaurant controller with its services.
func NewRestaurantController(rs *restaurants.Service, ss *subscription.Service) *RestaurantController {
	return &RestaurantController{restaurants: rs, subscription: ss}
}

// HandleCreate creates a restaurant for the acting user, subject to quota
// enforcement. A denial renders the machine-readable reason plus an upgrade
// quote.
func (rc *RestaurantController) HandleCreate(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": err.Error()})
	}

	var input restaurants.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid request body"})
	}

	result, denial, err := rc.restaurants.CreateRestaurant(userID, input)
	if err != nil {
		return respondServiceError(c, "restaurant create", err)
	}
	if denial != nil {
		resp := fiber.Map{
			"error":            denial.Reason,
			"message":          denial.Message,
			"requires_payment": true,
			"pricing":          denial.Pricing,
		}
		if denial.TrialDaysRemaining > 0 {
			resp["trial"] = fiber.Map{"days_remaining": denial.TrialDaysRemaining}
		}
		return c.Status(fiber.StatusPaymentRequired).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleList returns the acting user's restaurants.
func (rc *RestaurantController) HandleList(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": err.Error()})
	}

	list, err := rc.restaurants.ListByOwner(userID)
	if err != nil {
		return respondServiceError(c, "restaurant list", err)
	}
	return c.JSON(fiber.Map{"restaurants": list})
}

// HandleDelete deletes one of the acting user's restaurants, subject to the
// trial-default guard.
func (rc *RestaurantController) HandleDelete(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": err.Error()})
	}

	restaurant, err := rc.restaurants.GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondServiceError(c, "restaurant lookup", err)
	}
	if restaurant.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "You do not own this restaurant"})
	}

	if err := rc.subscription.DeleteRestaurant(restaurant.ID); err != nil {
		return respondServiceError(c, "restaurant delete", err)
	}
	return c.JSON(fiber.Map{"message": "Restaurant deleted"})
}
