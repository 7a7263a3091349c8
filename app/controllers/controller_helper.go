package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tablefox/TableFox/internal/pkg/entitlements"
)

// actingUserID reads the authenticated user id injected by the upstream
// gateway. Authentication itself happens outside this service.
func actingUserID(c *fiber.Ctx) (uint, error) {
	raw := c.Get("X-User-ID")
	if raw == "" {
		return 0, errors.New("missing X-User-ID header")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid X-User-ID header")
	}
	return uint(id), nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id parameter")
	}
	return uint(id), nil
}

// respondServiceError maps service error types to HTTP responses. Anything
// untyped is a storage-level fault: logged with context and surfaced
// generically.
func respondServiceError(c *fiber.Ctx, operation string, err error) error {
	var (
		validationErr *entitlements.ValidationError
		notFoundErr   *entitlements.NotFoundError
		adminErr      *entitlements.AdminProtectionError
		dupEmailErr   *entitlements.DuplicateEmailError
		capacityErr   *entitlements.TierCapacityError
		trialDefErr   *entitlements.TrialDefaultError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": validationErr.Message})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": notFoundErr.Error()})
	case errors.As(err, &adminErr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin_protected", "message": "Administrator accounts cannot be modified"})
	case errors.As(err, &dupEmailErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "duplicate_email", "message": dupEmailErr.Error()})
	case errors.As(err, &capacityErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":           "TierCapacityExceeded",
			"message":         capacityErr.Error(),
			"max_restaurants": capacityErr.MaxRestaurants,
			"current":         capacityErr.CurrentRestaurants,
		})
	case errors.As(err, &trialDefErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "trial_default_protected", "message": trialDefErr.Error()})
	default:
		log.Printf("%s failed: %v", operation, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Something went wrong"})
	}
}
