package controllers

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablefox/TableFox/app/models"
	"github.com/tablefox/TableFox/internal/pkg/notify"
	"github.com/tablefox/TableFox/internal/pkg/restaurants"
	"github.com/tablefox/TableFox/internal/pkg/subscription"
)

func (s *testServer) installAdminRoutes(t *testing.T) {
	t.Helper()
	subscriptionSvc := subscription.NewService(s.repos, s.clock, notify.Noop{})
	ctl := NewAdminController(subscriptionSvc, s.repos)

	admin := s.app.Group("/api/v1/admin")
	admin.Post("/subscriptions/assign-tier", ctl.HandleAssignTier)
	admin.Post("/subscriptions/:id/extend", ctl.HandleExtendSubscription)
	admin.Post("/users/:id/deactivate", ctl.HandleDeactivateUser)
	admin.Delete("/users/:id", ctl.HandleDeleteUser)
	admin.Put("/users/:id/credentials", ctl.HandleUpdateCredentials)
	admin.Get("/trial-config", ctl.HandleGetTrialConfig)
	admin.Put("/trial-config", ctl.HandleUpdateTrialConfig)
	admin.Get("/pricing-tiers", ctl.HandleListTiers)
}

func (s *testServer) createRestaurant(t *testing.T, userID uint, name string) {
	t.Helper()
	restaurantSvc := restaurants.NewService(s.repos, s.clock, notify.Noop{})
	_, denial, err := restaurantSvc.CreateRestaurant(userID, restaurants.CreateInput{Name: name})
	require.NoError(t, err)
	require.Nil(t, denial)
}

func TestAdminAssignTierToUser(t *testing.T) {
	s := newTestServer(t)
	s.installAdminRoutes(t)
	user := s.seedUser(t, "owner@example.com")
	s.createRestaurant(t, user.ID, "Pasta Place")

	three := 3
	tier := &models.PricingTier{Name: "Growth", Price: 59, MaxRestaurants: &three, IsActive: true}
	require.NoError(t, s.repos.PricingTier.Save(tier))

	resp := s.request(t, fiber.MethodPost, "/api/v1/admin/subscriptions/assign-tier", 0, fiber.Map{
		"user_id":         user.ID,
		"pricing_tier_id": tier.ID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	subs := body["subscriptions"].([]any)
	require.Len(t, subs, 1)
	assert.Equal(t, "active", subs[0].(map[string]any)["status"])
}

func TestAdminAssignTierCapacityConflict(t *testing.T) {
	s := newTestServer(t)
	s.installAdminRoutes(t)
	user := s.seedUser(t, "owner@example.com")
	s.createRestaurant(t, user.ID, "Pasta Place")

	// Activate a roomy tier, add restaurants, then try to downgrade.
	five := 5
	roomy := &models.PricingTier{Name: "Chain", Price: 149, MaxRestaurants: &five, IsActive: true}
	require.NoError(t, s.repos.PricingTier.Save(roomy))
	resp := s.request(t, fiber.MethodPost, "/api/v1/admin/subscriptions/assign-tier", 0, fiber.Map{
		"user_id":         user.ID,
		"pricing_tier_id": roomy.ID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
	s.createRestaurant(t, user.ID, "Burger Barn")

	one := 1
	small := &models.PricingTier{Name: "Starter", Price: 29, MaxRestaurants: &one, IsActive: true}
	require.NoError(t, s.repos.PricingTier.Save(small))

	resp = s.request(t, fiber.MethodPost, "/api/v1/admin/subscriptions/assign-tier", 0, fiber.Map{
		"user_id":         user.ID,
		"pricing_tier_id": small.ID,
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "TierCapacityExceeded", body["error"])
	assert.Equal(t, float64(1), body["max_restaurants"])
	assert.Equal(t, float64(2), body["current"])
}

func TestAdminAssignTierRequiresTarget(t *testing.T) {
	s := newTestServer(t)
	s.installAdminRoutes(t)

	resp := s.request(t, fiber.MethodPost, "/api/v1/admin/subscriptions/assign-tier", 0, fiber.Map{
		"pricing_tier_id": 1,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminExtendSubscription(t *testing.T) {
	s := newTestServer(t)
	s.installAdminRoutes(t)
	user := s.seedUser(t, "owner@example.com")

	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	sub := &models.Subscription{UserID: user.ID, RestaurantID: 1, Plan: "Growth", Status: models.SubscriptionStatusExpired, CurrentPeriodEnd: &end}
	require.NoError(t, s.repos.Subscription.Create(sub))

	resp := s.request(t, fiber.MethodPost, "/api/v1/admin/subscriptions/1/extend", 0, fiber.Map{"months": 2})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	got := body["subscription"].(map[string]any)
	assert.Equal(t, "active", got["status"])
	assert.Equal(t, "2024-03-31T00:00:00Z", got["current_period_end"])
}

func TestAdminDeactivateAdminForbidden(t *testing.T) {
	s := newTestServer(t)
	s.installAdminRoutes(t)
	admin := &models.User{Name: "Root", Email: "root@example.com", Password: "irrelevant", Role: models.ROLE_ADMIN, Status: models.STATUS_ACTIVE}
	require.NoError(t, s.repos.User.Create(admin))

	resp := s.request(t, fiber.MethodPost, "/api/v1/admin/users/1/deactivate", 0, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "admin_protected", body["error"])
}

func TestAdminUpdateCredentialsDuplicate(t *testing.T) {
	s := newTestServer(t)
	s.installAdminRoutes(t)
	s.seedUser(t, "owner@example.com")
	s.seedUser(t, "taken@example.com")

	resp := s.request(t, fiber.MethodPut, "/api/v1/admin/users/1/credentials", 0, fiber.Map{"email": "taken@example.com"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "duplicate_email", body["error"])
}

func TestAdminTrialConfig(t *testing.T) {
	s := newTestServer(t)
	s.installAdminRoutes(t)

	resp := s.request(t, fiber.MethodPut, "/api/v1/admin/trial-config", 0, fiber.Map{"days": 14, "name": "Extended Trial"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.request(t, fiber.MethodGet, "/api/v1/admin/trial-config", 0, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	cfg := body["trial_config"].(map[string]any)
	assert.Equal(t, float64(14), cfg["days"])
	assert.Equal(t, "Extended Trial", cfg["name"])
}
