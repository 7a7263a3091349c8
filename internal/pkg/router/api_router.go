package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/tablefox/TableFox/app/controllers"
	"github.com/tablefox/TableFox/app/repository"
	"github.com/tablefox/TableFox/internal/pkg/clock"
	"github.com/tablefox/TableFox/internal/pkg/notify"
	"github.com/tablefox/TableFox/internal/pkg/restaurants"
	"github.com/tablefox/TableFox/internal/pkg/subscription"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	repos := repository.GetGlobalRepositories()
	clk := clock.System()
	notifier := notify.NewMailNotifier()

	restaurantSvc := restaurants.NewService(repos, clk, notifier)
	subscriptionSvc := subscription.NewService(repos, clk, notifier)

	restaurantCtl := controllers.NewRestaurantController(restaurantSvc, subscriptionSvc)
	adminCtl := controllers.NewAdminController(subscriptionSvc, repos)

	api := app.Group("/api", limiter.New())

	// API v1 routes
	v1 := api.Group("/v1")
	v1.Post("/restaurants", restaurantCtl.HandleCreate)
	v1.Get("/restaurants", restaurantCtl.HandleList)
	v1.Delete("/restaurants/:uuid", restaurantCtl.HandleDelete)

	// Admin routes: the gateway enforces the admin role before proxying here.
	admin := v1.Group("/admin")
	admin.Post("/subscriptions/assign-tier", adminCtl.HandleAssignTier)
	admin.Post("/subscriptions/:id/extend", adminCtl.HandleExtendSubscription)
	admin.Post("/users/:id/deactivate", adminCtl.HandleDeactivateUser)
	admin.Delete("/users/:id", adminCtl.HandleDeleteUser)
	admin.Put("/users/:id/credentials", adminCtl.HandleUpdateCredentials)
	admin.Get("/trial-config", adminCtl.HandleGetTrialConfig)
	admin.Put("/trial-config", adminCtl.HandleUpdateTrialConfig)
	admin.Get("/pricing-tiers", adminCtl.HandleListTiers)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
