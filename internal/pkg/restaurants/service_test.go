package restaurants

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablefox/TableFox/app/models"
	"github.com/tablefox/TableFox/app/repository"
	"github.com/tablefox/TableFox/internal/pkg/clock"
	"github.com/tablefox/TableFox/internal/pkg/entitlements"
)

type recordingNotifier struct {
	mu           sync.Mutex
	trialStarted []int
	trialEnding  []int
	activations  []string
}

func (n *recordingNotifier) TrialStarted(email string, days int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.trialStarted = append(n.trialStarted, days)
}

func (n *recordingNotifier) TrialEnding(email string, daysRemaining int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.trialEnding = append(n.trialEnding, daysRemaining)
}

func (n *recordingNotifier) SubscriptionActivated(email, tierName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activations = append(n.activations, email+":"+tierName)
}

type fixture struct {
	repos    *repository.Repositories
	clock    *clock.Fixed
	notifier *recordingNotifier
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repos:    repository.NewMemoryRepositories(),
		clock:    &clock.Fixed{Time: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)},
		notifier: &recordingNotifier{},
	}
	f.svc = NewService(f.repos, f.clock, f.notifier)
	return f
}

func (f *fixture) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Owner", Email: email, Password: "irrelevant", Role: models.ROLE_USER, Status: models.STATUS_ACTIVE}
	require.NoError(t, f.repos.User.Create(user))
	return user
}

func (f *fixture) seedTier(t *testing.T, name string, price float64, maxRestaurants int) *models.PricingTier {
	t.Helper()
	tier := &models.PricingTier{Name: name, Price: price, MaxRestaurants: &maxRestaurants, IsActive: true}
	require.NoError(t, f.repos.PricingTier.Save(tier))
	return tier
}

func TestCreateFirstRestaurantStartsTrial(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "owner@example.com")

	result, denial, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: "Pasta Place"})
	require.NoError(t, err)
	require.Nil(t, denial)
	require.NotNil(t, result)

	assert.Equal(t, "pasta-place", result.Restaurant.Subdomain)
	assert.True(t, result.Restaurant.IsTrialDefault)
	assert.Equal(t, models.RestaurantStatusActive, result.Restaurant.Status)

	require.NotNil(t, result.Subscription)
	assert.Equal(t, models.SubscriptionStatusTrial, result.Subscription.Status)
	require.NotNil(t, result.Subscription.TrialEndsAt)
	assert.Equal(t, f.clock.Time.AddDate(0, 0, models.DefaultTrialDays), *result.Subscription.TrialEndsAt)

	assert.True(t, result.Pricing.IsFirstRestaurant)
	assert.False(t, result.Pricing.RequiresPayment)
	assert.Equal(t, 1, result.Pricing.TotalRestaurants)
	require.NotNil(t, result.Trial)
	assert.Equal(t, models.DefaultTrialDays, result.Trial.DaysRemaining)

	require.Len(t, f.notifier.trialStarted, 1)
	assert.Equal(t, models.DefaultTrialDays, f.notifier.trialStarted[0])
}

func TestCreateFirstRestaurantUsesConfiguredTrialLength(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "owner@example.com")
	require.NoError(t, f.repos.TrialConfig.Save(&models.TrialConfig{Days: 14, Name: "Extended Trial"}))

	result, _, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: "Pasta Place"})
	require.NoError(t, err)

	assert.Equal(t, f.clock.Time.AddDate(0, 0, 14), *result.Subscription.TrialEndsAt)
	assert.Equal(t, 14, result.Trial.DaysRemaining)
}

func TestCreateSecondRestaurantDeniedOnTrial(t *testing.T) {
	f := newFixture(t)
	f.seedTier(t, "Growth", 59, 3)
	user := f.seedUser(t, "owner@example.com")

	_, _, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: "Pasta Place"})
	require.NoError(t, err)

	result, denial, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: "Burger Barn"})
	require.NoError(t, err)
	assert.Nil(t, result)
	require.NotNil(t, denial)

	assert.Equal(t, entitlements.DenyActiveSubscriptionRequired, denial.Reason)
	assert.Equal(t, models.DefaultTrialDays, denial.TrialDaysRemaining)
	require.NotNil(t, denial.Pricing)
	assert.Equal(t, 59.0, denial.Pricing.MonthlyPrice, "quote covers the attempted second restaurant")

	restaurants, listErr := f.repos.Restaurant.ListByUserID(user.ID)
	require.NoError(t, listErr)
	assert.Len(t, restaurants, 1, "denied creation must not insert")

	// Seven days out is too early for an ending notice.
	assert.Empty(t, f.notifier.trialEnding)
}

func TestDenialNearTrialEndSendsNotice(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "owner@example.com")

	_, _, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: "Pasta Place"})
	require.NoError(t, err)

	f.clock.Advance(6 * 24 * time.Hour) // one day of trial left

	_, denial, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: "Burger Barn"})
	require.NoError(t, err)
	require.NotNil(t, denial)
	assert.Equal(t, 1, denial.TrialDaysRemaining)

	require.Len(t, f.notifier.trialEnding, 1)
	assert.Equal(t, 1, f.notifier.trialEnding[0])
}

func TestCreateAdditionalRestaurantUnderTier(t *testing.T) {
	f := newFixture(t)
	tier := f.seedTier(t, "Growth", 59, 3)
	user := f.seedUser(t, "owner@example.com")

	first, _, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: "Pasta Place"})
	require.NoError(t, err)

	end := f.clock.Time.AddDate(0, 0, 20)
	sub := first.Subscription
	sub.Status = models.SubscriptionStatusActive
	sub.Plan = tier.Name
	sub.PricingTierID = &tier.ID
	sub.TrialEndsAt = nil
	sub.CurrentPeriodEnd = &end
	require.NoError(t, f.repos.Subscription.Update(sub))

	result, denial, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: "Burger Barn"})
	require.NoError(t, err)
	require.Nil(t, denial)
	require.NotNil(t, result)

	assert.False(t, result.Restaurant.IsTrialDefault)
	assert.Equal(t, models.SubscriptionStatusPending, result.Subscription.Status, "non-first tenants await tier activation")
	assert.True(t, result.Pricing.RequiresPayment)
	assert.Equal(t, 2, result.Pricing.TotalRestaurants)
	assert.Nil(t, result.Trial)
	assert.Empty(t, f.notifier.trialStarted)
}

func TestCreateRestaurantSubdomainCollision(t *testing.T) {
	f := newFixture(t)
	userA := f.seedUser(t, "a@example.com")
	userB := f.seedUser(t, "b@example.com")

	first, _, err := f.svc.CreateRestaurant(userA.ID, CreateInput{Name: "Pasta Place"})
	require.NoError(t, err)

	second, _, err := f.svc.CreateRestaurant(userB.ID, CreateInput{Name: "Pasta Place"})
	require.NoError(t, err)

	assert.Equal(t, "pasta-place", first.Restaurant.Subdomain)
	assert.NotEqual(t, first.Restaurant.Subdomain, second.Restaurant.Subdomain)
	assert.Contains(t, second.Restaurant.Subdomain, "pasta-place-")
}

func TestCreateRestaurantNameValidation(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "owner@example.com")

	_, _, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: " x "})

	var vErr *entitlements.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestCreateRestaurantUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.CreateRestaurant(42, CreateInput{Name: "Pasta Place"})

	var notFound *entitlements.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "user", notFound.Entity)
}

func TestConcurrentCreatesNeverExceedTierLimit(t *testing.T) {
	f := newFixture(t)
	tier := f.seedTier(t, "Growth", 59, 3)
	user := f.seedUser(t, "owner@example.com")

	first, _, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: "Pasta Place"})
	require.NoError(t, err)

	end := f.clock.Time.AddDate(0, 0, 20)
	sub := first.Subscription
	sub.Status = models.SubscriptionStatusActive
	sub.Plan = tier.Name
	sub.PricingTierID = &tier.ID
	sub.TrialEndsAt = nil
	sub.CurrentPeriodEnd = &end
	require.NoError(t, f.repos.Subscription.Update(sub))

	const attempts = 10
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: fmt.Sprintf("Branch %d", n)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := f.repos.Restaurant.CountByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "creation must stop exactly at the tier limit")
}

func TestListByOwner(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "owner@example.com")

	_, _, err := f.svc.CreateRestaurant(user.ID, CreateInput{Name: "Pasta Place"})
	require.NoError(t, err)

	restaurants, err := f.svc.ListByOwner(user.ID)
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "Pasta Place", restaurants[0].Name)
}

func TestGetByUUIDNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByUUID("no-such-uuid")

	var notFound *entitlements.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
