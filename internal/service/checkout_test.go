package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanline/coffee-shop/internal/models"
)

type checkoutEnv struct {
	svc      *CheckoutService
	cart     *CartService
	provider *fakeProvider
	mailer   *fakeMailer
	pub      *fakePublisher
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()

	r := newTestRepo(t)
	provider := &fakeProvider{}
	mailer := &fakeMailer{}
	pub := &fakePublisher{}

	return &checkoutEnv{
		svc: &CheckoutService{
			Repo:     r,
			Provider: provider,
			Mailer:   mailer,
			Events:   pub,
		},
		cart:     &CartService{Repo: r},
		provider: provider,
		mailer:   mailer,
		pub:      pub,
	}
}

func (env *checkoutEnv) fillCart(t *testing.T, userID uint) {
	t.Helper()

	r := env.svc.Repo
	espresso := createProduct(t, r, "Espresso", priceOf(3.50))
	biscotti := createProduct(t, r, "Biscotti", priceOf(1.25))

	_, err := env.cart.Add(context.Background(), userID, espresso.ID, 2)
	require.NoError(t, err)
	_, err = env.cart.Add(context.Background(), userID, biscotti.ID, 1)
	require.NoError(t, err)
}

func TestCheckoutService_Start_EmptyCart(t *testing.T) {
	env := newCheckoutEnv(t)

	_, err := env.svc.Start(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutService_Start_CreatesPendingOrder(t *testing.T) {
	env := newCheckoutEnv(t)
	ctx := context.Background()
	user := createUser(t, env.svc.Repo, "ada@example.com")

	env.fillCart(t, user.ID)

	started, err := env.svc.Start(ctx, user.ID)
	require.NoError(t, err)
	require.NotZero(t, started.OrderID)
	assert.Contains(t, started.SessionURL, "https://checkout.example.com/pay/")

	require.Len(t, env.provider.lastLines, 2)
	assert.Equal(t, "Espresso", env.provider.lastLines[0].Name)
	assert.Equal(t, int64(350), env.provider.lastLines[0].UnitAmount)
	assert.Equal(t, int64(2), env.provider.lastLines[0].Quantity)
	assert.Equal(t, int64(125), env.provider.lastLines[1].UnitAmount)

	order, err := env.svc.Repo.LatestPendingOrder(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, started.OrderID, order.ID)
	assert.Equal(t, int64(825), order.TotalCents)
	assert.NotEmpty(t, order.SessionID)
	require.Len(t, order.Items, 2)
}

func TestCheckoutService_Start_ProviderFailure(t *testing.T) {
	env := newCheckoutEnv(t)
	user := createUser(t, env.svc.Repo, "ada@example.com")
	env.fillCart(t, user.ID)

	env.provider.err = errors.New("processor is down")

	_, err := env.svc.Start(context.Background(), user.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPayment)
}

func TestCheckoutService_Start_PricelessProduct(t *testing.T) {
	env := newCheckoutEnv(t)
	r := env.svc.Repo

	product := createProduct(t, r, "Mystery Blend", nil)
	require.NoError(t, r.DB.Create(&models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 1}).Error)

	_, err := env.svc.Start(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckoutService_Confirm_MarksPaidAndClearsCart(t *testing.T) {
	env := newCheckoutEnv(t)
	ctx := context.Background()
	user := createUser(t, env.svc.Repo, "ada@example.com")
	env.fillCart(t, user.ID)

	started, err := env.svc.Start(ctx, user.ID)
	require.NoError(t, err)

	confirmation, err := env.svc.Confirm(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, started.OrderID, confirmation.OrderID)
	assert.Equal(t, models.OrderStatusPaid, confirmation.Status)
	assert.Equal(t, 8.25, confirmation.Total)
	assert.NotEmpty(t, confirmation.Message)

	var order models.Order
	require.NoError(t, env.svc.Repo.DB.First(&order, started.OrderID).Error)
	assert.Equal(t, models.OrderStatusPaid, order.Status)

	items, err := env.svc.Repo.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.Equal(t, 1, env.mailer.calls)
	assert.Equal(t, "ada@example.com", env.mailer.to)
	assert.Equal(t, "Test", env.mailer.firstName)
	assert.Equal(t, 8.25, env.mailer.total)

	require.Len(t, env.pub.events, 1)
	assert.Equal(t, "order_events", env.pub.events[0].Topic)
	assert.Equal(t, "order_paid", env.pub.events[0].Event["type"])
}

func TestCheckoutService_Confirm_NoPendingOrder(t *testing.T) {
	env := newCheckoutEnv(t)
	createUser(t, env.svc.Repo, "ada@example.com")

	_, err := env.svc.Confirm(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckoutService_Confirm_MailFailureDoesNotBlock(t *testing.T) {
	env := newCheckoutEnv(t)
	ctx := context.Background()
	user := createUser(t, env.svc.Repo, "ada@example.com")
	env.fillCart(t, user.ID)

	_, err := env.svc.Start(ctx, user.ID)
	require.NoError(t, err)

	env.mailer.err = errors.New("mail relay refused")

	confirmation, err := env.svc.Confirm(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, confirmation.Status)
}

func TestCheckoutService_Cancel(t *testing.T) {
	env := newCheckoutEnv(t)
	ctx := context.Background()
	user := createUser(t, env.svc.Repo, "ada@example.com")
	env.fillCart(t, user.ID)

	started, err := env.svc.Start(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, env.svc.Cancel(ctx, user.ID))

	var order models.Order
	require.NoError(t, env.svc.Repo.DB.First(&order, started.OrderID).Error)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)

	items, err := env.svc.Repo.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, env.svc.Cancel(ctx, user.ID))
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{price: 3.50, want: 350},
		{price: 1.25, want: 125},
		{price: 0.99, want: 99},
		{price: 10, want: 1000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MinorUnits(tt.price))
	}
}
