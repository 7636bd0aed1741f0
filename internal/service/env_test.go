package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/beanline/coffee-shop/internal/models"
	"github.com/beanline/coffee-shop/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.RefreshToken{},
		&models.Order{},
		&models.OrderItem{},
	))

	return &repo.GormRepo{DB: db}
}

func createProduct(t *testing.T, r *repo.GormRepo, name string, price *float64) *models.Product {
	t.Helper()

	p := models.Product{Name: name, Price: price}
	require.NoError(t, r.DB.Create(&p).Error)
	return &p
}

func createUser(t *testing.T, r *repo.GormRepo, email string) *models.User {
	t.Helper()

	u := models.User{
		FirstName:    "Test",
		LastName:     "Shopper",
		Email:        email,
		PasswordHash: "irrelevant",
	}
	require.NoError(t, r.DB.Create(&u).Error)
	return &u
}

func priceOf(v float64) *float64 { return &v }

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, event map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

type fakeProvider struct {
	lastOrderID uint
	lastLines   []LineItem
	err         error
}

func (f *fakeProvider) CreateSession(_ context.Context, orderID uint, lines []LineItem) (*CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastOrderID = orderID
	f.lastLines = lines
	return &CheckoutSession{
		ID:  fmt.Sprintf("cs_test_%d", orderID),
		URL: fmt.Sprintf("https://checkout.example.com/pay/cs_test_%d", orderID),
	}, nil
}

type fakeMailer struct {
	calls     int
	to        string
	firstName string
	orderID   uint
	total     float64
	err       error
}

func (f *fakeMailer) SendOrderConfirmation(to, firstName string, orderID uint, total float64) error {
	f.calls++
	f.to = to
	f.firstName = firstName
	f.orderID = orderID
	f.total = total
	return f.err
}
