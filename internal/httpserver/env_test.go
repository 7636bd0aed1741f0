package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/beanline/coffee-shop/internal/models"
	"github.com/beanline/coffee-shop/internal/repo"
	"github.com/beanline/coffee-shop/internal/service"
)

type stubProvider struct {
	lastOrderID uint
	lastLines   []service.LineItem
	err         error
}

func (p *stubProvider) CreateSession(_ context.Context, orderID uint, lines []service.LineItem) (*service.CheckoutSession, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.lastOrderID = orderID
	p.lastLines = lines
	return &service.CheckoutSession{
		ID:  fmt.Sprintf("cs_test_%d", orderID),
		URL: fmt.Sprintf("https://checkout.example.com/pay/cs_test_%d", orderID),
	}, nil
}

type stubMailer struct {
	calls int
	to    string
}

func (m *stubMailer) SendOrderConfirmation(to, _ string, _ uint, _ float64) error {
	m.calls++
	m.to = to
	return nil
}

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Auth     *AuthHTTP
	Catalog  *CatalogHTTP
	Cart     *CartHTTP
	Checkout *CheckoutHTTP
	Provider *stubProvider
	Mailer   *stubMailer
}

func newTestEnv(t *testing.T) *testEnv {
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

	r := &repo.GormRepo{DB: db}
	provider := &stubProvider{}
	mailer := &stubMailer{}

	env := &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Repo:     r,
		Provider: provider,
		Mailer:   mailer,
	}

	env.Auth = &AuthHTTP{Svc: &service.AuthService{
		Repo:          r,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}}
	env.Catalog = &CatalogHTTP{Svc: &service.CatalogService{Repo: r}}
	env.Cart = &CartHTTP{Svc: &service.CartService{Repo: r}}
	env.Checkout = &CheckoutHTTP{Svc: &service.CheckoutService{
		Repo:     r,
		Provider: provider,
		Mailer:   mailer,
	}}

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createProduct(name string, price *float64) *models.Product {
	env.T.Helper()

	p := models.Product{Name: name, Price: price}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return &p
}

func (env *testEnv) register(email string) uint {
	env.T.Helper()

	payload := map[string]string{
		"first_name": "Test",
		"last_name":  "Shopper",
		"email":      email,
		"password":   "secret123",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/register", payload)
	require.NoError(env.T, env.Auth.Register(c))
	require.Equal(env.T, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &user))
	return user.ID
}

func priceOf(v float64) *float64 { return &v }
