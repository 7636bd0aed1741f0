package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/beanline/coffee-shop/internal/config"
	"github.com/beanline/coffee-shop/internal/db"
	"github.com/beanline/coffee-shop/internal/events"
	"github.com/beanline/coffee-shop/internal/httpserver"
	"github.com/beanline/coffee-shop/internal/logging"
	"github.com/beanline/coffee-shop/internal/mail"
	loggingmw "github.com/beanline/coffee-shop/internal/middleware/logging"
	"github.com/beanline/coffee-shop/internal/payment"
	"github.com/beanline/coffee-shop/internal/repo"
	"github.com/beanline/coffee-shop/internal/search"
	"github.com/beanline/coffee-shop/internal/service"

	"github.com/elastic/go-elasticsearch/v8"
)

func main() {
	cfg := config.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var producer *events.Producer
	var publisher service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Printf("warning: search disabled: %v", err)
			esClient = nil
		}
	}

	var mailer service.Mailer
	if cfg.PostmarkServerToken != "" {
		mailer = mail.NewPostmarkMailer(cfg.PostmarkServerToken, cfg.MailFrom)
	}

	gormRepo := &repo.GormRepo{DB: gormDB}

	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Events:        publisher,
	}
	catalogSvc := &service.CatalogService{Repo: gormRepo}
	cartSvc := &service.CartService{Repo: gormRepo}
	checkoutSvc := &service.CheckoutService{
		Repo:     gormRepo,
		Provider: payment.NewStripeProvider(cfg.StripeSecretKey, cfg.Currency, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL),
		Mailer:   mailer,
		Events:   publisher,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler:  &httpserver.CatalogHTTP{Svc: catalogSvc, ES: esClient},
		CartHandler:     &httpserver.CartHTTP{Svc: cartSvc},
		CheckoutHandler: &httpserver.CheckoutHTTP{Svc: checkoutSvc},
		JWTSecret:       cfg.JWTAccessSecret,
		Refresher:       authSvc,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("coffee-shop listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		_ = producer.Close()
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("coffee-shop stopped")
}
