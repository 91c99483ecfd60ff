package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-backoffice/internal/config"
	"github.com/iliyamo/car-wash-backoffice/internal/database"
	"github.com/iliyamo/car-wash-backoffice/internal/handler"
	"github.com/iliyamo/car-wash-backoffice/internal/middleware"
	"github.com/iliyamo/car-wash-backoffice/internal/queue"
	"github.com/iliyamo/car-wash-backoffice/internal/repository"
	"github.com/iliyamo/car-wash-backoffice/internal/router"
	"github.com/iliyamo/car-wash-backoffice/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: caching and rate limiting switch off when it
	// is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limit disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	catalog := repository.NewCatalogRepo(db)
	locations := repository.NewLocationRepo(db)
	reservations := repository.NewReservationRepo(db)
	carts := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)
	invoices := repository.NewInvoiceRepo(db)
	payments := repository.NewPaymentMethodRepo(db)

	// Services.
	queueSvc := service.NewQueueService(reservations, catalog)
	checkoutSvc := service.NewCheckoutService(carts, orders, catalog)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	resH := handler.NewReservationHandler(queueSvc)
	cartH := handler.NewCartHandler(checkoutSvc)
	ordH := handler.NewOrderHandler(checkoutSvc)
	catH := handler.NewCatalogHandler(catalog)
	locH := handler.NewLocationHandler(locations)
	invH := handler.NewInvoiceHandler(invoices, catalog)
	payH := handler.NewPaymentMethodHandler(payments)
	dashH := handler.NewDashboardHandler(reservations, orders, invoices, locations)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterClient(e, resH, cartH, ordH, catH, payH, cfg.JWTSecret, cache)
	router.RegisterStaff(e, resH, ordH, catH, locH, invH, payH, dashH, cfg.JWTSecret)

	// Background consumer for the broker queues; it reconnects on its
	// own and never stops the server.
	go func() {
		if err := queue.StartConsumer(); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
