package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/config"
	"github.com/iliyamo/gym-class-reservation/internal/database"
	"github.com/iliyamo/gym-class-reservation/internal/handler"
	"github.com/iliyamo/gym-class-reservation/internal/middleware"
	"github.com/iliyamo/gym-class-reservation/internal/queue"
	"github.com/iliyamo/gym-class-reservation/internal/repository"
	"github.com/iliyamo/gym-class-reservation/internal/router"
	"github.com/iliyamo/gym-class-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	store := repository.NewStore(db)

	fees := service.NewFeeEngine(store, store)
	gateway := service.NewLocalGateway()
	coordinator := service.NewBookingCoordinator(store)
	desk := service.NewRegistrationDesk(store, fees, gateway)
	payroll := service.NewPayrollService(store, store)

	e := echo.New()
	e.HideBanner = true

	// Redis-backed rate limiting and response caching degrade to
	// no-ops when Redis is unreachable.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	health := &handler.HealthHandler{DB: db}
	public := &handler.PublicHandler{
		ClassRepo:   store.Classes,
		PackageRepo: store.Packages,
		Coordinator: coordinator,
	}
	bookings := handler.NewBookingHandler(coordinator, store.Classes, store.Bookings)
	registrations := handler.NewRegistrationHandler(desk)
	payments := &handler.PaymentHandler{Desk: desk, Secret: cfg.PaymentSecret}
	adminClasses := &handler.AdminClassHandler{ClassRepo: store.Classes, TrainerRepo: store.Trainers}
	adminCatalog := &handler.AdminCatalogHandler{
		PackageRepo:   store.Packages,
		PromotionRepo: store.Promotions,
		TrainerRepo:   store.Trainers,
		MemberRepo:    store.Members,
		PersonalRepo:  store.Personal,
	}
	adminPayroll := &handler.PayrollHandler{Payroll: payroll}

	router.RegisterPublic(e, health, public)
	router.RegisterPayment(e, payments)
	router.RegisterMember(e, bookings, registrations, cfg.JWTSecret)
	router.RegisterAdmin(e, adminClasses, adminCatalog, adminPayroll, cfg.JWTSecret)

	// Notification consumer runs for the life of the process and
	// reconnects on its own; a broker outage never blocks startup.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	go service.NewExpirySweeper(store).Run(context.Background())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
