package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/shipment-service/internal/api/http"
	"github.com/spec-kit/shipment-service/internal/api/http/handlers"
	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/config"
	"github.com/spec-kit/shipment-service/internal/events"
	"github.com/spec-kit/shipment-service/internal/observability"
	"github.com/spec-kit/shipment-service/internal/persistence"
	"github.com/spec-kit/shipment-service/internal/repository"
	"github.com/spec-kit/shipment-service/internal/service"
	"github.com/spec-kit/shipment-service/internal/worker"
	"github.com/spec-kit/shipment-service/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, migrations.Files, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(dispatcher,
		worker.NewRealtimePublisher(redis.Client, cfg.Notification.ChannelPrefix, logger), logger)

	userRepo := repository.NewUserRepository(pool)
	shipmentRepo := repository.NewShipmentRepository(pool)
	historyRepo := repository.NewShipmentHistoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	notificationService := service.NewNotificationService(notificationRepo, dispatcher, logger)
	shipmentService := service.NewShipmentService(service.ShipmentDependencies{
		ShipmentRepo: shipmentRepo,
		HistoryRepo:  historyRepo,
		UserRepo:     userRepo,
		Notifier:     notificationService,
		Dispatcher:   dispatcher,
		Logger:       logger,
		PendingAfter: cfg.Scheduler.PendingAfter(),
		OnRouteAfter: cfg.Scheduler.OnRouteAfter(),
	})
	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost, logger)
	productService := service.NewProductService(productRepo, shipmentRepo)

	updater := worker.NewStatusUpdater(cfg.Scheduler, shipmentService, redis, metrics, logger)
	if cfg.Scheduler.Enabled {
		if err := updater.Start(); err != nil {
			logger.Fatal("failed to schedule status updater", zap.Error(err))
		}
		defer updater.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ErrorHandler:          httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Shipments:      handlers.NewShipmentsHandler(shipmentService),
		Products:       handlers.NewProductsHandler(productService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Admin:          handlers.NewAdminHandler(updater),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, userRepo),
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
