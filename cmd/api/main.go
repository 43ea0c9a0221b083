package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httpapi "github.com/spec-kit/event-registration-service/internal/api/http"
	"github.com/spec-kit/event-registration-service/internal/api/http/handlers"
	"github.com/spec-kit/event-registration-service/internal/auth"
	"github.com/spec-kit/event-registration-service/internal/checkin"
	"github.com/spec-kit/event-registration-service/internal/config"
	"github.com/spec-kit/event-registration-service/internal/events"
	"github.com/spec-kit/event-registration-service/internal/observability"
	"github.com/spec-kit/event-registration-service/internal/persistence"
	"github.com/spec-kit/event-registration-service/internal/repository"
	"github.com/spec-kit/event-registration-service/internal/service"
	"github.com/spec-kit/event-registration-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations && postgres.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	if cfg.Metrics.Enabled {
		observability.StartMetricsServer(cfg.Metrics, logger)
	}

	eventRepo := repository.NewEventRepository(postgres.PoolHandle())
	registrationRepo := repository.NewRegistrationRepository(postgres.PoolHandle())
	userRepo := repository.NewUserRepository(postgres.PoolHandle())
	checkinRepo := repository.NewCheckInRepository(postgres.PoolHandle())

	statsCache := service.NewStatsCache(redis.Client, cfg.Analytics.CacheTTL())
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	eventService := service.NewEventService(eventRepo)
	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		EventRepo:        eventRepo,
		RegistrationRepo: registrationRepo,
		Dispatcher:       dispatcher,
		Cache:            statsCache,
		Metrics:          metrics,
		Logger:           logger,
	})
	checkInService := service.NewCheckInService(service.CheckInDependencies{
		EventRepo:        eventRepo,
		RegistrationRepo: registrationRepo,
		CheckInRepo:      checkinRepo,
		Sessions:         checkin.NewManager(cfg.CheckIn.SessionTTL()),
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
		PersistScans:     cfg.CheckIn.PersistScans,
	})
	analyticsService := service.NewAnalyticsService(eventRepo, registrationRepo, statsCache, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})

	httpapi.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httpapi.RegisterRoutes(app, httpapi.RouteConfig{
		Auth:          authMiddleware,
		Users:         handlers.NewUsersHandler(authService),
		Events:        handlers.NewEventsHandler(eventService, registrationService, analyticsService),
		Registrations: handlers.NewRegistrationsHandler(registrationService),
		CheckIn:       handlers.NewCheckInHandler(checkInService),
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, postgres, redis),
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("http server stopped", zap.Error(err))
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
