package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/case-service/internal/api/http"
	"github.com/spec-kit/case-service/internal/api/http/handlers"
	"github.com/spec-kit/case-service/internal/auth"
	"github.com/spec-kit/case-service/internal/config"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/observability"
	"github.com/spec-kit/case-service/internal/persistence"
	"github.com/spec-kit/case-service/internal/repository"
	"github.com/spec-kit/case-service/internal/service"
	"github.com/spec-kit/case-service/internal/worker"
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

	metrics := observability.NewMetrics("case_service")
	readiness := map[string]handlers.Pinger{}

	var caseRepo repository.CaseRepository
	switch strings.ToLower(cfg.Store.Backend) {
	case config.StorePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		caseRepo = repository.NewPostgresCaseRepository(pg.PoolHandle())
		readiness["postgres"] = pg
	case config.StoreSQLite:
		db, err := persistence.NewSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		defer db.Close()

		caseRepo = repository.NewSQLiteCaseRepository(db.DB)
		readiness["sqlite"] = db
	default:
		caseRepo = repository.NewMemoryCaseRepository()
	}
	logger.Info("case store ready", zap.String("backend", cfg.Store.Backend))

	if cfg.Cases.Seed {
		seeded, err := repository.Seed(ctx, caseRepo)
		if err != nil {
			logger.Fatal("failed to seed cases", zap.Error(err))
		}
		logger.Info("seeded cases", zap.Int("count", seeded))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var publisher service.EventPublisher
	if redis.Enabled() {
		publisher = redis
		readiness["redis"] = redis
	}

	dispatcher := events.NewInMemoryDispatcher()
	userRepo := repository.NewMemoryUserRepository()
	activityRepo := repository.NewMemoryActivityRepository(cfg.Cases.ActivityHistoryLength)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{UserRepo: userRepo})
	if err := authService.SeedUsers(ctx, cfg.Auth); err != nil {
		logger.Fatal("failed to seed users", zap.Error(err))
	}

	caseService := service.NewCaseService(cfg.Cases, service.CaseDependencies{
		CaseRepo:   caseRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	activityService := service.NewActivityService(dispatcher, activityRepo, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification, publisher, cfg.Redis.EventsChannel)
	worker.StartNotificationWorker(logger, notificationService, activityService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Users:          handlers.NewUsersHandler(authService),
		Cases:          handlers.NewCasesHandler(caseService, activityService),
		Admin:          handlers.NewAdminHandler(caseService, activityService),
		AuthMiddleware: authMiddleware,
		Registry:       metrics.Registry(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
