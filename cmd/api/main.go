package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ngo-case-service/internal/api/http"
	"github.com/spec-kit/ngo-case-service/internal/api/http/handlers"
	"github.com/spec-kit/ngo-case-service/internal/auth"
	"github.com/spec-kit/ngo-case-service/internal/config"
	"github.com/spec-kit/ngo-case-service/internal/events"
	"github.com/spec-kit/ngo-case-service/internal/observability"
	"github.com/spec-kit/ngo-case-service/internal/permission"
	"github.com/spec-kit/ngo-case-service/internal/persistence"
	"github.com/spec-kit/ngo-case-service/internal/repository"
	"github.com/spec-kit/ngo-case-service/internal/service"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	workerRepo := repository.NewCachedWorkerRepository(
		repository.NewWorkerRepository(pool), redis.Client, cfg.Cache.WorkerTTL(), logger)
	caseRepo := repository.NewCaseRepository(pool)
	needRepo := repository.NewSupplyNeedRepository(pool)

	roles := permission.NewRoleResolver(workerRepo, logger)
	ownership := permission.NewOwnershipResolver(caseRepo, roles, logger)
	evaluator := permission.NewEvaluator(roles, ownership, logger)
	locator := permission.NewLocator(needRepo, logger)

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.JWTIssuer,
		Audience: cfg.Auth.JWTAudience,
		TTL:      cfg.Auth.TokenTTL(),
	})
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}
	if cfg.Auth.PasswordMode == config.PasswordModePlaintext {
		logger.Warn("login compares plaintext passwords; set AUTH_PASSWORD_MODE=bcrypt after migrating credentials")
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	service.NewNotificationService(dispatcher, logger, cfg.Audit.LogGranted).RegisterHandlers()

	gate := auth.NewGate(auth.GateDependencies{
		Tokens:     tokens,
		Locator:    locator,
		Evaluator:  evaluator,
		Dispatcher: dispatcher,
		Metrics:    metrics,
	})

	authService := service.NewAuthService(service.AuthDependencies{
		WorkerRepo: workerRepo,
		Tokens:     tokens,
		Passwords:  auth.NewPasswordChecker(cfg.Auth.PasswordMode),
		Logger:     logger,
	})
	caseService := service.NewCaseService(caseRepo, evaluator)
	needService := service.NewSupplyNeedService(service.SupplyNeedDependencies{
		NeedRepo:   needRepo,
		Dispatcher: dispatcher,
	})

	probes := map[string]handlers.Pinger{"postgres": pg, "redis": nil}
	if redis.Client != nil {
		probes["redis"] = redis
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, probes),
		Auth:        handlers.NewAuthHandler(authService),
		Cases:       handlers.NewCasesHandler(caseService),
		SupplyNeeds: handlers.NewSupplyNeedsHandler(needService),
		Gate:        gate,
		Metrics:     metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
