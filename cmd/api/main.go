package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/tournament-service/internal/api/http"
	"github.com/spec-kit/tournament-service/internal/api/http/handlers"
	"github.com/spec-kit/tournament-service/internal/auth"
	"github.com/spec-kit/tournament-service/internal/config"
	"github.com/spec-kit/tournament-service/internal/events"
	"github.com/spec-kit/tournament-service/internal/observability"
	"github.com/spec-kit/tournament-service/internal/persistence"
	"github.com/spec-kit/tournament-service/internal/ratelimit"
	"github.com/spec-kit/tournament-service/internal/repository"
	"github.com/spec-kit/tournament-service/internal/service"
	"github.com/spec-kit/tournament-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(cfg.Redis, logger)
	defer rdb.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	tournamentRepo := repository.NewTournamentRepository(pool)
	competitorRepo := repository.NewCompetitorRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)

	var counterStore ratelimit.CounterStore
	var blacklist auth.TokenBlacklist
	if cfg.RateLimit.UseRedis {
		counterStore = ratelimit.NewRedisStore(rdb.Client)
		blacklist = auth.NewRedisBlacklist(rdb.Client)
	} else {
		counterStore = ratelimit.NewMemoryStore()
		blacklist = auth.NewMemoryBlacklist()
	}

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	auditService := service.NewAuditService(auditRepo, logger)

	var providers []service.IdentityProvider
	if cfg.OAuth.Google.ClientID != "" {
		providers = append(providers, service.NewGoogleProvider(cfg.OAuth.Google))
	}
	if cfg.OAuth.GitHub.ClientID != "" {
		providers = append(providers, service.NewGitHubProvider(cfg.OAuth.GitHub))
	}

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:      userRepo,
		Tokens:        tokens,
		Blacklist:     blacklist,
		LoginLimiter:  ratelimit.NewAuthLimiter(counterStore, cfg.RateLimit),
		SignupLimiter: ratelimit.NewRegistrationLimiter(counterStore, cfg.RateLimit),
		Providers:     providers,
		Audit:         auditService,
		Dispatcher:    dispatcher,
		Config:        cfg.Auth,
		Logger:        logger,
	})
	tournamentService := service.NewTournamentService(service.TournamentDependencies{
		TournamentRepo: tournamentRepo,
		Audit:          auditService,
		Dispatcher:     dispatcher,
	})
	competitorService := service.NewCompetitorService(service.CompetitorDependencies{
		CompetitorRepo: competitorRepo,
		TournamentRepo: tournamentRepo,
		Audit:          auditService,
		Dispatcher:     dispatcher,
	})
	userAdminService := service.NewUserAdminService(userRepo, auditService, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)
	retention, err := worker.StartRetentionWorker(auditService, cfg.Audit, logger)
	if err != nil {
		logger.Fatal("failed to start retention worker", zap.Error(err))
	}
	if retention != nil {
		defer retention.Shutdown() //nolint:errcheck
	}

	resolver := auth.NewResolver(tokens, userRepo, blacklist)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rdb),
		Auth:        handlers.NewAuthHandler(authService),
		Tournaments: handlers.NewTournamentsHandler(tournamentService),
		Competitors: handlers.NewCompetitorsHandler(competitorService),
		AdminUsers:  handlers.NewAdminUsersHandler(userAdminService),
		Audit:       handlers.NewAuditHandler(auditService),
		Resolver:    resolver,
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
