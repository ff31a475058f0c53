package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stafflane/stafflane/internal/accounts"
	"github.com/stafflane/stafflane/internal/app"
	"github.com/stafflane/stafflane/internal/auth"
	"github.com/stafflane/stafflane/internal/authz"
	"github.com/stafflane/stafflane/internal/departments"
	"github.com/stafflane/stafflane/internal/observability"
	"github.com/stafflane/stafflane/internal/platform/cache"
	"github.com/stafflane/stafflane/internal/platform/db"
	"github.com/stafflane/stafflane/internal/roles"
	"github.com/stafflane/stafflane/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, grant cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokenManager)
	authHandler := auth.NewHandler(logger, authService)
	authenticator := &auth.Authenticator{Logger: logger, Service: authService}

	metrics := observability.NewMetrics()

	rolesRepo := roles.NewRepository(dbpool)
	grantCache := roles.NewGrantCache(rolesRepo, redisClient, logger, cfg.GrantCacheTTL)

	accountsRepo := accounts.NewRepository(dbpool)

	engine := authz.NewEngine(grantCache, accountsRepo)
	authzMiddleware := &authz.Middleware{Engine: engine, Logger: logger, Observer: metrics}

	accountsService := accounts.NewService(accountsRepo, cfg.BcryptCost)
	accountsHandler := accounts.NewHandler(logger, accountsService, authzMiddleware)

	departmentsRepo := departments.NewRepository(dbpool)
	departmentsService := departments.NewService(departmentsRepo)
	departmentsHandler := departments.NewHandler(logger, departmentsService, authzMiddleware)

	rolesService := roles.NewService(rolesRepo)
	rolesHandler := roles.NewHandler(logger, rolesService, authzMiddleware)

	var jobsHandler *jobs.Handler
	if redisClient != nil {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobsHandler = jobs.NewHandler(inspector, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Authenticator:      authenticator,
		AuthHandler:        authHandler,
		AccountsHandler:    accountsHandler,
		DepartmentsHandler: departmentsHandler,
		RolesHandler:       rolesHandler,
		JobsHandler:        jobsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
