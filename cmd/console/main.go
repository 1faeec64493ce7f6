package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"momo-checkout-console/config"
	httpHandler "momo-checkout-console/internal/adapter/http/handler"
	pgStorage "momo-checkout-console/internal/adapter/storage/postgres"
	redisStorage "momo-checkout-console/internal/adapter/storage/redis"
	"momo-checkout-console/internal/adapter/upstream"
	"momo-checkout-console/internal/core/ports"
	"momo-checkout-console/internal/service"
	"momo-checkout-console/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("upstream", cfg.Upstream.BaseURL).
		Msg("Starting Mobile Money Checkout Console")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	operatorRepo := pgStorage.NewOperatorRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)

	// Initialize Redis stores
	statsCache := redisStorage.NewStatsCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize upstream gateway
	gateway := upstream.NewClient(upstream.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		CSRFToken:      cfg.Upstream.CSRFToken,
		UseUnifiedInit: cfg.Upstream.UseUnifiedInit,
	}, &http.Client{Timeout: cfg.Upstream.Timeout}, log)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	authSvc := service.NewAuthService(operatorRepo, hashSvc, tokenSvc)
	auditSvc := service.NewAuditService(auditRepo, log)
	sessions := service.NewSessionManager(gateway, cfg.Session.TTL, log)
	poller := service.NewStatsPoller(gateway, statsCache, cfg.Poll.Interval, log)

	// Background loops: session TTL sweeps and the stats poll cycle.
	bgCtx, bgCancel := context.WithCancel(ctx)
	defer bgCancel()
	go sessions.Run(bgCtx)
	go poller.Run(bgCtx)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Sessions:       sessions,
		AuthSvc:        authSvc,
		TokenSvc:       tokenSvc,
		Stats:          poller,
		AuditSvc:       auditSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")
	bgCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
