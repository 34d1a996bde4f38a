package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/cryptobud/cryptobud/internal/adapter/http"
	"github.com/cryptobud/cryptobud/internal/adapter/http/handler"
	"github.com/cryptobud/cryptobud/internal/adapter/http/middleware"
	postgresRepo "github.com/cryptobud/cryptobud/internal/adapter/repository/postgres"
	redisRepo "github.com/cryptobud/cryptobud/internal/adapter/repository/redis"
	"github.com/cryptobud/cryptobud/internal/infrastructure/auth"
	"github.com/cryptobud/cryptobud/internal/infrastructure/config"
	"github.com/cryptobud/cryptobud/internal/infrastructure/logger"
	"github.com/cryptobud/cryptobud/internal/infrastructure/metrics"
	"github.com/cryptobud/cryptobud/internal/infrastructure/postgres"
	"github.com/cryptobud/cryptobud/internal/infrastructure/redis"
	"github.com/cryptobud/cryptobud/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "cryptobud"})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	appMetrics := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize use cases
	transactionUC := usecase.NewTransactionUseCase(txManager, transactionRepo, cache, idGen, appMetrics).
		WithRetrier(retrier)
	reportUC := usecase.NewReportUseCase(transactionRepo, cache, appMetrics)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager)
	importHandler := handler.NewImportHandler(transactionUC)
	transactionHandler := handler.NewTransactionHandler(transactionUC)
	reportHandler := handler.NewReportHandler(reportUC)
	exportHandler := handler.NewExportHandler(transactionUC, reportUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        authHandler,
		ImportHandler:      importHandler,
		TransactionHandler: transactionHandler,
		ReportHandler:      reportHandler,
		ExportHandler:      exportHandler,
		HealthHandler:      healthHandler,
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        rateLimiter,
	})

	loggingMiddleware := middleware.NewLoggingMiddleware(log.Logger)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      loggingMiddleware.Wrap(router),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Periodically drop accumulated per-IP limiters
	limiterCleanup := time.NewTicker(time.Hour)
	defer limiterCleanup.Stop()
	go func() {
		for range limiterCleanup.C {
			rateLimiter.CleanupLimiters()
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
