package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/dkotenko/bankcore/internal/adapter/http"
	"github.com/dkotenko/bankcore/internal/adapter/http/handler"
	"github.com/dkotenko/bankcore/internal/adapter/http/middleware"
	postgresRepo "github.com/dkotenko/bankcore/internal/adapter/repository/postgres"
	redisRepo "github.com/dkotenko/bankcore/internal/adapter/repository/redis"
	"github.com/dkotenko/bankcore/internal/infrastructure/config"
	"github.com/dkotenko/bankcore/internal/infrastructure/logger"
	"github.com/dkotenko/bankcore/internal/infrastructure/metrics"
	"github.com/dkotenko/bankcore/internal/infrastructure/postgres"
	"github.com/dkotenko/bankcore/internal/infrastructure/redis"
	"github.com/dkotenko/bankcore/internal/notification"
	"github.com/dkotenko/bankcore/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL and apply migrations
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	beneficiaryRepo := postgresRepo.NewBeneficiaryRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	refGen := postgresRepo.NewUUIDReferenceGenerator()
	retrier := postgresRepo.NewRetrier()

	// Notification dispatcher delivers post-commit email/SMS alerts.
	dispatcher := notification.NewDispatcher(notification.Config{
		UserRepo:  userRepo,
		Logger:    appLogger,
		Metrics:   appMetrics,
		QueueSize: cfg.NotificationQueueSize,
		Workers:   cfg.NotificationWorkers,
		Timeout:   cfg.NotificationTimeout,
	})
	dispatcher.Start()
	defer dispatcher.Stop()

	// Use cases
	movementUC := usecase.NewMovementUseCase(txManager, accountRepo, txnRepo, entryRepo, transferRepo, dispatcher, retrier, idGen, refGen, appMetrics)
	accountUC := usecase.NewAccountUseCase(accountRepo, userRepo, idGen, appMetrics)
	statementUC := usecase.NewStatementUseCase(accountRepo, txnRepo, entryRepo)
	userUC := usecase.NewUserUseCase(userRepo, beneficiaryRepo, idGen, appMetrics)

	// Handlers
	accountHandler := handler.NewAccountHandler(accountUC, movementUC, statementUC)
	transferHandler := handler.NewTransferHandler(movementUC, transferRepo)
	transactionHandler := handler.NewTransactionHandler(statementUC)
	userHandler := handler.NewUserHandler(userUC, accountUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     accountHandler,
		TransferHandler:    transferHandler,
		TransactionHandler: transactionHandler,
		UserHandler:        userHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logger:             appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
