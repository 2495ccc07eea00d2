package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ralf-A/chk-payment-gw/internal/acquirer"
	"github.com/Ralf-A/chk-payment-gw/internal/app/payments"
	"github.com/Ralf-A/chk-payment-gw/internal/config"
	payments_http "github.com/Ralf-A/chk-payment-gw/internal/handler/http/payments"
	"github.com/Ralf-A/chk-payment-gw/internal/infrastructure/database"
	kafka_infra "github.com/Ralf-A/chk-payment-gw/internal/infrastructure/kafka"
	redis_infra "github.com/Ralf-A/chk-payment-gw/internal/infrastructure/redis"
	"github.com/Ralf-A/chk-payment-gw/internal/observability/metrics"
	"github.com/Ralf-A/chk-payment-gw/internal/outbox"
	"github.com/Ralf-A/chk-payment-gw/internal/repository/outbox_repo"
	"github.com/Ralf-A/chk-payment-gw/internal/repository/payments_repo"
	"github.com/Ralf-A/chk-payment-gw/internal/validation"
	"github.com/Ralf-A/chk-payment-gw/migrations"
)

func newLogger(level string) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	return zapConfig.Build()
}

func connectPostgres(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	dbConfig := database.DBConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.Name,
		SSLMode:  cfg.DBConfig.SSLMode,
	}

	var (
		db  *sql.DB
		err error
	)
	maxRetries := 10
	retryDelay := 5 * time.Second
	for i := 0; i < maxRetries; i++ {
		db, err = database.NewPostgresDB(dbConfig)
		if err == nil {
			logger.Info("Successfully connected to PostgreSQL database!")
			return db, nil
		}
		logger.Warn("Failed to connect to database, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_in", retryDelay),
			zap.Error(err))
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxRetries, err)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()
	appLogger.Info("Payment gateway starting...", zap.String("store_backend", cfg.StoreBackend))

	ctxMain, cancelMain := context.WithCancel(context.Background())
	defer cancelMain()

	var (
		db          *sql.DB
		redisClient *goredis.Client
		paymentRepo payments_repo.PaymentRepository
	)

	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		db, err = connectPostgres(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Database unavailable", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				appLogger.Error("Error closing database connection", zap.Error(err))
			} else {
				appLogger.Info("Database connection closed.")
			}
		}()

		appLogger.Info("Running database migrations...")
		if err := migrations.Up(db); err != nil {
			appLogger.Fatal("Failed to run database migrations", zap.Error(err))
		}
		appLogger.Info("Database migrations completed successfully (or no new migrations).")

		var outboxWriter payments_repo.OutboxWriter
		if cfg.EventsEnabled() {
			outboxWriter = outbox_repo.NewOutboxRepository()
		}
		paymentRepo = payments_repo.NewPaymentRepository(db, outboxWriter, appLogger.With(zap.String("component", "PaymentRepository")))

	case config.StoreBackendRedis:
		redisClient = redis_infra.NewClient(redis_infra.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctxMain, 5*time.Second)
		err := redis_infra.Ping(pingCtx, redisClient)
		cancel()
		if err != nil {
			appLogger.Fatal("Redis unavailable", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				appLogger.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		paymentRepo = payments_repo.NewRedisPaymentRepository(redisClient)

	default:
		appLogger.Warn("Using in-memory payment store; records are lost on restart.")
		paymentRepo = payments_repo.NewMemoryPaymentRepository()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	paymentMetrics := metrics.NewPaymentMetrics(registry, metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})

	clock := validation.SystemClock{}
	acquirerClient := acquirer.NewHTTPClient(cfg.AcquirerURL, cfg.AcquirerTimeout, appLogger.With(zap.String("component", "AcquirerClient")))
	paymentService := payments.NewPaymentService(
		validation.NewValidator(clock),
		acquirerClient,
		paymentRepo,
		clock,
		paymentMetrics,
		appLogger.With(zap.String("component", "PaymentService")),
	)
	appLogger.Info("Payment Service initialized.", zap.String("acquirer_url", cfg.AcquirerURL))

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           payments_http.NewRouter(paymentService, appLogger.With(zap.String("component", "HTTPHandler")), cfg.CORSAllowedOrigins, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 10 * time.Second,
	}

	outboxDone := make(chan struct{})
	if cfg.EventsEnabled() {
		topicCtx, cancel := context.WithTimeout(ctxMain, 10*time.Second)
		err := kafka_infra.EnsureTopics(topicCtx, cfg.GetKafkaBrokers(), []string{cfg.KafkaPaymentEventsTopic}, appLogger)
		cancel()
		if err != nil {
			appLogger.Fatal("Failed to ensure Kafka topics", zap.Error(err))
		}

		kafkaProducer := kafka_infra.NewProducer(cfg.GetKafkaBrokers(), appLogger.With(zap.String("component", "KafkaProducer")))
		defer kafkaProducer.Close()

		outboxProcessor := outbox.NewProcessor(
			db,
			outbox_repo.NewOutboxRepository(),
			kafkaProducer,
			cfg.KafkaPaymentEventsTopic,
			cfg.OutboxPollInterval,
			cfg.OutboxPollTimeout,
			cfg.OutboxBatchSize,
			paymentMetrics,
			appLogger.With(zap.String("component", "OutboxProcessor")),
		)
		go func() {
			defer close(outboxDone)
			outboxProcessor.Start(ctxMain)
		}()
	} else {
		close(outboxDone)
		appLogger.Info("Payment event publishing disabled.")
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	appLogger.Info("Shutting down application...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Drain in-flight payments before stopping the relay so their events are written.
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		appLogger.Info("HTTP server gracefully shut down.")
	}

	cancelMain()
	select {
	case <-outboxDone:
	case <-shutdownCtx.Done():
		appLogger.Warn("Outbox Processor did not stop before the shutdown deadline.")
	}

	appLogger.Info("Application gracefully shut down.")
}
