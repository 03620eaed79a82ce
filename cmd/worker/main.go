package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/config"
	amqpdelivery "github.com/himanshu8github/Neetcode/internal/delivery/amqp"
	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/engine/judge0"
	"github.com/himanshu8github/Neetcode/internal/judge"
	"github.com/himanshu8github/Neetcode/internal/pool"
	"github.com/himanshu8github/Neetcode/internal/repository/postgres"
	redisrepo "github.com/himanshu8github/Neetcode/internal/repository/redis"
	"github.com/himanshu8github/Neetcode/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Neetcode Rejudge Worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to PostgreSQL
	dbPool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()
	if err := dbPool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping PostgreSQL", zap.Error(err))
	}
	logger.Info("Connected to PostgreSQL")

	// Connect to Redis
	redisOpts, err := goredis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Invalid Redis URL", zap.Error(err))
	}
	redisClient := goredis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Judging pipeline
	engine := judge0.NewClient(judge0.Config{
		BaseURL:   cfg.Engine.URL,
		APIKey:    cfg.Engine.APIKey,
		APIHost:   cfg.Engine.APIHost,
		AuthToken: cfg.Engine.AuthToken,
		Timeout:   cfg.Engine.RequestTimeout,
	}, logger)
	poller := judge.NewPoller(engine, judge.PollerConfig{
		Interval:    cfg.Judge.PollInterval,
		MaxAttempts: cfg.Judge.MaxPollAttempts,
		Budget:      cfg.Judge.Timeout,
	}, logger)
	pipeline := judge.NewPipeline(engine, poller, logger)

	rejudgeUC := usecase.NewRejudgeUsecase(
		postgres.NewPostgresSubmissionRepository(dbPool),
		postgres.NewPostgresProblemRepository(dbPool),
		postgres.NewPostgresSolvedSetRepository(dbPool),
		redisrepo.NewRedisIdempotencyStore(redisClient),
		pipeline,
		logger,
	)

	// Unbuffered: the consumer's prefetch already bounds in-flight deliveries.
	jobsChan := make(chan *domain.RejudgeJob)

	consumer, err := amqpdelivery.NewConsumer(cfg.RabbitMQ.URL, cfg.Worker.PoolSize, jobsChan, logger)
	if err != nil {
		logger.Fatal("Failed to initialize AMQP consumer", zap.Error(err))
	}
	defer consumer.Close()
	logger.Info("Connected to RabbitMQ")

	// Start worker pool
	workerPool := pool.NewWorkerPool(cfg.Worker.PoolSize, jobsChan, rejudgeUC, logger)
	workerPool.Start(ctx)

	// Start AMQP consumer in a goroutine
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error("AMQP consumer error", zap.Error(err))
			cancel()
		}
	}()

	// Start Prometheus metrics server
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Metrics server listening", zap.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal or a fatal consumer error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Wait for workers to finish in-flight rejudges
	workerPool.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Metrics server shutdown failed", zap.Error(err))
	}

	logger.Info("Worker stopped")
}
