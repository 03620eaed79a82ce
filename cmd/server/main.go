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

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/auth"
	"github.com/himanshu8github/Neetcode/internal/config"
	handler "github.com/himanshu8github/Neetcode/internal/delivery/http"
	"github.com/himanshu8github/Neetcode/internal/engine/judge0"
	"github.com/himanshu8github/Neetcode/internal/judge"
	"github.com/himanshu8github/Neetcode/internal/publisher"
	"github.com/himanshu8github/Neetcode/internal/repository"
	"github.com/himanshu8github/Neetcode/internal/repository/objectstore"
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

	logger.Info("Starting Neetcode API Server")

	gin.SetMode(cfg.Server.GinMode)

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
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to parse Redis URL", zap.Error(err))
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to ping Redis", zap.Error(err))
	}
	logger.Info("Connected to Redis")

	// Initialize RabbitMQ publisher
	pub, err := publisher.NewRabbitMQPublisher(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize RabbitMQ publisher", zap.Error(err))
	}
	defer pub.Close()
	logger.Info("Connected to RabbitMQ")

	// Optional source archive
	var archive repository.SourceArchive
	if cfg.Archive.Enabled {
		store, err := objectstore.NewMinIOSourceArchive(ctx, objectstore.Config{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			UseSSL:    cfg.Archive.UseSSL,
			Bucket:    cfg.Archive.Bucket,
		})
		if err != nil {
			logger.Fatal("Failed to initialize source archive", zap.Error(err))
		}
		archive = store
		logger.Info("Source archive enabled", zap.String("bucket", cfg.Archive.Bucket))
	}

	// Initialize repositories
	problemRepo := postgres.NewPostgresProblemRepository(dbPool)
	submissionRepo := postgres.NewPostgresSubmissionRepository(dbPool)
	solvedRepo := postgres.NewPostgresSolvedSetRepository(dbPool)
	revocations := redisrepo.NewRedisRevocationRegistry(rdb)

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

	guard := auth.NewGuard(cfg.Auth.JWTSecret, revocations, logger)

	// Initialize router
	router := handler.NewRouter(ctx, handler.RouterDeps{
		RunUC:    usecase.NewRunCodeUsecase(problemRepo, pipeline, logger),
		SubmitUC: usecase.NewSubmitCodeUsecase(problemRepo, submissionRepo, solvedRepo, pipeline, pub, archive, logger),
		GetUC:    usecase.NewGetSubmissionUsecase(submissionRepo),
		ListUC:   usecase.NewListSubmissionsUsecase(submissionRepo),
		SolvedUC: usecase.NewSolvedProblemsUsecase(solvedRepo),
		Guard:    guard,
		Health: map[string]handler.HealthCheck{
			"postgres": dbPool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			"rabbitmq": pub.Ping,
		},
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		RateLimitPerMin: cfg.Server.RateLimit,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		Logger:          logger,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("API server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API server...")

	// In-flight submissions may be judging; give them the full judging budget.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Judge.Timeout+5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	cancel()

	logger.Info("API server stopped")
}
