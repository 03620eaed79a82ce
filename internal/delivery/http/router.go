package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/delivery/http/middleware"
	"github.com/himanshu8github/Neetcode/internal/usecase"
)

// Guard authenticates and revokes sessions.
type Guard interface {
	middleware.Authenticator
	SessionRevoker
}

// RouterDeps carries everything the router wires into handlers.
type RouterDeps struct {
	RunUC    *usecase.RunCodeUsecase
	SubmitUC *usecase.SubmitCodeUsecase
	GetUC    *usecase.GetSubmissionUsecase
	ListUC   *usecase.ListSubmissionsUsecase
	SolvedUC *usecase.SolvedProblemsUsecase
	Guard    Guard
	Health   map[string]HealthCheck

	AllowedOrigins  []string
	RateLimitPerMin int
	MaxBodyBytes    int64
	Logger          *zap.Logger
}

// NewRouter creates and configures the Gin router with all routes and middleware.
// ctx bounds background work owned by the middleware.
func NewRouter(ctx context.Context, d RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(d.AllowedOrigins))
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.Metrics())

	// Unauthenticated endpoints
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", NewHealthHandler(d.Health, d.Logger).Health)
	router.GET("/languages", NewLanguageHandler().List)

	requireSession := middleware.RequireSession(d.Guard, d.Logger)
	subHandler := NewSubmissionHandler(d.RunUC, d.SubmitUC, d.GetUC, d.ListUC, d.Logger)
	wsHandler := NewWebSocketHandler(d.GetUC, d.AllowedOrigins, d.Logger)
	userHandler := NewUserHandler(d.SolvedUC, d.Guard, d.Logger)

	submission := router.Group("/submission", requireSession)
	{
		judged := submission.Group("",
			middleware.RateLimiter(ctx, d.RateLimitPerMin),
			middleware.BodySizeLimit(d.MaxBodyBytes),
		)
		judged.POST("/run/:problemId", subHandler.Run)
		judged.POST("/submit/:problemId", subHandler.Submit)

		submission.GET("/:id", subHandler.GetByID)
		submission.GET("/:id/stream", wsHandler.Stream)
	}

	problem := router.Group("/problem", requireSession)
	{
		problem.GET("/submittedProblem/:problemId", subHandler.ListForProblem)
		problem.GET("/problemSolvedByUser", userHandler.Solved)
	}

	user := router.Group("/user", requireSession)
	{
		user.POST("/logout", userHandler.Logout)
	}

	return router
}
