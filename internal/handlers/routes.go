package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"workout-planner-api/internal/config"
	"workout-planner-api/internal/metrics"
	"workout-planner-api/internal/middleware"
	"workout-planner-api/internal/models"
	"workout-planner-api/internal/services"
)

// DefaultMaxBodyBytes caps request bodies on the local server
const DefaultMaxBodyBytes = 1 << 20

// ServiceVersion is reported by the health endpoint
const ServiceVersion = "1.0.0"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	WorkoutService services.WorkoutService
	Metrics        *metrics.Manager
	RateLimit      config.RateLimitConfig
	MaxBodyBytes   int64
	SlowRequest    time.Duration
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouterConfig) {
	helloHandler := NewHelloHandler()
	workoutHandler := NewWorkoutHandler(cfg.WorkoutService, cfg.Metrics)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthCheck{
			Status:  "healthy",
			Service: "workout-planner-api",
			Version: ServiceVersion,
			Mode:    config.GetDeploymentMode(),
		})
	})

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	router.GET("/hello", helloHandler.Hello)
	router.POST("/hello", helloHandler.Hello)
	router.POST("/workout", workoutHandler.PlanWorkout)

	router.NoRoute(func(c *gin.Context) {
		writeResponse(c, messageResponse(http.StatusNotFound, models.NotFoundMessage))
	})
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, cfg *RouterConfig) {
	// Request ID first so every later log line carries it
	router.Use(middleware.RequestID())

	router.Use(middleware.Recovery(cfg.Metrics))

	if cfg.Metrics != nil {
		router.Use(middleware.RequestMetrics(cfg.Metrics))
	}

	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	router.Use(middleware.RequestSizeLimit(maxBody))

	if cfg.RateLimit.RequestsPerSecond > 0 && cfg.RateLimit.Burst > 0 {
		router.Use(middleware.RateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	router.Use(middleware.StructuredLogger())
	router.Use(middleware.PerformanceMonitor(cfg.SlowRequest))
}
