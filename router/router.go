package router

import (
	"time"

	"github.com/RainParade/rain-parade-backend/config"
	"github.com/RainParade/rain-parade-backend/handlers"
	"github.com/RainParade/rain-parade-backend/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config           *config.Config
	RedisClient      redis.UniversalClient
	EventHandler     *handlers.EventHandler
	DashboardHandler *handlers.DashboardHandler
	HealthHandler    *handlers.HealthHandler
	Logger           *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Versioned API Group (v1)
	v1 := r.Group("/v1")
	if deps.RedisClient != nil {
		window := time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second
		v1.Use(middleware.APIRateLimiter(deps.RedisClient, deps.Config.RateLimit.RequestsPerMinute, window))
	}
	{
		eventRoutes := v1.Group("/events")
		{
			eventRoutes.POST("", deps.EventHandler.CreateEvent)
			eventRoutes.GET("", deps.EventHandler.ListEvents)
			eventRoutes.GET("/:id", deps.EventHandler.GetEvent)
			eventRoutes.PATCH("/:id", deps.EventHandler.UpdateEvent)
			eventRoutes.DELETE("/:id", deps.EventHandler.DeleteEvent)
			eventRoutes.POST("/:id/location", deps.EventHandler.UpdateLocation)

			// Weather views recomputed from the stored configuration
			eventRoutes.GET("/:id/dashboard", deps.DashboardHandler.GetDashboard)
			eventRoutes.GET("/:id/history", deps.DashboardHandler.GetHistory)
			eventRoutes.GET("/:id/suggestions", deps.DashboardHandler.GetSuggestions)
		}
	}

	return r
}
