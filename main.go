package main

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/RainParade/rain-parade-backend/cache"
	"github.com/RainParade/rain-parade-backend/config"
	"github.com/RainParade/rain-parade-backend/db"
	apperrors "github.com/RainParade/rain-parade-backend/errors"
	"github.com/RainParade/rain-parade-backend/handlers"
	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/RainParade/rain-parade-backend/pkg/classifier"
	"github.com/RainParade/rain-parade-backend/router"
	"github.com/RainParade/rain-parade-backend/services"
	"github.com/RainParade/rain-parade-backend/store/postgres"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Database connection and schema migrations
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis client with TLS in production
	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{
			ServerName: strings.Split(cfg.Redis.Address, ":")[0],
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() { _ = redisClient.Close() }()

	log.Infow("Connecting to Redis",
		"address", cfg.Redis.Address,
		"password", logger.MaskSensitiveString(cfg.Redis.Password, 2, 2))

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnw("Redis unavailable at startup, API caching and rate limiting degraded", "error", err)
	}

	apiCache := cache.NewRedisCache(redisClient)

	// Classifier artifact. A load failure degrades the prediction view
	// instead of preventing startup: forecasts and history still serve.
	model, err := classifier.Load(cfg.Model.ArtifactPath)
	if err != nil {
		loadErr := apperrors.ArtifactLoadFailed(cfg.Model.ArtifactPath, err)
		log.Errorw("Failed to load rain classifier, predictions disabled",
			"path", cfg.Model.ArtifactPath, "error", loadErr)
		model = nil
	} else {
		log.Infow("Loaded rain classifier", "version", model.Version())
	}

	// Stores and services
	eventStore := postgres.NewEventStore(pool)
	geocodeService := services.NewGeocodeService(&cfg.Weather)
	forecastService := services.NewForecastService(&cfg.Weather, apiCache)
	historyService := services.NewHistoryService(&cfg.Weather, apiCache)
	predictionService := services.NewPredictionService(model)
	healthService := services.NewHealthService(pool, redisClient, predictionService, cfg.Server.Version)

	// Handlers
	deps := router.Dependencies{
		Config:           cfg,
		RedisClient:      redisClient,
		EventHandler:     handlers.NewEventHandler(eventStore, geocodeService),
		DashboardHandler: handlers.NewDashboardHandler(eventStore, forecastService, historyService, predictionService),
		HealthHandler:    handlers.NewHealthHandler(healthService),
		Logger:           log,
	}

	r := router.SetupRouter(deps)

	log.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
