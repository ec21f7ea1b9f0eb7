package services

import (
	"context"
	"time"

	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/RainParade/rain-parade-backend/types"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type HealthService struct {
	dbPool      *pgxpool.Pool
	redisClient redis.UniversalClient
	prediction  PredictionServiceInterface
	version     string
	log         *zap.SugaredLogger
}

func NewHealthService(dbPool *pgxpool.Pool, redisClient redis.UniversalClient, prediction PredictionServiceInterface, version string) *HealthService {
	return &HealthService{
		dbPool:      dbPool,
		redisClient: redisClient,
		prediction:  prediction,
		version:     version,
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	// Check database
	dbStatus := h.checkDatabase(ctx)
	components["database"] = dbStatus
	if dbStatus.Status == types.HealthStatusDown {
		overallStatus = types.HealthStatusDown
	}

	// Check Redis
	redisStatus := h.checkRedis(ctx)
	components["redis"] = redisStatus
	if redisStatus.Status == types.HealthStatusDown {
		overallStatus = types.HealthStatusDown
	}

	// Check classifier. A missing model degrades the service rather than
	// taking it down: every other view still works.
	modelStatus := h.checkClassifier()
	components["classifier"] = modelStatus
	if modelStatus.Status == types.HealthStatusDegraded && overallStatus == types.HealthStatusUp {
		overallStatus = types.HealthStatusDegraded
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	if h.dbPool == nil {
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database pool not configured",
		}
	}
	if err := h.dbPool.Ping(ctx); err != nil {
		h.log.Errorw("Database health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
		}
	}
	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if h.redisClient == nil {
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis client not configured",
		}
	}
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}

func (h *HealthService) checkClassifier() types.HealthComponent {
	if h.prediction == nil || !h.prediction.Available() {
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "Rain classifier artifact not loaded; predictions unavailable",
		}
	}
	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}
