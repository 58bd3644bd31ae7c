package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govgr-digital/profile-api/internal/config"
	"github.com/govgr-digital/profile-api/internal/observability"
	"github.com/govgr-digital/profile-api/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// HealthResponse reports the health of the service and its dependencies
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck godoc
// @Summary Health check
// @Description Reports whether the service and its backing stores are reachable.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Service healthy"
// @Failure 503 {object} HealthResponse "One or more dependencies unavailable"
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
	defer span.End()

	span.SetAttributes(
		attribute.String("operation", "health_check"),
		attribute.String("service", "health"),
	)

	logger := observability.Logger()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	_, mongoSpan := utils.TraceExternalService(ctx, "mongodb", "ping")
	if err := config.MongoDB.Client().Ping(ctx, nil); err != nil {
		utils.RecordErrorInSpan(mongoSpan, err, nil)
		health.Status = "unhealthy"
		health.Services["mongodb"] = "unavailable"
		logger.Error("mongodb health check failed", zap.Error(err))
	} else {
		health.Services["mongodb"] = "ok"
	}
	mongoSpan.End()

	_, redisSpan := utils.TraceExternalService(ctx, "redis", "ping")
	if err := config.Redis.Ping(ctx).Err(); err != nil {
		utils.RecordErrorInSpan(redisSpan, err, nil)
		health.Status = "unhealthy"
		health.Services["redis"] = "unavailable"
		logger.Error("redis health check failed", zap.Error(err))
	} else {
		health.Services["redis"] = "ok"
	}
	redisSpan.End()

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, health)

	logger.Debug("HealthCheck completed",
		zap.String("status", health.Status),
		zap.Duration("total_duration", time.Since(startTime)))
}
