package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govgr-digital/profile-api/internal/models"
	"github.com/govgr-digital/profile-api/internal/observability"
	"github.com/govgr-digital/profile-api/internal/services"
	"github.com/govgr-digital/profile-api/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ProfileStoreInstance is the shared profile store, set during startup
var ProfileStoreInstance services.ProfileStore

// GetProfile godoc
// @Summary Read a submitted profile
// @Description Returns the submitted profile record for a tax identifier.
// @Tags profile
// @Produce json
// @Param afm path string true "Tax identifier (9 digits)" minLength(9) maxLength(9)
// @Success 200 {object} models.ProfileRecord "Profile record"
// @Failure 400 {object} ErrorResponse "Malformed tax identifier"
// @Failure 404 {object} ErrorResponse "No profile for this tax identifier"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/{afm} [get]
func GetProfile(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetProfile")
	defer span.End()

	afm := c.Param("afm")
	logger := observability.Logger().With(zap.String("afm", observability.MaskAFM(afm)))

	span.SetAttributes(
		attribute.String("operation", "get_profile"),
		attribute.String("service", "profile"),
	)

	ctx, formatSpan := utils.TraceInputValidation(ctx, "afm_format", "afm")
	if msg := utils.ValidateAFMFormat(afm); msg != "" || afm == "" {
		utils.RecordErrorInSpan(formatSpan, errors.New("malformed tax identifier"), map[string]interface{}{
			"validation.result": "malformed_afm",
		})
		formatSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Malformed tax identifier"})
		return
	}
	formatSpan.End()

	record, err := ProfileStoreInstance.GetProfile(ctx, afm)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No profile for this tax identifier"})
			return
		}
		logger.Error("failed to read profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read profile"})
		return
	}

	logger.Debug("GetProfile completed",
		zap.Duration("total_duration", time.Since(startTime)))

	c.JSON(http.StatusOK, record)
}
