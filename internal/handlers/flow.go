package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govgr-digital/profile-api/internal/models"
	"github.com/govgr-digital/profile-api/internal/observability"
	"github.com/govgr-digital/profile-api/internal/services"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// FlowManagerInstance is the shared flow registry, set during startup
var FlowManagerInstance *services.FlowManager

// ErrorResponse is the error payload returned by all endpoints
type ErrorResponse struct {
	Error string `json:"error"`
}

// FlowResponse is a flow snapshot together with its addressable ID
type FlowResponse struct {
	FlowID string `json:"flowId"`
	services.FlowSnapshot
}

func flowResponse(id string, controller *services.AcquisitionController) FlowResponse {
	return FlowResponse{FlowID: id, FlowSnapshot: controller.Snapshot()}
}

// lookupFlow resolves the flow ID path parameter, writing the 404 itself when
// the flow is unknown or expired.
func lookupFlow(c *gin.Context) (string, *services.AcquisitionController, bool) {
	id := c.Param("flow_id")
	controller, err := FlowManagerInstance.GetFlow(id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Flow not found or expired"})
		return "", nil, false
	}
	return id, controller, true
}

// CreateFlow godoc
// @Summary Start a profile acquisition flow
// @Description Creates a fresh acquisition flow in the idle state and returns its ID and initial snapshot.
// @Tags flow
// @Produce json
// @Success 201 {object} FlowResponse "Flow created"
// @Router /flows [post]
func CreateFlow(c *gin.Context) {
	_, span := otel.Tracer("").Start(c.Request.Context(), "CreateFlow")
	defer span.End()

	id, controller := FlowManagerInstance.CreateFlow()
	span.SetAttributes(attribute.String("flow_id", id))

	c.JSON(http.StatusCreated, flowResponse(id, controller))
}

// GetFlow godoc
// @Summary Read a flow snapshot
// @Description Returns the current draft, mode, state, field errors and status line of the flow. The provider password is never included.
// @Tags flow
// @Produce json
// @Param flow_id path string true "Flow ID"
// @Success 200 {object} FlowResponse "Current snapshot"
// @Failure 404 {object} ErrorResponse "Flow not found or expired"
// @Router /flows/{flow_id} [get]
func GetFlow(c *gin.Context) {
	_, span := otel.Tracer("").Start(c.Request.Context(), "GetFlow")
	defer span.End()

	id, controller, ok := lookupFlow(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("flow_id", id))

	c.JSON(http.StatusOK, flowResponse(id, controller))
}

// SelectModeRequest selects the acquisition mode for a flow
type SelectModeRequest struct {
	Mode string `json:"mode" binding:"required" example:"automated"`
}

// SelectFlowMode godoc
// @Summary Select the acquisition mode
// @Description Switches the flow between manual and automated acquisition. Entered data is kept; only the set of required fields changes.
// @Tags flow
// @Accept json
// @Produce json
// @Param flow_id path string true "Flow ID"
// @Param request body SelectModeRequest true "Mode selection"
// @Success 200 {object} FlowResponse "Updated snapshot"
// @Failure 400 {object} ErrorResponse "Unknown mode"
// @Failure 404 {object} ErrorResponse "Flow not found or expired"
// @Failure 409 {object} ErrorResponse "Flow already submitted"
// @Router /flows/{flow_id}/mode [put]
func SelectFlowMode(c *gin.Context) {
	_, span := otel.Tracer("").Start(c.Request.Context(), "SelectFlowMode")
	defer span.End()

	id, controller, ok := lookupFlow(c)
	if !ok {
		return
	}

	var req SelectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := controller.SelectMode(req.Mode); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidMode):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown acquisition mode"})
		case errors.Is(err, models.ErrFlowSubmitted):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Flow already submitted"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to select mode"})
		}
		return
	}

	span.SetAttributes(
		attribute.String("flow_id", id),
		attribute.String("mode", req.Mode),
	)

	c.JSON(http.StatusOK, flowResponse(id, controller))
}

// EditFieldRequest writes one draft field
type EditFieldRequest struct {
	Name  string `json:"name" binding:"required" example:"afm"`
	Value string `json:"value" example:"123456789"`
}

// EditFlowField godoc
// @Summary Edit a draft field
// @Description Writes a single profile field on the draft. Values are stored as-is; validation happens at submission.
// @Tags flow
// @Accept json
// @Produce json
// @Param flow_id path string true "Flow ID"
// @Param request body EditFieldRequest true "Field write"
// @Success 200 {object} FlowResponse "Updated snapshot"
// @Failure 400 {object} ErrorResponse "Unknown field"
// @Failure 404 {object} ErrorResponse "Flow not found or expired"
// @Failure 409 {object} ErrorResponse "Flow already submitted"
// @Router /flows/{flow_id}/fields [put]
func EditFlowField(c *gin.Context) {
	_, span := otel.Tracer("").Start(c.Request.Context(), "EditFlowField")
	defer span.End()

	id, controller, ok := lookupFlow(c)
	if !ok {
		return
	}

	var req EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := controller.EditField(req.Name, req.Value); err != nil {
		switch {
		case errors.Is(err, models.ErrUnknownField):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown profile field"})
		case errors.Is(err, models.ErrFlowSubmitted):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Flow already submitted"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to edit field"})
		}
		return
	}

	span.SetAttributes(
		attribute.String("flow_id", id),
		attribute.String("field", req.Name),
	)

	c.JSON(http.StatusOK, flowResponse(id, controller))
}

// CredentialPersistenceResponse reports the new persistence setting
type CredentialPersistenceResponse struct {
	PersistCredentials bool `json:"persistCredentials"`
}

// ToggleCredentialPersistence godoc
// @Summary Toggle credential persistence
// @Description Flips whether the Taxisnet credential pair is kept on the draft after a successful retrieval.
// @Tags flow
// @Produce json
// @Param flow_id path string true "Flow ID"
// @Success 200 {object} CredentialPersistenceResponse "New setting"
// @Failure 404 {object} ErrorResponse "Flow not found or expired"
// @Router /flows/{flow_id}/credentials/persistence [post]
func ToggleCredentialPersistence(c *gin.Context) {
	_, controller, ok := lookupFlow(c)
	if !ok {
		return
	}

	persist := controller.ToggleCredentialPersistence()
	c.JSON(http.StatusOK, CredentialPersistenceResponse{PersistCredentials: persist})
}

// TriggerRetrieval godoc
// @Summary Run the automated Taxisnet retrieval
// @Description Fetches the citizen's data from Taxisnet with the credentials on the draft and merges the result. Requires both credentials; rejected locally otherwise. The snapshot carries the outcome in its status line.
// @Tags flow
// @Produce json
// @Param flow_id path string true "Flow ID"
// @Success 200 {object} FlowResponse "Retrieval merged"
// @Failure 404 {object} ErrorResponse "Flow not found or expired"
// @Failure 409 {object} ErrorResponse "Retrieval already in flight or flow submitted"
// @Failure 422 {object} FlowResponse "Credentials missing"
// @Failure 502 {object} FlowResponse "Provider rejection or transport failure"
// @Router /flows/{flow_id}/retrieval [post]
func TriggerRetrieval(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "TriggerRetrieval")
	defer span.End()

	id, controller, ok := lookupFlow(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("flow_id", id))
	logger := observability.Logger().With(zap.String("flow_id", id))

	err := controller.TriggerRetrieval(ctx)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrFlowSubmitted):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Flow already submitted"})
		case errors.Is(err, models.ErrRetrievalInFlight):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "A retrieval is already in flight"})
		case errors.Is(err, models.ErrSubmissionInFlight):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "A submission is in flight"})
		case errors.Is(err, models.ErrStaleResponse):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Flow was reset while the retrieval was in flight"})
		case errors.Is(err, models.ErrCredentialsRequired):
			// The snapshot carries the citizen-facing status line.
			c.JSON(http.StatusUnprocessableEntity, flowResponse(id, controller))
		default:
			logger.Warn("retrieval trigger failed",
				zap.Duration("duration", time.Since(startTime)),
				zap.Error(err))
			c.JSON(http.StatusBadGateway, flowResponse(id, controller))
		}
		return
	}

	logger.Debug("retrieval trigger completed",
		zap.Duration("duration", time.Since(startTime)))

	c.JSON(http.StatusOK, flowResponse(id, controller))
}

// TriggerSubmission godoc
// @Summary Validate and submit the draft
// @Description Runs the validation pass for the selected mode and persists the profile when clean. On validation failure the snapshot carries the per-field error set.
// @Tags flow
// @Produce json
// @Param flow_id path string true "Flow ID"
// @Success 200 {object} FlowResponse "Profile submitted"
// @Failure 400 {object} ErrorResponse "No acquisition mode selected"
// @Failure 404 {object} ErrorResponse "Flow not found or expired"
// @Failure 409 {object} ErrorResponse "Submission already in flight or flow submitted"
// @Failure 422 {object} FlowResponse "Validation failed"
// @Failure 502 {object} FlowResponse "Persistence rejection or transport failure"
// @Router /flows/{flow_id}/submission [post]
func TriggerSubmission(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "TriggerSubmission")
	defer span.End()

	id, controller, ok := lookupFlow(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("flow_id", id))
	logger := observability.Logger().With(zap.String("flow_id", id))

	err := controller.TriggerSubmit(ctx)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrFlowSubmitted):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Flow already submitted"})
		case errors.Is(err, models.ErrSubmissionInFlight):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "A submission is already in flight"})
		case errors.Is(err, models.ErrRetrievalInFlight):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "A retrieval is in flight"})
		case errors.Is(err, models.ErrStaleResponse):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Flow was reset while the submission was in flight"})
		case errors.Is(err, models.ErrInvalidMode):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Select an acquisition mode before submitting"})
		case errors.Is(err, models.ErrValidationFailed):
			c.JSON(http.StatusUnprocessableEntity, flowResponse(id, controller))
		default:
			logger.Warn("submission trigger failed",
				zap.Duration("duration", time.Since(startTime)),
				zap.Error(err))
			c.JSON(http.StatusBadGateway, flowResponse(id, controller))
		}
		return
	}

	logger.Info("flow submitted",
		zap.Duration("duration", time.Since(startTime)))

	c.JSON(http.StatusOK, flowResponse(id, controller))
}

// ResetFlow godoc
// @Summary Reset a flow
// @Description Discards the draft and returns the flow to the idle state. Any in-flight retrieval or submission completes as stale.
// @Tags flow
// @Produce json
// @Param flow_id path string true "Flow ID"
// @Success 200 {object} FlowResponse "Fresh snapshot"
// @Failure 404 {object} ErrorResponse "Flow not found or expired"
// @Router /flows/{flow_id}/reset [post]
func ResetFlow(c *gin.Context) {
	_, span := otel.Tracer("").Start(c.Request.Context(), "ResetFlow")
	defer span.End()

	id, controller, ok := lookupFlow(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("flow_id", id))

	controller.Reset()

	c.JSON(http.StatusOK, flowResponse(id, controller))
}

// DeleteFlow godoc
// @Summary Discard a flow
// @Description Removes the flow from the registry entirely.
// @Tags flow
// @Param flow_id path string true "Flow ID"
// @Success 204 "Flow discarded"
// @Failure 404 {object} ErrorResponse "Flow not found or expired"
// @Router /flows/{flow_id} [delete]
func DeleteFlow(c *gin.Context) {
	id, _, ok := lookupFlow(c)
	if !ok {
		return
	}

	FlowManagerInstance.DeleteFlow(id)
	c.Status(http.StatusNoContent)
}
