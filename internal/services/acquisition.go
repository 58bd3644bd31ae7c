package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/govgr-digital/profile-api/internal/logging"
	"github.com/govgr-digital/profile-api/internal/models"
	"github.com/govgr-digital/profile-api/internal/observability"
	"github.com/govgr-digital/profile-api/internal/utils"
	"go.uber.org/zap"
)

// Status messages surfaced to the citizen. User-facing text is Greek; log
// messages stay English.
const (
	StatusRetrievalSuccess    = "Τα στοιχεία ανακτήθηκαν επιτυχώς!"
	StatusRetrievalRejected   = "Σφάλμα κατά την ανάκτηση στοιχείων"
	StatusRetrievalTransport  = "Σφάλμα σύνδεσης με το Taxisnet"
	StatusSubmissionSuccess   = "Τα στοιχεία αποθηκεύτηκαν επιτυχώς!"
	StatusSubmissionRejected  = "Σφάλμα κατά την αποθήκευση των στοιχείων"
	StatusSubmissionTransport = "Σφάλμα επικοινωνίας με τον server"
	StatusValidationFailed    = "Παρακαλώ διορθώστε τα σφάλματα στη φόρμα"
	StatusCredentialsRequired = "Συμπληρώστε τους κωδικούς Taxisnet για αυτόματη ανάκτηση"
)

// AcquisitionController drives one citizen's profile acquisition flow: mode
// selection, field edits, the automated retrieval round-trip, validation and
// final submission. All exported methods are safe for concurrent use.
//
// The mutex guards the flow fields only and is never held across a network
// call. Before a retrieval or submission leaves, the controller snapshots
// what the call needs plus the current generation, releases the lock, and on
// return re-acquires it and compares generations. A completion whose
// generation no longer matches belongs to a draft the citizen has since
// reset or re-moded; it is discarded without touching the flow.
type AcquisitionController struct {
	mu sync.Mutex

	draft      models.ProfileDraft
	mode       models.AcquisitionMode
	state      models.FlowState
	errors     models.ErrorSet
	status     string
	generation uint64

	retrieving bool
	submitting bool

	retriever RetrievalClient
	store     ProfileStore
	logger    *logging.SafeLogger
}

// FlowSnapshot is a point-in-time copy of the flow surface the presentation
// layer renders from. The draft's provider password is excluded by its JSON
// tag.
type FlowSnapshot struct {
	Draft      models.ProfileDraft    `json:"draft"`
	Mode       models.AcquisitionMode `json:"mode"`
	State      models.FlowState       `json:"state"`
	Errors     models.ErrorSet        `json:"errors"`
	Status     string                 `json:"status"`
	Generation uint64                 `json:"generation"`
}

// NewAcquisitionController creates a controller in the idle state
func NewAcquisitionController(retriever RetrievalClient, store ProfileStore, logger *logging.SafeLogger) *AcquisitionController {
	return &AcquisitionController{
		state:     models.StateIdle,
		errors:    models.ErrorSet{},
		retriever: retriever,
		store:     store,
		logger:    logger,
	}
}

// SelectMode switches the acquisition mode. Switching never clears entered
// data; it only changes which fields the next validation pass requires. It
// bumps the generation, so any retrieval or submission already in flight
// completes as stale.
func (c *AcquisitionController) SelectMode(mode string) error {
	if !models.IsValidAcquisitionMode(mode) {
		return models.ErrInvalidMode
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == models.StateSubmitted {
		return models.ErrFlowSubmitted
	}

	c.mode = models.AcquisitionMode(mode)
	c.state = models.StateEditing
	c.errors = models.ErrorSet{}
	c.generation++

	c.logger.Debug("acquisition mode selected",
		zap.String("mode", mode),
		zap.Uint64("generation", c.generation))

	return nil
}

// EditField writes a single draft field. Values are stored as-is, valid or
// not; validation is a separate pass. Edits are accepted in every state
// except submitted, including while a retrieval is pending.
func (c *AcquisitionController) EditField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == models.StateSubmitted {
		return models.ErrFlowSubmitted
	}

	if err := models.SetFieldValue(&c.draft, name, value); err != nil {
		return err
	}

	if c.state == models.StateIdle {
		c.state = models.StateEditing
	}

	return nil
}

// ToggleCredentialPersistence flips whether the credential pair survives the
// next merge, and returns the new value.
func (c *AcquisitionController) ToggleCredentialPersistence() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.PersistCredentials = !c.draft.PersistCredentials
	return c.draft.PersistCredentials
}

// TriggerRetrieval runs the automated Taxisnet round-trip. Both credentials
// must be non-blank or the call is rejected locally without any provider
// traffic and without a state change. A second trigger while one is pending
// is a no-op error, and so is a trigger while a submission is pending; a
// pending submission may land in the terminal submitted state, which no
// retrieval is allowed to follow. On success the provider result is merged
// into the draft; on any failure the draft is untouched and only the status
// line changes.
func (c *AcquisitionController) TriggerRetrieval(ctx context.Context) error {
	ctx, span := utils.TraceBusinessLogic(ctx, "trigger_retrieval")
	defer span.End()

	c.mu.Lock()

	if c.state == models.StateSubmitted {
		c.mu.Unlock()
		return models.ErrFlowSubmitted
	}
	if c.retrieving {
		c.mu.Unlock()
		c.logger.Debug("retrieval already in flight, ignoring trigger")
		return models.ErrRetrievalInFlight
	}
	if c.submitting {
		c.mu.Unlock()
		c.logger.Debug("submission in flight, rejecting retrieval trigger")
		return models.ErrSubmissionInFlight
	}

	username := strings.TrimSpace(c.draft.ProviderUsername)
	password := strings.TrimSpace(c.draft.ProviderPassword)
	if username == "" || password == "" {
		c.status = StatusCredentialsRequired
		c.mu.Unlock()
		observability.RetrievalAttempts.WithLabelValues("credentials_missing").Inc()
		return models.ErrCredentialsRequired
	}

	c.retrieving = true
	c.state = models.StateRetrieving
	c.status = ""
	gen := c.generation
	start := time.Now()
	c.mu.Unlock()

	result, err := c.retriever.FetchCitizenData(ctx, username, password)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.retrieving = false

	if c.generation != gen || c.state == models.StateSubmitted {
		// The draft this call was fired for no longer exists; a reset or
		// mode switch already repositioned the flow, or a submission landed
		// and the flow is terminal. Either way the completion must not apply.
		c.logger.Info("discarding stale retrieval completion",
			zap.Uint64("fired_for", gen),
			zap.Uint64("current", c.generation),
			zap.String("state", string(c.state)))
		observability.RetrievalAttempts.WithLabelValues("stale").Inc()
		return models.ErrStaleResponse
	}

	c.state = models.StateEditing

	if err != nil {
		switch {
		case errors.Is(err, models.ErrProviderRejected):
			c.status = StatusRetrievalRejected
			observability.RetrievalAttempts.WithLabelValues("rejected").Inc()
		default:
			c.status = StatusRetrievalTransport
			observability.RetrievalAttempts.WithLabelValues("transport_error").Inc()
		}
		c.logger.Warn("retrieval failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		utils.RecordErrorInSpan(span, err, nil)
		return err
	}

	merged, mergeErr := Merge(c.draft, result, c.draft.PersistCredentials)
	if mergeErr != nil {
		// A malformed provider payload is indistinguishable from a broken
		// channel as far as the citizen is concerned.
		c.status = StatusRetrievalTransport
		observability.RetrievalAttempts.WithLabelValues("malformed").Inc()
		c.logger.Warn("retrieval result unusable", zap.Error(mergeErr))
		utils.RecordErrorInSpan(span, mergeErr, nil)
		return mergeErr
	}

	c.draft = merged
	c.errors = models.ErrorSet{}
	c.status = StatusRetrievalSuccess
	observability.RetrievalAttempts.WithLabelValues("success").Inc()

	c.logger.Info("retrieval merged into draft",
		zap.Duration("duration", time.Since(start)),
		zap.Bool("credentials_persisted", c.draft.PersistCredentials))

	return nil
}

// TriggerSubmit validates the draft under the current mode and, if clean,
// persists the submission payload. Validation failures block the submission
// locally and publish the full error set. A second trigger while one is
// pending is a no-op error, as is a trigger while a retrieval is pending:
// the merge the retrieval will apply must not race the payload being
// persisted. Success is terminal: the flow accepts no further edits or
// triggers.
func (c *AcquisitionController) TriggerSubmit(ctx context.Context) error {
	ctx, span := utils.TraceBusinessLogic(ctx, "trigger_submit")
	defer span.End()

	c.mu.Lock()

	if c.state == models.StateSubmitted {
		c.mu.Unlock()
		return models.ErrFlowSubmitted
	}
	if c.submitting {
		c.mu.Unlock()
		c.logger.Debug("submission already in flight, ignoring trigger")
		return models.ErrSubmissionInFlight
	}
	if c.retrieving {
		c.mu.Unlock()
		c.logger.Debug("retrieval in flight, rejecting submission trigger")
		return models.ErrRetrievalInFlight
	}
	if c.mode == "" {
		c.mu.Unlock()
		return models.ErrInvalidMode
	}

	errs := Validate(c.draft, c.mode)
	c.errors = errs
	if !errs.IsValid() {
		c.status = StatusValidationFailed
		mode := string(c.mode)
		violations := len(errs)
		c.mu.Unlock()

		observability.ValidationFailures.WithLabelValues(mode).Inc()
		observability.SubmissionAttempts.WithLabelValues("validation_failed").Inc()
		c.logger.Info("submission blocked by validation",
			zap.String("mode", mode),
			zap.Int("violations", violations))
		return models.ErrValidationFailed
	}

	record := c.draft.Record()
	record.SubmittedAt = time.Now().UTC()

	c.submitting = true
	c.state = models.StateSubmitting
	c.status = ""
	gen := c.generation
	start := time.Now()
	c.mu.Unlock()

	err := c.store.SaveProfile(ctx, record)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.submitting = false

	if c.generation != gen || c.state == models.StateSubmitted {
		c.logger.Info("discarding stale submission completion",
			zap.Uint64("fired_for", gen),
			zap.Uint64("current", c.generation),
			zap.String("state", string(c.state)))
		observability.SubmissionAttempts.WithLabelValues("stale").Inc()
		return models.ErrStaleResponse
	}

	if err != nil {
		c.state = models.StateEditing
		switch {
		case errors.Is(err, models.ErrPersistenceRejected):
			c.status = StatusSubmissionRejected
			observability.SubmissionAttempts.WithLabelValues("rejected").Inc()
		default:
			c.status = StatusSubmissionTransport
			observability.SubmissionAttempts.WithLabelValues("transport_error").Inc()
		}
		c.logger.Warn("submission failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		utils.RecordErrorInSpan(span, err, nil)
		return err
	}

	c.state = models.StateSubmitted
	c.status = StatusSubmissionSuccess
	observability.SubmissionAttempts.WithLabelValues("success").Inc()

	c.logger.Info("profile submitted",
		zap.String("mode", string(c.mode)),
		zap.Duration("duration", time.Since(start)))

	return nil
}

// Snapshot returns a copy of the current flow surface. The error set is
// deep-copied so the caller cannot race the controller.
func (c *AcquisitionController) Snapshot() FlowSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make(models.ErrorSet, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}

	return FlowSnapshot{
		Draft:      c.draft,
		Mode:       c.mode,
		State:      c.state,
		Errors:     errs,
		Status:     c.status,
		Generation: c.generation,
	}
}

// Reset discards the draft and returns the flow to idle. The generation bump
// strands any in-flight completion, so nothing retrieved or persisted for
// the old draft can leak into the fresh one.
func (c *AcquisitionController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = models.ProfileDraft{}
	c.mode = ""
	c.state = models.StateIdle
	c.errors = models.ErrorSet{}
	c.status = ""
	c.generation++

	c.logger.Debug("flow reset", zap.Uint64("generation", c.generation))
}
