package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/govgr-digital/profile-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRetriever is a scriptable RetrievalClient. When block is set, each call
// signals started and waits on release, so tests can interleave flow
// operations with an in-flight retrieval.
type fakeRetriever struct {
	result  *models.RetrievalResult
	err     error
	calls   atomic.Int32
	block   bool
	started chan struct{}
	release chan struct{}
}

func (f *fakeRetriever) FetchCitizenData(ctx context.Context, username, password string) (*models.RetrievalResult, error) {
	f.calls.Add(1)
	if f.block {
		f.started <- struct{}{}
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeStore struct {
	err     error
	saved   []models.ProfileRecord
	calls   atomic.Int32
	block   bool
	started chan struct{}
	release chan struct{}
}

func (f *fakeStore) SaveProfile(ctx context.Context, record models.ProfileRecord) error {
	f.calls.Add(1)
	if f.block {
		f.started <- struct{}{}
		<-f.release
	}
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeStore) GetProfile(ctx context.Context, afm string) (*models.ProfileRecord, error) {
	return nil, models.ErrProfileNotFound
}

func newBlockingRetriever(result *models.RetrievalResult) *fakeRetriever {
	return &fakeRetriever{
		result:  result,
		block:   true,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func newTestController(retriever RetrievalClient, store ProfileStore) *AcquisitionController {
	return NewAcquisitionController(retriever, store, nil)
}

func fillManualDraft(t *testing.T, c *AcquisitionController) {
	t.Helper()
	draft := completeManualDraft()
	for _, spec := range models.ProfileSchema() {
		value, err := models.FieldValue(&draft, spec.Name)
		require.NoError(t, err)
		if value != "" {
			require.NoError(t, c.EditField(spec.Name, value))
		}
	}
}

func TestControllerStartsIdle(t *testing.T) {
	c := newTestController(&fakeRetriever{}, &fakeStore{})
	snap := c.Snapshot()

	assert.Equal(t, models.StateIdle, snap.State)
	assert.Empty(t, snap.Mode)
	assert.True(t, snap.Errors.IsValid())
	assert.Empty(t, snap.Status)
}

func TestSelectMode(t *testing.T) {
	t.Run("moves idle flow into editing", func(t *testing.T) {
		c := newTestController(&fakeRetriever{}, &fakeStore{})
		require.NoError(t, c.SelectMode("manual"))

		snap := c.Snapshot()
		assert.Equal(t, models.ModeManual, snap.Mode)
		assert.Equal(t, models.StateEditing, snap.State)
	})

	t.Run("switching keeps entered data", func(t *testing.T) {
		c := newTestController(&fakeRetriever{}, &fakeStore{})
		require.NoError(t, c.SelectMode("manual"))
		require.NoError(t, c.EditField(models.FieldFirstName, "Γιώργος"))
		require.NoError(t, c.SelectMode("automated"))

		snap := c.Snapshot()
		assert.Equal(t, models.ModeAutomated, snap.Mode)
		assert.Equal(t, "Γιώργος", snap.Draft.FirstName)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		c := newTestController(&fakeRetriever{}, &fakeStore{})
		assert.ErrorIs(t, c.SelectMode("telepathic"), models.ErrInvalidMode)
	})
}

func TestEditField(t *testing.T) {
	t.Run("stores values as-is without validating", func(t *testing.T) {
		c := newTestController(&fakeRetriever{}, &fakeStore{})
		require.NoError(t, c.EditField(models.FieldAFM, "not-a-tax-id"))

		snap := c.Snapshot()
		assert.Equal(t, "not-a-tax-id", snap.Draft.AFM)
		assert.True(t, snap.Errors.IsValid(), "editing never produces errors")
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		c := newTestController(&fakeRetriever{}, &fakeStore{})
		assert.ErrorIs(t, c.EditField("shoeSize", "44"), models.ErrUnknownField)
	})
}

func TestToggleCredentialPersistence(t *testing.T) {
	c := newTestController(&fakeRetriever{}, &fakeStore{})

	assert.True(t, c.ToggleCredentialPersistence())
	assert.False(t, c.ToggleCredentialPersistence())
}

func TestTriggerRetrievalRequiresBothCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "both empty"},
		{name: "username only", username: "user1"},
		{name: "password only", password: "secret"},
		{name: "blank username", username: "   ", password: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retriever := &fakeRetriever{}
			c := newTestController(retriever, &fakeStore{})
			require.NoError(t, c.SelectMode("automated"))
			require.NoError(t, c.EditField(models.FieldProviderUsername, tt.username))
			require.NoError(t, c.EditField(models.FieldProviderPassword, tt.password))

			err := c.TriggerRetrieval(context.Background())

			assert.ErrorIs(t, err, models.ErrCredentialsRequired)
			assert.Equal(t, int32(0), retriever.calls.Load(), "provider must not be contacted")
			snap := c.Snapshot()
			assert.Equal(t, models.StateEditing, snap.State, "rejection causes no state change")
			assert.Equal(t, StatusCredentialsRequired, snap.Status)
		})
	}
}

func TestTriggerRetrievalSuccessMergesDraft(t *testing.T) {
	retriever := &fakeRetriever{result: sampleRetrievalResult()}
	c := newTestController(retriever, &fakeStore{})
	require.NoError(t, c.SelectMode("automated"))
	require.NoError(t, c.EditField(models.FieldProviderUsername, "user1"))
	require.NoError(t, c.EditField(models.FieldProviderPassword, "secret"))
	require.NoError(t, c.EditField(models.FieldAMKA, "12038512345"))

	require.NoError(t, c.TriggerRetrieval(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, models.StateEditing, snap.State)
	assert.Equal(t, StatusRetrievalSuccess, snap.Status)
	assert.Equal(t, "Παπαδόπουλος", snap.Draft.LastName)
	assert.Equal(t, "Γιώργος", snap.Draft.FirstName)
	assert.Equal(t, "12038512345", snap.Draft.AMKA, "provider-silent field survives")
	assert.Empty(t, snap.Draft.ProviderUsername, "credentials cleared after merge")
}

func TestTriggerRetrievalKeepsCredentialsWhenPersisted(t *testing.T) {
	retriever := &fakeRetriever{result: sampleRetrievalResult()}
	c := newTestController(retriever, &fakeStore{})
	require.NoError(t, c.SelectMode("automated"))
	require.NoError(t, c.EditField(models.FieldProviderUsername, "user1"))
	require.NoError(t, c.EditField(models.FieldProviderPassword, "secret"))
	c.ToggleCredentialPersistence()

	require.NoError(t, c.TriggerRetrieval(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, "user1", snap.Draft.ProviderUsername)
}

func TestTriggerRetrievalFailureOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus string
	}{
		{
			name:       "provider rejection",
			err:        models.ErrProviderRejected,
			wantStatus: StatusRetrievalRejected,
		},
		{
			name:       "transport failure",
			err:        fmt.Errorf("failed to send request: connection refused"),
			wantStatus: StatusRetrievalTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(&fakeRetriever{err: tt.err}, &fakeStore{})
			require.NoError(t, c.SelectMode("automated"))
			require.NoError(t, c.EditField(models.FieldProviderUsername, "user1"))
			require.NoError(t, c.EditField(models.FieldProviderPassword, "secret"))
			require.NoError(t, c.EditField(models.FieldCity, "Αθήνα"))

			err := c.TriggerRetrieval(context.Background())

			assert.ErrorIs(t, err, tt.err)
			snap := c.Snapshot()
			assert.Equal(t, models.StateEditing, snap.State)
			assert.Equal(t, tt.wantStatus, snap.Status)
			assert.Equal(t, "Αθήνα", snap.Draft.City, "draft untouched on failure")
		})
	}
}

func TestTriggerRetrievalMalformedResultLeavesDraftUntouched(t *testing.T) {
	result := sampleRetrievalResult()
	result.Address = nil
	c := newTestController(&fakeRetriever{result: result}, &fakeStore{})
	require.NoError(t, c.SelectMode("automated"))
	require.NoError(t, c.EditField(models.FieldProviderUsername, "user1"))
	require.NoError(t, c.EditField(models.FieldProviderPassword, "secret"))
	require.NoError(t, c.EditField(models.FieldBirthPlace, "Πάτρα"))

	err := c.TriggerRetrieval(context.Background())

	assert.ErrorIs(t, err, models.ErrMalformedRetrieval)
	snap := c.Snapshot()
	assert.Equal(t, StatusRetrievalTransport, snap.Status)
	assert.Equal(t, "Πάτρα", snap.Draft.BirthPlace)
	assert.Empty(t, snap.Draft.LastName, "nothing from the malformed result leaks in")
}

func TestTriggerRetrievalSecondTriggerIsNoOp(t *testing.T) {
	retriever := newBlockingRetriever(sampleRetrievalResult())
	c := newTestController(retriever, &fakeStore{})
	require.NoError(t, c.SelectMode("automated"))
	require.NoError(t, c.EditField(models.FieldProviderUsername, "user1"))
	require.NoError(t, c.EditField(models.FieldProviderPassword, "secret"))

	done := make(chan error, 1)
	go func() { done <- c.TriggerRetrieval(context.Background()) }()
	<-retriever.started

	assert.ErrorIs(t, c.TriggerRetrieval(context.Background()), models.ErrRetrievalInFlight)
	assert.Equal(t, int32(1), retriever.calls.Load())

	close(retriever.release)
	require.NoError(t, <-done)
}

func TestTriggerRetrievalStaleCompletionIsDiscarded(t *testing.T) {
	retriever := newBlockingRetriever(sampleRetrievalResult())
	c := newTestController(retriever, &fakeStore{})
	require.NoError(t, c.SelectMode("automated"))
	require.NoError(t, c.EditField(models.FieldProviderUsername, "user1"))
	require.NoError(t, c.EditField(models.FieldProviderPassword, "secret"))

	done := make(chan error, 1)
	go func() { done <- c.TriggerRetrieval(context.Background()) }()
	<-retriever.started

	// The citizen abandons the draft while the call is out.
	c.Reset()

	close(retriever.release)
	assert.ErrorIs(t, <-done, models.ErrStaleResponse)

	snap := c.Snapshot()
	assert.Equal(t, models.StateIdle, snap.State)
	assert.Equal(t, models.ProfileDraft{}, snap.Draft, "stale result must not repopulate the fresh draft")
	assert.Empty(t, snap.Status)
}

func TestTriggerRetrievalEditsDuringFlightSurvive(t *testing.T) {
	retriever := newBlockingRetriever(sampleRetrievalResult())
	c := newTestController(retriever, &fakeStore{})
	require.NoError(t, c.SelectMode("automated"))
	require.NoError(t, c.EditField(models.FieldProviderUsername, "user1"))
	require.NoError(t, c.EditField(models.FieldProviderPassword, "secret"))

	done := make(chan error, 1)
	go func() { done <- c.TriggerRetrieval(context.Background()) }()
	<-retriever.started

	// Field edits stay legal while the retrieval is pending; a field the
	// provider reports will still be overwritten by the merge.
	require.NoError(t, c.EditField(models.FieldAMKA, "12038512345"))

	close(retriever.release)
	require.NoError(t, <-done)

	snap := c.Snapshot()
	assert.Equal(t, "12038512345", snap.Draft.AMKA)
	assert.Equal(t, "Παπαδόπουλος", snap.Draft.LastName)
}

func TestTriggerSubmitValidationGate(t *testing.T) {
	store := &fakeStore{}
	c := newTestController(&fakeRetriever{}, store)
	require.NoError(t, c.SelectMode("manual"))
	require.NoError(t, c.EditField(models.FieldFirstName, "Γιώργος"))

	err := c.TriggerSubmit(context.Background())

	assert.ErrorIs(t, err, models.ErrValidationFailed)
	assert.Equal(t, int32(0), store.calls.Load(), "persistence must not be contacted")
	snap := c.Snapshot()
	assert.Equal(t, models.StateEditing, snap.State)
	assert.Equal(t, StatusValidationFailed, snap.Status)
	assert.False(t, snap.Errors.IsValid())
	assert.NotContains(t, snap.Errors, models.FieldFirstName)
	assert.Contains(t, snap.Errors, models.FieldLastName)
}

func TestTriggerSubmitRequiresMode(t *testing.T) {
	c := newTestController(&fakeRetriever{}, &fakeStore{})
	assert.ErrorIs(t, c.TriggerSubmit(context.Background()), models.ErrInvalidMode)
}

func TestTriggerSubmitSuccess(t *testing.T) {
	store := &fakeStore{}
	c := newTestController(&fakeRetriever{}, store)
	require.NoError(t, c.SelectMode("manual"))
	fillManualDraft(t, c)

	require.NoError(t, c.TriggerSubmit(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, models.StateSubmitted, snap.State)
	assert.Equal(t, StatusSubmissionSuccess, snap.Status)

	require.Len(t, store.saved, 1)
	record := store.saved[0]
	assert.Equal(t, "123456789", record.AFM)
	assert.False(t, record.SubmittedAt.IsZero())
}

func TestTriggerSubmitFailureOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus string
	}{
		{
			name:       "backend rejection",
			err:        models.ErrPersistenceRejected,
			wantStatus: StatusSubmissionRejected,
		},
		{
			name:       "transport failure",
			err:        errors.New("failed to save profile: context deadline exceeded"),
			wantStatus: StatusSubmissionTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(&fakeRetriever{}, &fakeStore{err: tt.err})
			require.NoError(t, c.SelectMode("manual"))
			fillManualDraft(t, c)

			err := c.TriggerSubmit(context.Background())

			assert.ErrorIs(t, err, tt.err)
			snap := c.Snapshot()
			assert.Equal(t, models.StateEditing, snap.State, "flow stays editable after a failed submit")
			assert.Equal(t, tt.wantStatus, snap.Status)
		})
	}
}

func TestSubmittedIsTerminal(t *testing.T) {
	store := &fakeStore{}
	c := newTestController(&fakeRetriever{}, store)
	require.NoError(t, c.SelectMode("manual"))
	fillManualDraft(t, c)
	require.NoError(t, c.TriggerSubmit(context.Background()))

	assert.ErrorIs(t, c.EditField(models.FieldCity, "Πάτρα"), models.ErrFlowSubmitted)
	assert.ErrorIs(t, c.SelectMode("automated"), models.ErrFlowSubmitted)
	assert.ErrorIs(t, c.TriggerRetrieval(context.Background()), models.ErrFlowSubmitted)
	assert.ErrorIs(t, c.TriggerSubmit(context.Background()), models.ErrFlowSubmitted)
	assert.Equal(t, int32(1), store.calls.Load(), "no duplicate persistence")
}

func TestTriggerSubmitSecondTriggerIsNoOp(t *testing.T) {
	store := &fakeStore{
		block:   true,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := newTestController(&fakeRetriever{}, store)
	require.NoError(t, c.SelectMode("manual"))
	fillManualDraft(t, c)

	done := make(chan error, 1)
	go func() { done <- c.TriggerSubmit(context.Background()) }()
	<-store.started

	assert.ErrorIs(t, c.TriggerSubmit(context.Background()), models.ErrSubmissionInFlight)
	assert.Equal(t, int32(1), store.calls.Load())

	close(store.release)
	require.NoError(t, <-done)
}

func TestTriggerRetrievalRejectedWhileSubmissionInFlight(t *testing.T) {
	retriever := &fakeRetriever{result: sampleRetrievalResult()}
	store := &fakeStore{
		block:   true,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := newTestController(retriever, store)
	require.NoError(t, c.SelectMode("automated"))
	require.NoError(t, c.EditField(models.FieldProviderUsername, "user1"))
	require.NoError(t, c.EditField(models.FieldProviderPassword, "secret"))

	done := make(chan error, 1)
	go func() { done <- c.TriggerSubmit(context.Background()) }()
	<-store.started

	// The pending submission may land in the terminal state; no retrieval
	// is allowed to race it.
	assert.ErrorIs(t, c.TriggerRetrieval(context.Background()), models.ErrSubmissionInFlight)
	assert.Equal(t, int32(0), retriever.calls.Load(), "provider must not be contacted")

	close(store.release)
	require.NoError(t, <-done)

	snap := c.Snapshot()
	assert.Equal(t, models.StateSubmitted, snap.State, "submitted stays terminal")
	assert.Empty(t, snap.Draft.LastName, "nothing retrieved leaks into the submitted draft")
}

func TestTriggerSubmitRejectedWhileRetrievalInFlight(t *testing.T) {
	retriever := newBlockingRetriever(sampleRetrievalResult())
	store := &fakeStore{}
	c := newTestController(retriever, store)
	require.NoError(t, c.SelectMode("automated"))
	require.NoError(t, c.EditField(models.FieldProviderUsername, "user1"))
	require.NoError(t, c.EditField(models.FieldProviderPassword, "secret"))

	done := make(chan error, 1)
	go func() { done <- c.TriggerRetrieval(context.Background()) }()
	<-retriever.started

	assert.ErrorIs(t, c.TriggerSubmit(context.Background()), models.ErrRetrievalInFlight)
	assert.Equal(t, int32(0), store.calls.Load(), "persistence must not be contacted")

	close(retriever.release)
	require.NoError(t, <-done)

	// Once the retrieval has landed, the merged draft submits normally.
	require.NoError(t, c.TriggerSubmit(context.Background()))
	snap := c.Snapshot()
	assert.Equal(t, models.StateSubmitted, snap.State)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "Παπαδόπουλος", store.saved[0].LastName)
}

func TestTriggerSubmitStaleCompletionIsDiscarded(t *testing.T) {
	store := &fakeStore{
		block:   true,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := newTestController(&fakeRetriever{}, store)
	require.NoError(t, c.SelectMode("manual"))
	fillManualDraft(t, c)

	done := make(chan error, 1)
	go func() { done <- c.TriggerSubmit(context.Background()) }()
	<-store.started

	c.Reset()

	close(store.release)
	assert.ErrorIs(t, <-done, models.ErrStaleResponse)

	snap := c.Snapshot()
	assert.Equal(t, models.StateIdle, snap.State, "submitted is not entered for a superseded draft")
}

func TestResetReturnsFlowToIdle(t *testing.T) {
	c := newTestController(&fakeRetriever{}, &fakeStore{})
	require.NoError(t, c.SelectMode("manual"))
	require.NoError(t, c.EditField(models.FieldFirstName, "Γιώργος"))
	_ = c.TriggerSubmit(context.Background())

	c.Reset()

	snap := c.Snapshot()
	assert.Equal(t, models.StateIdle, snap.State)
	assert.Equal(t, models.ProfileDraft{}, snap.Draft)
	assert.Empty(t, snap.Mode)
	assert.True(t, snap.Errors.IsValid())
	assert.Empty(t, snap.Status)
}

func TestEndToEndAutomatedFlow(t *testing.T) {
	retriever := &fakeRetriever{result: sampleRetrievalResult()}
	store := &fakeStore{}
	c := newTestController(retriever, store)

	require.NoError(t, c.SelectMode("automated"))
	require.NoError(t, c.EditField(models.FieldProviderUsername, "user1"))
	require.NoError(t, c.EditField(models.FieldProviderPassword, "secret"))
	require.NoError(t, c.TriggerRetrieval(context.Background()))
	require.NoError(t, c.EditField(models.FieldAMKA, "12038512345"))
	require.NoError(t, c.TriggerSubmit(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, models.StateSubmitted, snap.State)

	require.Len(t, store.saved, 1)
	record := store.saved[0]
	assert.Equal(t, "Παπαδόπουλος", record.LastName)
	assert.Equal(t, "Γιώργος", record.FirstName)
	assert.Equal(t, "12038512345", record.AMKA)
	assert.WithinDuration(t, time.Now().UTC(), record.SubmittedAt, time.Minute)
}
