package models

import "errors"

// Error constants for acquisition flow operations
var (
	ErrProviderRejected    = errors.New("provider rejected the supplied credentials")
	ErrPersistenceRejected = errors.New("persistence backend rejected the profile")
	ErrMalformedRetrieval  = errors.New("retrieval result is missing expected fields")
	ErrCredentialsRequired = errors.New("both provider credentials are required")
	ErrRetrievalInFlight   = errors.New("a retrieval is already in flight")
	ErrSubmissionInFlight  = errors.New("a submission is already in flight")
	ErrValidationFailed    = errors.New("draft failed validation")
	ErrStaleResponse       = errors.New("response arrived for a superseded draft")
	ErrFlowSubmitted       = errors.New("flow is already submitted")
	ErrFlowNotFound        = errors.New("acquisition flow not found")
	ErrProfileNotFound     = errors.New("no profile record for this tax identifier")
	ErrInvalidMode         = errors.New("invalid acquisition mode")
	ErrUnknownField        = errors.New("unknown profile field")
)
