package models

import "time"

// AcquisitionMode selects how a profile draft is populated
type AcquisitionMode string

const (
	// ModeManual means the citizen types every field by hand
	ModeManual AcquisitionMode = "manual"
	// ModeAutomated means the profile is retrieved from Taxisnet with credentials
	ModeAutomated AcquisitionMode = "automated"
)

// IsValidAcquisitionMode reports whether the given mode is known
func IsValidAcquisitionMode(mode string) bool {
	return mode == string(ModeManual) || mode == string(ModeAutomated)
}

// Identity document types accepted by the profile
const (
	IDTypeNationalID = "id"
	IDTypePassport   = "passport"
)

// ValidIDTypeOptions returns the accepted document type values
func ValidIDTypeOptions() []string {
	return []string{IDTypeNationalID, IDTypePassport}
}

// IsValidIDType reports whether the given document type is known
func IsValidIDType(idType string) bool {
	for _, option := range ValidIDTypeOptions() {
		if idType == option {
			return true
		}
	}
	return false
}

// ProfileDraft is the in-progress profile record being edited. It is a plain
// value: every field is always present and string-typed, empty string meaning
// unset. Invalid values are stored as-is and flagged only at validation time.
type ProfileDraft struct {
	// Identity
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	FatherName string `json:"fatherName"`
	MotherName string `json:"motherName"`
	BirthDate  string `json:"birthDate"`
	BirthPlace string `json:"birthPlace"`

	// Identity document
	IDType           string `json:"idType"`
	IDNumber         string `json:"idNumber"`
	IDIssueDate      string `json:"idIssueDate"`
	IDIssueAuthority string `json:"idIssueAuthority"`

	// Fiscal
	AFM  string `json:"afm"`
	AMKA string `json:"amka"`
	DOY  string `json:"doy"`

	// Address
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`

	// Taxisnet credentials, transient. Never part of the submitted record.
	ProviderUsername string `json:"providerUsername"`
	ProviderPassword string `json:"-"`

	// PersistCredentials keeps the credential pair on the draft after a
	// retrieval instead of clearing it.
	PersistCredentials bool `json:"persistCredentials"`
}

// Record converts the draft into the submission payload, dropping the
// credential fields.
func (d ProfileDraft) Record() ProfileRecord {
	return ProfileRecord{
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		FatherName:       d.FatherName,
		MotherName:       d.MotherName,
		BirthDate:        d.BirthDate,
		BirthPlace:       d.BirthPlace,
		IDType:           d.IDType,
		IDNumber:         d.IDNumber,
		IDIssueDate:      d.IDIssueDate,
		IDIssueAuthority: d.IDIssueAuthority,
		AFM:              d.AFM,
		AMKA:             d.AMKA,
		DOY:              d.DOY,
		Street:           d.Street,
		StreetNumber:     d.StreetNumber,
		City:             d.City,
		PostalCode:       d.PostalCode,
	}
}

// ProfileRecord is the submission-ready profile payload persisted for a
// citizen. It carries no credentials.
type ProfileRecord struct {
	FirstName  string `json:"firstName" bson:"first_name"`
	LastName   string `json:"lastName" bson:"last_name"`
	FatherName string `json:"fatherName" bson:"father_name"`
	MotherName string `json:"motherName" bson:"mother_name"`
	BirthDate  string `json:"birthDate" bson:"birth_date"`
	BirthPlace string `json:"birthPlace" bson:"birth_place"`

	IDType           string `json:"idType" bson:"id_type"`
	IDNumber         string `json:"idNumber" bson:"id_number"`
	IDIssueDate      string `json:"idIssueDate" bson:"id_issue_date"`
	IDIssueAuthority string `json:"idIssueAuthority" bson:"id_issue_authority"`

	AFM  string `json:"afm" bson:"afm"`
	AMKA string `json:"amka" bson:"amka"`
	DOY  string `json:"doy" bson:"doy"`

	Street       string `json:"street" bson:"street"`
	StreetNumber string `json:"streetNumber" bson:"street_number"`
	City         string `json:"city" bson:"city"`
	PostalCode   string `json:"postalCode" bson:"postal_code"`

	SubmittedAt time.Time `json:"submittedAt" bson:"submitted_at"`
}

// ErrorSet maps field names to violation messages. A field with no violation
// is absent, so an empty set means the draft is valid.
type ErrorSet map[string]string

// IsValid reports whether the set carries no violations
func (e ErrorSet) IsValid() bool {
	return len(e) == 0
}

// RetrievalAddress is the nested address object of a provider response
type RetrievalAddress struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// RetrievalResult is the profile data returned by the Taxisnet provider.
// Fullname is a single string, surname first ("Επώνυμο Όνομα"). The shape is
// a fixed external contract; it is consumed once by the merge and discarded.
type RetrievalResult struct {
	Fullname   string            `json:"fullname"`
	FatherName string            `json:"fathername"`
	MotherName string            `json:"mothername"`
	BirthPlace string            `json:"birthplace"`
	BirthDate  string            `json:"birth_date"`
	IDType     string            `json:"id_type"`
	IDNumber   string            `json:"id_number"`
	AFM        string            `json:"afm"`
	DOY        string            `json:"doy"`
	Address    *RetrievalAddress `json:"address"`
}

// FlowState is the acquisition flow state machine position
type FlowState string

const (
	// StateIdle is the initial state before a mode has been selected
	StateIdle FlowState = "idle"
	// StateEditing means the draft is open for field edits
	StateEditing FlowState = "editing"
	// StateRetrieving means a Taxisnet retrieval is in flight
	StateRetrieving FlowState = "retrieving"
	// StateSubmitting means a persistence call is in flight
	StateSubmitting FlowState = "submitting"
	// StateSubmitted is terminal for the draft instance
	StateSubmitted FlowState = "submitted"
)
