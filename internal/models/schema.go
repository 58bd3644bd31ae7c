package models

// Field names of the profile draft. The presentation layer addresses fields
// by these names; they match the draft's JSON tags.
const (
	FieldFirstName        = "firstName"
	FieldLastName         = "lastName"
	FieldFatherName       = "fatherName"
	FieldMotherName       = "motherName"
	FieldBirthDate        = "birthDate"
	FieldBirthPlace       = "birthPlace"
	FieldIDType           = "idType"
	FieldIDNumber         = "idNumber"
	FieldIDIssueDate      = "idIssueDate"
	FieldIDIssueAuthority = "idIssueAuthority"
	FieldAFM              = "afm"
	FieldAMKA             = "amka"
	FieldDOY              = "doy"
	FieldStreet           = "street"
	FieldStreetNumber     = "streetNumber"
	FieldCity             = "city"
	FieldPostalCode       = "postalCode"
	FieldProviderUsername = "providerUsername"
	FieldProviderPassword = "providerPassword"
)

// FieldSpec describes one profile field: its name, the human label used in
// violation messages, and under which acquisition modes it is required.
type FieldSpec struct {
	Name              string
	Label             string
	RequiredManual    bool
	RequiredAutomated bool
}

// profileSchema is the single source of truth for the profile fields. It is
// static configuration data: validation iterates it, nothing mutates it.
// Under manual mode the full canonical set is required; under automated mode
// only the credential pair is, and only to gate the retrieval itself — the
// submission pass never enforces it.
var profileSchema = []FieldSpec{
	{Name: FieldLastName, Label: "Επώνυμο", RequiredManual: true},
	{Name: FieldFirstName, Label: "Όνομα", RequiredManual: true},
	{Name: FieldFatherName, Label: "Πατρώνυμο", RequiredManual: true},
	{Name: FieldMotherName, Label: "Μητρώνυμο", RequiredManual: true},
	{Name: FieldBirthDate, Label: "Ημερομηνία Γέννησης", RequiredManual: true},
	{Name: FieldBirthPlace, Label: "Τόπος Γέννησης", RequiredManual: true},
	{Name: FieldIDType, Label: "Τύπος Εγγράφου", RequiredManual: true},
	{Name: FieldIDNumber, Label: "Αριθμός Ταυτότητας", RequiredManual: true},
	{Name: FieldIDIssueDate, Label: "Ημερομηνία Έκδοσης", RequiredManual: true},
	{Name: FieldIDIssueAuthority, Label: "Εκδούσα Αρχή", RequiredManual: true},
	{Name: FieldAFM, Label: "ΑΦΜ", RequiredManual: true},
	{Name: FieldAMKA, Label: "ΑΜΚΑ", RequiredManual: true},
	{Name: FieldDOY, Label: "ΔΟΥ", RequiredManual: true},
	{Name: FieldStreet, Label: "Οδός", RequiredManual: true},
	{Name: FieldStreetNumber, Label: "Αριθμός", RequiredManual: true},
	{Name: FieldCity, Label: "Πόλη", RequiredManual: true},
	{Name: FieldPostalCode, Label: "Τ.Κ.", RequiredManual: true},
	{Name: FieldProviderUsername, Label: "Username Taxisnet", RequiredAutomated: true},
	{Name: FieldProviderPassword, Label: "Password Taxisnet", RequiredAutomated: true},
}

// fieldAccessors maps field names to their slot on a draft, so that editing
// and validation stay schema-driven. Adding a field means adding a row here
// and one in profileSchema; the validation engine never changes.
var fieldAccessors = map[string]func(*ProfileDraft) *string{
	FieldFirstName:        func(d *ProfileDraft) *string { return &d.FirstName },
	FieldLastName:         func(d *ProfileDraft) *string { return &d.LastName },
	FieldFatherName:       func(d *ProfileDraft) *string { return &d.FatherName },
	FieldMotherName:       func(d *ProfileDraft) *string { return &d.MotherName },
	FieldBirthDate:        func(d *ProfileDraft) *string { return &d.BirthDate },
	FieldBirthPlace:       func(d *ProfileDraft) *string { return &d.BirthPlace },
	FieldIDType:           func(d *ProfileDraft) *string { return &d.IDType },
	FieldIDNumber:         func(d *ProfileDraft) *string { return &d.IDNumber },
	FieldIDIssueDate:      func(d *ProfileDraft) *string { return &d.IDIssueDate },
	FieldIDIssueAuthority: func(d *ProfileDraft) *string { return &d.IDIssueAuthority },
	FieldAFM:              func(d *ProfileDraft) *string { return &d.AFM },
	FieldAMKA:             func(d *ProfileDraft) *string { return &d.AMKA },
	FieldDOY:              func(d *ProfileDraft) *string { return &d.DOY },
	FieldStreet:           func(d *ProfileDraft) *string { return &d.Street },
	FieldStreetNumber:     func(d *ProfileDraft) *string { return &d.StreetNumber },
	FieldCity:             func(d *ProfileDraft) *string { return &d.City },
	FieldPostalCode:       func(d *ProfileDraft) *string { return &d.PostalCode },
	FieldProviderUsername: func(d *ProfileDraft) *string { return &d.ProviderUsername },
	FieldProviderPassword: func(d *ProfileDraft) *string { return &d.ProviderPassword },
}

// ProfileSchema returns the field specs in declaration order
func ProfileSchema() []FieldSpec {
	return profileSchema
}

// FieldsRequiredFor returns the field names required under the given mode
func FieldsRequiredFor(mode AcquisitionMode) []string {
	var fields []string
	for _, spec := range profileSchema {
		switch mode {
		case ModeManual:
			if spec.RequiredManual {
				fields = append(fields, spec.Name)
			}
		case ModeAutomated:
			if spec.RequiredAutomated {
				fields = append(fields, spec.Name)
			}
		}
	}
	return fields
}

// FieldsRequiredForSubmission returns the field names the submission-time
// validation pass enforces as required. Under automated mode that is no field
// at all: the credential pair gates the retrieval, which checks it locally,
// and it is never part of the submitted payload. Format rules are applied
// separately and are not affected by this lookup.
func FieldsRequiredForSubmission(mode AcquisitionMode) []string {
	if mode == ModeAutomated {
		return nil
	}
	return FieldsRequiredFor(mode)
}

// FieldLabel returns the human label for a field name, or the name itself
// when the field is unknown
func FieldLabel(name string) string {
	for _, spec := range profileSchema {
		if spec.Name == name {
			return spec.Label
		}
	}
	return name
}

// FieldValue reads a draft field by name
func FieldValue(d *ProfileDraft, name string) (string, error) {
	accessor, ok := fieldAccessors[name]
	if !ok {
		return "", ErrUnknownField
	}
	return *accessor(d), nil
}

// SetFieldValue writes a draft field by name
func SetFieldValue(d *ProfileDraft, name, value string) error {
	accessor, ok := fieldAccessors[name]
	if !ok {
		return ErrUnknownField
	}
	*accessor(d) = value
	return nil
}
