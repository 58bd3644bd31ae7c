package services

import (
	"github.com/govgr-digital/profile-api/internal/models"
	"github.com/govgr-digital/profile-api/internal/utils"
)

// Validate runs a full validation pass over the draft for the given
// acquisition mode and returns the resulting error set. Every field required
// at submission under the mode gets the required-field rule — under automated
// mode that is no field, since the credential pair only gates the retrieval
// itself. The afm and amka fields get their digit-format rule whenever
// non-empty, in any mode. The pass never
// short-circuits, so the set reports every simultaneous violation. Only
// violated fields appear in the result, which makes "is the draft valid"
// the same question as "is the set empty".
//
// The pass is deterministic and side-effect free: same draft and mode always
// produce the same set, and the draft is never mutated.
func Validate(draft models.ProfileDraft, mode models.AcquisitionMode) models.ErrorSet {
	errs := models.ErrorSet{}

	required := make(map[string]bool)
	for _, name := range models.FieldsRequiredForSubmission(mode) {
		required[name] = true
	}

	for _, spec := range models.ProfileSchema() {
		value, err := models.FieldValue(&draft, spec.Name)
		if err != nil {
			continue
		}

		var msg string
		if required[spec.Name] {
			msg = utils.ValidateRequired(value, spec.Label)
		}

		// Format rules apply regardless of mode; an empty value passes
		// them, so they never mask a required-field violation.
		if msg == "" {
			switch spec.Name {
			case models.FieldAFM:
				msg = utils.ValidateAFMFormat(value)
			case models.FieldAMKA:
				msg = utils.ValidateAMKAFormat(value)
			}
		}

		if msg != "" {
			errs[spec.Name] = msg
		}
	}

	return errs
}
