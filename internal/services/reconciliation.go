package services

import (
	"fmt"
	"strings"

	"github.com/govgr-digital/profile-api/internal/models"
)

// Merge folds a provider retrieval result into an existing draft and returns
// the new draft. The merge is a total overwrite of the fields the provider
// reports: whatever the citizen had typed before the retrieval is replaced,
// since the automated channel is authoritative once invoked. Fields the
// provider does not report (amka, id issue date, id issue authority) carry
// over from the existing draft unchanged.
//
// The provider formats full names as "Surname Givenname"; the token at index
// 0 becomes the last name and the token at index 1 the first name. Only the
// first two whitespace-delimited tokens are used, so middle names and
// multi-word surnames are not reconstructed. The tokenization rule for those
// is not part of the provider contract, so the behavior is kept as-is.
//
// Merge fails closed: a result with a missing address object or an
// unsplittable full name yields ErrMalformedRetrieval and the caller's draft
// must be left untouched. No partially merged draft is ever returned.
func Merge(existing models.ProfileDraft, result *models.RetrievalResult, preserveCredentials bool) (models.ProfileDraft, error) {
	if result == nil {
		return models.ProfileDraft{}, fmt.Errorf("%w: empty result", models.ErrMalformedRetrieval)
	}
	if result.Address == nil {
		return models.ProfileDraft{}, fmt.Errorf("%w: missing address object", models.ErrMalformedRetrieval)
	}

	tokens := strings.Fields(result.Fullname)
	if len(tokens) < 2 {
		return models.ProfileDraft{}, fmt.Errorf("%w: fullname does not split into surname and given name", models.ErrMalformedRetrieval)
	}

	merged := existing

	merged.LastName = tokens[0]
	merged.FirstName = tokens[1]
	merged.FatherName = result.FatherName
	merged.MotherName = result.MotherName
	merged.BirthPlace = result.BirthPlace
	merged.BirthDate = result.BirthDate
	merged.IDType = result.IDType
	merged.IDNumber = result.IDNumber
	merged.AFM = result.AFM
	merged.DOY = result.DOY
	merged.Street = result.Address.Street
	merged.StreetNumber = result.Address.Number
	merged.City = result.Address.City
	merged.PostalCode = result.Address.PostalCode

	// Credentials never survive a merge against the caller's stated
	// preference.
	if !preserveCredentials {
		merged.ProviderUsername = ""
		merged.ProviderPassword = ""
	}

	return merged, nil
}
