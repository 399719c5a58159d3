package domain

import (
	"strings"
	"unicode"

	dErrors "landregistry/pkg/domain-errors"
)

// PropertyID is the identifier a property is registered under on the ledger.
// Uniqueness is enforced by the contract, not here.
type PropertyID string

// MaxPropertyIDLength bounds identifiers accepted from forms and the API.
const MaxPropertyIDLength = 256

// ParsePropertyID trims and validates an identifier from external input.
//
// Errors: returns CodeValidation when the value is empty, too long, or
// contains control characters.
func ParsePropertyID(s string) (PropertyID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "property id is required")
	}
	if len(s) > MaxPropertyIDLength {
		return "", dErrors.New(dErrors.CodeValidation, "property id is too long")
	}
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return "", dErrors.New(dErrors.CodeValidation, "property id contains control characters")
	}
	return PropertyID(s), nil
}

func (p PropertyID) String() string {
	return string(p)
}
