package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Index stores return these
// (optionally wrapped) so services can translate them into domain errors.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	// ErrNotFound: no record matches the lookup.
	ErrNotFound = errors.New("not found")
)
