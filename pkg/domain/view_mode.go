package domain

import (
	"strings"

	dErrors "landregistry/pkg/domain-errors"
)

// ViewMode selects which records the gallery shows.
type ViewMode string

const (
	// ViewAll lists every indexed record, most recent first.
	ViewAll ViewMode = "ALL"
	// ViewMine lists records created by the active account, in index order.
	ViewMine ViewMode = "MINE"
)

// ParseViewMode accepts either mode in any case. An empty value means ViewAll.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToUpper(strings.TrimSpace(s))) {
	case "", ViewAll:
		return ViewAll, nil
	case ViewMine:
		return ViewMine, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "unknown view mode: "+s)
	}
}

func (m ViewMode) String() string {
	return string(m)
}
