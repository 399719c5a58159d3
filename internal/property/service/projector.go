package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"landregistry/internal/property/models"
	"landregistry/pkg/domain"
	dErrors "landregistry/pkg/domain-errors"
)

// Display placeholders.
const (
	UnknownIdentifier = "Unknown ID"
	UnknownOwner      = "Unknown"
	PendingTx         = "Pending..."

	LabelCurrentOwner = "CURRENT OWNER"
	LabelTransferred  = "TRANSFERRED TO"
)

// Projector reads the index for a view mode and derives display rows.
type Projector struct {
	deps
	index Index
}

func NewProjector(index Index, opts ...Option) (*Projector, error) {
	if index == nil {
		return nil, errors.New("index is required")
	}
	return &Projector{deps: newDeps(opts), index: index}, nil
}

// Fetch returns every record, newest first, for ViewAll, and the records
// created by account for ViewMine. Every call reads the index, so a fetch
// issued after a write observes it.
func (p *Projector) Fetch(ctx context.Context, mode domain.ViewMode, account domain.Address) (_ []*models.Record, err error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "property.fetch")
	span.SetAttributes(attribute.String("view.mode", mode.String()))
	defer func() {
		endSpan(span, err)
		p.metrics.ObserveFetch(mode.String(), start)
	}()

	if mode == domain.ViewMine && account.IsNil() {
		return nil, nil
	}

	var records []*models.Record
	if mode == domain.ViewMine {
		records, err = p.index.ListByCreator(ctx, account)
	} else {
		records, err = p.index.ListByCreatedDesc(ctx)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load properties")
	}
	return records, nil
}

// ProjectAll projects every record for one viewer.
func ProjectAll(records []*models.Record, account domain.Address, mode domain.ViewMode) []models.DisplayRow {
	rows := make([]models.DisplayRow, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		rows = append(rows, Project(*rec, account, mode))
	}
	return rows
}

// Project derives the display row for rec as seen by account in mode. It is
// pure: projecting the same inputs twice yields equal rows.
//
// A record is held when its owner equals account ignoring case. It reads as
// transferred only in ViewMine, when account created it but no longer owns it.
func Project(rec models.Record, account domain.Address, mode domain.ViewMode) models.DisplayRow {
	held := account != "" && rec.Owner.SameAs(account.String())
	transferred := mode == domain.ViewMine &&
		account != "" &&
		rec.Creator.SameAs(account.String()) &&
		!held

	row := models.DisplayRow{
		RecordID:     rec.ID,
		Identifier:   rec.Identifier.String(),
		Status:       models.StatusHeld,
		OwnerLabel:   LabelCurrentOwner,
		Owner:        rec.Owner.String(),
		OwnerDisplay: TruncateAddress(rec.Owner.String()),
		TxHash:       rec.TxHash,
		TxDisplay:    TruncateHash(rec.TxHash),
		Held:         held,
		Transferred:  transferred,
	}
	if row.Identifier == "" {
		row.Identifier = UnknownIdentifier
	}
	if transferred {
		row.Status = models.StatusTransferred
		row.OwnerLabel = LabelTransferred
		row.CreatorDisplay = prefix(rec.Creator.String(), 6) + "..."
	}
	return row
}

// TruncateAddress renders "0x1234...<tail>" for values longer than ten
// characters, where tail is everything from offset 38. Shorter values render
// as UnknownOwner.
func TruncateAddress(s string) string {
	r := []rune(s)
	if len(r) <= 10 {
		return UnknownOwner
	}
	tail := ""
	if len(r) > 38 {
		tail = string(r[38:])
	}
	return string(r[:6]) + "..." + tail
}

// TruncateHash keeps the first eight characters of a transaction hash.
func TruncateHash(s string) string {
	if len([]rune(s)) <= 10 {
		return PendingTx
	}
	return prefix(s, 8) + "..."
}

// ShortAccount is the first six characters followed by an ellipsis, as used
// in transfer confirmations.
func ShortAccount(s string) string {
	return prefix(s, 6) + "..."
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
