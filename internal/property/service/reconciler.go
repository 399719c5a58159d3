package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"landregistry/internal/audit"
	"landregistry/internal/property/models"
	"landregistry/pkg/domain"
	dErrors "landregistry/pkg/domain-errors"
)

// ReconcileResult reports what a repair pass found for one identifier.
type ReconcileResult struct {
	Identifier  domain.PropertyID `json:"identifier"`
	LedgerOwner domain.Address    `json:"ledger_owner"`
	Examined    int               `json:"examined"`
	Repaired    int               `json:"repaired"`
}

// Reconciler is the repair hook for index drift: it reads the authoritative
// owner from the ledger and patches index records that disagree.
type Reconciler struct {
	deps
	index Index
}

func NewReconciler(index Index, opts ...Option) (*Reconciler, error) {
	if index == nil {
		return nil, errors.New("index is required")
	}
	return &Reconciler{deps: newDeps(opts), index: index}, nil
}

// Reconcile sets owner on every record for identifier whose owner differs
// from the ledger. The transaction hash is left alone since the ledger read
// does not reveal it. An unowned identifier on the ledger repairs nothing.
func (r *Reconciler) Reconcile(ctx context.Context, sess *models.Session, identifier string) (_ *ReconcileResult, err error) {
	ctx, span := r.tracer.Start(ctx, "property.reconcile")
	defer func() { endSpan(span, err) }()

	if !sess.Ready() {
		return nil, ErrNotReady
	}
	id, err := domain.ParsePropertyID(identifier)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("property.id", id.String()))

	owner, err := sess.Contract.OwnerOf(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConnection, "failed to read ledger owner")
	}
	records, err := r.index.FindByIdentifier(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load index records")
	}

	result := &ReconcileResult{Identifier: id, LedgerOwner: owner, Examined: len(records)}
	if owner.IsNil() {
		return result, nil
	}
	for _, rec := range records {
		if rec.Owner.SameAs(owner.String()) {
			continue
		}
		if err := r.index.Update(ctx, rec.ID, models.Patch{Owner: &owner}); err != nil {
			r.metrics.RecordIndexWriteFailure("reconcile")
			return result, dErrors.Wrap(fmt.Errorf("record %s: %w", rec.ID, err), dErrors.CodeIndexWrite, "failed to repair index record")
		}
		result.Repaired++
	}

	if result.Repaired > 0 {
		r.emit(ctx, audit.Event{
			Action:     audit.ActionPropertyReconciled,
			PropertyID: id.String(),
			Account:    sess.Account.String(),
			Reason:     fmt.Sprintf("owner set to %s on %d record(s)", owner, result.Repaired),
		})
	}
	return result, nil
}
