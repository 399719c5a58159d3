package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"landregistry/internal/audit"
	"landregistry/internal/ledger"
	"landregistry/internal/property/models"
	"landregistry/pkg/domain"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/requestcontext"
)

// Validation failures the form layer words differently.
var (
	ErrNotReady           = dErrors.New(dErrors.CodeNotReady, "ledger is not ready")
	ErrIdentifierRequired = dErrors.New(dErrors.CodeValidation, "property id is required")
	ErrFieldsRequired     = dErrors.New(dErrors.CodeValidation, "property id and new owner are required")
	ErrInvalidAddress     = dErrors.New(dErrors.CodeValidation, "invalid ethereum address")
)

const (
	opRegister = "register"
	opTransfer = "transfer"
)

// Coordinator performs ledger writes and mirrors them into the index.
// The ledger is written first; index writes are best effort and never roll
// the ledger back.
type Coordinator struct {
	deps
	index Index
}

func NewCoordinator(index Index, opts ...Option) (*Coordinator, error) {
	if index == nil {
		return nil, errors.New("index is required")
	}
	return &Coordinator{deps: newDeps(opts), index: index}, nil
}

// Register claims identifier for the session account.
//
// The ownership pre-check is advisory: a registration racing in between
// surfaces as a ledger write failure. Receipt.Indexed is false when the
// ledger write succeeded but the index insert did not.
func (c *Coordinator) Register(ctx context.Context, sess *models.Session, identifier string) (_ *models.Receipt, err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "property.register")
	defer func() {
		endSpan(span, err)
		c.metrics.ObserveAction(opRegister, start)
	}()

	if !sess.Ready() {
		return nil, ErrNotReady
	}
	if strings.TrimSpace(identifier) == "" {
		return nil, ErrIdentifierRequired
	}
	id, err := domain.ParsePropertyID(identifier)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("property.id", id.String()),
		attribute.String("ledger.account", sess.Account.String()),
	)

	owner, err := sess.Contract.OwnerOf(ctx, id)
	if err != nil {
		c.logger.WarnContext(ctx, "ownership pre-check failed",
			"property_id", id,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeConnection, "cannot read current owner")
	}
	if !owner.IsNil() {
		c.metrics.RecordLedgerWrite(opRegister, "already_registered")
		return nil, dErrors.New(dErrors.CodeAlreadyRegistered, fmt.Sprintf("property %q is already registered", id))
	}

	receipt, err := sess.Contract.RegisterProperty(ctx, sess.Account, id)
	if err != nil {
		return nil, c.ledgerFailure(ctx, opRegister, id, err)
	}
	c.metrics.RecordLedgerWrite(opRegister, "success")
	c.logger.InfoContext(ctx, "property registered on ledger",
		"property_id", id,
		"tx_hash", receipt.TxHash,
		"block_number", receipt.BlockNumber,
		"gas_used", receipt.GasUsed,
	)

	rec := &models.Record{
		Identifier: id,
		Creator:    sess.Account,
		Owner:      sess.Account,
		TxHash:     receipt.TxHash,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if _, err := c.index.Insert(ctx, rec); err != nil {
		c.indexFailure(ctx, opRegister, id, sess.Account, receipt.TxHash, err)
	} else {
		receipt.Indexed = true
	}

	c.emit(ctx, audit.Event{
		Action:     audit.ActionPropertyRegistered,
		PropertyID: id.String(),
		Account:    sess.Account.String(),
		TxHash:     receipt.TxHash,
	})
	return receipt, nil
}

// Transfer moves identifier from the session account to newOwner, then sets
// owner and transaction hash on every index record with that identifier.
// Receipt.Indexed is false when no record was found or an update failed.
func (c *Coordinator) Transfer(ctx context.Context, sess *models.Session, identifier, newOwner string) (_ *models.Receipt, err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "property.transfer")
	defer func() {
		endSpan(span, err)
		c.metrics.ObserveAction(opTransfer, start)
	}()

	if !sess.Ready() {
		return nil, ErrNotReady
	}
	if strings.TrimSpace(identifier) == "" || strings.TrimSpace(newOwner) == "" {
		return nil, ErrFieldsRequired
	}
	id, err := domain.ParsePropertyID(identifier)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseAddress(newOwner)
	if err != nil {
		return nil, ErrInvalidAddress
	}
	span.SetAttributes(
		attribute.String("property.id", id.String()),
		attribute.String("ledger.account", sess.Account.String()),
		attribute.String("ledger.new_owner", to.String()),
	)

	receipt, err := sess.Contract.TransferProperty(ctx, sess.Account, id, to)
	if err != nil {
		return nil, c.ledgerFailure(ctx, opTransfer, id, err)
	}
	c.metrics.RecordLedgerWrite(opTransfer, "success")
	c.logger.InfoContext(ctx, "property transferred on ledger",
		"property_id", id,
		"new_owner", to,
		"tx_hash", receipt.TxHash,
		"block_number", receipt.BlockNumber,
		"gas_used", receipt.GasUsed,
	)

	receipt.Indexed = c.mirrorTransfer(ctx, id, sess.Account, to, receipt.TxHash)

	c.emit(ctx, audit.Event{
		Action:       audit.ActionPropertyTransferred,
		PropertyID:   id.String(),
		Account:      sess.Account.String(),
		Counterparty: to.String(),
		TxHash:       receipt.TxHash,
	})
	return receipt, nil
}

// mirrorTransfer patches every record for id and reports whether all of them
// were written.
func (c *Coordinator) mirrorTransfer(ctx context.Context, id domain.PropertyID, from, to domain.Address, txHash string) bool {
	records, err := c.index.FindByIdentifier(ctx, id)
	if err != nil {
		c.indexFailure(ctx, opTransfer, id, from, txHash, err)
		return false
	}
	if len(records) == 0 {
		c.indexFailure(ctx, opTransfer, id, from, txHash, errors.New("no index record for property"))
		return false
	}

	patch := models.Patch{Owner: &to, TxHash: &txHash}
	indexed := true
	for _, rec := range records {
		if err := c.index.Update(ctx, rec.ID, patch); err != nil {
			c.indexFailure(ctx, opTransfer, id, from, txHash, fmt.Errorf("record %s: %w", rec.ID, err))
			indexed = false
		}
	}
	return indexed
}

// ledgerFailure records a rejected write and converts it to CodeLedgerWrite,
// keeping the classified ledger.WriteError in the chain.
func (c *Coordinator) ledgerFailure(ctx context.Context, op string, id domain.PropertyID, err error) error {
	if errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeLedgerWrite, "transaction cancelled")
	}
	kind := ledger.KindOf(err)
	reason := err.Error()
	var we *ledger.WriteError
	if errors.As(err, &we) {
		reason = we.Reason
	}
	c.metrics.RecordLedgerWrite(op, string(kind))
	c.logger.WarnContext(ctx, "ledger write failed",
		"operation", op,
		"property_id", id,
		"kind", kind,
		"reason", reason,
	)
	return dErrors.Wrap(err, dErrors.CodeLedgerWrite, reason)
}

func (c *Coordinator) indexFailure(ctx context.Context, op string, id domain.PropertyID, account domain.Address, txHash string, err error) {
	c.metrics.RecordIndexWriteFailure(op)
	c.logger.ErrorContext(ctx, "index write failed after ledger commit",
		"operation", op,
		"property_id", id,
		"tx_hash", txHash,
		"error", err,
	)
	c.emit(ctx, audit.Event{
		Action:     audit.ActionIndexWriteFailed,
		PropertyID: id.String(),
		Account:    account.String(),
		TxHash:     txHash,
		Reason:     err.Error(),
	})
}
