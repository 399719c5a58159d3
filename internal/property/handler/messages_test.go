package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"landregistry/internal/ledger"
	"landregistry/internal/property/service"
	"landregistry/internal/property/view"
	dErrors "landregistry/pkg/domain-errors"
)

func ledgerErr(kind ledger.FailureKind, reason string) error {
	return dErrors.Wrap(&ledger.WriteError{Kind: kind, Reason: reason}, dErrors.CodeLedgerWrite, reason)
}

func TestRegisterFailureMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"not ready", service.ErrNotReady, msgNotReady},
		{"missing input", service.ErrIdentifierRequired, msgInputRequired},
		{"taken", dErrors.New(dErrors.CodeAlreadyRegistered, "taken"), "❌ REJECTED: 'plot-1' is already taken."},
		{"duplicate revert", ledgerErr(ledger.FailureDuplicate, "Already registered"), msgDuplicateRevert},
		{"generic", ledgerErr(ledger.FailureGeneric, "out of gas"), "Transaction Failed: out of gas"},
		{"plain error", errors.New("boom"), "Transaction Failed: internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, text := registerFailure(" plot-1 ", tc.err)
			assert.Equal(t, view.KindError, kind)
			assert.Equal(t, tc.want, text)
		})
	}
}

func TestTransferFailureMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"not ready", service.ErrNotReady, msgNotReady},
		{"missing fields", service.ErrFieldsRequired, msgFieldsRequired},
		{"bad address", service.ErrInvalidAddress, msgInvalidAddress},
		{"not owner", ledgerErr(ledger.FailureUnauthorized, "Not the owner"), msgAccessDenied},
		{"user denied", ledgerErr(ledger.FailureUserDenied, "User denied transaction signature"), msgRejected},
		{"reverted", ledgerErr(ledger.FailureReverted, "reverted"), msgTransferFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, text := transferFailure(tc.err)
			assert.Equal(t, tc.want, text)
		})
	}
}

func TestTransferredMessage(t *testing.T) {
	assert.Equal(t, "✅ Transferred 'plot-1' to 0x2222...", transferredMessage("plot-1", "0x2222222222222222222222222222222222222222"))
}
