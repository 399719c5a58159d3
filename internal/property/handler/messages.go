package handler

import (
	"errors"
	"fmt"
	"strings"

	"landregistry/internal/ledger"
	"landregistry/internal/property/service"
	"landregistry/internal/property/view"
	dErrors "landregistry/pkg/domain-errors"
)

// Banner texts shown to the user after an action.
const (
	msgNotReady         = "Blockchain not ready."
	msgInputRequired    = "Input required."
	msgFieldsRequired   = "All fields required"
	msgRegistered       = "Success: Property Registered!"
	msgDuplicateRevert  = "❌ Transaction Reverted: Property ID is taken."
	msgTxFailedPrefix   = "Transaction Failed: "
	msgInvalidAddress   = "❌ Invalid Ethereum Address."
	msgSigning          = "⏳ Signing transaction..."
	msgAccessDenied     = "⛔ ACCESS DENIED: You do not own this asset."
	msgRejected         = "Transaction rejected."
	msgTransferFailed   = "Transfer Failed. Check console."
	msgActionInProgress = "Another transaction is still processing."
)

func takenMessage(identifier string) string {
	return fmt.Sprintf("❌ REJECTED: '%s' is already taken.", strings.TrimSpace(identifier))
}

func transferredMessage(identifier, newOwner string) string {
	return fmt.Sprintf("✅ Transferred '%s' to %s", strings.TrimSpace(identifier), service.ShortAccount(strings.TrimSpace(newOwner)))
}

// registerFailure words a failed registration for the banner.
func registerFailure(identifier string, err error) (view.Kind, string) {
	switch {
	case errors.Is(err, service.ErrNotReady):
		return view.KindError, msgNotReady
	case errors.Is(err, service.ErrIdentifierRequired):
		return view.KindError, msgInputRequired
	case dErrors.HasCode(err, dErrors.CodeConflict):
		return view.KindInfo, msgActionInProgress
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return view.KindError, dErrors.MessageOf(err)
	case dErrors.HasCode(err, dErrors.CodeAlreadyRegistered):
		return view.KindError, takenMessage(identifier)
	case ledger.KindOf(err) == ledger.FailureDuplicate:
		return view.KindError, msgDuplicateRevert
	default:
		return view.KindError, msgTxFailedPrefix + dErrors.MessageOf(err)
	}
}

// transferFailure words a failed transfer for the banner.
func transferFailure(err error) (view.Kind, string) {
	switch {
	case errors.Is(err, service.ErrNotReady):
		return view.KindError, msgNotReady
	case errors.Is(err, service.ErrFieldsRequired):
		return view.KindError, msgFieldsRequired
	case errors.Is(err, service.ErrInvalidAddress):
		return view.KindError, msgInvalidAddress
	case dErrors.HasCode(err, dErrors.CodeConflict):
		return view.KindInfo, msgActionInProgress
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return view.KindError, dErrors.MessageOf(err)
	case ledger.KindOf(err) == ledger.FailureUnauthorized:
		return view.KindError, msgAccessDenied
	case ledger.KindOf(err) == ledger.FailureUserDenied:
		return view.KindError, msgRejected
	default:
		return view.KindError, msgTransferFailed
	}
}
