package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// FailureKind is the normalized reason a ledger write did not land.
type FailureKind string

const (
	// FailureDuplicate: the contract reverted because the id is already registered.
	FailureDuplicate FailureKind = "duplicate"
	// FailureUnauthorized: the sender is not the current owner.
	FailureUnauthorized FailureKind = "unauthorized"
	// FailureUserDenied: the signer refused the transaction.
	FailureUserDenied FailureKind = "user_denied"
	// FailureReverted: the transaction was mined with status 0 and no reason.
	FailureReverted FailureKind = "reverted"
	// FailureGeneric covers out-of-gas, timeouts and transport errors.
	FailureGeneric FailureKind = "generic"
)

// Known failure substrings, matched case-insensitively against the node's
// error message and any attached error data. The contract exposes no
// structured error codes, so these strings are the classification contract.
var failurePatterns = []struct {
	kind       FailureKind
	substrings []string
}{
	{FailureDuplicate, []string{"already registered"}},
	{FailureUnauthorized, []string{"not the owner", "not owner"}},
	{FailureUserDenied, []string{"user denied", "user rejected"}},
}

// WriteError wraps a failed register or transfer with its classification.
// Reason is the raw message kept for display.
type WriteError struct {
	Kind   FailureKind
	Method string
	Reason string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("ledger %s [%s]: %s", e.Method, e.Kind, e.Reason)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Classify maps a raw ledger message to a FailureKind.
func Classify(message string) FailureKind {
	lower := strings.ToLower(message)
	for _, p := range failurePatterns {
		for _, s := range p.substrings {
			if strings.Contains(lower, s) {
				return p.kind
			}
		}
	}
	return FailureGeneric
}

// KindOf extracts the classification from an error chain, FailureGeneric if absent.
func KindOf(err error) FailureKind {
	var we *WriteError
	if errors.As(err, &we) {
		return we.Kind
	}
	return FailureGeneric
}

// newWriteError classifies err, including revert data the node attaches
// to JSON-RPC errors.
func newWriteError(method string, err error) *WriteError {
	reason := err.Error()
	var de rpc.DataError
	if errors.As(err, &de) {
		if data := de.ErrorData(); data != nil {
			reason = fmt.Sprintf("%s (%v)", reason, data)
		}
	}
	return &WriteError{Kind: Classify(reason), Method: method, Reason: reason, Err: err}
}
