package audit

import "time"

// Action names a land-registry event worth recording.
type Action string

const (
	ActionPropertyRegistered  Action = "property_registered"
	ActionPropertyTransferred Action = "property_transferred"
	ActionPropertyReconciled  Action = "property_reconciled"
	// ActionIndexWriteFailed marks a ledger write whose mirror into the index failed.
	ActionIndexWriteFailed Action = "index_write_failed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	Action       Action    `json:"action"`
	PropertyID   string    `json:"property_id"`
	Account      string    `json:"account"`
	Counterparty string    `json:"counterparty,omitempty"`
	TxHash       string    `json:"tx_hash,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	RequestID    string    `json:"request_id,omitempty"`
}
