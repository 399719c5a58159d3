package models

import (
	"math/big"
	"time"

	"landregistry/pkg/domain"
)

// Record is one property document in the off-chain index.
// Creator and CreatedAt never change after insert; Owner and TxHash move
// together on every mirrored transfer.
type Record struct {
	ID         string
	Identifier domain.PropertyID
	Creator    domain.Address
	Owner      domain.Address
	TxHash     string
	CreatedAt  time.Time
}

// Patch is a partial update applied by reference. Nil fields are left alone.
type Patch struct {
	Owner  *domain.Address
	TxHash *string
}

// Receipt is the confirmation of a mined ledger write.
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	GasUsed     uint64
	// Indexed is false when the ledger write succeeded but the index mirror
	// was not written (write failure, or no record to update on transfer).
	Indexed bool
}

// Session binds the active account to the ledger for one process lifetime.
// A nil Contract means the connector failed and the app is not ready.
type Session struct {
	Account  domain.Address
	Balance  *big.Int
	Contract Contract
}

// Ready reports whether registry operations may run on this session.
func (s *Session) Ready() bool {
	return s != nil && s.Contract != nil && !s.Account.IsNil()
}

// Status is the badge shown on a gallery card.
type Status string

const (
	StatusHeld        Status = "HELD"
	StatusTransferred Status = "TRANSFERRED"
)

// DisplayRow is the read-only projection of a Record for one viewer and mode.
type DisplayRow struct {
	RecordID       string `json:"id"`
	Identifier     string `json:"identifier"`
	Status         Status `json:"status"`
	OwnerLabel     string `json:"owner_label"`
	Owner          string `json:"owner"`
	OwnerDisplay   string `json:"owner_display"`
	CreatorDisplay string `json:"creator_display,omitempty"`
	TxHash         string `json:"tx_hash"`
	TxDisplay      string `json:"tx_display"`
	Held           bool   `json:"held"`
	Transferred    bool   `json:"transferred"`
}
