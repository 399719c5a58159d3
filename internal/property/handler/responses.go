package handler

import (
	"landregistry/internal/ledger"
	"landregistry/internal/property/models"
	"landregistry/internal/property/view"
)

type ReceiptResponse struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
	Indexed     bool   `json:"indexed"`
	Message     string `json:"message"`
}

func toReceiptResponse(r *models.Receipt, message string) ReceiptResponse {
	return ReceiptResponse{
		TxHash:      r.TxHash,
		BlockNumber: r.BlockNumber,
		GasUsed:     r.GasUsed,
		Indexed:     r.Indexed,
		Message:     message,
	}
}

type SessionResponse struct {
	Ready      bool   `json:"ready"`
	Account    string `json:"account,omitempty"`
	BalanceWei string `json:"balance_wei,omitempty"`
	BalanceEth string `json:"balance_eth,omitempty"`
	Busy       bool   `json:"busy"`
}

func toSessionResponse(sess *models.Session, busy bool) SessionResponse {
	resp := SessionResponse{Ready: sess.Ready(), Busy: busy}
	if sess == nil {
		return resp
	}
	resp.Account = sess.Account.String()
	if sess.Balance != nil {
		resp.BalanceWei = sess.Balance.String()
	}
	resp.BalanceEth = ledger.FormatEther(sess.Balance)
	return resp
}

type PropertiesResponse struct {
	Mode  string              `json:"mode"`
	Count int                 `json:"count"`
	Rows  []models.DisplayRow `json:"rows"`
}

// ActionErrorResponse extends the error envelope with the banner text and,
// for ledger rejections, the failure classification.
type ActionErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
	FailureKind      string `json:"failure_kind,omitempty"`
}

type FeedbackResponse struct {
	Message *view.Message `json:"message"`
}
