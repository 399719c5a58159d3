package models

import (
	"context"

	"landregistry/pkg/domain"
)

// Contract is the ledger surface the coordinator needs. The ledger package
// implements it over JSON-RPC; tests use generated mocks.
type Contract interface {
	// OwnerOf returns the current on-chain owner, or domain.ZeroAddress.
	OwnerOf(ctx context.Context, id domain.PropertyID) (domain.Address, error)
	// RegisterProperty submits and waits for the registration receipt.
	RegisterProperty(ctx context.Context, from domain.Address, id domain.PropertyID) (*Receipt, error)
	// TransferProperty submits and waits for the transfer receipt.
	TransferProperty(ctx context.Context, from domain.Address, id domain.PropertyID, newOwner domain.Address) (*Receipt, error)
}
