package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"landregistry/pkg/domain"
)

type nopContract struct{}

func (nopContract) OwnerOf(context.Context, domain.PropertyID) (domain.Address, error) {
	return domain.ZeroAddress, nil
}

func (nopContract) RegisterProperty(context.Context, domain.Address, domain.PropertyID) (*Receipt, error) {
	return &Receipt{}, nil
}

func (nopContract) TransferProperty(context.Context, domain.Address, domain.PropertyID, domain.Address) (*Receipt, error) {
	return &Receipt{}, nil
}

func TestSessionReady(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Ready())
	assert.False(t, (&Session{Account: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"}).Ready())
	assert.False(t, (&Session{Contract: nopContract{}}).Ready())
	assert.True(t, (&Session{Account: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", Contract: nopContract{}}).Ready())
}
