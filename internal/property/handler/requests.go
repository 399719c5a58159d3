package handler

import (
	"strings"

	"landregistry/internal/property/service"
)

type RegisterRequest struct {
	Identifier string `json:"identifier"`
}

func (r *RegisterRequest) Normalize() {
	r.Identifier = strings.TrimSpace(r.Identifier)
}

func (r *RegisterRequest) Validate() error {
	if r.Identifier == "" {
		return service.ErrIdentifierRequired
	}
	return nil
}

type TransferRequest struct {
	Identifier string `json:"identifier"`
	NewOwner   string `json:"new_owner"`
}

func (r *TransferRequest) Normalize() {
	r.Identifier = strings.TrimSpace(r.Identifier)
	r.NewOwner = strings.TrimSpace(r.NewOwner)
}

func (r *TransferRequest) Validate() error {
	if r.Identifier == "" || r.NewOwner == "" {
		return service.ErrFieldsRequired
	}
	return nil
}
