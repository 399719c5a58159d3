package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	dErrors "landregistry/pkg/domain-errors"
)

// Address is an EIP-55 checksummed account address.
// Invariant: values built by ParseAddress are 0x-prefixed, 42 characters long.
//
// Usage: construct via ParseAddress at trust boundaries; direct casting
// bypasses validation and is reserved for values read back from the index.
type Address string

// ZeroAddress is what the registry contract returns for an unowned identifier.
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// ParseAddress validates external input as a hex account address.
//
// Errors: returns CodeValidation when the value is empty or not a 20-byte hex
// address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "address cannot be empty")
	}
	if !common.IsHexAddress(s) {
		return "", dErrors.New(dErrors.CodeValidation, "invalid ethereum address")
	}
	return Address(common.HexToAddress(s).Hex()), nil
}

// AddressFrom converts a go-ethereum address.
func AddressFrom(a common.Address) Address {
	return Address(a.Hex())
}

// Common returns the go-ethereum form. Callers must hold a parsed value.
func (a Address) Common() common.Address {
	return common.HexToAddress(string(a))
}

func (a Address) String() string {
	return string(a)
}

// IsNil reports whether the address is empty or the zero address.
func (a Address) IsNil() bool {
	return a == "" || strings.EqualFold(string(a), string(ZeroAddress))
}

// SameAs compares two addresses ignoring hex case.
func (a Address) SameAs(other string) bool {
	return strings.EqualFold(string(a), other)
}
