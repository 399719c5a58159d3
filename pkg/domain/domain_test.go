package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "landregistry/pkg/domain-errors"
)

const lowerAddr = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

// TestParseAddress_Invariants validates the parsing invariant:
// "addresses are 20-byte hex values, stored checksummed"
func TestParseAddress_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAddress("   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects malformed hex", func(t *testing.T) {
		for _, in := range []string{"0x123", "not-an-address", lowerAddr + "00", "0xZZaeb6053f3e94c9b9a09f33669435e7ef1beaed"} {
			_, err := ParseAddress(in)
			require.Error(t, err, in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), in)
		}
	})

	t.Run("checksums valid input", func(t *testing.T) {
		addr, err := ParseAddress("  " + lowerAddr + " ")
		require.NoError(t, err)
		assert.Equal(t, Address("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"), addr)
		assert.Len(t, addr.String(), 42)
	})

	t.Run("accepts unprefixed hex", func(t *testing.T) {
		addr, err := ParseAddress(strings.TrimPrefix(lowerAddr, "0x"))
		require.NoError(t, err)
		assert.True(t, addr.SameAs(lowerAddr))
	})
}

func TestAddressComparison(t *testing.T) {
	addr, err := ParseAddress(lowerAddr)
	require.NoError(t, err)

	assert.False(t, addr.SameAs(strings.ToUpper(lowerAddr[2:])), "prefix is part of the value")
	assert.True(t, addr.SameAs("0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED"))
	assert.False(t, addr.IsNil())
	assert.True(t, ZeroAddress.IsNil())
	assert.True(t, Address("").IsNil())
	assert.Equal(t, addr, AddressFrom(addr.Common()))
}

func TestParsePropertyID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PropertyID
		wantErr bool
	}{
		{"Empty string", "", "", true},
		{"Whitespace only", "   ", "", true},
		{"Null byte injection", "plot\x00-1", "", true},
		{"Oversized input", strings.Repeat("a", MaxPropertyIDLength+1), "", true},
		{"Trims surrounding space", "  plot-1 ", "plot-1", false},
		{"Keeps inner space", "Lot 7 Block B", "Lot 7 Block B", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePropertyID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseViewMode(t *testing.T) {
	for in, want := range map[string]ViewMode{"": ViewAll, "all": ViewAll, "ALL": ViewAll, " mine ": ViewMine, "MINE": ViewMine} {
		got, err := ParseViewMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseViewMode("others")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
