package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeValidation, "identifier is required")
		assert.True(t, HasCode(err, CodeValidation))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches code through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("register: %w", New(CodeAlreadyRegistered, "taken"))
		assert.True(t, HasCode(err, CodeAlreadyRegistered))
	})

	t.Run("matches inner coded error", func(t *testing.T) {
		inner := New(CodeConnection, "dial failed")
		err := Wrap(inner, CodeNotReady, "ledger not ready")
		assert.True(t, HasCode(err, CodeNotReady))
		assert.True(t, HasCode(err, CodeConnection))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestCodeOfAndMessage(t *testing.T) {
	err := Wrap(errors.New("revert"), CodeLedgerWrite, "transaction failed")
	assert.Equal(t, CodeLedgerWrite, CodeOf(err))
	assert.Equal(t, "transaction failed", MessageOf(err))
	assert.Equal(t, "transaction failed: revert", err.Error())

	assert.Equal(t, CodeInternal, CodeOf(errors.New("x")))
	assert.Equal(t, "internal error", MessageOf(errors.New("x")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:        http.StatusBadRequest,
		CodeAlreadyRegistered: http.StatusConflict,
		CodeLedgerWrite:       http.StatusUnprocessableEntity,
		CodeNotReady:          http.StatusServiceUnavailable,
		CodeConnection:        http.StatusBadGateway,
		CodeIndexWrite:        http.StatusInternalServerError,
		CodeInternal:          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
