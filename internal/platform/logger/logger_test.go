package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landregistry/internal/platform/config"
)

func TestJSONHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.LogConfig{Format: "json", Level: "warn"})

	log.Info("dropped")
	log.Warn("kept", "identifier", "plot-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "plot-1", entry["identifier"])
}

func TestTextHandler(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.LogConfig{Format: "text", Level: "debug"})
	log.Debug("receipt", "tx_hash", "0xabc")
	assert.Contains(t, buf.String(), "tx_hash=0xabc")
}
