package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New("scenes", "warn", &buf)

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Str("id", "42").Msg("kept")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "scenes", line["service"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "42", line["id"])
	assert.Contains(t, line, "time")
}

func TestNewUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("x", "loud", &buf)

	log.Debug().Msg("dropped")
	log.Info().Msg("kept")
	assert.Contains(t, buf.String(), `"kept"`)
	assert.NotContains(t, buf.String(), "dropped")
}
