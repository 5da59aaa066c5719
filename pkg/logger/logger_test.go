package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_BeforeInitIsDisabled(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	log := Get()
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}

func TestInit_WritesJSON(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf})

	log := Get()
	log.Debug().Str("task", "demo").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "demo", entry["task"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "task-manager-api", entry["service"])
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	Init(Options{Level: "debug", Output: &second})

	log := Get()
	log.Info().Msg("once")
	assert.NotEmpty(t, first.String())
	assert.Empty(t, second.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARNING "))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}
