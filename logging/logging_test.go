package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestNewWithConsole(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	log := NewWithConsole(cfg, &out)

	log.Info().Msg("hidden")
	log.Warn().Str("path", "trades.db").Msg("visible")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "visible")
	assert.Contains(t, out.String(), "path=trades.db")
}

func TestNew_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "tl.log")
	cfg := DefaultConfig()
	cfg.Console = false
	cfg.File = file
	cfg.Level = "debug"

	log := New(cfg)
	log.Debug().Msg("to file")

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"to file"`)
}

func TestNew_Nothing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Console = false
	log := New(cfg)
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}
