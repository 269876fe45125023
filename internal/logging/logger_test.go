// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&buf, "json", "info")
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("run_id", "r1").Msg("report built")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "rle", entry["service"])
	assert.Equal(t, "r1", entry["run_id"])
	assert.Equal(t, "report built", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&buf, "console", "DEBUG")
	require.NoError(t, err)

	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "service=rle")
	assert.NotContains(t, buf.String(), "\x1b[", "no color codes off a terminal")
}

func TestIsTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log.txt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.False(t, isTerminal(&bytes.Buffer{}), "not a file")
	assert.False(t, isTerminal(f), "regular file")
}

func TestNewWriterErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		level  string
	}{
		{"bad level", "json", "loud"},
		{"bad format", "xml", "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWriter(&bytes.Buffer{}, tt.format, tt.level)
			assert.Error(t, err)
		})
	}
}
