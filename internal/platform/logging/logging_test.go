package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-desk/internal/platform/config"
)

func Test_ParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func Test_New_JSONFormatRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LogConfig{Level: "warn", Format: "json"})

	log.Info("hidden")
	log.Warn("book flag mismatch", "book_id", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "book flag mismatch", rec["msg"])
	assert.Equal(t, float64(7), rec["book_id"])
}

func Test_New_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LogConfig{Level: "info"})

	log.Info("schema ensured", "driver", "sqlite")

	assert.Contains(t, buf.String(), `msg="schema ensured"`)
	assert.Contains(t, buf.String(), "driver=sqlite")
}

func Test_Discard_DropsEverything(t *testing.T) {
	log := Discard()

	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	assert.Equal(t, slog.DiscardHandler, log.Handler())
}
