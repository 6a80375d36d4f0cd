package o11y

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)

	l, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetupWithoutExporter(t *testing.T) {
	var buf bytes.Buffer
	obs, cleanup, err := Setup(context.Background(), Config{LogLevel: "warn", Output: &buf})
	require.NoError(t, err)
	defer cleanup()

	obs.Logger.Info("dropped")
	obs.Logger.Warn("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.NotNil(t, obs.Registry)
}
