package auth0

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRequiresConfig(t *testing.T) {
	_, err := Middleware("", "api://mobility", slog.Default())
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = Middleware("example.eu.auth0.com", "", slog.Default())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestMiddlewareBuilds(t *testing.T) {
	h, err := Middleware("example.eu.auth0.com", "api://mobility", slog.Default())
	require.NoError(t, err)
	assert.NotNil(t, h)
}
