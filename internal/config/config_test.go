package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 9, cfg.PageSize)
	assert.Equal(t, "localhost:9000", cfg.DefaultEndpoint)
	assert.Empty(t, cfg.PostgresDSN)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PGMINIO_LISTEN_ADDR", ":9999")
	t.Setenv("PGMINIO_PAGE_SIZE", "16")
	t.Setenv("PGMINIO_POSTGRES_DSN", "postgres://app@db/objects")
	t.Setenv("PGMINIO_SESSION_KEY", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, 16, cfg.PageSize)
	assert.Equal(t, "postgres://app@db/objects", cfg.PostgresDSN)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.SessionKey)
}

func TestLoadRejectsNonPositivePageSize(t *testing.T) {
	t.Setenv("PGMINIO_PAGE_SIZE", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.PageSize)
}
