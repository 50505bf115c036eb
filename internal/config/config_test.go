package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8082, cfg.Server.Port)
	assert.True(t, cfg.Features.Email, "email is the only channel on by default")
	assert.False(t, cfg.Features.SMS)
	assert.False(t, cfg.Features.Push)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, 1, cfg.Bulk.Concurrency, "campaigns run sequentially unless tuned")
	assert.Equal(t, 15, cfg.Bulk.SendTimeoutSec)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 86400, cfg.Queue.ReportTTLSec)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HERALD_FEATURES_SMS", "true")
	t.Setenv("HERALD_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Features.SMS)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadCommaSeparatedAPIKeys(t *testing.T) {
	t.Setenv("HERALD_AUTH_API_KEYS", "key-a, key-b ,key-c")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"key-a", "key-b", "key-c"}, cfg.Auth.APIKeys)
}
