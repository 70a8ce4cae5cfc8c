package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CIPHER_KEY", "0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "memory", cfg.StorageType)
	assert.Equal(t, 24*time.Hour, cfg.MembershipTTL)
	assert.Equal(t, 50*time.Second, cfg.WSPingPeriod)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestLoadRequiresCipherKey(t *testing.T) {
	t.Setenv("CIPHER_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadKeyLength(t *testing.T) {
	t.Setenv("CIPHER_KEY", "short")

	_, err := Load()
	assert.ErrorContains(t, err, "CIPHER_KEY")
}

func TestBase64Key(t *testing.T) {
	// 32 zero bytes
	t.Setenv("CIPHER_KEY", "base64:AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")

	cfg, err := Load()
	require.NoError(t, err)

	key, err := cfg.Key()
	require.NoError(t, err)
	assert.Len(t, key, 32)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CIPHER_KEY", "0123456789abcdef")
	t.Setenv("LOBBY_PORT", "9100")
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")
	t.Setenv("MEMBERSHIP_TTL", "90m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "redis", cfg.StorageType)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, 90*time.Minute, cfg.MembershipTTL)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("CIPHER_KEY", "0123456789abcdef")
	t.Setenv("STORAGE_TYPE", "postgres")

	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_TYPE")
}

func TestLoadRejectsPingSlowerThanPong(t *testing.T) {
	t.Setenv("CIPHER_KEY", "0123456789abcdef")
	t.Setenv("WS_PING_PERIOD", "2m")

	_, err := Load()
	assert.ErrorContains(t, err, "WS_PING_PERIOD")
}
