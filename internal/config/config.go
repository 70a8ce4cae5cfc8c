package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the lobby service
type Config struct {
	// Service settings
	Host            string        `env:"LOBBY_HOST" envDefault:""`
	Port            int           `env:"LOBBY_PORT" envDefault:"3000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Identity blobs. Raw text, or base64 when prefixed with "base64:".
	CipherKey string `env:"CIPHER_KEY,required"`

	// Bearer token required on /turn, /add_mt_table, /leave and player lookups.
	// Empty disables the check.
	ServiceToken string `env:"LOBBY_SERVICE_TOKEN"`

	// Membership storage
	StorageType   string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL      string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MembershipTTL time.Duration `env:"MEMBERSHIP_TTL" envDefault:"24h"`

	// Push channel
	WSWriteWait      time.Duration `env:"WS_WRITE_WAIT" envDefault:"10s"`
	WSPongWait       time.Duration `env:"WS_PONG_WAIT" envDefault:"60s"`
	WSPingPeriod     time.Duration `env:"WS_PING_PERIOD" envDefault:"50s"`
	WSSendBufferSize int           `env:"WS_SEND_BUFFER" envDefault:"256"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express
func (c *Config) Validate() error {
	key, err := c.Key()
	if err != nil {
		return err
	}
	switch len(key) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("CIPHER_KEY must be 16, 24 or 32 bytes, got %d", len(key))
	}

	switch c.StorageType {
	case "memory", "redis":
	default:
		return fmt.Errorf("STORAGE_TYPE must be memory or redis, got %q", c.StorageType)
	}
	if c.StorageType == "redis" && strings.TrimSpace(c.RedisURL) == "" {
		return fmt.Errorf("REDIS_URL is required when STORAGE_TYPE is redis")
	}

	if c.WSPingPeriod >= c.WSPongWait {
		return fmt.Errorf("WS_PING_PERIOD (%s) must be shorter than WS_PONG_WAIT (%s)", c.WSPingPeriod, c.WSPongWait)
	}
	return nil
}

// Key returns the decoded cipher key
func (c *Config) Key() ([]byte, error) {
	if encoded, ok := strings.CutPrefix(c.CipherKey, "base64:"); ok {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode CIPHER_KEY: %w", err)
		}
		return key, nil
	}
	return []byte(c.CipherKey), nil
}

// Level returns the slog level named by LogLevel, defaulting to info
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
