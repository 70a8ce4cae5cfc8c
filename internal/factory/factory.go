package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/mtlobby/internal/dependencies/clock"
	"github.com/mcoot/mtlobby/internal/dependencies/random"
	"github.com/mcoot/mtlobby/internal/gateway"
	"github.com/mcoot/mtlobby/internal/services/cipher"
	"github.com/mcoot/mtlobby/internal/services/lobby"
	"github.com/mcoot/mtlobby/internal/services/session"
	"github.com/mcoot/mtlobby/internal/storage"
	"github.com/mcoot/mtlobby/internal/storage/memory"
	redisstorage "github.com/mcoot/mtlobby/internal/storage/redis"
	"github.com/mcoot/mtlobby/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Membership storage.Membership

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Cipher   *cipher.Service
	Registry *session.Registry
	Lobby    *lobby.Service

	// Push channel
	Gateway  *gateway.Gateway
	WSServer *ws.Server

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// CipherKey is the pre-shared key identity blobs are sealed with
	CipherKey []byte
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the membership backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// WSConfig controls websocket keepalive (optional)
	// If zero value, defaults to ws.DefaultConfig()
	WSConfig ws.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var (
		store   storage.Membership
		closers []io.Closer
	)
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	cipherService, err := cipher.New(cfg.CipherKey, rnd)
	if err != nil {
		return nil, err
	}

	wsCfg := cfg.WSConfig
	if wsCfg.PingPeriod == 0 {
		wsCfg = ws.DefaultConfig()
	}

	app := newWithDependencies(store, cipherService, clk, rnd, wsCfg, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Membership,
	cipherService *cipher.Service,
	clk clock.Clock,
	rnd random.Random,
	wsCfg ws.Config,
	logger *slog.Logger,
) *App {
	registry := session.NewRegistry(logger)
	lobbyService := lobby.NewService(registry, store, cipherService, clk, logger)
	gw := gateway.New(lobbyService, logger)
	wsServer := ws.NewServer(wsCfg, gw, logger)

	return &App{
		Membership: store,
		Clock:      clk,
		Random:     rnd,
		Cipher:     cipherService,
		Registry:   registry,
		Lobby:      lobbyService,
		Gateway:    gw,
		WSServer:   wsServer,
	}
}

// Shutdown closes every push connection and releases storage
func (a *App) Shutdown() error {
	a.Lobby.Shutdown()
	a.WSServer.CloseAll()

	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
