package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mcoot/mtlobby/internal/api"
	"github.com/mcoot/mtlobby/internal/config"
	"github.com/mcoot/mtlobby/internal/factory"
	redisstorage "github.com/mcoot/mtlobby/internal/storage/redis"
	"github.com/mcoot/mtlobby/internal/transport/ws"
)

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	key, err := cfg.Key()
	if err != nil {
		logger.Error("invalid cipher key", slog.String("error", err.Error()))
		os.Exit(1)
	}

	factoryCfg := factory.Config{
		CipherKey:   key,
		Logger:      logger,
		StorageType: cfg.StorageType,
		WSConfig: ws.Config{
			WriteWait:      cfg.WSWriteWait,
			PongWait:       cfg.WSPongWait,
			PingPeriod:     cfg.WSPingPeriod,
			SendBufferSize: cfg.WSSendBufferSize,
			MaxMessageSize: ws.DefaultConfig().MaxMessageSize,
		},
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.PoolSize = cfg.RedisPoolSize
		redisCfg.MembershipTTL = cfg.MembershipTTL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		Lobby:        app.Lobby,
		PushHandler:  app.WSServer,
		ServiceToken: cfg.ServiceToken,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	serverConfig.ShutdownTimeout = cfg.ShutdownTimeout

	// Hijacked websockets are not closed by http.Server.Shutdown
	server := api.NewServer(router, serverConfig, logger, func() {
		if err := app.Shutdown(); err != nil {
			logger.Warn("app shutdown", slog.String("error", err.Error()))
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("lobby starting",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType))

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// loadEnvFiles loads .env files without overriding the real environment
func loadEnvFiles() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
		}
	}
}
