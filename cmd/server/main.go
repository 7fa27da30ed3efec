package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/high-society/auction-server-go/internal/config"
	"github.com/high-society/auction-server-go/internal/game"
	"github.com/high-society/auction-server-go/internal/repository"
	"github.com/high-society/auction-server-go/internal/room"
	"github.com/high-society/auction-server-go/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting auction server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to initialize game state store", zap.Error(err))
	}
	defer cleanup()

	gameMgr := game.NewManager(store, logger)
	logger.Info("game manager initialized", zap.String("store_backend", cfg.Store.Backend))

	roomMgr := room.NewManager(logger)
	logger.Info("room manager initialized")

	hub := server.NewHub(roomMgr, gameMgr, logger)
	srv := server.New(cfg.Server, hub, roomMgr, logger)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.Run(groupCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("auction server stopped")
}

// buildStore selects the game-state store backend from configuration.
func buildStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (game.Store, func(), error) {
	switch cfg.Backend {
	case "postgres":
		db, err := repository.NewDB(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil
	case "redis":
		store, err := repository.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return repository.NewMemoryStore(), func() {}, nil
	}
}

// initLogger initializes the zap logger based on configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
