// Package main runs the Thirty server: the Telnet table and the HTTP results API.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/thirty/internal/api"
	"github.com/cory-johannsen/thirty/internal/config"
	"github.com/cory-johannsen/thirty/internal/frontend/handlers"
	"github.com/cory-johannsen/thirty/internal/frontend/telnet"
	"github.com/cory-johannsen/thirty/internal/game/command"
	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/match"
	"github.com/cory-johannsen/thirty/internal/game/session"
	"github.com/cory-johannsen/thirty/internal/observability"
	"github.com/cory-johannsen/thirty/internal/server"
	"github.com/cory-johannsen/thirty/internal/storage/postgres"
	"github.com/cory-johannsen/thirty/internal/storage/snapshotfile"
)

const healthInterval = 30 * time.Second

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, cfg.Server.Name)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting thirty server",
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("rounds", cfg.Game.Rounds),
		zap.Int("throws_per_round", cfg.Game.ThrowsPerRound),
	)

	ctx := context.Background()
	lifecycle := server.NewLifecycle(logger)

	var (
		store  match.Store
		health api.HealthFunc
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		tx, err := pool.NewTxManager()
		if err != nil {
			logger.Fatal("creating transaction manager", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		store = postgres.NewMatchRepository(pool.DB(), tx)
		health = func(ctx context.Context) error { return pool.Health(ctx, 2*time.Second) }
		lifecycle.Add("postgres", keepAlive(pool, logger))
	default:
		fileStore, err := snapshotfile.New(cfg.Storage.Dir)
		if err != nil {
			logger.Fatal("opening snapshot directory", zap.Error(err))
		}
		ids, err := fileStore.IDs()
		if err != nil {
			logger.Fatal("listing saved matches", zap.Error(err))
		}
		logger.Info("snapshot store opened", zap.String("dir", cfg.Storage.Dir), zap.Int("matches", len(ids)))
		store = fileStore
	}

	sessions := session.NewManager()
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	rules := match.Rules{Rounds: cfg.Game.Rounds, ThrowsPerRound: cfg.Game.ThrowsPerRound}

	gameHandler := handlers.NewGameHandler(store, sessions, command.DefaultRegistry(), roller, rules, logger)
	lifecycle.Add("telnet", telnet.NewAcceptor(cfg.Telnet, gameHandler, logger))

	if cfg.HTTP.Enabled {
		h := api.NewHandler(api.HandlerDeps{
			Snapshots: store,
			Presence:  sessions,
			Health:    health,
			Logger:    logger,
		})
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr(),
			Handler:           api.NewRouter(h, cfg.HTTP.AllowedOrigins),
			ReadHeaderTimeout: 5 * time.Second,
		}
		lifecycle.Add("http", server.NewHTTPService(srv, cfg.Server.ShutdownTimeout))
	}

	logger.Info("server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.Bool("http_enabled", cfg.HTTP.Enabled),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// keepAlive pings the database until stopped, then closes the pool.
func keepAlive(pool *postgres.Pool, logger *zap.Logger) server.Service {
	done := make(chan struct{})
	return &server.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(healthInterval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return nil
				case <-ticker.C:
					if err := pool.Health(context.Background(), 5*time.Second); err != nil {
						logger.Warn("database health check failed", zap.Error(err))
					}
				}
			}
		},
		StopFn: func() {
			close(done)
			pool.Close()
		},
	}
}
