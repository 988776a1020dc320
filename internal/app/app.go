// Package app assembles the stores shared by the server and seed commands.
package app

import (
	"context"
	"log/slog"
	"os"

	"claims-triage/internal/adapter/store"
	"claims-triage/internal/config"
	"claims-triage/internal/domain/repository"

	"github.com/cockroachdb/errors"
)

// NewLogger returns a JSON logger in production and a text logger elsewhere.
func NewLogger(cfg config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type Stores struct {
	Claims   repository.ClaimStore
	Versions repository.AIVersionStore
	close    func()
}

func (s Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStores connects to Postgres and migrates it, or falls back to the
// in-memory stores when no DATABASE_URL is configured.
func OpenStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (Stores, error) {
	if cfg.DatabaseURL == "" {
		logger.WarnContext(ctx, "DATABASE_URL not set, using in-memory stores")
		return Stores{
			Claims:   store.NewMemoryClaimStore(nil),
			Versions: store.NewMemoryAIVersionStore(nil),
		}, nil
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL, uint(cfg.DBConnectAttempts), logger)
	if err != nil {
		return Stores{}, err
	}
	if err := store.Migrate(ctx, pool); err != nil {
		pool.Close()
		return Stores{}, errors.Wrap(err, "migrate database")
	}

	return Stores{
		Claims:   store.NewPostgresClaimStore(pool, nil),
		Versions: store.NewPostgresAIVersionStore(pool, nil),
		close:    pool.Close,
	}, nil
}
