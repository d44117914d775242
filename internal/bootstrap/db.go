package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dateideas/date-ideas-api/config"
	"github.com/dateideas/date-ideas-api/internal/storage/postgres"
)

type DBOptions struct {
	ConnectTO time.Duration
	PingTO    time.Duration
	// Migrate applies pending migrations before the store is handed out.
	Migrate bool
}

func OpenDB(ctx context.Context, cfg *config.DatabaseConfig, opt DBOptions) (*postgres.Store, error) {
	store, err := postgres.Open(ctx, cfg, postgres.Options{ConnectTO: opt.ConnectTO, PingTO: opt.PingTO})
	if err != nil {
		return nil, err
	}

	if opt.Migrate {
		if err := postgres.MigrateUp(ctx, store.DB); err != nil {
			store.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		slog.Info("database schema up to date")
	}

	return store, nil
}
