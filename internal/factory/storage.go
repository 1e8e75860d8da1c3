package factory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/config"
	storepkg "github.com/HamidMoopen/memo-ai-sub000/internal/store"
	storepg "github.com/HamidMoopen/memo-ai-sub000/internal/store/postgres"
	storesqlite "github.com/HamidMoopen/memo-ai-sub000/internal/store/sqlite"
)

// OpenDB opens the database selected by cfg.DBDriver without touching the schema.
func OpenDB(cfg *config.Config) (*sql.DB, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("%s_POSTGRES_DSN is required when DB_DRIVER=postgres", config.Prefix)
		}
		return storepg.Open(cfg.PostgresDSN)
	case config.DriverSQLite:
		return storesqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

// Migrate applies the schema for cfg.DBDriver. Statements are idempotent.
func Migrate(ctx context.Context, cfg *config.Config, db *sql.DB) error {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return storepg.Migrate(ctx, db)
	case config.DriverSQLite:
		return storesqlite.Migrate(ctx, db)
	default:
		return fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

// NewStore opens and migrates the configured database and returns the store
// with the underlying handle so the caller can close it.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, *sql.DB, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := Migrate(ctx, cfg, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", cfg.DBDriver, err)
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("store ready")

	if cfg.DBDriver == config.DriverPostgres {
		return storepg.NewWithDB(db), db, nil
	}
	return storesqlite.NewWithDB(db), db, nil
}
