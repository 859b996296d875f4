// Package store opens whichever activity store the configuration selects.
package store

import (
	"context"
	"fmt"

	"running-page/internal/activity"
	"running-page/internal/config"
	"running-page/internal/database"
	"running-page/internal/pgstore"
)

// Store is the activity storage used by the server and the CLI
type Store interface {
	ListActivities(ctx context.Context) ([]activity.Activity, error)
	UpsertActivity(ctx context.Context, a *activity.Activity) error
	GetActivity(ctx context.Context, runID int64) (*activity.Activity, error)
	DeleteActivity(ctx context.Context, runID int64) error
	CountActivities(ctx context.Context) (int, error)
	Health(ctx context.Context) error
	Close() error
}

// Open connects to Postgres when DATABASE_URL is set and to the SQLite file
// at DATABASE_PATH otherwise. The schema is created if missing.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.UsePostgres() {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Init(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := db.Init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", cfg.DatabasePath, err)
	}
	return db, nil
}

// Describe names the backing store for log lines
func Describe(cfg *config.Config) string {
	if cfg.UsePostgres() {
		return "postgres"
	}
	return cfg.DatabasePath
}
