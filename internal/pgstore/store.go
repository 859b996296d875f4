// Package pgstore reads activities from a Postgres database that follows
// the same activities schema as the SQLite store.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"running-page/internal/activity"
	"running-page/internal/metrics"
)

// Store keeps activities in Postgres behind a connection pool
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database at connectionURL and checks it is reachable
func New(ctx context.Context, connectionURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Init creates the activities table when missing
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// ListActivities returns every activity, newest first
func (s *Store) ListActivities(ctx context.Context) ([]activity.Activity, error) {
	start := time.Now()
	defer func() {
		metrics.DBOperationDuration.WithLabelValues(metrics.DBOpListActivities).Observe(time.Since(start).Seconds())
	}()

	rows, err := s.pool.Query(ctx, listActivitiesQuery)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpListActivities).Inc()
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	activities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (activity.Activity, error) {
		return scanActivity(row)
	})
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpListActivities).Inc()
		return nil, fmt.Errorf("failed to scan activities: %w", err)
	}
	return activities, nil
}

// UpsertActivity inserts an activity or replaces the stored copy
func (s *Store) UpsertActivity(ctx context.Context, a *activity.Activity) error {
	_, err := s.pool.Exec(ctx, upsertActivityQuery,
		a.RunID, a.Name, a.Distance, a.MovingTime, a.ElapsedTime, a.Type, a.Subtype,
		a.StartDate, a.StartDateLocal, a.LocationCountry, a.SummaryPolyline,
		a.AverageHeartrate, a.ElevationGain, a.AverageSpeed, a.Streak,
	)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpUpsertActivity).Inc()
		return fmt.Errorf("failed to upsert activity: %w", err)
	}
	return nil
}

// GetActivity retrieves an activity by run ID. It returns nil when not found.
func (s *Store) GetActivity(ctx context.Context, runID int64) (*activity.Activity, error) {
	start := time.Now()
	defer func() {
		metrics.DBOperationDuration.WithLabelValues(metrics.DBOpGetActivity).Observe(time.Since(start).Seconds())
	}()

	a, err := scanActivity(s.pool.QueryRow(ctx, getActivityQuery, runID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpGetActivity).Inc()
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return &a, nil
}

// DeleteActivity removes an activity. Deleting a missing activity is not an error.
func (s *Store) DeleteActivity(ctx context.Context, runID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM activities WHERE run_id = $1`, runID); err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpDeleteActivity).Inc()
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

// CountActivities returns the number of stored activities
func (s *Store) CountActivities(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return n, nil
}

func scanActivity(row pgx.Row) (activity.Activity, error) {
	var a activity.Activity
	err := row.Scan(
		&a.RunID, &a.Name, &a.Distance, &a.MovingTime, &a.ElapsedTime, &a.Type, &a.Subtype,
		&a.StartDate, &a.StartDateLocal, &a.LocationCountry, &a.SummaryPolyline,
		&a.AverageHeartrate, &a.ElevationGain, &a.AverageSpeed, &a.Streak,
	)
	return a, err
}

// Health pings the database
func (s *Store) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases every pooled connection
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS activities (
	run_id BIGINT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	distance DOUBLE PRECISION NOT NULL DEFAULT 0,
	moving_time TEXT NOT NULL DEFAULT '',
	elapsed_time TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT '',
	subtype TEXT NOT NULL DEFAULT '',
	start_date TEXT NOT NULL DEFAULT '',
	start_date_local TEXT NOT NULL DEFAULT '',
	location_country TEXT NOT NULL DEFAULT '',
	summary_polyline TEXT NOT NULL DEFAULT '',
	average_heartrate DOUBLE PRECISION,
	elevation_gain DOUBLE PRECISION,
	average_speed DOUBLE PRECISION NOT NULL DEFAULT 0,
	streak INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const activityColumns = `
	run_id,
	name,
	distance,
	moving_time,
	elapsed_time,
	type,
	subtype,
	start_date,
	start_date_local,
	location_country,
	summary_polyline,
	average_heartrate,
	elevation_gain,
	average_speed,
	streak`

const listActivitiesQuery = `SELECT` + activityColumns + `
FROM activities
ORDER BY start_date_local DESC, run_id DESC`

const getActivityQuery = `SELECT` + activityColumns + `
FROM activities
WHERE run_id = $1`

const upsertActivityQuery = `
INSERT INTO activities (
	run_id,
	name,
	distance,
	moving_time,
	elapsed_time,
	type,
	subtype,
	start_date,
	start_date_local,
	location_country,
	summary_polyline,
	average_heartrate,
	elevation_gain,
	average_speed,
	streak
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
) ON CONFLICT (run_id) DO UPDATE SET
	name = EXCLUDED.name,
	distance = EXCLUDED.distance,
	moving_time = EXCLUDED.moving_time,
	elapsed_time = EXCLUDED.elapsed_time,
	type = EXCLUDED.type,
	subtype = EXCLUDED.subtype,
	start_date = EXCLUDED.start_date,
	start_date_local = EXCLUDED.start_date_local,
	location_country = EXCLUDED.location_country,
	summary_polyline = EXCLUDED.summary_polyline,
	average_heartrate = EXCLUDED.average_heartrate,
	elevation_gain = EXCLUDED.elevation_gain,
	average_speed = EXCLUDED.average_speed,
	streak = EXCLUDED.streak,
	updated_at = now()`
