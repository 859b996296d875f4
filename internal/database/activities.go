package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"running-page/internal/activity"
	"running-page/internal/metrics"
)

const activityColumns = `
	run_id, name, distance, moving_time, elapsed_time, type, subtype,
	start_date, start_date_local, location_country, summary_polyline,
	average_heartrate, elevation_gain, average_speed, streak`

// UpsertActivity inserts an activity or replaces the stored copy
func (db *DB) UpsertActivity(ctx context.Context, a *activity.Activity) error {
	defer observe(metrics.DBOpUpsertActivity)()

	now := time.Now().Unix()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			name = excluded.name,
			distance = excluded.distance,
			moving_time = excluded.moving_time,
			elapsed_time = excluded.elapsed_time,
			type = excluded.type,
			subtype = excluded.subtype,
			start_date = excluded.start_date,
			start_date_local = excluded.start_date_local,
			location_country = excluded.location_country,
			summary_polyline = excluded.summary_polyline,
			average_heartrate = excluded.average_heartrate,
			elevation_gain = excluded.elevation_gain,
			average_speed = excluded.average_speed,
			streak = excluded.streak,
			updated_at = excluded.updated_at
	`, a.RunID, a.Name, a.Distance, a.MovingTime, a.ElapsedTime, a.Type, a.Subtype,
		a.StartDate, a.StartDateLocal, a.LocationCountry, a.SummaryPolyline,
		a.AverageHeartrate, a.ElevationGain, a.AverageSpeed, a.Streak,
		now, now)

	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpUpsertActivity).Inc()
		return fmt.Errorf("failed to upsert activity: %w", err)
	}
	return nil
}

// GetActivity retrieves an activity by run ID. It returns nil when not found.
func (db *DB) GetActivity(ctx context.Context, runID int64) (*activity.Activity, error) {
	defer observe(metrics.DBOpGetActivity)()

	row := db.conn.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE run_id = ?`, runID)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpGetActivity).Inc()
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

// DeleteActivity removes an activity. Deleting a missing activity is not an error.
func (db *DB) DeleteActivity(ctx context.Context, runID int64) error {
	defer observe(metrics.DBOpDeleteActivity)()

	if _, err := db.conn.ExecContext(ctx, `DELETE FROM activities WHERE run_id = ?`, runID); err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpDeleteActivity).Inc()
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

// ListActivities returns every activity, newest first
func (db *DB) ListActivities(ctx context.Context) ([]activity.Activity, error) {
	defer observe(metrics.DBOpListActivities)()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		ORDER BY start_date_local DESC, run_id DESC
	`)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpListActivities).Inc()
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []activity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}

// CountActivities returns the number of stored activities
func (db *DB) CountActivities(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(s scanner) (*activity.Activity, error) {
	var a activity.Activity
	var heartrate, elevation sql.NullFloat64
	err := s.Scan(
		&a.RunID, &a.Name, &a.Distance, &a.MovingTime, &a.ElapsedTime, &a.Type, &a.Subtype,
		&a.StartDate, &a.StartDateLocal, &a.LocationCountry, &a.SummaryPolyline,
		&heartrate, &elevation, &a.AverageSpeed, &a.Streak,
	)
	if err != nil {
		return nil, err
	}
	if heartrate.Valid {
		a.AverageHeartrate = &heartrate.Float64
	}
	if elevation.Valid {
		a.ElevationGain = &elevation.Float64
	}
	return &a, nil
}

// observe times a database operation; use as defer observe(op)()
func observe(op string) func() {
	start := time.Now()
	return func() {
		metrics.DBOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}
