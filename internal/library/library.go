// Package library holds the canonical activity collection every viewer
// session starts from, and reloads it from the configured store.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"running-page/internal/activity"
	"running-page/internal/metrics"
)

// Source loads the full activity collection
type Source interface {
	ListActivities(ctx context.Context) ([]activity.Activity, error)
}

// Library is the loaded collection. It is safe for concurrent use.
type Library struct {
	source Source
	logger *slog.Logger

	mu       sync.RWMutex
	runs     []activity.Activity
	version  uint64
	loadedAt time.Time
}

// New creates an empty library over source. Call Reload to populate it.
func New(source Source) *Library {
	return &Library{
		source: source,
		logger: slog.Default(),
	}
}

// Reload replaces the collection with a fresh copy from the source. On
// failure the previous collection stays in place.
func (l *Library) Reload(ctx context.Context) error {
	start := time.Now()
	runs, err := l.source.ListActivities(ctx)
	metrics.LibraryReloadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LibraryReloadsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return fmt.Errorf("failed to reload activities: %w", err)
	}

	l.mu.Lock()
	changed := !slices.EqualFunc(l.runs, runs, sameActivity)
	if changed || l.version == 0 {
		l.runs = runs
		l.version++
	}
	l.loadedAt = time.Now()
	version := l.version
	l.mu.Unlock()

	metrics.LibraryReloadsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.LibraryActivities.Set(float64(len(runs)))
	l.logger.Info("Activities reloaded", "count", len(runs), "changed", changed, "version", version)
	return nil
}

// Snapshot returns the collection and its version. The slice must not be
// modified; sessions clone before sorting.
func (l *Library) Snapshot() ([]activity.Activity, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.runs, l.version
}

// Version changes every time a reload brings a different collection
func (l *Library) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Len returns the number of loaded activities
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.runs)
}

// LoadedAt returns the time of the last successful reload
func (l *Library) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadedAt
}

// Years lists the distinct start years, newest first
func (l *Library) Years() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var years []int
	for _, r := range l.runs {
		if y := r.Year(); y != 0 && !slices.Contains(years, y) {
			years = append(years, y)
		}
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years
}

// FilterYear returns the activities that started in year, keeping their
// order. Year 0 returns runs unchanged.
func FilterYear(runs []activity.Activity, year int) []activity.Activity {
	if year == 0 {
		return runs
	}
	var out []activity.Activity
	for _, r := range runs {
		if r.Year() == year {
			out = append(out, r)
		}
	}
	return out
}

func sameActivity(a, b activity.Activity) bool {
	return a.RunID == b.RunID &&
		a.Name == b.Name &&
		a.Distance == b.Distance &&
		a.MovingTime == b.MovingTime &&
		a.StartDateLocal == b.StartDateLocal &&
		a.AverageSpeed == b.AverageSpeed &&
		a.SummaryPolyline == b.SummaryPolyline &&
		a.HeartRateOrZero() == b.HeartRateOrZero() &&
		a.ElevationGainOrZero() == b.ElevationGainOrZero()
}
