package metrics

import (
	"context"
	"log/slog"
	"time"
)

// Source reports the sizes the collector publishes
type Source interface {
	SessionCount() int
	ActivityCount() int
}

// StartCollector starts a loop that periodically publishes session and
// collection sizes. It returns when ctx is cancelled.
func StartCollector(ctx context.Context, src Source, interval time.Duration) {
	logger := slog.Default()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect once immediately
	collect(src)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Metrics collector stopping")
			return
		case <-ticker.C:
			collect(src)
		}
	}
}

func collect(src Source) {
	ActiveSessions.Set(float64(src.SessionCount()))
	LibraryActivities.Set(float64(src.ActivityCount()))
}
