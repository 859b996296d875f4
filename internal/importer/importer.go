// Package importer loads activities into the store from FIT files and from
// exported activities.json documents.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"running-page/internal/activity"
)

// Target stores imported activities
type Target interface {
	UpsertActivity(ctx context.Context, a *activity.Activity) error
}

// Importer writes decoded activities to a Target
type Importer struct {
	target Target
	logger *slog.Logger
}

// New creates an importer writing to target
func New(target Target) *Importer {
	return &Importer{
		target: target,
		logger: slog.Default(),
	}
}

// ImportFIT decodes one FIT file and stores it. The activity is named after
// the file.
func (im *Importer) ImportFIT(ctx context.Context, path string) (*activity.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fit file: %w", err)
	}

	a, err := DecodeFIT(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if err := im.target.UpsertActivity(ctx, a); err != nil {
		return nil, fmt.Errorf("store %s: %w", path, err)
	}

	im.logger.Info("Imported FIT activity", "path", path, "run_id", a.RunID)
	return a, nil
}

// ImportJSON stores every activity in an activities.json array and returns
// how many were written
func (im *Importer) ImportJSON(ctx context.Context, r io.Reader) (int, error) {
	var runs []activity.Activity
	if err := json.NewDecoder(r).Decode(&runs); err != nil {
		return 0, fmt.Errorf("decode activities: %w", err)
	}

	for i := range runs {
		if runs[i].RunID == 0 {
			return i, fmt.Errorf("activity %d has no run_id", i)
		}
		if err := im.target.UpsertActivity(ctx, &runs[i]); err != nil {
			return i, fmt.Errorf("store run %d: %w", runs[i].RunID, err)
		}
	}

	im.logger.Info("Imported activities", "count", len(runs))
	return len(runs), nil
}

// DecodeFIT reads the first session of a FIT activity file
func DecodeFIT(r io.Reader) (*activity.Activity, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FIT file: %w", err)
	}

	af, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("failed to get activity from FIT: %w", err)
	}
	return fromActivityFile(af)
}

func fromActivityFile(af *fit.ActivityFile) (*activity.Activity, error) {
	if len(af.Sessions) == 0 || af.Sessions[0] == nil {
		return nil, errors.New("no sessions found in FIT file")
	}
	s := af.Sessions[0]
	if s.StartTime.IsZero() {
		return nil, errors.New("session has no start time")
	}

	start := s.StartTime.UTC()
	moving := seconds(s.GetTotalTimerTimeScaled())
	elapsed := seconds(s.GetTotalElapsedTimeScaled())
	distance := finite(s.GetTotalDistanceScaled())

	speed := finite(s.GetEnhancedAvgSpeedScaled())
	if speed == 0 {
		speed = finite(s.GetAvgSpeedScaled())
	}
	if speed == 0 && moving > 0 {
		speed = distance / moving.Seconds()
	}

	a := &activity.Activity{
		RunID:          start.UnixMilli(),
		Distance:       distance,
		MovingTime:     activity.FormatMovingTime(moving),
		ElapsedTime:    activity.FormatMovingTime(elapsed),
		Type:           sportType(s.Sport),
		StartDate:      start.Format(activity.DateLayout),
		StartDateLocal: start.Add(localOffset(af)).Format(activity.DateLayout),
		AverageSpeed:   speed,
	}
	a.Name = a.Type

	if s.AvgHeartRate != 0 && s.AvgHeartRate != 0xFF {
		hr := float64(s.AvgHeartRate)
		a.AverageHeartrate = &hr
	}
	if s.TotalAscent != 0xFFFF {
		gain := float64(s.TotalAscent)
		a.ElevationGain = &gain
	}

	return a, nil
}

// localOffset is the device's UTC offset, taken from the activity message
func localOffset(af *fit.ActivityFile) time.Duration {
	if af.Activity == nil || af.Activity.Timestamp.IsZero() || af.Activity.LocalTimestamp.IsZero() {
		return 0
	}
	off := af.Activity.LocalTimestamp.Sub(af.Activity.Timestamp).Round(15 * time.Minute)
	if off < -14*time.Hour || off > 14*time.Hour {
		return 0
	}
	return off
}

func sportType(sport fit.Sport) string {
	switch sport {
	case fit.SportRunning:
		return "Run"
	case fit.SportWalking:
		return "Walk"
	case fit.SportHiking:
		return "Hike"
	case fit.SportCycling:
		return "Ride"
	case fit.SportSwimming:
		return "Swim"
	}
	return sport.String()
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func seconds(v float64) time.Duration {
	return time.Duration(finite(v) * float64(time.Second)).Round(time.Second)
}
