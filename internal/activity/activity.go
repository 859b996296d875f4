package activity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout of StartDate and StartDateLocal
const DateLayout = "2006-01-02 15:04:05"

// Activity represents one exercise session as exported by the running page
type Activity struct {
	RunID            int64    `json:"run_id"`
	Name             string   `json:"name"`
	Distance         float64  `json:"distance"`
	MovingTime       string   `json:"moving_time"`
	ElapsedTime      string   `json:"elapsed_time"`
	Type             string   `json:"type"`
	Subtype          string   `json:"subtype,omitempty"`
	StartDate        string   `json:"start_date"`
	StartDateLocal   string   `json:"start_date_local"`
	LocationCountry  string   `json:"location_country,omitempty"`
	SummaryPolyline  string   `json:"summary_polyline,omitempty"`
	AverageHeartrate *float64 `json:"average_heartrate,omitempty"`
	AverageSpeed     float64  `json:"average_speed"`
	ElevationGain    *float64 `json:"elevation_gain,omitempty"`
	Streak           int      `json:"streak,omitempty"`
}

// RunIDs is the set of activities a map view should highlight
type RunIDs []int64

// HeartRateOrZero returns the average heart rate, treating a missing value as 0
func (a Activity) HeartRateOrZero() float64 {
	if a.AverageHeartrate == nil {
		return 0
	}
	return *a.AverageHeartrate
}

// ElevationGainOrZero returns the elevation gain, treating a missing value as 0
func (a Activity) ElevationGainOrZero() float64 {
	if a.ElevationGain == nil {
		return 0
	}
	return *a.ElevationGain
}

// Moving returns the parsed moving time
func (a Activity) Moving() time.Duration {
	return ParseMovingTime(a.MovingTime)
}

// StartTime parses StartDateLocal. Unparsable dates give the zero time.
func (a Activity) StartTime() time.Time {
	t, err := time.Parse(DateLayout, strings.Replace(a.StartDateLocal, "T", " ", 1))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Year returns the local start year, or 0 when the date is unparsable
func (a Activity) Year() int {
	t := a.StartTime()
	if t.IsZero() {
		return 0
	}
	return t.Year()
}

// ParseMovingTime converts "H:MM:SS" or "N day(s), H:MM:SS" into a duration.
// Seconds may carry a fractional part. Empty or malformed components count as zero.
// Values beyond the range of time.Duration saturate.
func ParseMovingTime(s string) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	var days float64
	clock := s
	if i := strings.LastIndex(s, ", "); i >= 0 {
		days = parseNumber(strings.Fields(s[:i])...)
		clock = s[i+2:]
	}

	parts := strings.Split(clock, ":")
	var hours, minutes, seconds float64
	switch len(parts) {
	case 3:
		hours, minutes, seconds = parseNumber(parts[0]), parseNumber(parts[1]), parseNumber(parts[2])
	case 2:
		minutes, seconds = parseNumber(parts[0]), parseNumber(parts[1])
	case 1:
		seconds = parseNumber(parts[0])
	}

	ns := (((days*24+hours)*60+minutes)*60 + seconds) * float64(time.Second)
	switch {
	case math.IsNaN(ns):
		return 0
	case ns >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	case ns <= math.MinInt64:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(math.Round(ns))
}

// parseNumber parses the first field as a number, returning 0 on failure
func parseNumber(fields ...string) float64 {
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatMovingTime renders a duration in the encoding ParseMovingTime reads
func FormatMovingTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Round(time.Second) / time.Second)
	days := total / 86400
	total %= 86400
	clock := fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	switch {
	case days == 1:
		return "1 day, " + clock
	case days > 1:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
	return clock
}
