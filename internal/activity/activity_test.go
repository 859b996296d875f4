package activity

import (
	"math"
	"testing"
	"time"
)

func TestParseMovingTime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{"empty", "", 0},
		{"clock", "0:45:30", 45*time.Minute + 30*time.Second},
		{"padded hours", "01:00:00", time.Hour},
		{"fractional seconds", "0:00:30.500000", 30*time.Second + 500*time.Millisecond},
		{"one day", "1 day, 2:00:00", 26 * time.Hour},
		{"days", "2 days, 0:00:01", 48*time.Hour + time.Second},
		{"minutes only", "12:05", 12*time.Minute + 5*time.Second},
		{"garbage", "abc", 0},
		{"garbage component", "1:xx:10", time.Hour + 10*time.Second},
		{"microseconds", "0:00:01.000001", time.Second + time.Microsecond},
		{"huge", "1e300 days, 0:00:00", time.Duration(math.MaxInt64)},
		{"huge negative", "-1e300 days, 0:00:00", time.Duration(math.MinInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMovingTime(tt.in); got != tt.want {
				t.Errorf("ParseMovingTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMovingTimeEqualAcrossFormats(t *testing.T) {
	if ParseMovingTime("1:00:00") != ParseMovingTime("01:00:00.000000") {
		t.Error("Expected equal durations for differently formatted strings")
	}
}

func TestParseMovingTimeKeepsSubMillisecondOrder(t *testing.T) {
	a, b := ParseMovingTime("0:00:01.0001"), ParseMovingTime("0:00:01.0002")
	if a >= b {
		t.Errorf("Expected %v < %v", a, b)
	}
}

func TestFormatMovingTimeRoundTrip(t *testing.T) {
	for _, d := range []time.Duration{0, 59 * time.Second, 45*time.Minute + 3*time.Second, 26*time.Hour + 5*time.Minute, 49 * time.Hour} {
		s := FormatMovingTime(d)
		if got := ParseMovingTime(s); got != d {
			t.Errorf("FormatMovingTime(%v) = %q, parsed back as %v", d, s, got)
		}
	}
	if got := FormatMovingTime(26 * time.Hour); got != "1 day, 2:00:00" {
		t.Errorf("Expected '1 day, 2:00:00', got %q", got)
	}
}

func TestStartTime(t *testing.T) {
	a := Activity{StartDateLocal: "2024-03-09 07:15:00"}
	want := time.Date(2024, 3, 9, 7, 15, 0, 0, time.UTC)
	if got := a.StartTime(); !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if a.Year() != 2024 {
		t.Errorf("Expected year 2024, got %d", a.Year())
	}

	bad := Activity{StartDateLocal: "yesterday"}
	if !bad.StartTime().IsZero() {
		t.Error("Expected zero time for unparsable date")
	}
	if bad.Year() != 0 {
		t.Errorf("Expected year 0, got %d", bad.Year())
	}
}

func TestOptionalFieldsDefaultToZero(t *testing.T) {
	var a Activity
	if a.HeartRateOrZero() != 0 || a.ElevationGainOrZero() != 0 {
		t.Error("Expected missing optional fields to read as 0")
	}
	if a.HeartRate() != "" {
		t.Errorf("Expected empty heart rate, got %q", a.HeartRate())
	}
}

func TestDisplayHelpers(t *testing.T) {
	hr := 152.4
	a := Activity{
		Distance:         10234,
		AverageSpeed:     1000.0 / 307, // 5'07" per km
		AverageHeartrate: &hr,
		MovingTime:       "0:52:20",
	}

	if got := a.Kilometres(); got != "10.23" {
		t.Errorf("Expected 10.23, got %s", got)
	}
	if got := a.Pace(); got != `5'07"` {
		t.Errorf(`Expected 5'07", got %s`, got)
	}
	if got := a.HeartRate(); got != "152" {
		t.Errorf("Expected 152, got %s", got)
	}
	if got := a.RunTime(); got != "52:20" {
		t.Errorf("Expected 52:20, got %s", got)
	}

	a.MovingTime = "1:02:03"
	if got := a.RunTime(); got != "1:02:03" {
		t.Errorf("Expected 1:02:03, got %s", got)
	}

	a.AverageSpeed = 0
	if a.Pace() != "" {
		t.Errorf("Expected empty pace at zero speed, got %s", a.Pace())
	}
}
