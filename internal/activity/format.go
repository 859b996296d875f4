package activity

import (
	"fmt"
	"math"
	"time"
)

// Kilometres formats the distance in km with two decimals
func (a Activity) Kilometres() string {
	return fmt.Sprintf("%.2f", a.Distance/1000)
}

// Elevation formats the elevation gain in whole metres
func (a Activity) Elevation() string {
	return fmt.Sprintf("%.0f", a.ElevationGainOrZero())
}

// Pace formats the average speed as minutes per km, e.g. 5'07"
func (a Activity) Pace() string {
	if a.AverageSpeed <= 0 || math.IsNaN(a.AverageSpeed) {
		return ""
	}
	pace := 1000 / a.AverageSpeed
	minutes := math.Floor(pace / 60)
	seconds := math.Round(pace - minutes*60)
	if seconds == 60 {
		minutes++
		seconds = 0
	}
	return fmt.Sprintf("%.0f'%02.0f\"", minutes, seconds)
}

// HeartRate formats the average heart rate, empty when not recorded
func (a Activity) HeartRate() string {
	if a.AverageHeartrate == nil {
		return ""
	}
	return fmt.Sprintf("%.0f", *a.AverageHeartrate)
}

// RunTime formats the moving time as H:MM:SS, or MM:SS under an hour
func (a Activity) RunTime() string {
	d := a.Moving().Round(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
