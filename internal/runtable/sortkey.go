package runtable

import (
	"cmp"

	"running-page/internal/activity"
)

// SortKey identifies a sortable column of the table
type SortKey int

const (
	SortNone SortKey = iota
	SortDistance
	SortElevation
	SortPace
	SortHeartRate
	SortTime
	SortDate
)

// allKeys is the declared column order
var allKeys = []SortKey{SortDistance, SortElevation, SortPace, SortHeartRate, SortTime, SortDate}

// Label returns the header text of the key. SortNone has no label.
func (k SortKey) Label() string {
	switch k {
	case SortDistance:
		return "KM"
	case SortElevation:
		return "Elev"
	case SortPace:
		return "Pace"
	case SortHeartRate:
		return "BPM"
	case SortTime:
		return "Time"
	case SortDate:
		return "Date"
	}
	return ""
}

func (k SortKey) String() string {
	if k == SortNone {
		return "none"
	}
	return k.Label()
}

// ParseSortKey maps a header label back to its key
func ParseSortKey(label string) (SortKey, bool) {
	for _, k := range allKeys {
		if k.Label() == label {
			return k, true
		}
	}
	return SortNone, false
}

// Direction is the order a comparator produces
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return ""
}

// Compare orders two activities the way slices.SortStableFunc expects
type Compare func(a, b activity.Activity) int

// Direction returns the order the key produces when applied canonically
// (reversed=false) or as the toggled alternative (reversed=true).
// Numeric columns start descending, Date starts chronological.
func (k SortKey) Direction(reversed bool) Direction {
	if k == SortNone {
		return Unsorted
	}
	canonical := Descending
	if k == SortDate {
		canonical = Ascending
	}
	if !reversed {
		return canonical
	}
	if canonical == Ascending {
		return Descending
	}
	return Ascending
}

// Comparator returns the comparator of the key in the given polarity.
// SortNone has no comparator.
func (k SortKey) Comparator(reversed bool) Compare {
	var field func(activity.Activity) float64
	switch k {
	case SortNone:
		return nil
	case SortDistance:
		field = func(a activity.Activity) float64 { return a.Distance }
	case SortElevation:
		field = activity.Activity.ElevationGainOrZero
	case SortPace:
		field = func(a activity.Activity) float64 { return a.AverageSpeed }
	case SortHeartRate:
		field = activity.Activity.HeartRateOrZero
	case SortTime:
		field = func(a activity.Activity) float64 { return a.Moving().Seconds() }
	case SortDate:
		if k.Direction(reversed) == Descending {
			return func(a, b activity.Activity) int { return b.StartTime().Compare(a.StartTime()) }
		}
		return func(a, b activity.Activity) int { return a.StartTime().Compare(b.StartTime()) }
	default:
		panic("runtable: unknown sort key")
	}

	if k.Direction(reversed) == Ascending {
		return func(a, b activity.Activity) int { return cmp.Compare(field(a), field(b)) }
	}
	return func(a, b activity.Activity) int { return cmp.Compare(field(b), field(a)) }
}
