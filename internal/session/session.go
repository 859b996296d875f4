// Package session keeps one activity table per viewer. A session is the
// owner of its table's collection: it stores every re-sorted copy the table
// hands back and the set of runs the map view should highlight.
package session

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"running-page/internal/activity"
	"running-page/internal/library"
	"running-page/internal/metrics"
	"running-page/internal/runtable"
)

// owner receives the table's callbacks. all is the whole collection in the
// order the viewer last chose; runs is all restricted to the year filter and
// is what the table renders. It is only touched with the session lock held.
type owner struct {
	all       []activity.Activity
	runs      []activity.Activity
	highlight activity.RunIDs
}

func (o *owner) SetActivities(runs []activity.Activity) {
	o.runs = runs
}

func (o *owner) LocateActivity(ids activity.RunIDs) {
	o.highlight = slices.Clone(ids)
}

// applyOrder re-orders the whole collection with the comparator the table
// just applied to the filtered one, so filtering it again gives the same rows
// in the same order
func (o *owner) applyOrder(c runtable.Compare) {
	if c == nil {
		return
	}
	o.all = slices.Clone(o.all)
	slices.SortStableFunc(o.all, c)
}

// adopt replaces the whole collection with a reloaded one. Runs already
// known keep their current relative order, new runs follow in source order,
// then the last applied sort is re-applied.
func (o *owner) adopt(runs []activity.Activity, c runtable.Compare) {
	pos := make(map[int64]int, len(o.all))
	for i, r := range o.all {
		pos[r.RunID] = i
	}
	rank := func(r activity.Activity) int {
		if i, ok := pos[r.RunID]; ok {
			return i
		}
		return len(o.all)
	}

	all := slices.Clone(runs)
	slices.SortStableFunc(all, func(a, b activity.Activity) int {
		return cmp.Compare(rank(a), rank(b))
	})
	if c != nil {
		slices.SortStableFunc(all, c)
	}
	o.all = all
}

// Session is one viewer's table state. It is safe for concurrent use.
type Session struct {
	ID uuid.UUID

	lib *library.Library

	mu       sync.Mutex
	owner    owner
	table    *runtable.Table
	year     int
	version  uint64
	lastSeen time.Time
}

// Snapshot is a consistent copy of what a session renders
type Snapshot struct {
	View      runtable.View
	Highlight []activity.Activity
	Year      int
}

func newSession(id uuid.UUID, lib *library.Library, opts runtable.Options, now time.Time) *Session {
	runs, version := lib.Snapshot()
	s := &Session{
		ID:       id,
		lib:      lib,
		version:  version,
		lastSeen: now,
	}
	s.owner.all = runs
	s.owner.runs = runs
	s.table = runtable.New(&s.owner, runs, opts)
	return s
}

// sync picks up a reloaded library. Must be called with mu held.
func (s *Session) sync() {
	runs, version := s.lib.Snapshot()
	if version == s.version {
		return
	}
	s.version = version
	s.owner.adopt(runs, s.table.Comparator())
	s.applyFilter()
}

// applyFilter hands the table the year's slice of the whole collection.
// Must be called with mu held.
func (s *Session) applyFilter() {
	s.owner.runs = library.FilterYear(s.owner.all, s.year)
	s.table.SetRuns(s.owner.runs)
}

// ClickHeader sorts by the column with the given label
func (s *Session) ClickHeader(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	s.table.ClickHeader(label)
	s.owner.applyOrder(s.table.Comparator())
	metrics.TableActionsTotal.WithLabelValues(metrics.ActionSort).Inc()
	if k, ok := runtable.ParseSortKey(label); ok {
		metrics.SortClicksTotal.WithLabelValues(k.Label()).Inc()
	}
}

// GoToPage moves to page n, clamped into range
func (s *Session) GoToPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	s.table.GoToPage(n)
	metrics.TableActionsTotal.WithLabelValues(metrics.ActionPage).Inc()
}

// Prev moves back one page if there is one
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	if !s.table.Prev() {
		return false
	}
	metrics.TableActionsTotal.WithLabelValues(metrics.ActionPage).Inc()
	return true
}

// Next moves forward one page if there is one
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	if !s.table.Next() {
		return false
	}
	metrics.TableActionsTotal.WithLabelValues(metrics.ActionPage).Inc()
	return true
}

// SelectRow toggles the row at the given position on the current page
func (s *Session) SelectRow(i runtable.PageIndex) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	if !s.table.SelectRow(i) {
		return false
	}
	metrics.TableActionsTotal.WithLabelValues(metrics.ActionSelect).Inc()
	return true
}

// SetYear restricts the collection to one start year; 0 shows all years.
// The table keeps its order and page, clamped if the collection shrank. Any
// selection is cleared.
func (s *Session) SetYear(year int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	s.year = year
	s.applyFilter()
	metrics.TableActionsTotal.WithLabelValues(metrics.ActionFilter).Inc()
}

// Snapshot returns the current view and highlighted runs
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync()

	var highlight []activity.Activity
	for _, r := range s.owner.runs {
		if slices.Contains(s.owner.highlight, r.RunID) {
			highlight = append(highlight, r)
		}
	}

	return Snapshot{
		View:      s.table.View(),
		Highlight: highlight,
		Year:      s.year,
	}
}

// Highlighted returns the run IDs the map view should highlight
func (s *Session) Highlighted() activity.RunIDs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.owner.highlight)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
