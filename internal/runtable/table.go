// Package runtable holds the state of the activity table: the active sort
// column and its direction, the current page and the selected row.
//
// A Table is driven synchronously by discrete user events and is not safe
// for concurrent use. The collection itself belongs to an Owner, which is
// handed every re-sorted copy and every highlight request.
package runtable

import (
	"slices"

	"running-page/internal/activity"
)

// Owner supplies the activities and receives the table's side effects
type Owner interface {
	// SetActivities replaces the collection with a re-ordered copy
	SetActivities(runs []activity.Activity)
	// LocateActivity asks the map view to highlight runs. Empty clears it.
	LocateActivity(ids activity.RunIDs)
}

// Options are the read-only feature flags of the table
type Options struct {
	ShowElevation bool
}

// sortState is the last applied sort
type sortState struct {
	key      SortKey
	reversed bool
}

// Table is the sortable, paginated activity table
type Table struct {
	owner    Owner
	opts     Options
	runs     []activity.Activity
	sort     sortState
	page     int
	selected GlobalIndex
}

// New creates a table over runs, on page 1 with no sort and no selection
func New(owner Owner, runs []activity.Activity, opts Options) *Table {
	return &Table{
		owner:    owner,
		opts:     opts,
		runs:     runs,
		page:     1,
		selected: NoSelection,
	}
}

// Active returns the active sort key, or SortNone
func (t *Table) Active() SortKey {
	if t.sort.reversed {
		return SortNone
	}
	return t.sort.key
}

// Applied returns the last applied sort key and its direction
func (t *Table) Applied() (SortKey, Direction) {
	return t.sort.key, t.sort.key.Direction(t.sort.reversed)
}

// Registry returns the sortable columns for the current state
func (t *Table) Registry() Registry {
	return NewRegistry(t.Active(), t.opts.ShowElevation)
}

// Page returns the current 1-indexed page
func (t *Table) Page() int {
	return t.page
}

// TotalPages returns the page count of the current collection
func (t *Table) TotalPages() int {
	return TotalPages(len(t.runs))
}

// Selected returns the selected row, or NoSelection
func (t *Table) Selected() GlobalIndex {
	return t.selected
}

// Runs returns the collection the table currently renders
func (t *Table) Runs() []activity.Activity {
	return t.runs
}

// SetRuns swaps in a collection supplied by the owner. The current page is
// clamped down if the collection shrank. Any selection is dropped together
// with its highlight, since its index may now name a different run.
func (t *Table) SetRuns(runs []activity.Activity) {
	t.runs = runs
	t.page = ClampPage(t.page, t.TotalPages())
	if t.selected != NoSelection {
		t.selected = NoSelection
		t.owner.LocateActivity(nil)
	}
}

// Comparator returns the ordering of the last header click, or nil when the
// table is unsorted. Owners use it to keep collections the table never saw
// in the same order.
func (t *Table) Comparator() Compare {
	return t.sort.key.Comparator(t.sort.reversed)
}

// ClickHeader applies the column with the given label. Clicking the active
// column flips its direction; any other column is applied canonically.
// Unknown labels leave the order as it is.
func (t *Table) ClickHeader(label string) {
	entry, found := t.Registry().Lookup(label)

	t.selected = NoSelection

	sorted := slices.Clone(t.runs)
	if found {
		slices.SortStableFunc(sorted, entry.Compare)
		t.sort = sortState{key: entry.Key, reversed: t.Active() == entry.Key}
	} else {
		t.sort = sortState{}
	}
	t.runs = sorted
	t.owner.SetActivities(sorted)

	t.page = 1
	t.owner.LocateActivity(nil)
}

// GoToPage moves to page n, clamped into range. It always clears the
// selection and the highlight, even when n is the current page.
func (t *Table) GoToPage(n int) {
	t.selected = NoSelection
	t.page = ClampPage(n, t.TotalPages())
	t.owner.LocateActivity(nil)
}

// HasPrev reports whether a previous page exists
func (t *Table) HasPrev() bool {
	return t.page > 1
}

// HasNext reports whether a next page exists
func (t *Table) HasNext() bool {
	return t.page < t.TotalPages()
}

// Prev moves back one page. It does nothing on the first page.
func (t *Table) Prev() bool {
	if !t.HasPrev() {
		return false
	}
	t.GoToPage(t.page - 1)
	return true
}

// Next moves forward one page. It does nothing on the last page.
func (t *Table) Next() bool {
	if !t.HasNext() {
		return false
	}
	t.GoToPage(t.page + 1)
	return true
}

// PageRuns returns the visible window of the collection
func (t *Table) PageRuns() []activity.Activity {
	start, end := pageWindow(t.page, len(t.runs))
	return t.runs[start:end]
}

// SelectRow toggles the row at i on the current page. Selecting a row asks
// the owner to highlight it; selecting the selected row clears both.
func (t *Table) SelectRow(i PageIndex) bool {
	start, end := pageWindow(t.page, len(t.runs))
	if i < 0 || int(i) >= end-start {
		return false
	}

	idx := i.Global(t.page)
	if idx == t.selected {
		t.selected = NoSelection
		t.owner.LocateActivity(nil)
		return true
	}
	t.selected = idx
	t.owner.LocateActivity(activity.RunIDs{t.runs[idx].RunID})
	return true
}
