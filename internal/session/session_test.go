package session

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"running-page/internal/activity"
	"running-page/internal/library"
	"running-page/internal/runtable"
)

type fakeSource struct {
	runs []activity.Activity
}

func (f *fakeSource) ListActivities(ctx context.Context) ([]activity.Activity, error) {
	return f.runs, nil
}

// makeRuns builds n runs, newest first, split across 2023 and 2024
func makeRuns(n int) []activity.Activity {
	base := time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)
	runs := make([]activity.Activity, n)
	for i := range runs {
		runs[i] = activity.Activity{
			RunID:          int64(i + 1),
			Distance:       float64(1000 + (i*37)%500),
			StartDateLocal: base.Add(-time.Duration(i) * 10 * 24 * time.Hour).Format(activity.DateLayout),
		}
	}
	return runs
}

func setupStore(t *testing.T, runs []activity.Activity) (*Store, *fakeSource, *library.Library) {
	t.Helper()

	src := &fakeSource{runs: runs}
	lib := library.New(src)
	if err := lib.Reload(context.Background()); err != nil {
		t.Fatalf("Failed to load library: %v", err)
	}
	return NewStore(lib, runtable.Options{ShowElevation: true}, time.Hour), src, lib
}

func TestGetCreatesAndReuses(t *testing.T) {
	store, _, _ := setupStore(t, makeRuns(5))

	s, created := store.Get("")
	if !created {
		t.Error("Expected a new session for an empty ID")
	}

	again, created := store.Get(s.ID.String())
	if created || again != s {
		t.Error("Expected the existing session to be returned")
	}

	_, created = store.Get("not-a-uuid")
	if !created {
		t.Error("Expected a new session for a malformed ID")
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 sessions, got %d", store.Len())
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	store, _, _ := setupStore(t, makeRuns(45))

	a, _ := store.Get("")
	b, _ := store.Get("")

	a.GoToPage(3)
	a.ClickHeader("KM")
	a.GoToPage(2)

	if got := b.Snapshot().View.CurrentPage; got != 1 {
		t.Errorf("Expected other session to stay on page 1, got %d", got)
	}
	if got := a.Snapshot().View.CurrentPage; got != 2 {
		t.Errorf("Expected page 2, got %d", got)
	}
}

func TestSelectionHighlightsAndSortClears(t *testing.T) {
	store, _, _ := setupStore(t, makeRuns(30))
	s, _ := store.Get("")

	s.Next()
	if !s.SelectRow(4) {
		t.Fatal("Expected row to be selectable")
	}

	snap := s.Snapshot()
	if snap.View.Selected != 24 {
		t.Errorf("Expected global selection 24, got %d", snap.View.Selected)
	}
	if len(snap.Highlight) != 1 || snap.Highlight[0].RunID != 25 {
		t.Errorf("Expected run 25 highlighted, got %+v", snap.Highlight)
	}
	if ids := s.Highlighted(); len(ids) != 1 || ids[0] != 25 {
		t.Errorf("Expected highlighted ids [25], got %v", ids)
	}

	s.ClickHeader("Date")
	snap = s.Snapshot()
	if snap.View.Selected != int(runtable.NoSelection) {
		t.Errorf("Expected selection cleared, got %d", snap.View.Selected)
	}
	if len(snap.Highlight) != 0 || len(s.Highlighted()) != 0 {
		t.Error("Expected highlight cleared")
	}
	if snap.View.CurrentPage != 1 {
		t.Errorf("Expected page 1 after sort, got %d", snap.View.CurrentPage)
	}
	// oldest first
	if first := snap.View.Rows[0].Activity.RunID; first != 30 {
		t.Errorf("Expected oldest run 30 first, got %d", first)
	}
}

func TestYearFilterClampsPage(t *testing.T) {
	runs := makeRuns(60)
	store, _, _ := setupStore(t, runs)
	s, _ := store.Get("")

	s.GoToPage(3)
	s.SetYear(2024)

	var in2024 int
	for _, r := range runs {
		if r.Year() == 2024 {
			in2024++
		}
	}

	snap := s.Snapshot()
	if snap.Year != 2024 {
		t.Errorf("Expected year 2024, got %d", snap.Year)
	}
	if snap.View.Total != in2024 {
		t.Errorf("Expected %d runs in 2024, got %d", in2024, snap.View.Total)
	}
	if want := runtable.TotalPages(in2024); snap.View.CurrentPage != want {
		t.Errorf("Expected page clamped to %d, got %d", want, snap.View.CurrentPage)
	}

	s.SetYear(0)
	if got := s.Snapshot().View.Total; got != 60 {
		t.Errorf("Expected all 60 runs back, got %d", got)
	}
}

func TestReloadIsPickedUpWithSortKept(t *testing.T) {
	store, src, lib := setupStore(t, makeRuns(45))
	s, _ := store.Get("")

	s.ClickHeader("KM")
	s.GoToPage(3)

	src.runs = makeRuns(25)
	if err := lib.Reload(context.Background()); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}

	snap := s.Snapshot()
	if snap.View.Total != 25 {
		t.Fatalf("Expected 25 runs after reload, got %d", snap.View.Total)
	}
	if snap.View.CurrentPage != 2 {
		t.Errorf("Expected page clamped to 2, got %d", snap.View.CurrentPage)
	}

	s.GoToPage(1)
	rows := s.Snapshot().View.Rows
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Activity.Distance < rows[i].Activity.Distance {
			t.Fatalf("Expected distance order kept after reload, row %d", i)
		}
	}
}

func TestEvict(t *testing.T) {
	store, _, _ := setupStore(t, makeRuns(3))
	now := time.Now()
	store.now = func() time.Time { return now }

	old, _ := store.Get("")
	now = now.Add(30 * time.Minute)
	fresh, _ := store.Get("")

	now = now.Add(45 * time.Minute)
	if n := store.Evict(); n != 1 {
		t.Errorf("Expected 1 session evicted, got %d", n)
	}

	if _, created := store.Get(fresh.ID.String()); created {
		t.Error("Expected fresh session to survive")
	}
	if _, created := store.Get(old.ID.String()); !created {
		t.Error("Expected old session to be gone")
	}
}

func TestConcurrentActions(t *testing.T) {
	store, _, _ := setupStore(t, makeRuns(100))
	s, _ := store.Get("")

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				switch (i + j) % 4 {
				case 0:
					s.ClickHeader([]string{"KM", "Date", "Pace"}[j%3])
				case 1:
					s.GoToPage(j % 7)
				case 2:
					s.SelectRow(runtable.PageIndex(j % 20))
				case 3:
					_ = fmt.Sprint(s.Snapshot().View.CurrentPage)
				}
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	view := s.Snapshot().View
	if view.CurrentPage < 1 || view.CurrentPage > view.TotalPages {
		t.Errorf("Page %d out of range [1, %d]", view.CurrentPage, view.TotalPages)
	}
}

func rowIDs(view runtable.View) []int64 {
	out := make([]int64, len(view.Rows))
	for i, r := range view.Rows {
		out[i] = r.Activity.RunID
	}
	return out
}

func TestYearFilterClearsSelection(t *testing.T) {
	store, _, _ := setupStore(t, makeRuns(60))
	s, _ := store.Get("")

	if !s.SelectRow(0) {
		t.Fatal("Expected row to be selectable")
	}
	s.SetYear(2023)

	snap := s.Snapshot()
	if snap.View.Selected != int(runtable.NoSelection) {
		t.Errorf("Expected selection cleared, got %d", snap.View.Selected)
	}
	for _, row := range snap.View.Rows {
		if row.Selected {
			t.Errorf("Expected no selected row, run %d is marked", row.Activity.RunID)
		}
	}
	if len(s.Highlighted()) != 0 || len(snap.Highlight) != 0 {
		t.Errorf("Expected highlight cleared, got %v", s.Highlighted())
	}
}

func TestReloadClearsSelection(t *testing.T) {
	runs := makeRuns(10)
	store, src, lib := setupStore(t, runs)
	s, _ := store.Get("")

	if !s.SelectRow(2) {
		t.Fatal("Expected row to be selectable")
	}

	src.runs = runs[1:]
	if err := lib.Reload(context.Background()); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}

	snap := s.Snapshot()
	if snap.View.Selected != int(runtable.NoSelection) {
		t.Errorf("Expected selection cleared, got %d", snap.View.Selected)
	}
	if len(s.Highlighted()) != 0 {
		t.Errorf("Expected highlight cleared, got %v", s.Highlighted())
	}
}

func TestFilterKeepsOrderAfterResetClick(t *testing.T) {
	store, _, _ := setupStore(t, makeRuns(10))
	s, _ := store.Get("")

	s.ClickHeader("KM")
	s.ClickHeader("Nope")
	before := rowIDs(s.Snapshot().View)

	s.SetYear(0)
	after := rowIDs(s.Snapshot().View)
	if !slices.Equal(before, after) {
		t.Errorf("Expected order %v kept after filtering, got %v", before, after)
	}
	if want := []int64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}; !slices.Equal(after, want) {
		t.Errorf("Expected distance order %v, got %v", want, after)
	}
}

func TestFilterKeepsTieOrderFromEarlierSorts(t *testing.T) {
	// Three distinct distances, so the KM sort leaves ties ordered by date
	runs := makeRuns(20)
	for i := range runs {
		runs[i].Distance = float64(1000 + (i%3)*100)
	}
	store, _, _ := setupStore(t, runs)
	s, _ := store.Get("")

	s.ClickHeader("Date")
	s.ClickHeader("KM")
	sorted := rowIDs(s.Snapshot().View)

	s.SetYear(2024)
	var want []int64
	for _, id := range sorted {
		if runs[id-1].Year() == 2024 {
			want = append(want, id)
		}
	}
	if got := rowIDs(s.Snapshot().View); !slices.Equal(got, want) {
		t.Errorf("Expected filtered order %v, got %v", want, got)
	}

	s.SetYear(0)
	if got := rowIDs(s.Snapshot().View); !slices.Equal(got, sorted) {
		t.Errorf("Expected order %v restored, got %v", sorted, got)
	}
}

func TestReloadKeepsViewerOrder(t *testing.T) {
	runs := makeRuns(10)
	store, src, lib := setupStore(t, runs)
	s, _ := store.Get("")

	s.ClickHeader("KM")
	s.ClickHeader("Nope")

	extra := activity.Activity{RunID: 11, Distance: 5000, StartDateLocal: "2024-07-01 07:00:00"}
	src.runs = append([]activity.Activity{extra}, runs...)
	if err := lib.Reload(context.Background()); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}

	want := []int64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 11}
	if got := rowIDs(s.Snapshot().View); !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
