package runtable

import "running-page/internal/activity"

// Header is a column header as rendered
type Header struct {
	Label     string    `json:"label"`
	Active    bool      `json:"active"`
	Direction Direction `json:"-"`
	Arrow     string    `json:"direction,omitempty"`
}

// Row is a visible row with its position in the whole collection
type Row struct {
	Index     GlobalIndex       `json:"index"`
	PageIndex PageIndex         `json:"page_index"`
	Selected  bool              `json:"selected"`
	Activity  activity.Activity `json:"activity"`
}

// View is everything needed to render the table
type View struct {
	Headers     []Header `json:"headers"`
	Rows        []Row    `json:"rows"`
	CurrentPage int      `json:"current_page"`
	TotalPages  int      `json:"total_pages"`
	HasPrev     bool     `json:"has_prev"`
	HasNext     bool     `json:"has_next"`
	Total       int      `json:"total"`
	Selected    int      `json:"selected"`
}

// View derives the rendered state of the table
func (t *Table) View() View {
	appliedKey, appliedDir := t.Applied()

	reg := t.Registry()
	headers := make([]Header, 0, len(reg.Entries()))
	for _, e := range reg.Entries() {
		h := Header{Label: e.Label, Active: e.Key == t.Active()}
		if e.Key == appliedKey {
			h.Direction = appliedDir
			h.Arrow = appliedDir.String()
		}
		headers = append(headers, h)
	}

	pageRuns := t.PageRuns()
	rows := make([]Row, len(pageRuns))
	for i, run := range pageRuns {
		idx := PageIndex(i).Global(t.page)
		rows[i] = Row{
			Index:     idx,
			PageIndex: PageIndex(i),
			Selected:  idx == t.selected,
			Activity:  run,
		}
	}

	return View{
		Headers:     headers,
		Rows:        rows,
		CurrentPage: t.page,
		TotalPages:  t.TotalPages(),
		HasPrev:     t.HasPrev(),
		HasNext:     t.HasNext(),
		Total:       len(t.runs),
		Selected:    int(t.selected),
	}
}
