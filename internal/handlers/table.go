package handlers

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"running-page/internal/activity"
	"running-page/internal/config"
	"running-page/internal/library"
	"running-page/internal/runtable"
	"running-page/internal/session"
	"running-page/internal/site"
)

// SessionCookie names the cookie carrying the viewer's session ID
const SessionCookie = "rp_session"

//go:embed templates/index.html
var templatesFS embed.FS

// HealthChecker is the activity store as seen by the health endpoint
type HealthChecker interface {
	Health(ctx context.Context) error
}

// TableHandler serves the activity table page and its actions
type TableHandler struct {
	sessions      *session.Store
	lib           *library.Library
	site          *site.Metadata
	labels        site.Labels
	chinese       bool
	showElevation bool
	store         HealthChecker
	page          *template.Template
	logger        *slog.Logger
}

// NewTableHandler creates a new table handler
func NewTableHandler(sessions *session.Store, lib *library.Library, meta *site.Metadata, store HealthChecker, cfg *config.Config) (*TableHandler, error) {
	page, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	return &TableHandler{
		sessions:      sessions,
		lib:           lib,
		site:          meta,
		labels:        site.LabelsFor(cfg.IsChinese()),
		chinese:       cfg.IsChinese(),
		showElevation: cfg.ShowElevationGain,
		store:         store,
		page:          page,
		logger:        slog.Default(),
	}, nil
}

// sessionFor returns the viewer's session, issuing a cookie for new ones
func (h *TableHandler) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	var raw string
	if c, err := r.Cookie(SessionCookie); err == nil {
		raw = c.Value
	}

	s, created := h.sessions.Get(raw)
	if created {
		path := h.site.BasePath
		if path == "" {
			path = "/"
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    s.ID.String(),
			Path:     path,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

func (h *TableHandler) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.site.Path("/"), http.StatusSeeOther)
}

type pageData struct {
	Site          *site.Metadata
	Labels        site.Labels
	Chinese       bool
	ShowElevation bool
	View          runtable.View
	PageInfo      string
	Year          int
	Years         []int
	Highlight     highlightResponse
}

// HandleIndex renders the table page
func (h *TableHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := h.sessionFor(w, r).Snapshot()
	data := pageData{
		Site:          h.site,
		Labels:        h.labels,
		Chinese:       h.chinese,
		ShowElevation: h.showElevation,
		View:          snap.View,
		PageInfo:      h.labels.PageInfo(snap.View.CurrentPage, snap.View.TotalPages),
		Year:          snap.Year,
		Years:         h.lib.Years(),
		Highlight:     newHighlightResponse(snap.Highlight),
	}

	// Render to a buffer so a template error can still become a 500
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		h.logger.Error("Failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// HandleSort handles POST /sort with form field label
func (h *TableHandler) HandleSort(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// The blank corner header posts an empty label, which resets the sort
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	if _, ok := r.PostForm["label"]; !ok {
		http.Error(w, "Missing label parameter", http.StatusBadRequest)
		return
	}
	label := r.PostForm.Get("label")

	s := h.sessionFor(w, r)
	s.ClickHeader(label)
	h.logger.Debug("Sort clicked", "session", s.ID, "label", label)
	h.redirectHome(w, r)
}

// HandlePage handles POST /page with either nav=prev|next or page=N.
// Out-of-range page numbers are clamped.
func (h *TableHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	nav := r.PostFormValue("nav")
	pageStr := r.PostFormValue("page")

	var page int
	switch nav {
	case "prev", "next":
	case "":
		var err error
		page, err = strconv.Atoi(pageStr)
		if err != nil {
			http.Error(w, "Invalid page parameter", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "Invalid nav parameter", http.StatusBadRequest)
		return
	}

	s := h.sessionFor(w, r)
	switch nav {
	case "prev":
		s.Prev()
	case "next":
		s.Next()
	default:
		s.GoToPage(page)
	}
	h.redirectHome(w, r)
}

// HandleSelect handles POST /select with form field row, the row's position
// on the current page. Selecting the selected row clears the selection.
func (h *TableHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	row, err := strconv.Atoi(r.PostFormValue("row"))
	if err != nil {
		http.Error(w, "Invalid row parameter", http.StatusBadRequest)
		return
	}

	s := h.sessionFor(w, r)
	if !s.SelectRow(runtable.PageIndex(row)) {
		h.logger.Debug("Ignored selection outside page", "session", s.ID, "row", row)
	}
	h.redirectHome(w, r)
}

// HandleFilter handles POST /filter with form field year; empty shows all
func (h *TableHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	year := 0
	if v := r.PostFormValue("year"); v != "" {
		var err error
		year, err = strconv.Atoi(v)
		if err != nil || year < 0 {
			http.Error(w, "Invalid year parameter", http.StatusBadRequest)
			return
		}
	}

	h.sessionFor(w, r).SetYear(year)
	h.redirectHome(w, r)
}

type tableResponse struct {
	runtable.View
	Year     int    `json:"year"`
	PageInfo string `json:"page_info"`
	Prev     string `json:"prev_label"`
	Next     string `json:"next_label"`
}

// HandleTable handles GET /api/table
func (h *TableHandler) HandleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := h.sessionFor(w, r).Snapshot()
	h.writeJSON(w, tableResponse{
		View:     snap.View,
		Year:     snap.Year,
		PageInfo: h.labels.PageInfo(snap.View.CurrentPage, snap.View.TotalPages),
		Prev:     h.labels.Prev,
		Next:     h.labels.Next,
	})
}

type highlightedRun struct {
	RunID           int64  `json:"run_id"`
	Name            string `json:"name"`
	SummaryPolyline string `json:"summary_polyline"`
}

type highlightResponse struct {
	RunIDs     activity.RunIDs  `json:"run_ids"`
	Activities []highlightedRun `json:"activities"`
}

func newHighlightResponse(runs []activity.Activity) highlightResponse {
	resp := highlightResponse{
		RunIDs:     activity.RunIDs{},
		Activities: []highlightedRun{},
	}
	for _, r := range runs {
		resp.RunIDs = append(resp.RunIDs, r.RunID)
		resp.Activities = append(resp.Activities, highlightedRun{
			RunID:           r.RunID,
			Name:            r.Name,
			SummaryPolyline: r.SummaryPolyline,
		})
	}
	return resp
}

// HandleHighlight handles GET /api/highlight, the runs the map should
// emphasise. An empty list means show everything.
func (h *TableHandler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := h.sessionFor(w, r).Snapshot()
	h.writeJSON(w, newHighlightResponse(snap.Highlight))
}

// HandleHealth answers OK when the activity store responds
func (h *TableHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Health(ctx); err != nil {
		h.logger.Error("Health check failed", "error", err)
		http.Error(w, "Unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *TableHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
