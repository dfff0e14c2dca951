package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"apptrack.local/internal/domain"
	"apptrack.local/internal/query"
	"apptrack.local/internal/stats"
	"apptrack.local/internal/store"
	"apptrack.local/internal/tracker"
)

// JSON payload we expect from the frontend for create and update. Dates are
// plain calendar dates (YYYY-MM-DD); next_step_date may be null or "".
type applicationRequest struct {
	Company         string  `json:"company"`
	Role            string  `json:"role"`
	Location        string  `json:"location"`
	ApplicationDate string  `json:"application_date"`
	Status          string  `json:"status"`
	NextStepDate    *string `json:"next_step_date"`
	Priority        string  `json:"priority"`
	Notes           string  `json:"notes"`
}

// fields converts the payload into tracker fields. Bad date text is a
// caller error here, unlike the tolerant store load: the frontend sends
// machine-generated dates, so a parse failure means a broken client.
func (req applicationRequest) fields() (tracker.Fields, error) {
	f := tracker.Fields{
		Company:  req.Company,
		Role:     req.Role,
		Location: req.Location,
		Notes:    req.Notes,
	}

	// Form widgets only offer the enumerated choices; anything else came
	// from an API caller and is kept verbatim rather than rejected.
	if req.Status == "" {
		f.Status = domain.StatusApplied
	} else {
		f.Status, _ = domain.ParseStatus(req.Status)
	}
	if req.Priority == "" {
		f.Priority = domain.PriorityMedium
	} else {
		f.Priority, _ = domain.ParsePriority(req.Priority)
	}

	if req.ApplicationDate != "" {
		t, err := time.Parse(store.DateLayout, req.ApplicationDate)
		if err != nil {
			return f, fmt.Errorf("invalid application_date %q (expected YYYY-MM-DD)", req.ApplicationDate)
		}
		f.ApplicationDate = t
	}
	if req.NextStepDate != nil && *req.NextStepDate != "" {
		t, err := time.Parse(store.DateLayout, *req.NextStepDate)
		if err != nil {
			return f, fmt.Errorf("invalid next_step_date %q (expected YYYY-MM-DD)", *req.NextStepDate)
		}
		f.NextStepDate = &t
	}
	return f, nil
}

// applicationView is the JSON shape of one record.
type applicationView struct {
	ID              int     `json:"id"`
	Company         string  `json:"company"`
	Role            string  `json:"role"`
	Location        string  `json:"location"`
	ApplicationDate string  `json:"application_date"`
	Status          string  `json:"status"`
	NextStepDate    *string `json:"next_step_date"`
	Priority        string  `json:"priority"`
	Notes           string  `json:"notes"`
	LastUpdated     string  `json:"last_updated"`
	DaysToNextStep  *int    `json:"days_to_next_step,omitempty"`
}

func viewOf(a domain.Application) applicationView {
	v := applicationView{
		ID:              a.ID,
		Company:         a.Company,
		Role:            a.Role,
		Location:        a.Location,
		ApplicationDate: formatDate(a.ApplicationDate),
		Status:          string(a.Status),
		Priority:        string(a.Priority),
		Notes:           a.Notes,
		LastUpdated:     formatDate(a.LastUpdated),
	}
	if a.NextStepDate != nil {
		d := a.NextStepDate.Format(store.DateLayout)
		v.NextStepDate = &d
	}
	return v
}

func viewsOf(apps []domain.Application) []applicationView {
	views := make([]applicationView, 0, len(apps))
	for _, a := range apps {
		views = append(views, viewOf(a))
	}
	return views
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)

	q := r.URL.Query()
	var statuses []domain.Status
	for _, raw := range q["status"] {
		st, _ := domain.ParseStatus(raw)
		statuses = append(statuses, st)
	}
	var priorities []domain.Priority
	for _, raw := range q["priority"] {
		p, _ := domain.ParsePriority(raw)
		priorities = append(priorities, p)
	}

	key := query.SortKey(q.Get("sort"))
	if key == "" {
		key = query.SortByApplicationDate
	}
	descending := true
	if raw := q.Get("desc"); raw != "" {
		d, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "invalid desc (expected true/false)", http.StatusBadRequest)
			return
		}
		descending = d
	}

	s.mu.Lock()
	apps := s.apps
	s.mu.Unlock()

	filtered := query.Filter(apps, statuses, priorities, q.Get("q"))
	writeJSON(w, http.StatusOK, viewsOf(query.SortBy(filtered, key, descending)))
}

// handleRecent is the edit-picker listing: every record, most recently
// touched first.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)

	s.mu.Lock()
	apps := s.apps
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, viewsOf(query.SortBy(apps, query.SortByLastUpdated, true)))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)
	defer r.Body.Close()

	var req applicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[/applications] JSON decode error: %v", err)
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	f, err := req.fields()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	apps, id, err := tracker.Create(s.apps, f, today(s.now()))
	if err != nil {
		s.writeOpError(w, "/applications", err)
		return
	}
	s.apps = apps
	if err := s.store.Save(s.apps); err != nil {
		// The new record is live in memory; the caller must know it did not
		// reach disk.
		log.Printf("[/applications] save failed after create id=%d: %v", id, err)
		http.Error(w, "change not persisted: "+err.Error(), http.StatusInternalServerError)
		return
	}
	log.Printf("[/applications] created id=%d company=%q", id, f.Company)

	writeJSON(w, http.StatusCreated, viewOf(apps[len(apps)-1]))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)
	defer r.Body.Close()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req applicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[/applications/{id}] JSON decode error: %v", err)
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	f, err := req.fields()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := tracker.Update(s.apps, id, f, today(s.now()))
	if err != nil {
		s.writeOpError(w, "/applications/{id}", err)
		return
	}
	s.apps = apps
	if err := s.store.Save(s.apps); err != nil {
		log.Printf("[/applications/{id}] save failed after update id=%d: %v", id, err)
		http.Error(w, "change not persisted: "+err.Error(), http.StatusInternalServerError)
		return
	}
	log.Printf("[/applications/{id}] updated id=%d", id)

	for _, a := range apps {
		if a.ID == id {
			writeJSON(w, http.StatusOK, viewOf(a))
			return
		}
	}
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)

	window := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}
		window = d
	}

	s.mu.Lock()
	apps := s.apps
	s.mu.Unlock()

	ref := today(s.now())
	ups := query.Upcoming(apps, ref, window)
	views := make([]applicationView, 0, len(ups))
	for _, a := range ups {
		v := viewOf(a)
		d, _ := query.DaysToNextStep(a, ref)
		v.DaysToNextStep = &d
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)

	s.mu.Lock()
	apps := s.apps
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"counts":        stats.Counts(apps),
		"status":        stats.Frequency(apps, stats.FieldStatus),
		"priority":      stats.Frequency(apps, stats.FieldPriority),
		"top_companies": stats.Frequency(apps, stats.FieldCompany),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)

	s.mu.Lock()
	apps := s.apps
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+store.ExportFilename+`"`)
	if err := store.WriteCSV(w, apps); err != nil {
		log.Printf("[/export] write error: %v", err)
	}
}

// writeOpError maps the domain error taxonomy onto HTTP statuses.
func (s *Server) writeOpError(w http.ResponseWriter, route string, err error) {
	var ve *domain.ValidationError
	var nfe *domain.NotFoundError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &nfe):
		http.Error(w, nfe.Error(), http.StatusNotFound)
	default:
		log.Printf("[%s] unexpected error: %v", route, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response error: %v", err)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(store.DateLayout)
}

// today truncates to a calendar date so Last_Updated and day arithmetic
// never depend on the time of day.
func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
