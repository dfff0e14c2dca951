// Package api is the HTTP shell around the tracker. It owns the canonical
// in-memory table for the process lifetime and serializes mutations, so the
// pure packages below it stay lock-free.
package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"apptrack.local/internal/domain"
	"apptrack.local/internal/store"
)

type Server struct {
	store *store.Store
	mux   *http.ServeMux

	// mu guards apps and brackets every mutate-then-save sequence. That is
	// the one concurrency contract this design needs: without it two
	// concurrent submissions could assign the same ID or lose an update.
	mu   sync.Mutex
	apps []domain.Application

	// now is swapped in tests to pin "today".
	now func() time.Time
}

func New(st *store.Store, apps []domain.Application) *Server {
	s := &Server{
		store: st,
		apps:  apps,
		mux:   http.NewServeMux(),
		now:   time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /applications", s.handleList)
	s.mux.HandleFunc("GET /applications/recent", s.handleRecent)
	s.mux.HandleFunc("POST /applications", s.handleCreate)
	s.mux.HandleFunc("PUT /applications/{id}", s.handleUpdate)

	// CORS preflight for the mutating routes
	s.mux.HandleFunc("OPTIONS /applications", s.handlePreflight)
	s.mux.HandleFunc("OPTIONS /applications/{id}", s.handlePreflight)

	s.mux.HandleFunc("GET /upcoming", s.handleUpcoming)
	s.mux.HandleFunc("GET /stats", s.handleStats)
	s.mux.HandleFunc("GET /export", s.handleExport)
}

// Helper used by handlers to allow browser frontend → API calls.
func writeCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Handler exposes the mux, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) Listen(addr string) error {
	log.Println("Server starting…")
	return http.ListenAndServe(addr, s.mux)
}
