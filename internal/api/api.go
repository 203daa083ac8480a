// Package api implements the HTTP API server for panelzero.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/penzero00/Panel-Zero/internal/config"
	"github.com/penzero00/Panel-Zero/internal/model"
)

// Server is the panelzero HTTP API server. Uploaded documents are
// spooled to a scratch directory and reviewed by background jobs.
type Server struct {
	addr   string
	cfg    config.Config
	mux    *http.ServeMux
	server *http.Server
	spool  string

	mu   sync.RWMutex
	jobs map[string]*job
	docs map[string]string
}

type jobStatus string

const (
	statusQueued   jobStatus = "queued"
	statusRunning  jobStatus = "running"
	statusComplete jobStatus = "complete"
	statusFailed   jobStatus = "failed"
)

type job struct {
	ID         string
	Status     jobStatus
	Progress   int
	Stage      string
	Summary    *model.Summary
	DocumentID string
	Err        string
}

// New creates a new API server with a fresh spool directory.
func New(addr string, cfg config.Config) (*Server, error) {
	spool, err := os.MkdirTemp("", "panelzero-spool-*")
	if err != nil {
		return nil, fmt.Errorf("creating spool dir: %w", err)
	}

	s := &Server{
		addr:  addr,
		cfg:   cfg,
		spool: spool,
		jobs:  make(map[string]*job),
		docs:  make(map[string]string),
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/inspect", s.handleInspect)
	s.mux.HandleFunc("POST /api/review", s.handleReview)
	s.mux.HandleFunc("GET /api/jobs/{id}", s.handleJob)
	s.mux.HandleFunc("GET /api/documents/{id}", s.handleDocument)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	log.Printf("panelzero API server listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setStage(id string, progress int, stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.Status = statusRunning
		j.Progress = progress
		j.Stage = stage
	}
}

func (s *Server) finishJob(id string, summary *model.Summary, docID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.Status = statusComplete
		j.Progress = 100
		j.Stage = "complete"
		j.Summary = summary
		j.DocumentID = docID
	}
}

func (s *Server) failJob(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.Status = statusFailed
		j.Stage = "failed"
		j.Err = err.Error()
	}
}

// snapshot returns a copy of a job's state for serialization.
func (s *Server) snapshot(id string) (job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return job{}, false
	}
	return *j, true
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
