// Package api serves a read-only preview of an extracted document tree, for
// inspecting records before pushing them to the hub.
package api

import (
	"log/slog"
	"net/http"

	"github.com/dhlab-no/trpexport/internal/extractor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP preview server for an export root.
type Server struct {
	router chi.Router
	root   string
	opts   extractor.Options
	log    *slog.Logger
}

// NewServer creates and configures the preview server over root.
func NewServer(root string, opts extractor.Options, log *slog.Logger) *Server {
	s := &Server{
		root: root,
		opts: opts,
		log:  log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/api/features", s.handleFeatures)
	r.Get("/api/records", s.handleRecords)
	r.Get("/api/records/{seq}", s.handleRecordBySeq)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
