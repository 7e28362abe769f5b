// Package server exposes the annotator as an HTTP service.
//
// The service is stateless: each request carries a CoNLL-U document in its
// body and gets the annotated document (or its diagnostics tables) back.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mrijkeboer/udpas/pkg/pipeline"
)

// Server annotates CoNLL-U documents over HTTP.
type Server struct {
	logger *log.Logger
	opts   pipeline.Options
}

// New creates a server with the given base pipeline options. A nil logger
// falls back to the package default.
func New(logger *log.Logger, opts pipeline.Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{logger: logger, opts: opts}
}

// Routes builds the HTTP routing table.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/annotate", s.handleAnnotate)
	r.Post("/stats", s.handleStats)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// requestOptions derives per-request pipeline options from query parameters.
// "debug=1" enables the wide rendering, "strict=1" turns structural errors
// into a request failure instead of skipped sentences.
func (s *Server) requestOptions(r *http.Request) pipeline.Options {
	opts := s.opts
	if isSet(r, "debug") {
		opts.Debug = true
	}
	if isSet(r, "strict") {
		opts.Strict = true
	}
	return opts
}

func isSet(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// handleAnnotate reads a CoNLL-U document from the request body and responds
// with the annotated document.
func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	runner := pipeline.NewRunner(s.logger)

	var out bytes.Buffer
	res, err := runner.Run(r.Context(), r.Body, &out, s.requestOptions(r))
	if err != nil {
		s.logger.Warn("annotation request failed", "run", runner.RunID, "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Run-Id", res.RunID)
	w.Header().Set("X-Sentences", strconv.Itoa(res.Sentences))
	w.Header().Set("X-Skipped", strconv.Itoa(res.Skipped))
	_, _ = w.Write(out.Bytes())
}

// statsResponse is the JSON shape of the stats endpoint.
type statsResponse struct {
	RunID     string                      `json:"run_id"`
	Sentences int                         `json:"sentences"`
	Skipped   int                         `json:"skipped"`
	Tables    map[string]map[string]int64 `json:"tables"`
}

// handleStats annotates the document and responds with the frequency tables
// as JSON, discarding the annotated output.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	runner := pipeline.NewRunner(s.logger)

	var out bytes.Buffer
	res, err := runner.Run(r.Context(), r.Body, &out, s.requestOptions(r))
	if err != nil {
		s.logger.Warn("stats request failed", "run", runner.RunID, "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	resp := statsResponse{
		RunID:     res.RunID,
		Sentences: res.Sentences,
		Skipped:   res.Skipped,
		Tables:    make(map[string]map[string]int64),
	}
	for _, table := range runner.Sink.Tables() {
		resp.Tables[table] = runner.Sink.Table(table)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("encoding stats response", "err", err)
	}
}
