// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the catalog, search, and accumulated results over
// HTTP for a rendering front end.
package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/personas/internal/aggregate"
	"github.com/pdiddy/personas/internal/metrics"
	"github.com/pdiddy/personas/internal/results"
	"github.com/pdiddy/personas/pkg/types"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server handles the HTTP API.
type Server struct {
	svc     *aggregate.Service
	logger  *zap.Logger
	dataDir string
	gather  prometheus.Gatherer
	httpm   *metrics.HTTP
}

// Option configures a Server.
type Option func(*Server)

// WithDataDir serves dir under /data/ so the JSON and XML feeds can be
// hosted by the same process.
func WithDataDir(dir string) Option {
	return func(s *Server) { s.dataDir = dir }
}

// WithMetrics serves g on /metrics and records request metrics with m.
func WithMetrics(g prometheus.Gatherer, m *metrics.HTTP) Option {
	return func(s *Server) {
		s.gather = g
		s.httpm = m
	}
}

// NewServer returns a Server over svc.
func NewServer(svc *aggregate.Service, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: svc, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	if s.httpm != nil {
		r.Use(s.httpm.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.gather != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))
	}
	if s.dataDir != "" {
		r.Handle("/data/*", http.StripPrefix("/data/", http.FileServer(http.Dir(s.dataDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/sources", s.listSources)
		r.Post("/sources/reload", s.reloadSources)
		r.Post("/search", s.search)
		r.Get("/results", s.listResults)
		r.Delete("/results/{id}", s.deleteResult)
		r.Put("/results/{id}", s.editResult)
		r.Delete("/results/ref/{ref}", s.deleteResultRef)
		r.Put("/results/ref/{ref}", s.editResultRef)
	})
	return r
}

type sourcesResponse struct {
	Sets   []types.SourceSet `json:"sets"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) sourcesBody() sourcesResponse {
	resp := sourcesResponse{Sets: s.svc.Catalog().Sets()}
	errs := s.svc.Catalog().Errors()
	if len(errs) > 0 {
		resp.Errors = make(map[string]string, len(errs))
		names := make([]string, 0, len(errs))
		for name := range errs {
			names = append(names, string(name))
		}
		sort.Strings(names)
		for _, name := range names {
			resp.Errors[name] = errs[types.SourceName(name)].Error()
		}
	}
	return resp
}

// listSources handles GET /api/sources.
func (s *Server) listSources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sourcesBody())
}

// reloadSources handles POST /api/sources/reload.
func (s *Server) reloadSources(w http.ResponseWriter, r *http.Request) {
	s.svc.Catalog().Load(r.Context())
	writeJSON(w, http.StatusOK, s.sourcesBody())
}

type searchRequest struct {
	Query string `json:"query"`
}

// search handles POST /api/search.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := s.svc.Search(r.Context(), req.Query)
	if err != nil {
		s.internalError(w, "search failed", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// listResults handles GET /api/results.
func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	all, err := s.svc.Results().Load(r.Context())
	if err != nil {
		s.internalError(w, "loading results failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": all})
}

type deleteResponse struct {
	Removed int `json:"removed"`
}

// deleteResult handles DELETE /api/results/{id}. Deleting an unknown id
// succeeds with removed=0.
func (s *Server) deleteResult(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.Results().Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.internalError(w, "delete failed", err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Removed: n})
}

// deleteResultRef handles DELETE /api/results/ref/{ref}.
func (s *Server) deleteResultRef(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.Results().DeleteRef(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		s.internalError(w, "delete failed", err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Removed: n})
}

type editResponse struct {
	Changed bool `json:"changed"`
}

// editResult handles PUT /api/results/{id} with body {nombre, apellido}.
func (s *Server) editResult(w http.ResponseWriter, r *http.Request) {
	var e types.Edit
	if !decodeBody(w, r, &e) {
		return
	}
	changed, err := s.svc.Results().Edit(r.Context(), chi.URLParam(r, "id"), results.StaticPrompter(e))
	if err != nil {
		s.internalError(w, "edit failed", err)
		return
	}
	writeJSON(w, http.StatusOK, editResponse{Changed: changed})
}

// editResultRef handles PUT /api/results/ref/{ref}.
func (s *Server) editResultRef(w http.ResponseWriter, r *http.Request) {
	var e types.Edit
	if !decodeBody(w, r, &e) {
		return
	}
	changed, err := s.svc.Results().EditRef(r.Context(), chi.URLParam(r, "ref"), results.StaticPrompter(e))
	if err != nil {
		s.internalError(w, "edit failed", err)
		return
	}
	writeJSON(w, http.StatusOK, editResponse{Changed: changed})
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}
