// Package server exposes the HTTP interface for the knowledge mesh: a JSON
// API for building and reading the graph, a Prometheus endpoint, and an
// embedded graph viewer page.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/knowmesh/knowmesh/internal/graph"
	"github.com/knowmesh/knowmesh/internal/mesh"
	"github.com/knowmesh/knowmesh/internal/metrics"
	"github.com/knowmesh/knowmesh/internal/pipeline"
)

// MeshRunner builds the mesh for one URL. *pipeline.Runner is the production
// implementation.
type MeshRunner interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// GraphView is the read side of the knowledge graph.
type GraphView interface {
	Nodes() []graph.Node
	Edges() []graph.Edge
}

// Server wires HTTP handlers to the pipeline runner and the graph.
type Server struct {
	router chi.Router
	runner MeshRunner
	graph  GraphView
	logger *zap.Logger

	// mu serializes builds; each run clears and rewrites the shared graph.
	mu sync.Mutex
}

// NewServer constructs a Server with middleware and routes.
func NewServer(runner MeshRunner, graphView GraphView, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		runner: runner,
		graph:  graphView,
		logger: logger,
	}
	metrics.Init()
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)
	r.Use(timeoutMiddleware(60 * time.Second))

	r.Get("/", s.viewer)
	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/mesh", func(r chi.Router) {
			r.Post("/", s.buildMesh)
			r.Get("/graph", s.getGraph)
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type buildMeshRequest struct {
	URL            string `json:"url"`
	MaxEntities    *int   `json:"max_entities"`
	SkipLinks      bool   `json:"skip_links"`
	SameDomainOnly bool   `json:"same_domain_only"`
}

const defaultMaxEntities = 50

func (s *Server) buildMesh(w http.ResponseWriter, r *http.Request) {
	var req buildMeshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "url required")
		return
	}
	limit := defaultMaxEntities
	if req.MaxEntities != nil {
		limit = *req.MaxEntities
	}

	s.mu.Lock()
	result, err := s.runner.Run(r.Context(), pipeline.Request{
		URL:            req.URL,
		EntityLimit:    limit,
		IncludeLinks:   !req.SkipLinks,
		SameDomainOnly: req.SameDomainOnly,
	})
	s.mu.Unlock()
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, mesh.ErrInvalidURL) {
			status = http.StatusBadRequest
		}
		var statusErr *mesh.HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

type graphResponse struct {
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	// max_pages absent or negative means uncapped; zero hides every linked
	// page node, leaving only the source page and entities.
	capped := false
	maxPages := 0
	if raw := r.URL.Query().Get("max_pages"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "max_pages must be an integer")
			return
		}
		if n >= 0 {
			capped = true
			maxPages = n
		}
	}

	nodes := s.graph.Nodes()
	edges := s.graph.Edges()
	if capped {
		nodes, edges = capLinkedPages(nodes, edges, maxPages)
	}
	s.writeJSON(w, http.StatusOK, graphResponse{Nodes: nodes, Edges: edges})
}

// capLinkedPages limits how many linked page nodes appear in a graph
// response. Entity nodes and the source page always survive; only page nodes
// without the source role count against the cap, and a cap of zero hides
// them all. Edges touching a dropped node are dropped with it.
func capLinkedPages(nodes []graph.Node, edges []graph.Edge, maxPages int) ([]graph.Node, []graph.Edge) {
	kept := make([]graph.Node, 0, len(nodes))
	keptIDs := make(map[string]struct{}, len(nodes))
	pages := 0
	for _, n := range nodes {
		if n.Type == mesh.NodeTypePage && n.Role != mesh.RoleSource {
			if pages >= maxPages {
				continue
			}
			pages++
		}
		kept = append(kept, n)
		keptIDs[n.ID] = struct{}{}
	}
	keptEdges := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := keptIDs[e.From]; !ok {
			continue
		}
		if _, ok := keptIDs[e.To]; !ok {
			continue
		}
		keptEdges = append(keptEdges, e)
	}
	return kept, keptEdges
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
