package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/knowmesh/knowmesh/internal/graph"
	"github.com/knowmesh/knowmesh/internal/mesh"
	"github.com/knowmesh/knowmesh/internal/pipeline"
)

// MockRunner is a mock implementation of the MeshRunner interface.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(pipeline.Result), args.Error(1)
}

func newTestServer(t *testing.T) (*Server, *MockRunner, *graph.Graph) {
	t.Helper()
	runner := new(MockRunner)
	g := graph.New(nil)
	return NewServer(runner, g, nil), runner, g
}

func postJSON(t *testing.T, s *Server, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := getPath(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ok"`)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestViewerPage(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := getPath(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "vis-network")
}

func TestBuildMesh(t *testing.T) {
	t.Run("success returns run result", func(t *testing.T) {
		s, runner, _ := newTestServer(t)
		runner.On("Run", mock.Anything, pipeline.Request{
			URL:          "https://a.com",
			EntityLimit:  50,
			IncludeLinks: true,
		}).Return(pipeline.Result{RunID: "r1", URL: "https://a.com", NodeCount: 2, EdgeCount: 1}, nil)

		rec := postJSON(t, s, "/v1/mesh", map[string]any{"url": "https://a.com"})
		require.Equal(t, http.StatusOK, rec.Code)

		var result pipeline.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Equal(t, "r1", result.RunID)
		require.Equal(t, 2, result.NodeCount)
		runner.AssertExpectations(t)
	})

	t.Run("flags map onto the pipeline request", func(t *testing.T) {
		s, runner, _ := newTestServer(t)
		runner.On("Run", mock.Anything, pipeline.Request{
			URL:            "https://a.com",
			EntityLimit:    5,
			IncludeLinks:   false,
			SameDomainOnly: true,
		}).Return(pipeline.Result{}, nil)

		rec := postJSON(t, s, "/v1/mesh", map[string]any{
			"url":              "https://a.com",
			"max_entities":     5,
			"skip_links":       true,
			"same_domain_only": true,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		runner.AssertExpectations(t)
	})

	t.Run("missing url is a 400", func(t *testing.T) {
		s, runner, _ := newTestServer(t)
		rec := postJSON(t, s, "/v1/mesh", map[string]any{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})

	t.Run("invalid JSON is a 400", func(t *testing.T) {
		s, _, _ := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/mesh", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid target URL is a 400", func(t *testing.T) {
		s, runner, _ := newTestServer(t)
		runner.On("Run", mock.Anything, mock.Anything).Return(pipeline.Result{}, mesh.ErrInvalidURL)
		rec := postJSON(t, s, "/v1/mesh", map[string]any{"url": "ftp://a.com"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upstream 404 is surfaced", func(t *testing.T) {
		s, runner, _ := newTestServer(t)
		runner.On("Run", mock.Anything, mock.Anything).Return(pipeline.Result{},
			&mesh.HTTPStatusError{URL: "https://a.com/missing", StatusCode: 404})
		rec := postJSON(t, s, "/v1/mesh", map[string]any{"url": "https://a.com/missing"})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("other fetch failures are a 502", func(t *testing.T) {
		s, runner, _ := newTestServer(t)
		runner.On("Run", mock.Anything, mock.Anything).Return(pipeline.Result{},
			&mesh.HTTPStatusError{URL: "https://a.com", StatusCode: 503})
		rec := postJSON(t, s, "/v1/mesh", map[string]any{"url": "https://a.com"})
		require.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestGetGraph(t *testing.T) {
	seed := func(g *graph.Graph) {
		g.AddPageContext("https://a.com",
			[]mesh.Entity{{Text: "Acme", Label: "ORG"}},
			[]string{"https://b.com", "https://c.com", "https://d.com"})
	}

	t.Run("returns full graph by default", func(t *testing.T) {
		s, _, g := newTestServer(t)
		seed(g)
		rec := getPath(t, s, "/v1/mesh/graph")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp graphResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		// source + entity + 3 linked pages
		require.Len(t, resp.Nodes, 5)
		require.Len(t, resp.Edges, 4)
	})

	t.Run("max_pages caps linked pages but keeps source and entities", func(t *testing.T) {
		s, _, g := newTestServer(t)
		seed(g)
		rec := getPath(t, s, "/v1/mesh/graph?max_pages=1")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp graphResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Nodes, 3)

		var sourceSeen, entitySeen bool
		linked := 0
		for _, n := range resp.Nodes {
			switch {
			case n.Role == mesh.RoleSource:
				sourceSeen = true
			case n.Type != mesh.NodeTypePage:
				entitySeen = true
			default:
				linked++
			}
		}
		require.True(t, sourceSeen)
		require.True(t, entitySeen)
		require.Equal(t, 1, linked)

		// Edges to dropped pages disappear with them.
		require.Len(t, resp.Edges, 2)
	})

	t.Run("max_pages=0 hides every linked page", func(t *testing.T) {
		s, _, g := newTestServer(t)
		seed(g)
		rec := getPath(t, s, "/v1/mesh/graph?max_pages=0")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp graphResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		// Only the source page and the entity survive.
		require.Len(t, resp.Nodes, 2)
		for _, n := range resp.Nodes {
			if n.Type == mesh.NodeTypePage {
				require.Equal(t, mesh.RoleSource, n.Role)
			}
		}
		require.Len(t, resp.Edges, 1)
		require.Equal(t, mesh.RelationMentions, resp.Edges[0].Relation)
	})

	t.Run("negative max_pages means uncapped", func(t *testing.T) {
		s, _, g := newTestServer(t)
		seed(g)
		rec := getPath(t, s, "/v1/mesh/graph?max_pages=-1")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp graphResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Nodes, 5)
		require.Len(t, resp.Edges, 4)
	})

	t.Run("bad max_pages is a 400", func(t *testing.T) {
		s, _, _ := newTestServer(t)
		rec := getPath(t, s, "/v1/mesh/graph?max_pages=nope")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := getPath(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}
