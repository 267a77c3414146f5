package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/knowmesh/knowmesh/internal/mesh"
)

// Request describes a single mesh build.
type Request struct {
	// URL is the page to fetch. It is normalized before fetching.
	URL string
	// EntityLimit caps how many recognized entities are kept. Zero or
	// negative means no cap.
	EntityLimit int
	// IncludeLinks controls whether outbound links become page nodes and
	// links_to edges.
	IncludeLinks bool
	// SameDomainOnly drops outbound links to other domains at extraction.
	SameDomainOnly bool
}

// Result is the outcome of one mesh build.
type Result struct {
	RunID      string        `json:"run_id"`
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code"`
	Text       string        `json:"-"`
	TextRunes  int           `json:"text_runes"`
	Links      []string      `json:"links"`
	Entities   []mesh.Entity `json:"entities"`
	Warnings   []string      `json:"warnings"`
	NodeCount  int           `json:"node_count"`
	EdgeCount  int           `json:"edge_count"`
}

// Runner drives one page through fetch, extraction and annotation, then folds
// the output into the graph it owns. A Runner is safe for sequential reuse;
// each Run clears the graph before writing.
type Runner struct {
	fetcher   Fetcher
	extractor Extractor
	annotator Annotator
	graph     GraphSink
	logger    *zap.Logger
}

// NewRunner wires the pipeline stages together.
func NewRunner(fetcher Fetcher, extractor Extractor, annotator Annotator, graph GraphSink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		fetcher:   fetcher,
		extractor: extractor,
		annotator: annotator,
		graph:     graph,
		logger:    logger,
	}
}

// Run builds the mesh for a single page. The graph is cleared at the start of
// every run, so a failed run leaves it empty rather than holding stale state.
// Fetch and extraction errors abort the run; annotation degradation and empty
// results are reported as warnings instead.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	TotalRuns.Inc()
	runID := uuid.NewString()
	logger := r.logger.With(zap.String("run_id", runID), zap.String("url", req.URL))
	logger.Info("starting mesh build")

	r.graph.Clear()

	page, err := r.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		TotalRunFailures.Inc()
		logger.Error("fetch failed", zap.Error(err))
		return Result{RunID: runID, URL: req.URL}, fmt.Errorf("fetching %s: %w", req.URL, err)
	}

	extracted, err := r.extractor.Extract(page.Body, page.URL, req.SameDomainOnly)
	if err != nil {
		TotalRunFailures.Inc()
		logger.Error("extraction failed", zap.Error(err))
		return Result{RunID: runID, URL: page.URL, StatusCode: page.StatusCode}, fmt.Errorf("extracting %s: %w", page.URL, err)
	}

	result := Result{
		RunID:      runID,
		URL:        page.URL,
		StatusCode: page.StatusCode,
		Text:       extracted.Text,
		TextRunes:  len([]rune(extracted.Text)),
		Links:      extracted.Links,
	}

	entities, heuristic, err := r.annotator.Annotate(ctx, extracted.Text)
	if err != nil {
		TotalRunFailures.Inc()
		logger.Error("annotation failed", zap.Error(err))
		return result, fmt.Errorf("annotating %s: %w", page.URL, err)
	}
	if heuristic {
		TotalHeuristicFallbacks.Inc()
		result.Warnings = append(result.Warnings, "model recognized no entities; used capitalized-phrase heuristic")
	}
	if len(entities) == 0 {
		result.Warnings = append(result.Warnings, "no entities recognized on this page")
	}
	if req.EntityLimit > 0 && len(entities) > req.EntityLimit {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("entity list truncated from %d to %d", len(entities), req.EntityLimit))
		entities = entities[:req.EntityLimit]
	}
	result.Entities = entities

	added := r.graph.AddEntities(entities)
	TotalEntities.Add(float64(added))

	links := extracted.Links
	if !req.IncludeLinks {
		links = nil
	}
	r.graph.AddPageContext(page.URL, entities, links)

	result.NodeCount = r.graph.NodeCount()
	result.EdgeCount = r.graph.EdgeCount()
	logger.Info("mesh build complete",
		zap.Int("entities", len(entities)),
		zap.Int("links", len(extracted.Links)),
		zap.Int("nodes", result.NodeCount),
		zap.Int("edges", result.EdgeCount),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}
