// Package pipeline orchestrates the fetch → extract → annotate → accumulate
// sequence for a single URL. Stages are injected through the interfaces
// below so each can be replaced in tests.
package pipeline

import (
	"context"

	"github.com/knowmesh/knowmesh/internal/extract"
	"github.com/knowmesh/knowmesh/internal/mesh"
)

// Fetcher retrieves raw HTML for a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (mesh.Page, error)
}

// Extractor produces visible text and outbound links from fetched HTML.
type Extractor interface {
	Extract(body []byte, baseURL string, sameDomainOnly bool) (extract.Result, error)
}

// Annotator recognizes named entities in text. The bool reports whether the
// heuristic fallback produced the result.
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]mesh.Entity, bool, error)
}

// GraphSink receives the entities and page relations of a run.
// *graph.Graph is the production implementation.
type GraphSink interface {
	Clear()
	AddEntities(entities []mesh.Entity) int
	AddPageContext(sourceURL string, entities []mesh.Entity, links []string)
	NodeCount() int
	EdgeCount() int
}
