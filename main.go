// The main package for the knowmesh executable.
//
// Architecture overview:
//   - CLI: cmd wires Cobra commands to the application container. 'build'
//     runs the pipeline once for a URL and prints a summary; 'serve' exposes
//     the same pipeline over HTTP together with a graph viewer page.
//   - Pipeline: internal/pipeline drives fetch (Colly), extraction
//     (x/net/html), and entity annotation (prose) for one page, then folds
//     the output into the in-memory graph. Each run clears the graph first.
//   - Graph: internal/graph holds the directed knowledge mesh of entity and
//     page nodes joined by mentions and links_to edges.
//   - Configuration & plumbing: Viper populates config from env/files; zap
//     provides structured logging; Prometheus counters track runs, fetches,
//     and fallbacks and are exported on /metrics when serving.
package main

import (
	"github.com/knowmesh/knowmesh/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
