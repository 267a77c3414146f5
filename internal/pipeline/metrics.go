package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalRuns tracks the number of mesh builds started.
	TotalRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "knowmesh_runs_total",
		Help: "The total number of mesh builds started.",
	})
	// TotalRunFailures tracks the number of mesh builds that aborted.
	TotalRunFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "knowmesh_run_failures_total",
		Help: "The total number of mesh builds that failed before reaching the graph.",
	})
	// TotalEntities tracks the number of entities added to the graph across runs.
	TotalEntities = promauto.NewCounter(prometheus.CounterOpts{
		Name: "knowmesh_entities_extracted_total",
		Help: "The total number of entities extracted and added to the graph.",
	})
	// TotalHeuristicFallbacks tracks runs where the annotator fell back to the heuristic pass.
	TotalHeuristicFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "knowmesh_heuristic_fallbacks_total",
		Help: "The total number of runs that used the heuristic entity pass.",
	})
)
