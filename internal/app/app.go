// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/knowmesh/knowmesh/internal/annotate"
	"github.com/knowmesh/knowmesh/internal/extract"
	"github.com/knowmesh/knowmesh/internal/fetch"
	"github.com/knowmesh/knowmesh/internal/graph"
	"github.com/knowmesh/knowmesh/internal/logging"
	"github.com/knowmesh/knowmesh/internal/pipeline"
)

// App holds the shared, long-lived services for the application: the logger,
// the entity annotator, the page fetcher, the knowledge graph, and the
// pipeline runner that ties them together. It is initialized once at startup
// and passed to the commands that need it.
type App struct {
	logger    *zap.Logger
	graph     *graph.Graph
	annotator *annotate.Annotator
	fetcher   *fetch.Fetcher
	runner    *pipeline.Runner
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetGraph exposes the knowledge graph the runner writes into.
func (a *App) GetGraph() *graph.Graph {
	return a.graph
}

// GetRunner returns the pipeline runner used to build a mesh from a URL.
func (a *App) GetRunner() *pipeline.Runner {
	return a.runner
}

// NewApp creates and initializes a new App struct based on the application's
// configuration. It reads values from Viper, constructs the pipeline stages,
// and fails fast if any of them cannot be configured. The annotator is built
// here, once per process, rather than per run.
func NewApp(ctx context.Context) (*App, error) {
	l := logging.L
	l.Info("Initializing application services...")

	fetchCfg, err := fetch.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("invalid fetch configuration: %w", err)
	}
	annotateCfg, err := annotate.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("invalid annotate configuration: %w", err)
	}

	fetcher := fetch.New(fetchCfg, fetch.NewExponentialRetryPolicy(fetchCfg.MaxAttempts), l)
	annotator := annotate.New(annotateCfg, l)
	g := graph.New(l)
	runner := pipeline.NewRunner(fetcher, extract.HTMLExtractor{}, annotator, g, l)

	l.Info("Application services initialized successfully.")
	return &App{
		logger:    l,
		graph:     g,
		annotator: annotator,
		fetcher:   fetcher,
		runner:    runner,
	}, nil
}

// Close flushes buffered log entries. It is called by a Cobra hook after the
// command finishes execution.
func (a *App) Close() {
	if err := a.logger.Sync(); err != nil {
		// Best effort; stderr sync failures are expected on some platforms.
		a.logger.Warn("Error syncing logger on shutdown", zap.Error(err))
	}
}
