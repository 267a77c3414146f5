package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/knowmesh/knowmesh/internal/app"
	"github.com/knowmesh/knowmesh/internal/graph"
	"github.com/knowmesh/knowmesh/internal/logging"
	"github.com/knowmesh/knowmesh/internal/pipeline"
	"github.com/knowmesh/knowmesh/pkg/config"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands use. This allows a
// mock app to be injected during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetGraph() *graph.Graph
	GetRunner() *pipeline.Runner
}

// newApp is the application factory. It is a variable so tests can replace
// it with a mock factory.
var newApp func(ctx context.Context) (App, error) = func(ctx context.Context) (App, error) {
	return app.NewApp(ctx)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowmesh",
		Short: "Build an in-memory knowledge mesh from a single web page.",
		Long: `knowmesh fetches one web page, extracts its visible text and outbound
links, recognizes named entities in the text, and assembles the result into
a directed knowledge graph of entities and pages.`,

		// This hook runs AFTER config is loaded but BEFORE the subcommand's
		// RunE, so it is the place to build and inject the application.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if viper.GetBool("logging.development") {
				if err := logging.InitLogger(true); err != nil {
					return fmt.Errorf("failed to initialize development logger: %w", err)
				}
			}
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		// This hook ensures services are shut down gracefully.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cobra.OnInitialize(config.InitConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.knowmesh/config.yaml)")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	// Initialize the logger once at the very start.
	if err := logging.InitLogger(false); err != nil {
		panic(err)
	}

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}
