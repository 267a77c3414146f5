package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/knowmesh/knowmesh/internal/server"
)

// newServeCmd creates and configures the 'serve' subcommand, which exposes
// the mesh builder and graph viewer over HTTP.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the mesh API and graph viewer",
		Long: `Starts an HTTP server exposing the mesh build API, the graph read
API, Prometheus metrics, and an interactive graph viewer page.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = viper.GetString("server.addr")
			}

			srv := server.NewServer(appInstance.GetRunner(), appInstance.GetGraph(), appInstance.GetLogger())
			if err := srv.Run(cmd.Context(), addr); err != nil {
				return fmt.Errorf("serve mesh API: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr config)")

	return cmd
}
