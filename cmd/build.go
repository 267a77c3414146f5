// Package cmd defines and implements the CLI commands for the knowmesh executable.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knowmesh/knowmesh/internal/pipeline"
	"github.com/knowmesh/knowmesh/internal/report"
)

// newBuildCmd creates and configures the 'build' subcommand, which runs the
// full pipeline for one URL and prints a summary of the resulting graph.
func newBuildCmd() *cobra.Command {
	var (
		rawURL         string
		maxEntities    int
		skipLinks      bool
		sameDomainOnly bool
		topEntities    int
		topDomains     int
		showText       bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Builds a knowledge mesh from a single page",
		Long: `Fetches one page, extracts its text and links, recognizes named
entities, and assembles everything into the in-memory knowledge graph.
A summary of the graph is printed when the build completes.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			result, err := appInstance.GetRunner().Run(cmd.Context(), pipeline.Request{
				URL:            rawURL,
				EntityLimit:    maxEntities,
				IncludeLinks:   !skipLinks,
				SameDomainOnly: sameDomainOnly,
			})
			if err != nil {
				return fmt.Errorf("build mesh: %w", err)
			}

			return report.Render(cmd.OutOrStdout(), result, report.Options{
				TopEntities:    topEntities,
				TopDomains:     topDomains,
				ShowText:       showText,
				SameDomainOnly: sameDomainOnly,
			})
		},
	}

	cmd.Flags().StringVarP(&rawURL, "url", "u", "", "page to build the mesh from (required)")
	cmd.Flags().IntVarP(&maxEntities, "max-entities", "m", 50, "maximum entities to keep from the page")
	cmd.Flags().BoolVar(&skipLinks, "skip-links", false, "do not add outbound links to the graph")
	cmd.Flags().BoolVar(&sameDomainOnly, "same-domain-only", false, "keep only links on the page's own domain")
	cmd.Flags().IntVarP(&topEntities, "top-entities", "t", 10, "how many entities to list in the summary")
	cmd.Flags().IntVar(&topDomains, "top-domains", 5, "how many outbound domains to list in the summary")
	cmd.Flags().BoolVar(&showText, "show-text", false, "print the extracted page text")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
