// Package report renders a console summary of a completed mesh build:
// entity frequency, outbound domain frequency, and graph size.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/knowmesh/knowmesh/internal/mesh"
	"github.com/knowmesh/knowmesh/internal/pipeline"
)

// Options controls which sections of the summary are rendered.
type Options struct {
	// TopEntities caps the entity frequency table. Zero hides the table.
	TopEntities int
	// TopDomains caps the outbound domain table. Zero hides the table.
	TopDomains int
	// ShowText includes the extracted page text in the output.
	ShowText bool
	// SameDomainOnly suppresses the domain table, which would only ever
	// contain the source domain.
	SameDomainOnly bool
}

// EntityCount pairs an entity with how often it was mentioned on the page.
type EntityCount struct {
	Entity mesh.Entity
	Count  int
}

// DomainCount pairs an outbound domain with how many links point at it.
type DomainCount struct {
	Domain string
	Count  int
}

// TopEntities counts mentions per entity and returns the n most frequent.
// Ties keep first-mention order.
func TopEntities(entities []mesh.Entity, n int) []EntityCount {
	if n <= 0 {
		return nil
	}
	counts := make(map[mesh.Entity]int)
	var order []mesh.Entity
	for _, e := range entities {
		if _, ok := counts[e]; !ok {
			order = append(order, e)
		}
		counts[e]++
	}
	ranked := make([]EntityCount, 0, len(order))
	for _, e := range order {
		ranked = append(ranked, EntityCount{Entity: e, Count: counts[e]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopDomains counts outbound links per domain and returns the n most linked.
// Ties keep first-link order.
func TopDomains(links []string, n int) []DomainCount {
	if n <= 0 {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for _, link := range links {
		domain := mesh.DomainOf(link)
		if domain == "" {
			continue
		}
		if _, ok := counts[domain]; !ok {
			order = append(order, domain)
		}
		counts[domain]++
	}
	ranked := make([]DomainCount, 0, len(order))
	for _, d := range order {
		ranked = append(ranked, DomainCount{Domain: d, Count: counts[d]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Render writes the human-readable summary of a run to w.
func Render(w io.Writer, res pipeline.Result, opts Options) error {
	fmt.Fprintf(w, "Mesh built from %s (HTTP %d)\n", res.URL, res.StatusCode)
	fmt.Fprintf(w, "  text: %d runes, links: %d, entities: %d\n",
		res.TextRunes, len(res.Links), len(res.Entities))
	fmt.Fprintf(w, "  graph: %d nodes, %d edges\n", res.NodeCount, res.EdgeCount)

	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}

	if ranked := TopEntities(res.Entities, opts.TopEntities); len(ranked) > 0 {
		fmt.Fprintf(w, "\nTop entities:\n")
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		for _, ec := range ranked {
			fmt.Fprintf(tw, "  %s\t%s\t%d\n", ec.Entity.Text, ec.Entity.Label, ec.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if !opts.SameDomainOnly {
		if ranked := TopDomains(res.Links, opts.TopDomains); len(ranked) > 0 {
			fmt.Fprintf(w, "\nTop outbound domains:\n")
			tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
			for _, dc := range ranked {
				fmt.Fprintf(tw, "  %s\t%d\n", dc.Domain, dc.Count)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}
	}

	if opts.ShowText && strings.TrimSpace(res.Text) != "" {
		fmt.Fprintf(w, "\nExtracted text:\n%s\n", res.Text)
	}
	return nil
}
