package annotate

import (
	"regexp"
	"strings"

	"github.com/knowmesh/knowmesh/internal/mesh"
)

// capitalizedPhrase matches runs of capitalized words ("Jane Smith",
// "National Aeronautics").
var capitalizedPhrase = regexp.MustCompile(`\b[A-Z][a-zA-Z]+(\s+[A-Z][a-zA-Z]+)*\b`)

// minHeuristicEntityLen drops short matches like "An" or "Go" that are far
// more often sentence starts than names.
const minHeuristicEntityLen = 3

// heuristicEntities extracts capitalized multi-word phrases as entity
// candidates, de-duplicated in first-seen order and labeled MISC. It is the
// last resort when model recognition is unavailable or finds nothing.
func heuristicEntities(text string) []mesh.Entity {
	var entities []mesh.Entity
	seen := make(map[string]struct{})
	for _, match := range capitalizedPhrase.FindAllString(text, -1) {
		cleaned := strings.TrimSpace(match)
		if len(cleaned) < minHeuristicEntityLen {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		entities = append(entities, mesh.Entity{Text: cleaned, Label: mesh.LabelMisc})
	}
	return entities
}
