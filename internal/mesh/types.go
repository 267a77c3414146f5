// Package mesh defines the core types shared across the knowledge mesh
// pipeline: fetched pages, extracted entities, and the URL normalization
// rules that give page nodes their identity.
package mesh

import (
	"net/http"
	"time"
)

// Node type and role values used by the graph accumulator.
const (
	// NodeTypePage marks a node that represents a web page.
	NodeTypePage = "page"
	// RoleSource marks the page that was actually fetched, as opposed to a
	// page only referenced through an outbound link.
	RoleSource = "source"
	// LabelMisc is the entity label assigned when no category is known.
	LabelMisc = "MISC"
)

// Edge relation values used by the graph accumulator.
const (
	// RelationMentions connects a page to an entity found on it.
	RelationMentions = "mentions"
	// RelationLinksTo connects a page to another page it hyperlinks to.
	RelationLinksTo = "links_to"
)

// Entity is a named span of text classified into a category such as
// organization, person, or place. Entities are identified by Text alone;
// differing surface forms are distinct entities.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Page is the result of fetching a single URL.
type Page struct {
	// URL is the normalized URL the page was fetched from.
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}
