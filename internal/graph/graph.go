// Package graph maintains the in-memory directed graph accumulated by the
// pipeline: page and entity nodes, "mentions" edges from the source page to
// entities, and "links_to" edges from the source page to linked pages.
package graph

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/knowmesh/knowmesh/internal/mesh"
)

// Node is a graph vertex. ID is the normalized URL for pages and the raw
// trimmed entity text for entities; no two nodes share an ID.
type Node struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Role string `json:"role,omitempty"`
}

// Edge is a directed relation between two node IDs. At most one edge exists
// per (From, To, Relation) triple.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

type edgeKey struct {
	from, to, relation string
}

// Graph is an explicitly owned accumulator passed into the pipeline. Its
// lifecycle is one run: Clear at the start, mutate during, read after. The
// mutex exists because the HTTP viewer reads snapshots while a run may be
// in flight.
type Graph struct {
	mu        sync.Mutex
	nodes     map[string]*Node
	nodeOrder []string
	edges     map[edgeKey]struct{}
	edgeOrder []edgeKey
	logger    *zap.Logger
}

// New builds an empty Graph.
func New(logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Graph{logger: logger}
	g.reset()
	return g
}

func (g *Graph) reset() {
	g.nodes = make(map[string]*Node)
	g.nodeOrder = nil
	g.edges = make(map[edgeKey]struct{})
	g.edgeOrder = nil
}

// Clear wipes all nodes and edges. The pipeline calls it once at the start
// of every run, which is how one graph serves one request at a time.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
	g.logger.Info("graph cleared")
}

// AddEntities upserts one node per distinct entity text. Entities with
// empty text are skipped, not errors. Returns the number of nodes upserted.
func (g *Graph) AddEntities(entities []mesh.Entity) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	added := 0
	for _, ent := range entities {
		text := strings.TrimSpace(ent.Text)
		if text == "" {
			g.logger.Debug("skipping entity with empty text")
			continue
		}
		label := ent.Label
		if label == "" {
			label = mesh.LabelMisc
		}
		g.upsertNode(text, label, "")
		added++
	}
	g.logger.Info("added entities to graph", zap.Int("count", added))
	return added
}

// AddPageContext records the relationships of one crawled page: the source
// page node, mentions edges to each entity, and links_to edges to each
// linked page. An invalid source URL skips the whole call with a warning.
// Links equal to the source never become self-loops.
func (g *Graph) AddPageContext(sourceURL string, entities []mesh.Entity, links []string) {
	source, err := mesh.NormalizeURL(sourceURL)
	if err != nil {
		g.logger.Warn("skipping page context for invalid source URL",
			zap.String("url", sourceURL), zap.Error(err))
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.upsertNode(source, mesh.NodeTypePage, mesh.RoleSource)

	for _, ent := range entities {
		text := strings.TrimSpace(ent.Text)
		if text == "" {
			continue
		}
		label := ent.Label
		if label == "" {
			label = mesh.LabelMisc
		}
		g.upsertNode(text, label, "")
		g.upsertEdge(source, text, mesh.RelationMentions)
	}

	for _, link := range links {
		normalized, err := mesh.NormalizeURL(link)
		if err != nil || normalized == source {
			continue
		}
		g.upsertNode(normalized, mesh.NodeTypePage, "")
		g.upsertEdge(source, normalized, mesh.RelationLinksTo)
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.edges)
}

// Nodes returns a snapshot of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, *g.nodes[id])
	}
	return out
}

// Edges returns a snapshot of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Edge, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		out = append(out, Edge{From: k.from, To: k.to, Relation: k.relation})
	}
	return out
}

// upsertNode inserts or updates a node. Re-adding updates the type; an
// existing role is never erased by a later upsert without one. Callers must
// hold the mutex.
func (g *Graph) upsertNode(id, nodeType, role string) {
	if existing, ok := g.nodes[id]; ok {
		existing.Type = nodeType
		if role != "" {
			existing.Role = role
		}
		return
	}
	g.nodes[id] = &Node{ID: id, Type: nodeType, Role: role}
	g.nodeOrder = append(g.nodeOrder, id)
}

// upsertEdge inserts an edge unless the identical (from, to, relation)
// triple already exists. Callers must hold the mutex.
func (g *Graph) upsertEdge(from, to, relation string) {
	k := edgeKey{from: from, to: to, relation: relation}
	if _, ok := g.edges[k]; ok {
		return
	}
	g.edges[k] = struct{}{}
	g.edgeOrder = append(g.edgeOrder, k)
}
