// Package topology builds and maintains the layer-3 connectivity graph
// discovered from parsed device configurations, and exposes the queries
// (alternate-path counts, neighbor lookups, fault injection) the
// validator, traffic analyzer, and simulation engine drive against it.
package topology

import (
	"sync"

	"github.com/katalvlaran/lvlath/core"

	"github.com/netsim-forge/netsim/pkg/model"
)

// LinkType classifies how an edge's existence was discovered.
type LinkType string

const (
	LinkTypeSubnet      LinkType = "subnet"
	LinkTypeOSPF        LinkType = "ospf"
	LinkTypeBGP         LinkType = "bgp"
	LinkTypeDescription LinkType = "desc"
)

// EdgeAttr carries the link annotations lvlath's core.Edge has no room
// for: an Edge only stores an int64 Weight and a Directed flag, so every
// richer attribute (link type, subnet, simulated utilization, ...) lives
// in this side-table keyed by the edge's lvlath-assigned id.
type EdgeAttr struct {
	LinkType LinkType
	Title    string

	Subnet        string
	BandwidthKbps int
	Cost          int

	PeerIP   string
	LocalAS  int
	RemoteAS int
	Area     string

	AlternativePaths   int
	IsCritical         bool
	UtilizationPercent float64
	UtilizationStatus  string
	Priority           string
}

// BandwidthSummary aggregates a device's interface bandwidth.
type BandwidthSummary struct {
	TotalKbps   int
	TotalMbps   float64
	ActiveCount int
	TotalCount  int
}

// NodeAttr carries per-device annotations lvlath's bare Vertex.Metadata
// doesn't model with any structure.
type NodeAttr struct {
	DeviceID  string
	Hostname  string
	Kind      model.DeviceKind
	Bandwidth BandwidthSummary
}

// Edge is a flattened (endpoint, endpoint, attributes) view of one link.
type Edge struct {
	A, B string
	Attr *EdgeAttr
}

// Graph is the simulation's connectivity graph: an undirected, unweighted
// lvlath core.Graph of device ids, annotated with EdgeAttr/NodeAttr
// side-tables. Its embedded mutex is the single lock spec.md's concurrency
// model calls for: every public method takes it for the duration of one
// graph operation, so the topology builder, the validator's read-only
// queries, and the simulation engine's fault injection all serialize
// through the same coarse lock without any caller managing it by hand.
type Graph struct {
	mu sync.RWMutex

	g *core.Graph

	nodeAttrs map[string]*NodeAttr
	edgeAttrs map[string]*EdgeAttr
	// pairIndex maps a canonical "a|b" endpoint pair to the lvlath edge id
	// currently carrying it. lvlath assigns edge ids on AddEdge, so
	// RemoveEdge/RestoreEdge and the alternate-path probe need this to
	// find a link by its endpoints rather than by id.
	pairIndex map[string]string
}

// New returns an empty topology graph.
func New() *Graph {
	return &Graph{
		g:         core.NewGraph(core.WithDirected(false)),
		nodeAttrs: make(map[string]*NodeAttr),
		edgeAttrs: make(map[string]*EdgeAttr),
		pairIndex: make(map[string]string),
	}
}

func canonicalPair(a, b string) string {
	if a <= b {
		return a + "|" + b
	}
	return b + "|" + a
}

// AddNode registers a device vertex, idempotently.
func (t *Graph) AddNode(attr *NodeAttr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.g.AddVertex(attr.DeviceID)
	t.nodeAttrs[attr.DeviceID] = attr
}

// HasNode reports whether a device id is present.
func (t *Graph) HasNode(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.g.HasVertex(id)
}

// Node returns the annotations for a device id.
func (t *Graph) Node(id string) (*NodeAttr, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodeAttrs[id]
	return n, ok
}

// Nodes returns all device ids, lexicographically sorted.
func (t *Graph) Nodes() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.g.Vertices()
}

// NodeCount returns the number of device vertices.
func (t *Graph) NodeCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.g.VertexCount()
}

// HasEdge reports whether a and b are directly connected.
func (t *Graph) HasEdge(a, b string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.g.HasEdge(a, b)
}

// AddEdge adds an undirected link between a and b if one doesn't already
// exist and returns false without modifying attr if the pair was already
// connected — this realizes the topology builder's "first writer wins"
// rule across its discovery passes.
func (t *Graph) AddEdge(a, b string, attr *EdgeAttr) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.g.HasEdge(a, b) {
		return false
	}
	eid, err := t.g.AddEdge(a, b, 0)
	if err != nil {
		return false
	}
	t.edgeAttrs[eid] = attr
	t.pairIndex[canonicalPair(a, b)] = eid
	return true
}

// EdgeAttrOf returns the annotations for the link between a and b.
func (t *Graph) EdgeAttrOf(a, b string) (*EdgeAttr, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	eid, ok := t.pairIndex[canonicalPair(a, b)]
	if !ok {
		return nil, false
	}
	attr, ok := t.edgeAttrs[eid]
	return attr, ok
}

// Edges returns every link in the graph, each reported once.
func (t *Graph) Edges() []Edge {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Edge, 0, len(t.edgeAttrs))
	for _, e := range t.g.Edges() {
		out = append(out, Edge{A: e.From, B: e.To, Attr: t.edgeAttrs[e.ID]})
	}
	return out
}

// RemoveEdge deletes the link between a and b. Idempotent: removing an
// already-absent link is a no-op, matching the fault-injection contract.
func (t *Graph) RemoveEdge(a, b string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeEdgeLocked(a, b)
}

func (t *Graph) removeEdgeLocked(a, b string) {
	key := canonicalPair(a, b)
	eid, ok := t.pairIndex[key]
	if !ok {
		return
	}
	_ = t.g.RemoveEdge(eid)
	delete(t.pairIndex, key)
	delete(t.edgeAttrs, eid)
}

// RestoreEdge re-adds a previously removed link with the given
// attributes. Idempotent: restoring an already-present link is a no-op.
func (t *Graph) RestoreEdge(a, b string, attr *EdgeAttr) {
	t.AddEdge(a, b, attr)
}

// NeighborIDs returns the device ids directly connected to id.
func (t *Graph) NeighborIDs(id string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids, _ := t.g.NeighborIDs(id)
	return ids
}

// Underlying exposes the raw lvlath graph for read-only traversal
// algorithms (BFS, DFS, cycle detection) that operate on *core.Graph
// directly. Callers must treat it as read-only; all mutation goes through
// this type's own locked methods.
func (t *Graph) Underlying() *core.Graph {
	return t.g
}

// AlternativePathCount temporarily removes the link between a and b,
// enumerates simple paths between them up to cutoff edges, restores the
// link (carrying its original attributes forward under a new lvlath edge
// id), and returns the count. A link with zero alternative paths is the
// network's single point of failure between those two devices.
func (t *Graph) AlternativePathCount(a, b string, cutoff int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := canonicalPair(a, b)
	eid, ok := t.pairIndex[key]
	if !ok {
		return 0
	}
	attr := t.edgeAttrs[eid]

	_ = t.g.RemoveEdge(eid)
	delete(t.pairIndex, key)
	delete(t.edgeAttrs, eid)

	paths := allSimplePaths(t.g, a, b, cutoff)

	neid, err := t.g.AddEdge(a, b, 0)
	if err == nil {
		t.edgeAttrs[neid] = attr
		t.pairIndex[key] = neid
	}

	return len(paths)
}

// SimplePaths enumerates every simple path from a to b with at most
// cutoff edges, for callers (redundancy testing) that need the actual
// path lists rather than just a count.
func (t *Graph) SimplePaths(a, b string, cutoff int) [][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return allSimplePaths(t.g, a, b, cutoff)
}

// SetEdgeAttr overwrites the annotations for an existing link, used by the
// link-metrics pass once utilization/criticality have been computed.
func (t *Graph) SetEdgeAttr(a, b string, attr *EdgeAttr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	eid, ok := t.pairIndex[canonicalPair(a, b)]
	if !ok {
		return
	}
	t.edgeAttrs[eid] = attr
}
