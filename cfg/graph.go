// Package cfg is the structuring engine's graph data model: the analogue
// of lvlath's core.Graph, but scoped to one structuring run instead of a
// general-purpose shared graph. Nodes and edges live behind stable
// handles (NodeID, EdgeID) in sparse maps rather than a packed slice, so
// removing one node never invalidates another's handle — the property
// §9 of the structuring spec requires, since the engine freezes a
// traversal order up front and keeps indexing into it while it mutates
// the graph underneath.
//
// Unlike core.Graph, Graph carries no locks: a structuring run owns its
// graph exclusively and is, by contract, single-threaded and synchronous
// (see the structure package's doc comment). Reproducing core.Graph's
// sync.RWMutex pair here would just be dead weight.
package cfg

import (
	"github.com/gotofree/nmg/ast"
	"github.com/gotofree/nmg/cond"
)

// NodeID is a stable handle to a node. It remains valid for the lifetime
// of the Graph even after other nodes are removed.
type NodeID uint64

// EdgeID is a stable handle to an edge, with the same removal-tolerance
// as NodeID.
type EdgeID uint64

// NodeKind classifies a node per §3 of the structuring spec.
type NodeKind uint8

const (
	// KindCode holds an already-structured sub-AST; out-degree <= 1,
	// and that one out-edge (when present) is normally unconditional —
	// except for the transient break-node exit the engine installs
	// during loop abnormal-exit funnelling, which is guarded by False.
	KindCode NodeKind = iota

	// KindCondition is a multi-way branch; out-degree >= 2, every
	// out-edge carries a guard, and the guards partition the outcomes.
	KindCondition

	// KindDummy is a transient anchor used only inside the engine; it
	// must never be observed at the entry or exit of a public call.
	KindDummy
)

type node struct {
	kind NodeKind
	ast  ast.Node // valid iff kind == KindCode
	tag  string   // valid iff kind == KindDummy
	out  []EdgeID
	in   []EdgeID
}

type edge struct {
	from, to NodeID
	guard    cond.Cond
	hasGuard bool
}

// Graph is the mutable CFG the structuring engine consumes and rewrites
// in place.
type Graph struct {
	nodes map[NodeID]*node
	edges map[EdgeID]*edge

	nextNode uint64
	nextEdge uint64
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[NodeID]*node),
		edges: make(map[EdgeID]*edge),
	}
}

func (g *Graph) addNode(n *node) NodeID {
	id := NodeID(g.nextNode)
	g.nextNode++
	g.nodes[id] = n

	return id
}

// AddCode inserts a Code node wrapping the given AST and returns its ID.
func (g *Graph) AddCode(a ast.Node) NodeID {
	return g.addNode(&node{kind: KindCode, ast: a})
}

// AddCondition inserts a Condition node (no AST payload) and returns its
// ID. Out-edges are added afterward via AddGuardedEdge.
func (g *Graph) AddCondition() NodeID {
	return g.addNode(&node{kind: KindCondition})
}

// AddDummy inserts a transient Dummy anchor tagged for diagnostics and
// returns its ID. The tag is never interpreted; Tag reads it back.
func (g *Graph) AddDummy(tag string) NodeID {
	return g.addNode(&node{kind: KindDummy, tag: tag})
}

func (g *Graph) mustNode(id NodeID) *node {
	n, ok := g.nodes[id]
	if !ok {
		panic("cfg: reference to removed or unknown node")
	}

	return n
}

// AddUnconditionalEdge adds a None-weight edge from -> to.
func (g *Graph) AddUnconditionalEdge(from, to NodeID) EdgeID {
	return g.addEdge(from, to, cond.Cond{}, false)
}

// AddGuardedEdge adds a Some(guard)-weight edge from -> to.
func (g *Graph) AddGuardedEdge(from, to NodeID, guard cond.Cond) EdgeID {
	return g.addEdge(from, to, guard, true)
}

func (g *Graph) addEdge(from, to NodeID, guard cond.Cond, hasGuard bool) EdgeID {
	id := EdgeID(g.nextEdge)
	g.nextEdge++
	e := &edge{from: from, to: to, guard: guard, hasGuard: hasGuard}
	g.edges[id] = e

	fromN := g.mustNode(from)
	fromN.out = append(fromN.out, id)
	toN := g.mustNode(to)
	toN.in = append(toN.in, id)

	return id
}

// RemoveNode deletes n and every edge incident to it, returning n's kind
// and (if it was a KindCode node) its AST payload.
func (g *Graph) RemoveNode(id NodeID) (kind NodeKind, payload ast.Node) {
	n := g.mustNode(id)
	kind, payload = n.kind, n.ast

	for _, eid := range append([]EdgeID(nil), n.out...) {
		g.removeEdge(eid)
	}
	for _, eid := range append([]EdgeID(nil), n.in...) {
		g.removeEdge(eid)
	}
	delete(g.nodes, id)

	return kind, payload
}

func (g *Graph) removeEdge(id EdgeID) {
	e, ok := g.edges[id]
	if !ok {
		return
	}
	if fromN, ok := g.nodes[e.from]; ok {
		fromN.out = removeID(fromN.out, id)
	}
	if toN, ok := g.nodes[e.to]; ok {
		toN.in = removeID(toN.in, id)
	}
	delete(g.edges, id)
}

func removeID(s []EdgeID, id EdgeID) []EdgeID {
	for i, x := range s {
		if x == id {
			return append(s[:i], s[i+1:]...)
		}
	}

	return s
}

// ReplaceCode installs next as n's AST payload and makes n a KindCode node,
// keeping n's ID and edges intact, and returns the payload that was
// replaced (nil if n held none, e.g. the Dummy ExtractPayload leaves
// behind). This is how the engine folds a reduced region's AST back
// into the node that anchors its incoming edges, instead of removing and
// re-adding the node (which would lose those edges).
func (g *Graph) ReplaceCode(id NodeID, next ast.Node) ast.Node {
	n := g.mustNode(id)
	old := n.ast
	n.kind = KindCode
	n.ast = next

	return old
}

// ExtractPayload pulls n's current kind and AST payload out and leaves n
// behind as a KindDummy node tagged with tag, touching none of n's edges.
// This is the engine's analogue of Rust's mem::replace(&mut graph[n],
// Dummy(tag)): a region reduction needs to consume the payload of the
// region's header while keeping the header's node ID (and thus its
// incoming edges from outside the region) alive, unlike every other node
// in the region, which RemoveNode deletes outright, edges and all.
func (g *Graph) ExtractPayload(id NodeID, tag string) (kind NodeKind, payload ast.Node) {
	n := g.mustNode(id)
	kind, payload = n.kind, n.ast
	n.kind = KindDummy
	n.ast = nil
	n.tag = tag

	return kind, payload
}

// Retarget changes e's destination to newTo, preserving its source and
// guard.
func (g *Graph) Retarget(id EdgeID, newTo NodeID) {
	e, ok := g.edges[id]
	if !ok {
		panic("cfg: retarget of removed or unknown edge")
	}
	if oldTo, ok := g.nodes[e.to]; ok {
		oldTo.in = removeID(oldTo.in, id)
	}
	e.to = newTo
	g.mustNode(newTo).in = append(g.mustNode(newTo).in, id)
}

// Kind reports n's NodeKind.
func (g *Graph) Kind(id NodeID) NodeKind { return g.mustNode(id).kind }

// AST returns n's AST payload and true, if n is a KindCode node;
// otherwise it returns (nil, false).
func (g *Graph) AST(id NodeID) (ast.Node, bool) {
	n := g.mustNode(id)
	if n.kind != KindCode {
		return nil, false
	}

	return n.ast, true
}

// Tag returns n's diagnostic tag, if n is a KindDummy node.
func (g *Graph) Tag(id NodeID) string { return g.mustNode(id).tag }

// HasNode reports whether id currently refers to a live node.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]

	return ok
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// NodeIDs returns every live node ID, in ascending handle order (the
// order in which they were created and have not yet been removed).
func (g *Graph) NodeIDs() []NodeID {
	out := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	sortNodeIDs(out)

	return out
}

func sortNodeIDs(s []NodeID) {
	// Insertion sort is adequate: NodeIDs are nearly sorted already since
	// they are monotonically assigned and removals are sparse in any one
	// structuring pass.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// OutEdges returns n's outgoing edge IDs in insertion order.
func (g *Graph) OutEdges(id NodeID) []EdgeID {
	n := g.mustNode(id)

	return append([]EdgeID(nil), n.out...)
}

// InEdges returns n's incoming edge IDs in insertion order.
func (g *Graph) InEdges(id NodeID) []EdgeID {
	n := g.mustNode(id)

	return append([]EdgeID(nil), n.in...)
}

// Successors returns the targets of n's outgoing edges, one per edge, in
// insertion order; a target reached by several edges appears once per edge.
func (g *Graph) Successors(id NodeID) []NodeID {
	out := g.OutEdges(id)
	res := make([]NodeID, 0, len(out))
	for _, eid := range out {
		res = append(res, g.edges[eid].to)
	}

	return res
}

// Predecessors returns the sources of n's incoming edges, one per edge, in
// insertion order; a source with several edges appears once per edge.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	in := g.InEdges(id)
	res := make([]NodeID, 0, len(in))
	for _, eid := range in {
		res = append(res, g.edges[eid].from)
	}

	return res
}

// EdgeEndpoints returns e's source and destination.
func (g *Graph) EdgeEndpoints(id EdgeID) (from, to NodeID) {
	e, ok := g.edges[id]
	if !ok {
		panic("cfg: reference to removed or unknown edge")
	}

	return e.from, e.to
}

// EdgeGuard returns e's guard and whether it has one.
func (g *Graph) EdgeGuard(id EdgeID) (guard cond.Cond, hasGuard bool) {
	e, ok := g.edges[id]
	if !ok {
		panic("cfg: reference to removed or unknown edge")
	}

	return e.guard, e.hasGuard
}

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
