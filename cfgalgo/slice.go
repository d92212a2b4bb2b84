package cfgalgo

import (
	bs "github.com/gotofree/nmg/bitset"
	"github.com/gotofree/nmg/cfg"
)

// Slice returns the nodes and edges on some path from start to a member of
// endSet, plus a topological order over them starting at start. It is the
// workhorse behind both natural-loop-body discovery (slice(header,
// latches)) and reaching-condition computation (slice(header, {successor})
// / slice(ncd, abnormalExitTargets)) — in every call site the subgraph
// reachable from start and able to reach endSet is, by the structuring
// pass's own invariant, already a DAG (inner regions are always folded to
// single Code nodes before an outer Slice call ever sees them), so a plain
// forward/backward reachability intersection plus Kahn's algorithm
// suffices; no cycle-breaking is required.
func Slice(g *cfg.Graph, start cfg.NodeID, endSet bs.Set[cfg.NodeID]) (nodes bs.Set[cfg.NodeID], edges bs.Set[cfg.EdgeID], topoOrder []cfg.NodeID) {
	fwd := reachableForward(g, start)
	bwd := reachableBackward(g, endSet)

	nodes = bs.New[cfg.NodeID]()
	fwd.ForEach(func(n cfg.NodeID) {
		if bwd.Contains(n) {
			nodes.Insert(n)
		}
	})

	edges = bs.New[cfg.EdgeID]()
	indeg := make(map[cfg.NodeID]int, nodes.Len())
	adj := make(map[cfg.NodeID][]cfg.NodeID, nodes.Len())
	nodes.ForEach(func(n cfg.NodeID) { indeg[n] = 0 })
	nodes.ForEach(func(u cfg.NodeID) {
		for _, eid := range g.OutEdges(u) {
			_, v := g.EdgeEndpoints(eid)
			if !nodes.Contains(v) {
				continue
			}
			edges.Insert(eid)
			indeg[v]++
			adj[u] = append(adj[u], v)
		}
	})

	topoOrder = kahn(nodes, indeg, adj, start)

	return nodes, edges, topoOrder
}

func reachableForward(g *cfg.Graph, start cfg.NodeID) bs.Set[cfg.NodeID] {
	seen := bs.Of(start)
	queue := []cfg.NodeID{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.Successors(u) {
			if !seen.Contains(v) {
				seen.Insert(v)
				queue = append(queue, v)
			}
		}
	}

	return seen
}

func reachableBackward(g *cfg.Graph, endSet bs.Set[cfg.NodeID]) bs.Set[cfg.NodeID] {
	seen := bs.New[cfg.NodeID]()
	var queue []cfg.NodeID
	endSet.ForEach(func(n cfg.NodeID) {
		seen.Insert(n)
		queue = append(queue, n)
	})
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.Predecessors(u) {
			if !seen.Contains(v) {
				seen.Insert(v)
				queue = append(queue, v)
			}
		}
	}

	return seen
}

// kahn topologically sorts nodes given the induced-subgraph indegrees and
// adjacency in adj, seeding the ready queue with start first so it is
// always first in the returned order (every call site's start has no
// in-slice predecessor, by construction of the regions Slice is called
// over).
func kahn(nodes bs.Set[cfg.NodeID], indeg map[cfg.NodeID]int, adj map[cfg.NodeID][]cfg.NodeID, start cfg.NodeID) []cfg.NodeID {
	ready := []cfg.NodeID{start}
	nodes.ForEach(func(n cfg.NodeID) {
		if n != start && indeg[n] == 0 {
			ready = append(ready, n)
		}
	})

	done := make(map[cfg.NodeID]bool, nodes.Len())
	order := make([]cfg.NodeID, 0, nodes.Len())
	for len(ready) > 0 {
		u := ready[0]
		ready = ready[1:]
		if done[u] {
			continue
		}
		done[u] = true
		order = append(order, u)
		for _, v := range adj[u] {
			indeg[v]--
			if indeg[v] == 0 {
				ready = append(ready, v)
			}
		}
	}

	return order
}
