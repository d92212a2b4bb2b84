package cfgalgo

import (
	bs "github.com/gotofree/nmg/bitset"
	"github.com/gotofree/nmg/cfg"
)

// Dominators is a snapshot of the dominator tree of a Graph as seen from
// one root, at one point in time. The structuring engine never holds onto
// one across a mutation — it asks for a fresh Dominators (via DominatedBy
// or NearestCommonDominator) every time it needs a dominance fact, the
// same way the graph it queries is itself rebuilt node by node across the
// run. That makes the overall structuring pass O(V·(V+E)): one dominator
// computation per PO-DFS-trace node, each O(V+E).
type Dominators struct {
	root     cfg.NodeID
	rpoIndex map[cfg.NodeID]int
	rpoOrder []cfg.NodeID
	idom     map[cfg.NodeID]cfg.NodeID
	children map[cfg.NodeID][]cfg.NodeID
}

// ComputeDominators builds the dominator tree of the subgraph reachable
// from root, using the Cooper-Harvey-Kennedy iterative algorithm. It
// converges correctly whether or not the reachable subgraph is currently
// reducible — the structuring engine calls this while cycles the pass
// hasn't reached yet may still be present elsewhere in the graph.
func ComputeDominators(g *cfg.Graph, root cfg.NodeID) *Dominators {
	finish := PODFSTrace(g, root)

	rpoOrder := make([]cfg.NodeID, len(finish))
	for i, n := range finish {
		rpoOrder[len(finish)-1-i] = n
	}
	rpoIndex := make(map[cfg.NodeID]int, len(rpoOrder))
	for i, n := range rpoOrder {
		rpoIndex[n] = i
	}

	preds := make(map[cfg.NodeID][]cfg.NodeID, len(rpoOrder))
	for _, n := range rpoOrder {
		var ps []cfg.NodeID
		for _, p := range g.Predecessors(n) {
			if _, ok := rpoIndex[p]; ok {
				ps = append(ps, p)
			}
		}
		preds[n] = ps
	}

	d := &Dominators{
		root:     root,
		rpoIndex: rpoIndex,
		rpoOrder: rpoOrder,
		idom:     map[cfg.NodeID]cfg.NodeID{root: root},
	}

	for changed := true; changed; {
		changed = false
		for _, n := range rpoOrder {
			if n == root {
				continue
			}

			var newIdom cfg.NodeID
			has := false
			for _, p := range preds[n] {
				if _, done := d.idom[p]; !done {
					continue
				}
				if !has {
					newIdom, has = p, true

					continue
				}
				newIdom = d.intersect(newIdom, p)
			}
			if !has {
				continue
			}
			if old, ok := d.idom[n]; !ok || old != newIdom {
				d.idom[n] = newIdom
				changed = true
			}
		}
	}

	children := make(map[cfg.NodeID][]cfg.NodeID, len(rpoOrder))
	for _, n := range rpoOrder {
		if n == root {
			continue
		}
		p := d.idom[n]
		children[p] = append(children[p], n)
	}
	d.children = children

	return d
}

// intersect walks two dominator-tree fingers up toward the root until they
// meet, the standard Cooper-Harvey-Kennedy "intersect" step. Nodes closer
// to the root have smaller rpoIndex.
func (d *Dominators) intersect(a, b cfg.NodeID) cfg.NodeID {
	for a != b {
		for d.rpoIndex[a] > d.rpoIndex[b] {
			a = d.idom[a]
		}
		for d.rpoIndex[b] > d.rpoIndex[a] {
			b = d.idom[b]
		}
	}

	return a
}

// IDom returns n's immediate dominator and true, or the zero NodeID and
// false if n is unreachable from root.
func (d *Dominators) IDom(n cfg.NodeID) (cfg.NodeID, bool) {
	v, ok := d.idom[n]

	return v, ok
}

// DominatedBy returns the set of nodes every path from root to which
// passes through n — equivalently, n plus its full descendant set in the
// dominator tree. Reports an empty set if n is unreachable from root.
func (d *Dominators) DominatedBy(n cfg.NodeID) bs.Set[cfg.NodeID] {
	out := bs.New[cfg.NodeID]()
	if _, ok := d.rpoIndex[n]; !ok {
		return out
	}

	var walk func(cfg.NodeID)
	walk = func(u cfg.NodeID) {
		out.Insert(u)
		for _, c := range d.children[u] {
			walk(c)
		}
	}
	walk(n)

	return out
}

// NearestCommonDominator returns the deepest node that dominates every
// member of set. The zero NodeID is returned for an empty set.
func (d *Dominators) NearestCommonDominator(set bs.Set[cfg.NodeID]) cfg.NodeID {
	var ncd cfg.NodeID
	first := true
	set.ForEach(func(n cfg.NodeID) {
		if first {
			ncd, first = n, false

			return
		}
		ncd = d.intersect(ncd, n)
	})

	return ncd
}

// DominatedBy is the self-contained convenience form of
// Dominators.DominatedBy: it (re)computes the dominator tree of g from
// root and returns the region dominated by n.
func DominatedBy(g *cfg.Graph, root, n cfg.NodeID) bs.Set[cfg.NodeID] {
	return ComputeDominators(g, root).DominatedBy(n)
}

// NearestCommonDominator is the self-contained convenience form of
// Dominators.NearestCommonDominator.
func NearestCommonDominator(g *cfg.Graph, root cfg.NodeID, set bs.Set[cfg.NodeID]) cfg.NodeID {
	return ComputeDominators(g, root).NearestCommonDominator(set)
}
