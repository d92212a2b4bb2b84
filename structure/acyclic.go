package structure

import (
	"fmt"

	"github.com/gotofree/nmg/ast"
	bs "github.com/gotofree/nmg/bitset"
	"github.com/gotofree/nmg/cfg"
	"github.com/gotofree/nmg/cfgalgo"
	"github.com/gotofree/nmg/cond"
)

// reachingConditions computes, for every node on some path from start to a
// member of endSet, the boolean condition under which control reaches it
// from start, in one topological pass because the region is already known
// to be a DAG. ret[start] is always True; every other node's
// condition is the OR, over its in-slice incoming edges, of the source's
// condition ANDed with that edge's guard (or the source's condition alone,
// for an unconditional edge).
func (r *run) reachingConditions(start cfg.NodeID, endSet bs.Set[cfg.NodeID]) (map[cfg.NodeID]cond.Cond, []cfg.NodeID) {
	_, edges, topoOrder := cfgalgo.Slice(r.g, start, endSet)

	ret := make(map[cfg.NodeID]cond.Cond, len(topoOrder))
	ret[start] = r.cond.MkTrue()

	for _, n := range topoOrder[1:] {
		var contributions []cond.Cond
		for _, eid := range r.g.InEdges(n) {
			if !edges.Contains(eid) {
				continue
			}
			from, _ := r.g.EdgeEndpoints(eid)
			src := ret[from]
			if guard, hasGuard := r.g.EdgeGuard(eid); hasGuard {
				contributions = append(contributions, r.cond.MkAnd(src, guard))
			} else {
				contributions = append(contributions, src)
			}
		}
		ret[n] = r.cond.MkOrFromIter(contributions)
	}

	return ret, topoOrder
}

// structureAcyclicSESERegion reduces the single-entry-single-exit region
// between header and successor into one Seq of guarded statements, and
// consumes every node in the region except successor: header is emptied via
// ExtractPayload (its incoming edges from outside the region must survive
// for the caller to reattach the reduced AST to), every other member is
// deleted outright via RemoveNode. A region member that never held code
// (a Condition or Dummy node) contributes nothing to the Seq — only its
// reaching condition, folded into its Code descendants, survives.
func (r *run) structureAcyclicSESERegion(header, successor cfg.NodeID) (ast.Node, error) {
	reachingConds, order := r.reachingConditions(header, bs.Of(successor))
	if len(order) == 0 || order[len(order)-1] != successor {
		return nil, fmt.Errorf("%w: region %d..%d never reaches its successor", ErrIncomplete, header, successor)
	}
	order = order[:len(order)-1]

	stmts := make([]ast.Node, 0, len(order))
	for _, n := range order {
		var kind cfg.NodeKind
		var payload ast.Node
		if n == header {
			kind, payload = r.g.ExtractPayload(header, "replaced header")
		} else {
			kind, payload = r.g.RemoveNode(n)
		}
		if kind != cfg.KindCode {
			continue
		}
		stmts = append(stmts, ast.Cond{Guard: reachingConds[n], Then: payload})
	}

	return ast.Seq{Stmts: stmts}, nil
}
