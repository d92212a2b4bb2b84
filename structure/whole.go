package structure

import (
	"fmt"

	"github.com/gotofree/nmg/ast"
	"github.com/gotofree/nmg/cfg"
	"github.com/gotofree/nmg/cfgalgo"
)

// Whole structures the entire graph reachable from entry, consuming g: by
// the time it returns without error, g is empty and the returned ast.Node
// is the whole structured program. g is mutated regardless of outcome —
// callers that need to retry against the original graph should structure
// a clone.
func (e *Engine) Whole(g *cfg.Graph, entry cfg.NodeID) (ast.Node, error) {
	if !g.HasNode(entry) {
		return nil, ErrUnknownEntry
	}

	r := &run{Engine: e, g: g}

	return r.whole(entry)
}

// run carries the per-call state (just the graph handle) a structuring
// pass threads through its steps, layered over the Engine's longer-lived
// condition algebra and AST-context collaborator.
type run struct {
	*Engine
	g *cfg.Graph
}

func (r *run) whole(entry cfg.NodeID) (ast.Node, error) {
	backEdges := cfgalgo.BackEdges(r.g, entry)
	trace := cfgalgo.PODFSTrace(r.g, entry)

	r.cfg.logger.Debug().
		Int("nodes", r.g.NodeCount()).
		Int("headers", len(backEdges)).
		Msg("structuring: starting pass")

	for _, n := range trace {
		if !r.g.HasNode(n) {
			continue
		}

		if info, isHeader := backEdges[n]; isHeader {
			if err := r.structureLoop(entry, n, info, trace); err != nil {
				return nil, fmt.Errorf("structuring loop at header %d: %w", n, err)
			}

			continue
		}

		if err := r.structureAcyclic(entry, n); err != nil {
			return nil, fmt.Errorf("structuring acyclic region at %d: %w", n, err)
		}
	}

	dummyExit := r.g.AddDummy("whole:dummy_exit")
	for _, n := range r.g.NodeIDs() {
		if n == dummyExit {
			continue
		}
		if len(r.g.OutEdges(n)) == 0 {
			r.g.AddUnconditionalEdge(n, dummyExit)
		}
	}

	ret, err := r.structureAcyclicSESERegion(entry, dummyExit)
	if err != nil {
		return nil, fmt.Errorf("structuring final region: %w", err)
	}
	r.g.RemoveNode(dummyExit)
	r.g.RemoveNode(entry)

	if r.cfg.assertInvariants && r.g.NodeCount() != 0 {
		return nil, fmt.Errorf("%w: %d node(s) remain", ErrIncomplete, r.g.NodeCount())
	}

	r.cfg.logger.Debug().Msg("structuring: pass complete")

	return ret, nil
}

// structureAcyclic handles one non-header PO-DFS-trace node: if n
// dominates a region of more than one node whose single strict successor
// is unique, the whole region is reduced and folded back into n.
func (r *run) structureAcyclic(entry, n cfg.NodeID) error {
	region := cfgalgo.DominatedBy(r.g, entry, n)
	if region.Len() <= 1 {
		return nil
	}

	succs := cfgalgo.StrictSuccessors(r.g, region)
	if succs.Len() != 1 {
		return nil
	}
	succ := onlyMember(succs)

	body, err := r.structureAcyclicSESERegion(n, succ)
	if err != nil {
		return err
	}
	r.g.ReplaceCode(n, body)
	r.g.AddUnconditionalEdge(n, succ)

	return nil
}
