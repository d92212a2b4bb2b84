package structure

import (
	"github.com/gotofree/nmg/ast"
	bs "github.com/gotofree/nmg/bitset"
	"github.com/gotofree/nmg/cfg"
	"github.com/gotofree/nmg/cfgalgo"
	"github.com/gotofree/nmg/cond"
)

// structureLoop folds the natural loop headed by header into a single
// Code node holding an Endless loop, using the trace frozen once at the
// start of the enclosing Whole pass to pick the loop's canonical successor
// — never a trace recomputed against the graph as it stands mid-loop,
// since nodes this step mints itself (loop_continue, cascade nodes) never
// appeared in that trace and must never be mistaken for it.
func (r *run) structureLoop(entry, header cfg.NodeID, info *cfgalgo.BackEdgeInfo, trace []cfg.NodeID) error {
	loopContinue := r.g.AddDummy("loop continue")
	for _, eid := range info.Edges {
		r.g.Retarget(eid, loopContinue)
	}

	latches := bs.Of(info.Latches...)
	initialLoopNodes, _, _ := cfgalgo.Slice(r.g, header, latches)

	loopHeader := r.funnelAbnormalEntries(entry, header, initialLoopNodes)

	loopNodes := initialLoopNodes.Clone()
	succNodes := cfgalgo.StrictSuccessors(r.g, initialLoopNodes)
	r.refineLoop(&loopNodes, &succNodes)

	var loopSucc cfg.NodeID
	haveLoopSucc := false
	if finalSucc, ok := firstInTrace(trace, succNodes); ok {
		succNodes.Remove(finalSucc)
		loopSucc = r.funnelAbnormalExits(entry, loopNodes, loopContinue, finalSucc, succNodes)
		haveLoopSucc = true
	}

	loopBody, err := r.structureAcyclicSESERegion(loopHeader, loopContinue)
	if err != nil {
		return err
	}
	r.g.RemoveNode(loopContinue)

	r.g.ReplaceCode(loopHeader, ast.Loop{Kind: ast.LoopKind{Tag: ast.Endless}, Body: loopBody})
	if haveLoopSucc {
		r.g.AddUnconditionalEdge(loopHeader, loopSucc)
	}

	return nil
}

// funnelAbnormalEntries regularizes a loop whose body is entered from
// outside at more than one node (jumping straight into the middle of the
// loop instead of through its header) into one with a single entry: it
// mints a dispatch variable, builds a condition cascade that routes a
// fresh entry into the graph to the right original target, and redirects
// every abnormal entry edge through an assignment to that variable first.
// loopNodes must be the initial (pre-refinement) loop-node set, the same
// one the caller used to compute it — refinement only ever adds nodes
// whose sole role is as loop-internal successors, never as new entries.
func (r *run) funnelAbnormalEntries(entry, header cfg.NodeID, loopNodes bs.Set[cfg.NodeID]) cfg.NodeID {
	if header == entry {
		return header
	}

	entryMap := make(map[cfg.NodeID][]cfg.EdgeID)
	var order []cfg.NodeID
	loopNodes.ForEach(func(n cfg.NodeID) {
		for _, eid := range r.g.InEdges(n) {
			from, _ := r.g.EdgeEndpoints(eid)
			if loopNodes.Contains(from) {
				continue
			}
			if _, seen := entryMap[n]; !seen {
				order = append(order, n)
			}
			entryMap[n] = append(entryMap[n], eid)
		}
	})

	headerEntries := entryMap[header]
	delete(entryMap, header)
	abnormalTargets := make([]cfg.NodeID, 0, len(order))
	for _, n := range order {
		if n == header {
			continue
		}
		abnormalTargets = append(abnormalTargets, n)
	}
	if len(abnormalTargets) == 0 {
		return header
	}

	structVar := r.actx.MkFreshVar()
	dummyPreheader := r.g.AddDummy("funnel entries: dummy preheader")

	prevCascadeNode := dummyPreheader
	prevEntryTarget := header
	var prevOutCond cond.Cond
	havePrevOutCond := false
	var prevEntryNum uint64

	for i, entryTarget := range abnormalTargets {
		entryNum := uint64(i + 1)

		prevCondEq := r.cond.MkSimple(r.actx.MkCondEquals(structVar, prevEntryNum))
		cascadeNode := r.g.AddCondition()
		if havePrevOutCond {
			r.g.AddGuardedEdge(prevCascadeNode, cascadeNode, prevOutCond)
		} else {
			r.g.AddUnconditionalEdge(prevCascadeNode, cascadeNode)
		}
		r.g.AddGuardedEdge(cascadeNode, prevEntryTarget, prevCondEq)

		structReset := r.g.AddCode(ast.BasicBlock{Block: r.actx.MkVarAssign(structVar, 0)})
		r.g.AddUnconditionalEdge(structReset, entryTarget)

		prevCascadeNode = cascadeNode
		prevEntryTarget = structReset
		prevOutCond = r.cond.MkNot(prevCondEq)
		havePrevOutCond = true
		prevEntryNum = entryNum
	}
	if havePrevOutCond {
		r.g.AddGuardedEdge(prevCascadeNode, prevEntryTarget, prevOutCond)
	} else {
		r.g.AddUnconditionalEdge(prevCascadeNode, prevEntryTarget)
	}

	newHeader := r.g.Successors(dummyPreheader)[0]
	r.g.RemoveNode(dummyPreheader)

	structAssign := r.g.AddCode(ast.BasicBlock{Block: r.actx.MkVarAssign(structVar, 0)})
	r.g.AddUnconditionalEdge(structAssign, newHeader)
	for _, eid := range headerEntries {
		r.g.Retarget(eid, structAssign)
	}
	for i, target := range abnormalTargets {
		entryNum := uint64(i + 1)
		sa := r.g.AddCode(ast.BasicBlock{Block: r.actx.MkVarAssign(structVar, entryNum)})
		r.g.AddUnconditionalEdge(sa, newHeader)
		for _, eid := range entryMap[target] {
			r.g.Retarget(eid, sa)
		}
	}

	return newHeader
}

// refineLoop grows loopNodes by absorbing every member of succNodes all of
// whose predecessors already lie inside loopNodes — such a node can only
// ever be reached from within the loop, so it is loop-internal despite
// having first shown up as a strict successor, and its own successors
// become the next round's candidates. Absorption stops the moment a round
// brings in no new candidate successors, or once at most one genuine
// successor remains.
func (r *run) refineLoop(loopNodes, succNodes *bs.Set[cfg.NodeID]) {
	for succNodes.Len() > 1 {
		snapshot := succNodes.Clone()
		newNodes := bs.New[cfg.NodeID]()

		snapshot.ForEach(func(n cfg.NodeID) {
			for _, p := range r.g.Predecessors(n) {
				if !loopNodes.Contains(p) {
					return
				}
			}
			loopNodes.Insert(n)
			for _, s := range r.g.Successors(n) {
				if !loopNodes.Contains(s) {
					newNodes.Insert(s)
				}
			}
		})

		succNodes.DifferenceWith(*loopNodes)
		if newNodes.Len() == 0 {
			break
		}
		succNodes.UnionWith(newNodes)
	}
}

// funnelAbnormalExits routes every one of a loop's exit edges through a
// break node so the loop body's only way out is an explicit break, and —
// when the loop has more than one genuine exit target — funnels all but
// the canonical finalSucc through a reaching-condition cascade first, so
// the loop as a whole still has exactly one successor, finalSucc (or the
// cascade's synthesized dispatch point, new_successor, if any abnormal
// exits exist). abnSuccNodes must be the already-refined, already-reduced
// successor set with finalSucc itself removed.
func (r *run) funnelAbnormalExits(entry cfg.NodeID, loopNodes bs.Set[cfg.NodeID], loopContinue, finalSucc cfg.NodeID, abnSuccNodes bs.Set[cfg.NodeID]) cfg.NodeID {
	newSuccessor := finalSucc

	if abnSuccNodes.Len() > 0 {
		abnExitSources := bs.New[cfg.NodeID]()
		abnSuccNodes.ForEach(func(target cfg.NodeID) {
			for _, p := range r.g.Predecessors(target) {
				if loopNodes.Contains(p) {
					abnExitSources.Insert(p)
				}
			}
		})

		ncd := cfgalgo.NearestCommonDominator(r.g, entry, abnExitSources)
		reachingConds, _ := r.reachingConditions(ncd, abnSuccNodes)

		dummyPresuccessor := r.g.AddDummy("funnel exits: dummy presuccessor")
		prevCascadeNode := dummyPresuccessor
		var prevOutCond cond.Cond
		havePrevOutCond := false

		for _, exitTarget := range abnSuccNodes.Slice() {
			reachingCond := reachingConds[exitTarget]
			cascadeNode := r.g.AddCondition()
			if havePrevOutCond {
				r.g.AddGuardedEdge(prevCascadeNode, cascadeNode, prevOutCond)
			} else {
				r.g.AddUnconditionalEdge(prevCascadeNode, cascadeNode)
			}
			r.g.AddGuardedEdge(cascadeNode, exitTarget, reachingCond)

			prevCascadeNode = cascadeNode
			prevOutCond = r.cond.MkNot(reachingCond)
			havePrevOutCond = true
		}
		if havePrevOutCond {
			r.g.AddGuardedEdge(prevCascadeNode, finalSucc, prevOutCond)
		} else {
			r.g.AddUnconditionalEdge(prevCascadeNode, finalSucc)
		}

		newSuccessor = r.g.Successors(dummyPresuccessor)[0]
		r.g.RemoveNode(dummyPresuccessor)
	}

	var exitEdges []cfg.EdgeID
	loopNodes.ForEach(func(n cfg.NodeID) {
		for _, eid := range r.g.OutEdges(n) {
			_, to := r.g.EdgeEndpoints(eid)
			if !loopNodes.Contains(to) {
				exitEdges = append(exitEdges, eid)
			}
		}
	})
	for _, eid := range exitEdges {
		breakNode := r.g.AddCode(ast.BasicBlock{Block: r.actx.MkBreak()})
		r.g.Retarget(eid, breakNode)
		r.g.AddGuardedEdge(breakNode, loopContinue, r.cond.MkFalse())
	}

	return newSuccessor
}
