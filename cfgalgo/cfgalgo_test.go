package cfgalgo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotofree/nmg/ast"
	bs "github.com/gotofree/nmg/bitset"
	"github.com/gotofree/nmg/cfg"
	"github.com/gotofree/nmg/cfgalgo"
)

func code(g *cfg.Graph) cfg.NodeID { return g.AddCode(ast.BasicBlock{}) }

// diamond builds entry -> {l, r} -> join, a pure-acyclic shape with no back
// edges, for exercising DFS event classification and dominance together.
func diamond(t *testing.T) (g *cfg.Graph, entry, l, r, join cfg.NodeID) {
	t.Helper()
	g = cfg.New()
	entry = code(g)
	l = code(g)
	r = code(g)
	join = code(g)
	g.AddUnconditionalEdge(entry, l)
	g.AddUnconditionalEdge(entry, r)
	g.AddUnconditionalEdge(l, join)
	g.AddUnconditionalEdge(r, join)

	return g, entry, l, r, join
}

func TestPODFSTraceFinishesChildrenBeforeParent(t *testing.T) {
	g, entry, l, r, join := diamond(t)
	trace := cfgalgo.PODFSTrace(g, entry)

	require.Len(t, trace, 4)
	assert.Equal(t, entry, trace[len(trace)-1], "entry finishes last in a PO-DFS trace")
	assert.Less(t, indexOf(trace, join), indexOf(trace, l))
	assert.Less(t, indexOf(trace, join), indexOf(trace, r))
}

func TestBackEdgesDetectsTwoNodeCycle(t *testing.T) {
	g := cfg.New()
	entry := code(g)
	n1 := code(g)
	g.AddUnconditionalEdge(entry, n1)
	g.AddUnconditionalEdge(n1, entry)

	edges := cfgalgo.BackEdges(g, entry)
	require.Contains(t, edges, entry)
	assert.Equal(t, []cfg.NodeID{n1}, edges[entry].Latches)
}

func TestDominatedByDiamond(t *testing.T) {
	g, entry, l, r, join := diamond(t)

	assert.Equal(t, 4, cfgalgo.DominatedBy(g, entry, entry).Len())
	assert.Equal(t, bs.Of(l), cfgalgo.DominatedBy(g, entry, l))
	assert.Equal(t, bs.Of(r), cfgalgo.DominatedBy(g, entry, r))
	assert.Equal(t, bs.Of(join), cfgalgo.DominatedBy(g, entry, join), "join is reached by two paths, so only join dominates itself")
}

func TestNearestCommonDominator(t *testing.T) {
	g, entry, l, r, _ := diamond(t)

	ncd := cfgalgo.NearestCommonDominator(g, entry, bs.Of(l, r))
	assert.Equal(t, entry, ncd)
}

func TestStrictSuccessorsExcludesSetMembers(t *testing.T) {
	g, entry, l, r, join := diamond(t)

	succ := cfgalgo.StrictSuccessors(g, bs.Of(entry, l, r))
	assert.Equal(t, bs.Of(join), succ)
}

func TestSliceBetweenEntryAndJoin(t *testing.T) {
	g, entry, _, _, join := diamond(t)

	nodes, edges, order := cfgalgo.Slice(g, entry, bs.Of(join))
	assert.Equal(t, 4, nodes.Len())
	assert.Equal(t, 4, edges.Len())
	require.Len(t, order, 4)
	assert.Equal(t, entry, order[0])
	assert.Equal(t, join, order[len(order)-1])
}

func indexOf(s []cfg.NodeID, v cfg.NodeID) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}

	return -1
}
