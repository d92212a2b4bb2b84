package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotofree/nmg/actx"
	"github.com/gotofree/nmg/ast"
	"github.com/gotofree/nmg/cfg"
	"github.com/gotofree/nmg/cond"
)

func block(s string) ast.Node { return ast.BasicBlock{} }

func TestAddAndQueryNodes(t *testing.T) {
	g := cfg.New()
	a := g.AddCode(block("a"))
	b := g.AddCondition()
	d := g.AddDummy("tag")

	assert.Equal(t, cfg.KindCode, g.Kind(a))
	assert.Equal(t, cfg.KindCondition, g.Kind(b))
	assert.Equal(t, cfg.KindDummy, g.Kind(d))
	assert.Equal(t, "tag", g.Tag(d))
	assert.Equal(t, 3, g.NodeCount())

	_, ok := g.AST(b)
	assert.False(t, ok)
	node, ok := g.AST(a)
	assert.True(t, ok)
	assert.NotNil(t, node)
}

func TestEdgesAndEndpoints(t *testing.T) {
	g := cfg.New()
	a := g.AddCode(block("a"))
	b := g.AddCode(block("b"))
	cc := cond.NewContext()
	guard := cc.MkSimple(actx.Atom{})

	e1 := g.AddUnconditionalEdge(a, b)
	e2 := g.AddGuardedEdge(b, a, guard)

	from, to := g.EdgeEndpoints(e1)
	assert.Equal(t, a, from)
	assert.Equal(t, b, to)

	_, hasGuard := g.EdgeGuard(e1)
	assert.False(t, hasGuard)

	g2, has2 := g.EdgeGuard(e2)
	assert.True(t, has2)
	assert.True(t, cond.Equal(guard, g2))

	assert.Equal(t, []cfg.NodeID{b}, g.Successors(a))
	assert.Equal(t, []cfg.NodeID{a}, g.Predecessors(a))
	assert.Equal(t, 2, g.EdgeCount())
}

func TestRemoveNodeDeletesIncidentEdges(t *testing.T) {
	g := cfg.New()
	a := g.AddCode(block("a"))
	b := g.AddCode(block("b"))
	c := g.AddCode(block("c"))
	g.AddUnconditionalEdge(a, b)
	g.AddUnconditionalEdge(b, c)

	kind, payload := g.RemoveNode(b)
	assert.Equal(t, cfg.KindCode, kind)
	assert.NotNil(t, payload)

	assert.False(t, g.HasNode(b))
	assert.Empty(t, g.Successors(a))
	assert.Empty(t, g.Predecessors(c))
	assert.Equal(t, 0, g.EdgeCount())
}

func TestExtractPayloadPreservesEdges(t *testing.T) {
	g := cfg.New()
	a := g.AddCode(block("a"))
	b := g.AddCode(block("b"))
	outside := g.AddCode(block("outside"))
	g.AddUnconditionalEdge(outside, a)
	g.AddUnconditionalEdge(a, b)

	kind, payload := g.ExtractPayload(a, "replaced header")
	require.Equal(t, cfg.KindCode, kind)
	assert.NotNil(t, payload)

	assert.Equal(t, cfg.KindDummy, g.Kind(a))
	assert.Equal(t, "replaced header", g.Tag(a))
	// Incoming and outgoing edges survive the swap.
	assert.Equal(t, []cfg.NodeID{a}, g.Successors(outside))
	assert.Equal(t, []cfg.NodeID{b}, g.Successors(a))
}

func TestReplaceCodeKeepsIDAndEdges(t *testing.T) {
	g := cfg.New()
	a := g.AddCode(block("a"))
	b := g.AddCode(block("b"))
	g.AddUnconditionalEdge(b, a)

	old := g.ReplaceCode(a, block("new"))
	assert.NotNil(t, old)
	assert.Equal(t, cfg.KindCode, g.Kind(a))
	assert.Equal(t, []cfg.NodeID{a}, g.Successors(b))
}

func TestRetarget(t *testing.T) {
	g := cfg.New()
	a := g.AddCode(block("a"))
	b := g.AddCode(block("b"))
	c := g.AddCode(block("c"))
	e := g.AddUnconditionalEdge(a, b)

	g.Retarget(e, c)
	assert.Equal(t, []cfg.NodeID{c}, g.Successors(a))
	assert.Empty(t, g.Predecessors(b))
	assert.Equal(t, []cfg.NodeID{a}, g.Predecessors(c))
}

func TestNodeIDsAscending(t *testing.T) {
	g := cfg.New()
	ids := make([]cfg.NodeID, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, g.AddDummy("x"))
	}
	g.RemoveNode(ids[2])

	got := g.NodeIDs()
	want := []cfg.NodeID{ids[0], ids[1], ids[3], ids[4]}
	assert.Equal(t, want, got)
}
