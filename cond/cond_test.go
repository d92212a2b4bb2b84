package cond_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gotofree/nmg/actx"
	"github.com/gotofree/nmg/cond"
)

func TestHashConsingIdentity(t *testing.T) {
	c := cond.NewContext()
	a := actx.Atom{}

	x1 := c.MkSimple(a)
	x2 := c.MkSimple(a)
	assert.True(t, cond.Equal(x1, x2), "two MkSimple calls on the same atom must intern to the same handle")

	and1 := c.MkAnd(x1, c.MkTrue())
	and2 := c.MkAnd(x2, c.MkTrue())
	assert.True(t, cond.Equal(and1, and2))
}

func TestDoubleNegationCollapses(t *testing.T) {
	c := cond.NewContext()
	x := c.MkSimple(actx.Atom{})

	assert.True(t, cond.Equal(x, c.MkNot(c.MkNot(x))))
}

func TestIdentitiesAbsorbAndAnnihilate(t *testing.T) {
	c := cond.NewContext()
	x := c.MkSimple(actx.Atom{})

	assert.True(t, cond.Equal(x, c.MkAnd(x, c.MkTrue())))
	assert.True(t, cond.Equal(c.MkFalse(), c.MkAnd(x, c.MkFalse())))
	assert.True(t, cond.Equal(x, c.MkOr(x, c.MkFalse())))
	assert.True(t, cond.Equal(c.MkTrue(), c.MkOr(x, c.MkTrue())))
	assert.True(t, cond.Equal(x, c.MkAnd(x, x)))
	assert.True(t, cond.Equal(x, c.MkOr(x, x)))
}

func TestEmptyFoldsYieldIdentities(t *testing.T) {
	c := cond.NewContext()

	assert.True(t, c.IsTrue(c.MkAndFromIter(nil)))
	assert.True(t, c.IsFalse(c.MkOrFromIter(nil)))
}

func TestNotOfTrueAndFalse(t *testing.T) {
	c := cond.NewContext()

	assert.True(t, cond.Equal(c.MkFalse(), c.MkNot(c.MkTrue())))
	assert.True(t, cond.Equal(c.MkTrue(), c.MkNot(c.MkFalse())))
}

func TestInspect(t *testing.T) {
	c := cond.NewContext()
	a := actx.Atom{}
	atomH := c.MkSimple(a)

	k, gotAtom, _, _ := c.Inspect(atomH)
	assert.Equal(t, cond.KindAtom, k)
	assert.Equal(t, a, gotAtom)

	notH := c.MkNot(atomH)
	k, _, operand, _ := c.Inspect(notH)
	assert.Equal(t, cond.KindNot, k)
	assert.True(t, cond.Equal(atomH, operand))
}
