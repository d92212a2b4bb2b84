// Package cond implements the hash-consed boolean condition algebra the
// structuring engine uses for edge guards and reaching conditions.
//
// A Context owns an interning arena: two structurally identical
// expressions built through the same Context always resolve to the same
// Cond handle. The engine depends on that identity for map-keyed
// reaching-condition caches and for cheap equality checks — it never
// needs a SAT oracle or CNF/DNF normal form, only that syntactically
// identical expressions compare equal in O(1).
package cond

import "github.com/gotofree/nmg/actx"

// Cond is an opaque handle into a Context's interning arena. The zero
// value is not a valid Cond; always obtain one from a Context.
type Cond struct {
	id uint32
}

type kind uint8

const (
	kindTrue kind = iota
	kindFalse
	kindAtom
	kindNot
	kindAnd
	kindOr
)

// key is the structural identity of one expression node: its kind plus
// whatever operands that kind carries. Two exprs with equal keys are the
// same expression and must resolve to the same handle.
type key struct {
	k    kind
	atom actx.Atom
	a, b Cond
}

// Context is one condition algebra instance, scoped to a single
// structuring run. It is not safe for concurrent use — the engine that
// owns it is itself single-threaded (see the structure package).
type Context struct {
	nodes []key
	index map[key]Cond

	trueC  Cond
	falseC Cond
}

// NewContext returns a Context with True and False already interned.
func NewContext() *Context {
	c := &Context{index: make(map[key]Cond)}
	c.trueC = c.intern(key{k: kindTrue})
	c.falseC = c.intern(key{k: kindFalse})

	return c
}

// intern returns the existing handle for k, or mints and stores a new one.
func (c *Context) intern(k key) Cond {
	if h, ok := c.index[k]; ok {
		return h
	}
	c.nodes = append(c.nodes, k)
	h := Cond{id: uint32(len(c.nodes) - 1)}
	c.index[k] = h

	return h
}

func (c *Context) at(h Cond) key {
	return c.nodes[h.id]
}

// MkTrue returns the always-true condition.
func (c *Context) MkTrue() Cond { return c.trueC }

// MkFalse returns the always-false condition.
func (c *Context) MkFalse() Cond { return c.falseC }

// MkSimple wraps an opaque atom (minted by actx.Context.MkCondEquals, or
// any other caller-owned leaf condition) into a Cond.
func (c *Context) MkSimple(a actx.Atom) Cond {
	return c.intern(key{k: kindAtom, atom: a})
}

// MkNot returns the negation of a. Double negation collapses to the
// original handle instead of allocating a new node: MkNot(MkNot(x)) == x.
func (c *Context) MkNot(a Cond) Cond {
	ak := c.at(a)
	switch ak.k {
	case kindTrue:
		return c.falseC
	case kindFalse:
		return c.trueC
	case kindNot:
		return ak.a
	default:
		return c.intern(key{k: kindNot, a: a})
	}
}

// MkAnd returns a && b, applying the identities True is absorbed and
// False annihilates, and collapsing a && a to a.
func (c *Context) MkAnd(a, b Cond) Cond {
	switch {
	case a == c.falseC || b == c.falseC:
		return c.falseC
	case a == c.trueC:
		return b
	case b == c.trueC:
		return a
	case a == b:
		return a
	default:
		return c.intern(key{k: kindAnd, a: a, b: b})
	}
}

// MkOr returns a || b, applying the identities False is absorbed and True
// annihilates, and collapsing a || a to a.
func (c *Context) MkOr(a, b Cond) Cond {
	switch {
	case a == c.trueC || b == c.trueC:
		return c.trueC
	case a == c.falseC:
		return b
	case b == c.falseC:
		return a
	case a == b:
		return a
	default:
		return c.intern(key{k: kindOr, a: a, b: b})
	}
}

// MkAndFromIter folds MkAnd left to right over conds, starting from the
// identity True. An empty sequence yields True.
func (c *Context) MkAndFromIter(conds []Cond) Cond {
	acc := c.trueC
	for _, x := range conds {
		acc = c.MkAnd(acc, x)
	}

	return acc
}

// MkOrFromIter folds MkOr left to right over conds, starting from the
// identity False. An empty sequence yields False — a node with no
// contributing in-edges in a slice is, correctly, unreachable.
func (c *Context) MkOrFromIter(conds []Cond) Cond {
	acc := c.falseC
	for _, x := range conds {
		acc = c.MkOr(acc, x)
	}

	return acc
}

// Kind classifies a Cond's top-level operator for callers that want to
// pattern-match on condition shape (e.g. an AST printer collapsing
// double negation or folding constants further).
type Kind = kind

// Operator constants re-exported for callers outside this package.
const (
	KindTrue  = kindTrue
	KindFalse = kindFalse
	KindAtom  = kindAtom
	KindNot   = kindNot
	KindAnd   = kindAnd
	KindOr    = kindOr
)

// Inspect decomposes h into its operator kind and operands. For KindAtom,
// atom is populated and a/b are zero. For KindNot, a is the negated
// operand. For KindAnd/KindOr, a and b are the two operands. For
// KindTrue/KindFalse, all return values besides kind are zero.
func (c *Context) Inspect(h Cond) (k Kind, atom actx.Atom, a, b Cond) {
	e := c.at(h)

	return e.k, e.atom, e.a, e.b
}

// Equal reports whether x and y are the same interned expression. Because
// the arena is hash-consed, this is handle equality, not a deep walk.
func Equal(x, y Cond) bool {
	return x == y
}

// IsTrue reports whether h is exactly the interned True handle of c.
func (c *Context) IsTrue(h Cond) bool { return h == c.trueC }

// IsFalse reports whether h is exactly the interned False handle of c.
func (c *Context) IsFalse(h Cond) bool { return h == c.falseC }
