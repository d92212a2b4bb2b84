// Package ast defines the structured statement tree the engine produces:
// basic blocks, sequential composition, two-armed conditionals, loops, and
// a reserved switch variant. Node is a closed, sealed interface — the five
// concrete types below are the only implementations, and callers pattern-
// match on them with a type switch, the same "closed tagged union" shape
// lvlath's CfgNode-equivalents use internally (a fixed set of variants,
// no caller-defined extension point).
package ast

import (
	"github.com/gotofree/nmg/actx"
	"github.com/gotofree/nmg/cond"
)

// Node is any structured statement the engine can produce. It is sealed:
// only the types declared in this package implement it.
type Node interface {
	node()
}

// BasicBlock wraps one caller-owned basic-block payload, opaque to the
// engine.
type BasicBlock struct {
	Block actx.Block
}

func (BasicBlock) node() {}

// Seq is an ordered sequential composition of statements.
type Seq struct {
	Stmts []Node
}

func (Seq) node() {}

// Cond is a then-only (Else may be nil) conditional guarded by a reaching
// condition or an original edge guard. The engine only ever constructs
// then-only conditionals (Else == nil); a two-armed Cond is a shape a
// downstream optimizer may fold into, not one this engine emits.
type Cond struct {
	Guard cond.Cond
	Then  Node
	Else  Node // nil if absent
}

func (Cond) node() {}

// LoopTag distinguishes the three loop shapes the AST reserves. The
// engine only ever constructs Endless; PreChecked and PostChecked are
// recognized by a post-pass that pattern-matches the Endless shape the
// engine emits (see LoopTag doc below).
type LoopTag int

const (
	// Endless is the only loop shape the engine constructs directly: a
	// loop whose every exit is an explicit break inside the body.
	Endless LoopTag = iota

	// PreChecked marks a loop a post-pass has recognized as
	// Loop(Endless, Seq([Cond(c, body, None), BasicBlock(break), ...]))
	// with the guard tested before the body runs each iteration.
	// The engine never constructs this variant.
	PreChecked

	// PostChecked is the post-checked analogue of PreChecked, recognized
	// when the guarded break sits at the end of the body instead of the
	// start. The engine never constructs this variant.
	PostChecked
)

// LoopKind names the loop's shape and, for PreChecked/PostChecked, the
// condition under which the loop continues (inverse of the recognized
// break's guard).
type LoopKind struct {
	Tag  LoopTag
	Cond cond.Cond // only meaningful when Tag != Endless
}

// Loop is a structured loop: Endless from this engine, or PreChecked /
// PostChecked from a downstream recognizer.
type Loop struct {
	Kind LoopKind
	Body Node
}

func (Loop) node() {}

// ValueSet is the set of integer case labels a Switch arm matches.
// Reserved by spec: the engine never constructs Switch, so no case arm
// ever needs to be evaluated, but the shape is fixed so a future revision
// can start emitting Switch without another format decision. Values are
// expected sorted and duplicate-free; nothing in this package enforces
// that since no constructor here ever builds one.
type ValueSet []int64

// SwitchCase pairs one arm's value set with its body.
type SwitchCase struct {
	Values ValueSet
	Body   Node
}

// Switch is reserved for future use; the structuring engine never
// constructs one.
type Switch struct {
	Var     actx.Var
	Cases   []SwitchCase
	Default Node // nil if absent
}

func (Switch) node() {}
