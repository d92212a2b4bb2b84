package actx

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Simple is a reference Context that renders variables, atoms, and blocks
// as human-readable strings tagged with a uuid so values minted by
// concurrent Simple instances (e.g. independent structuring runs sharing a
// process) never collide — the same collision-free-identifier role
// uuid.UUID plays for node.Node/edge.Model records.
//
// Simple is good enough to drive the structuring engine end to end and is
// what the package's own tests and examples use; production callers will
// usually supply a Context backed by their own IR instead.
type Simple struct {
	runTag  string
	varSeq  uint64
	atomSeq uint64
	blkSeq  uint64

	// Vars, Atoms, and Blocks record the rendered text for every value this
	// Simple has minted, keyed by the opaque handle's id, for
	// introspection in tests and examples.
	Vars   map[uint64]string
	Atoms  map[uint64]string
	Blocks map[uint64]string
}

// NewSimple returns a ready-to-use Simple bound to a fresh run tag.
func NewSimple() *Simple {
	return &Simple{
		runTag: uuid.NewString()[:8],
		Vars:   make(map[uint64]string),
		Atoms:  make(map[uint64]string),
		Blocks: make(map[uint64]string),
	}
}

// MkFreshVar implements Context.
func (s *Simple) MkFreshVar() Var {
	id := atomic.AddUint64(&s.varSeq, 1)
	s.Vars[id] = fmt.Sprintf("i_%s_%d", s.runTag, id-1)

	return Var{id: id}
}

// MkCondEquals implements Context.
func (s *Simple) MkCondEquals(v Var, k uint64) Atom {
	id := atomic.AddUint64(&s.atomSeq, 1)
	s.Atoms[id] = fmt.Sprintf("%s == %d", s.Vars[v.id], k)

	return Atom{id: id}
}

// MkVarAssign implements Context.
func (s *Simple) MkVarAssign(v Var, k uint64) Block {
	id := atomic.AddUint64(&s.blkSeq, 1)
	s.Blocks[id] = fmt.Sprintf("%s = %d", s.Vars[v.id], k)

	return Block{id: id}
}

// MkBreak implements Context.
func (s *Simple) MkBreak() Block {
	id := atomic.AddUint64(&s.blkSeq, 1)
	s.Blocks[id] = "break"

	return Block{id: id}
}

// Text returns the rendered string for a Block minted by this Simple,
// or "" if the block is unknown (e.g. a caller-supplied BasicBlock payload
// that did not originate from MkVarAssign/MkBreak).
func (s *Simple) Text(b Block) string {
	return s.Blocks[b.id]
}
