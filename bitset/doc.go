// Package bitset provides a dense, indexed set over opaque graph handles.
//
// The structuring engine repeatedly computes successor sets of node sets,
// dominated regions, slices, and loop bodies that grow during refinement —
// all of which reduce to membership, union, and difference over small
// integer handles. Rather than reach for
// map[T]struct{} (which pays a hash per lookup and has no cheap ascending
// iteration), Set wraps github.com/bits-and-blooms/bitset, the same bit
// vector godoctor's extras/cfg package uses for its GEN/KILL/DEF/USE
// dataflow sets — the structuring engine performs the same class of dense
// membership algebra godoctor performs over basic blocks, just over CFG
// node and edge handles instead.
package bitset

import (
	"github.com/bits-and-blooms/bitset"
)

// Handle is any unsigned integer handle dense enough to index a bit vector.
// cfg.NodeID and cfg.EdgeID both satisfy it.
type Handle interface {
	~uint32 | ~uint64
}

// Set is a dense, ascending-iteration set of handles of type H.
// The zero value is an empty, usable set.
type Set[H Handle] struct {
	bits *bitset.BitSet
}

// New returns an empty Set.
func New[H Handle]() Set[H] {
	return Set[H]{bits: bitset.New(0)}
}

// Of returns a Set containing exactly the given handles.
func Of[H Handle](hs ...H) Set[H] {
	s := New[H]()
	for _, h := range hs {
		s.Insert(h)
	}

	return s
}

// ensure lazily allocates the backing bit vector so the zero value works.
func (s *Set[H]) ensure() {
	if s.bits == nil {
		s.bits = bitset.New(0)
	}
}

// Insert adds h to the set. Complexity: amortized O(1).
func (s *Set[H]) Insert(h H) {
	s.ensure()
	s.bits.Set(uint(h))
}

// Remove deletes h from the set, if present. Complexity: O(1).
func (s *Set[H]) Remove(h H) {
	if s.bits == nil {
		return
	}
	s.bits.Clear(uint(h))
}

// Contains reports whether h is a member. Complexity: O(1).
func (s Set[H]) Contains(h H) bool {
	if s.bits == nil {
		return false
	}

	return s.bits.Test(uint(h))
}

// Len reports the number of members. Complexity: O(words).
func (s Set[H]) Len() int {
	if s.bits == nil {
		return 0
	}

	return int(s.bits.Count())
}

// Clear empties the set in place.
func (s *Set[H]) Clear() {
	if s.bits != nil {
		s.bits.ClearAll()
	}
}

// Clone returns an independent copy of s.
func (s Set[H]) Clone() Set[H] {
	if s.bits == nil {
		return New[H]()
	}

	return Set[H]{bits: s.bits.Clone()}
}

// UnionWith mutates s to be the union of s and other.
func (s *Set[H]) UnionWith(other Set[H]) {
	if other.bits == nil {
		return
	}
	s.ensure()
	s.bits.InPlaceUnion(other.bits)
}

// DifferenceWith mutates s to remove every member also present in other.
func (s *Set[H]) DifferenceWith(other Set[H]) {
	if s.bits == nil || other.bits == nil {
		return
	}
	s.bits.InPlaceDifference(other.bits)
}

// Equal reports whether s and other contain exactly the same handles.
func (s Set[H]) Equal(other Set[H]) bool {
	switch {
	case s.bits == nil && other.bits == nil:
		return true
	case s.bits == nil:
		return other.Len() == 0
	case other.bits == nil:
		return s.Len() == 0
	default:
		return s.bits.Equal(other.bits)
	}
}

// ForEach visits every member in ascending handle order.
func (s Set[H]) ForEach(fn func(H)) {
	if s.bits == nil {
		return
	}
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		fn(H(i))
	}
}

// Slice returns the members in ascending handle order.
func (s Set[H]) Slice() []H {
	out := make([]H, 0, s.Len())
	s.ForEach(func(h H) { out = append(out, h) })

	return out
}
