package structure

import (
	bs "github.com/gotofree/nmg/bitset"
	"github.com/gotofree/nmg/cfg"
)

// onlyMember returns the single element of a one-element set. Callers
// only use it once Len() == 1 has already been checked.
func onlyMember(s bs.Set[cfg.NodeID]) cfg.NodeID {
	var v cfg.NodeID
	s.ForEach(func(n cfg.NodeID) { v = n })

	return v
}

// firstInTrace returns the first member of set encountered while scanning
// trace in order — i.e. the set member with the smallest PO-DFS (finish)
// index, equivalently the one that finishes earliest / sits latest in
// reverse post-order. Used to pick a canonical "final successor" out of a
// loop's successor set.
func firstInTrace(trace []cfg.NodeID, set bs.Set[cfg.NodeID]) (cfg.NodeID, bool) {
	for _, n := range trace {
		if set.Contains(n) {
			return n, true
		}
	}

	return 0, false
}
