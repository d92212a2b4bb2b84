package cfgalgo

import (
	bs "github.com/gotofree/nmg/bitset"
	"github.com/gotofree/nmg/cfg"
)

// StrictSuccessors returns every node that is the target of an edge whose
// source is in set, excluding members of set itself. Loop refinement
// (structure.refineLoop) repeatedly grows a loop-node set by absorbing
// members of this set one layer at a time.
func StrictSuccessors(g *cfg.Graph, set bs.Set[cfg.NodeID]) bs.Set[cfg.NodeID] {
	out := bs.New[cfg.NodeID]()
	set.ForEach(func(u cfg.NodeID) {
		for _, v := range g.Successors(u) {
			if !set.Contains(v) {
				out.Insert(v)
			}
		}
	})

	return out
}
