// Package nmg is the module root: a goto-free control-flow structuring
// engine that turns an arbitrary, possibly irreducible control-flow graph
// into a tree of if/else, endless loops, break, and sequential composition.
//
// It ports the "No More Gotos" algorithm (Yakdan et al.) onto a small,
// dependency-free graph model built for exactly this job, rather than a
// general-purpose shared graph:
//
//	cfg/       — the mutable CFG the engine rewrites in place
//	cfgalgo/   — DFS-with-events, dominance, slicing, successor sets
//	cond/      — hash-consed boolean condition algebra for edge guards
//	ast/       — the structured statement tree the engine produces
//	actx/      — the caller-supplied collaborator that mints fresh
//	             dispatch variables and basic-block payloads
//	structure/ — the engine itself: structure.NewEngine(...).Whole(g, entry)
//
// A minimal end-to-end use:
//
//	cc := cond.NewContext()
//	ac := actx.NewSimple()
//	eng := structure.NewEngine(cc, ac)
//
//	g := cfg.New()
//	entry := g.AddCode(myEntryBlock)
//	// ... build the rest of the graph ...
//
//	tree, err := eng.Whole(g, entry)
//
// The engine consumes g: once Whole returns without error, g is empty and
// tree is the whole structured program, rooted at one ast.Node.
package nmg
