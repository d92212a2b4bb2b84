// Package structure ports the "No More Gotos" control-flow structuring
// algorithm onto cfg.Graph: given an arbitrary, possibly irreducible CFG
// and an entry node, Whole rewrites the graph in place, node by node, into a
// single goto-free ast.Node, leaving the graph empty.
//
// A structuring run is single-threaded and synchronous by contract — one
// Graph, one Context, one goroutine, start to finish. The engine freezes a
// PO-DFS trace once at the start and keeps indexing into it across the
// whole run while mutating the graph underneath; sharing that state across
// goroutines would require the caller to serialize every step anyway, so
// the package carries no locking of its own (the same call lvlath's
// core.Graph makes the other way, protecting a graph callers do share
// across goroutines with a sync.RWMutex).
package structure

import (
	"github.com/rs/zerolog"

	"github.com/gotofree/nmg/actx"
	"github.com/gotofree/nmg/cond"
)

// Option configures an Engine via functional options, the pattern lvlath's
// builder package uses for BuildOptions.
type Option func(*config)

type config struct {
	logger           zerolog.Logger
	assertInvariants bool
}

func defaultConfig() config {
	return config{
		logger:           zerolog.Nop(),
		assertInvariants: true,
	}
}

// WithLogger attaches a zerolog.Logger the engine emits Debug-level events
// to: one when a Whole pass starts (node and loop-header counts) and one
// when it completes. The default is zerolog.Nop() — silent unless
// a caller opts in; a library should never force log output on its
// consumer.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithAssertionsEnabled toggles the engine's completion check: with it on
// (the default), Whole returns ErrIncomplete when any node is left in the
// graph after the final reduction. With it off, Whole returns the tree it
// built without that check. Graph shape and PO-DFS bookkeeping are not
// checked in either mode.
func WithAssertionsEnabled(enabled bool) Option {
	return func(c *config) { c.assertInvariants = enabled }
}

// Engine holds the shared context a structuring run consults: the
// condition algebra and the caller's AST-context collaborator. Both are
// threaded through every internal step instead of being recreated, so
// hash-consing and fresh-variable numbering stay consistent for the whole
// run.
type Engine struct {
	cond *cond.Context
	actx actx.Context
	cfg  config
}

// NewEngine returns an Engine bound to the given condition algebra and
// AST-context collaborator, ready to run Whole any number of times (each
// call still owns its Graph exclusively).
func NewEngine(conds *cond.Context, a actx.Context, opts ...Option) *Engine {
	c := defaultConfig()
	for _, o := range opts {
		o(&c)
	}

	return &Engine{cond: conds, actx: a, cfg: c}
}
