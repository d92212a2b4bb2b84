package structure

import "errors"

// ErrUnknownEntry is returned when Whole is asked to structure a graph
// from a node handle the graph does not currently hold.
var ErrUnknownEntry = errors.New("structure: entry node not found in graph")

// ErrIncomplete is returned when a region being reduced never reaches its
// successor, or when, after a full structuring pass with assertions
// enabled, the graph was not fully reduced to nothing. With assertions enabled this
// should never happen on a well-formed single-entry CFG; it exists so a
// caller can surface a malformed-input diagnosis instead of a panic.
var ErrIncomplete = errors.New("structure: graph was not fully reduced")
