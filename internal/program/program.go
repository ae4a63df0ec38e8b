// Package program holds the one resource every compiler stage shares by
// reference rather than rebuilding: the location table (spec §2
// component I, "Glue"). A single *Program is created once per
// compilation by the CLI and threaded through lexing and parsing; the
// location table it owns grows only during lex/parse and is read-only to
// every later stage (spec §5, "Shared-resource policy"). Downstream
// tables (ir.Program, mir.Program) manage their own dense-id arenas via
// their own Add* methods rather than drawing from a shared counter here
// — an append-only slice's own length is a simpler and sufficient id
// source than a separate monotonic Counter per kind, so this package
// does not duplicate that bookkeeping.
package program

import "github.com/sunholo/complang/internal/location"

// Program is the per-compilation handle passed from the CLI into every
// stage.
type Program struct {
	Locations *location.Table
}

// New creates a fresh Program with an empty location table, ready for a
// single compilation run.
func New() *Program {
	return &Program{Locations: location.NewTable()}
}
