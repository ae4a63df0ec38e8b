// Package location tracks source positions for every token, AST, IR and MIR
// item produced by the compiler. Every item elsewhere in the compiler carries
// a LocationID that indexes into a Table owned by the Program (see
// internal/program); the table is append-only during lex/parse and read-only
// afterward.
package location

import (
	"fmt"

	"github.com/google/uuid"
)

// Pos is a single point in a source file.
type Pos struct {
	Line   int
	Column int
}

// Span is a half-open range [Start, End) within one line, matching the
// lexer's column-based spans (siko_location_info::span::Span).
type Span struct {
	Start int
	End   int
}

// SingleSpan returns a zero-width span at column c.
func SingleSpan(c int) Span {
	return Span{Start: c, End: c}
}

// Info is the payload a LocationID resolves to: a file, a line, and a
// column span on that line.
type Info struct {
	File string
	Line int
	Span Span
}

func (i Info) String() string {
	return fmt.Sprintf("%s:%d:%d-%d", i.File, i.Line, i.Span.Start, i.Span.End)
}

// ID is a dense, monotonically assigned handle into a Table. It is an
// opaque identifier: comparisons are by value, payload access goes through
// Table.Get.
type ID uint32

// Table is the append-only store every LocationID resolves against. It is
// populated during lexing and parsing and becomes read-only for every later
// stage.
type Table struct {
	infos []Info
	runID string
}

// NewTable creates an empty location table, tagged with a fresh run
// identifier so diagnostics from concurrent or repeated compiler
// invocations in the same process (e.g. the REPL, re-running one input
// line per table) can be told apart in a report.
func NewTable() *Table {
	return &Table{runID: uuid.NewString()}
}

// RunID identifies this table's compilation run.
func (t *Table) RunID() string {
	return t.runID
}

// Add records a new Info and returns its ID.
func (t *Table) Add(info Info) ID {
	t.infos = append(t.infos, info)
	return ID(len(t.infos) - 1)
}

// Get resolves a LocationID to its Info. Panics if id was never issued by
// this table — every ID referenced anywhere must resolve (spec invariant).
func (t *Table) Get(id ID) Info {
	if int(id) >= len(t.infos) {
		panic(fmt.Sprintf("location: id %d out of range (table has %d entries)", id, len(t.infos)))
	}
	return t.infos[id]
}

// Len reports how many locations have been recorded.
func (t *Table) Len() int {
	return len(t.infos)
}

// Merge returns a new Info spanning from the start of a to the end of b;
// both must be on the same file/line, which holds for every caller in this
// compiler (spans never cross lines at the token level).
func Merge(a, b Info) Info {
	return Info{File: a.File, Line: a.Line, Span: Span{Start: a.Span.Start, End: b.Span.End}}
}
