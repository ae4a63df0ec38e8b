package errcode

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/sunholo/complang/internal/location"
)

// Diagnostic is the canonical structured error value produced by every
// compiler stage. Params carries interpolable values (names, counts, types)
// the way spec.md §6 describes the error reporting contract; rendering
// against source text is deferred to Report.
type Diagnostic struct {
	Code     Code
	Message  string
	Location location.ID
	Extra    []location.ID // secondary locations, e.g. the two conflicting instances
	Params   map[string]any
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// New builds a Diagnostic; Params may be nil.
func New(code Code, loc location.ID, message string, params map[string]any) *Diagnostic {
	return &Diagnostic{Code: code, Message: message, Location: loc, Params: params}
}

// Batch accumulates diagnostics for a single stage. A stage runs to
// completion and returns a non-empty Batch rather than failing fast, unless
// a fatal structural error forces early termination (spec.md §5).
type Batch struct {
	diags []*Diagnostic
}

func (b *Batch) Add(d *Diagnostic) {
	b.diags = append(b.diags, d)
}

func (b *Batch) Empty() bool { return len(b.diags) == 0 }

func (b *Batch) All() []*Diagnostic { return b.diags }

// Report renders a batch of diagnostics against the file manager's source
// text, highlighting the offending span the way the teacher's CLI colors
// its own error output (cmd/ailang/main.go) and the way
// siko_location_info::error_context extracts a source excerpt around a
// span.
type Report struct {
	Locations *location.Table
	Sources   map[string]string // file path -> full source text
	NoColor   bool
}

func (r *Report) render(loc location.ID) string {
	info := r.Locations.Get(loc)
	src, ok := r.Sources[info.File]
	if !ok {
		return fmt.Sprintf("  --> %s:%d", info.File, info.Line)
	}
	lines := strings.Split(src, "\n")
	if info.Line-1 >= len(lines) || info.Line-1 < 0 {
		return fmt.Sprintf("  --> %s:%d", info.File, info.Line)
	}
	lineText := lines[info.Line-1]
	caretLine := strings.Repeat(" ", info.Span.Start) + strings.Repeat("^", max(1, info.Span.End-info.Span.Start))
	var b strings.Builder
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", info.File, info.Line, info.Span.Start)
	fmt.Fprintf(&b, "   | %s\n", lineText)
	fmt.Fprintf(&b, "   | %s\n", caretLine)
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Format renders every diagnostic in batch order, each labelled with its
// phase.
func (r *Report) Format(b *Batch) string {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	if r.NoColor {
		red = func(a ...interface{}) string { return fmt.Sprint(a...) }
		cyan = red
	}

	var out strings.Builder
	if r.Locations != nil && r.Locations.Len() > 0 {
		fmt.Fprintf(&out, "run %s\n", r.Locations.RunID())
	}
	for _, d := range b.All() {
		fmt.Fprintf(&out, "%s %s: %s\n", red("error["+string(d.Code)+"]"), cyan(d.Code.Phase()), d.Message)
		out.WriteString(r.render(d.Location))
		for _, extra := range d.Extra {
			out.WriteString(r.render(extra))
		}
		out.WriteString("\n")
	}
	return out.String()
}
