package monomorphize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/lexer"
	"github.com/sunholo/complang/internal/location"
	"github.com/sunholo/complang/internal/mir"
	"github.com/sunholo/complang/internal/parser"
	"github.com/sunholo/complang/internal/resolver"
	"github.com/sunholo/complang/internal/typecheck"
)

// builtins declares just enough of a prelude (as bodiless extern data) for
// literal typing to distinguish Int from Bool from Float from String.
const builtins = "  data extern Int = {}\n  data extern Bool = {}\n  data extern Float = {}\n  data extern String = {}\n"

func mustMonomorphize(t *testing.T, src string) *mir.Program {
	t.Helper()
	locs := location.NewTable()
	toks, lerrs, err := lexer.Lex(locs, "t.src", []byte(src))
	require.NoError(t, err)
	require.Empty(t, lerrs)
	store := ast.NewStore(locs)
	p := parser.New(store, locs, toks, "t.src")
	mid, err := p.ParseModule()
	require.NoError(t, err)
	prog, rdiags := resolver.Resolve(store, locs, []ast.ModuleID{mid})
	require.True(t, rdiags.Empty(), "unexpected resolver diagnostics: %v", rdiags.All())
	checker, cdiags := typecheck.Check(prog)
	require.True(t, cdiags.Empty(), "unexpected checker diagnostics: %v", cdiags.All())
	out, mdiags := Run(checker)
	require.True(t, mdiags.Empty(), "unexpected monomorphizer diagnostics: %v", mdiags.All())
	return out
}

func funcsNamed(p *mir.Program, name string) []*mir.Function {
	var out []*mir.Function
	for _, fn := range p.Functions {
		if fn.Name == name {
			out = append(out, fn)
		}
	}
	return out
}

func TestRun_SimpleMonomorphicFunction(t *testing.T) {
	out := mustMonomorphize(t, "module Main where\n"+builtins+"  add x y = x\n  main = add 1 2\n")
	assert.Len(t, funcsNamed(out, "add"), 1)
	assert.Len(t, funcsNamed(out, "main"), 1)
}

func TestRun_PolymorphicFunctionSpecializesPerCallSite(t *testing.T) {
	out := mustMonomorphize(t, "module Main where\n"+builtins+"  id x = x\n  main = (id 1, id True)\n")
	assert.Len(t, funcsNamed(out, "id"), 2, "id called at Int and Bool should yield two distinct specializations")
}

func TestRun_LambdaClosureCapturesLocal(t *testing.T) {
	out := mustMonomorphize(t, "module Main where\n"+builtins+"  mkAdder n = \\x -> n\n  main = (mkAdder 1) 2\n")

	var closureTD *mir.TypeDef
	for _, td := range out.Typedefs {
		rec, ok := td.Kind.(mir.Record)
		if !ok {
			continue
		}
		if _, ok := rec.Kind.(mir.ClosureRecord); ok {
			closureTD = td
		}
	}
	require.NotNil(t, closureTD, "expected a ClosureRecord typedef to be synthesized for the lifted lambda")

	cr := closureTD.Kind.(mir.Record).Kind.(mir.ClosureRecord)
	require.Len(t, cr.Captures, 1)
	assert.Equal(t, "n", cr.Captures[0].Name)

	dispatch := out.Function(cr.Dispatch)
	assert.Equal(t, "mkAdder$dispatch", dispatch.Name)
	_, ok := dispatch.Info.(mir.Normal)
	assert.True(t, ok, "a closure's dispatch function should have a monomorphized body")
}

func TestRun_EqAutoDerivesForADTWithoutExplicitInstance(t *testing.T) {
	out := mustMonomorphize(t, "module Main where\n"+builtins+
		"  data Point = Point Int Int\n"+
		"  main = Point 1 2 == Point 3 4\n")

	found := funcsNamed(out, "Eq.==.Point")
	require.Len(t, found, 1, "comparing two Points with no explicit Eq instance should auto-derive one")

	impl, ok := found[0].Info.(mir.ExternClassImpl)
	require.True(t, ok)
	assert.Equal(t, "Eq", impl.ClassName)
	_, ok = out.Expr(impl.Body).(mir.CaseOfExpr)
	assert.True(t, ok, "derived Eq body should case over the tuple of scrutinees")
}

func TestRun_ShowAutoDerivesForRecordWithoutExplicitInstance(t *testing.T) {
	out := mustMonomorphize(t, "module Main where\n"+builtins+
		"  data Pair = { first :: Int, second :: Int }\n"+
		"  main = %\"{}\" (Pair { first = 1, second = 2 })\n")

	found := funcsNamed(out, "Show.show.Pair")
	require.Len(t, found, 1, "formatting a Pair with no explicit Show instance should auto-derive one")

	impl, ok := found[0].Info.(mir.ExternClassImpl)
	require.True(t, ok)
	assert.Equal(t, "Show", impl.ClassName)
	_, ok = out.Expr(impl.Body).(mir.FormatterExpr)
	assert.True(t, ok, "derived Show body for a record should render via FormatterExpr")
}
