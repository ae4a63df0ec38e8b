package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/lexer"
	"github.com/sunholo/complang/internal/location"
	"github.com/sunholo/complang/internal/parser"
	"github.com/sunholo/complang/internal/resolver"
	"github.com/sunholo/complang/internal/types"
)

func mustCheck(t *testing.T, src string) (*Checker, *errcode.Batch) {
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
	return Check(prog)
}

func codesOf(b *errcode.Batch) []errcode.Code {
	out := make([]errcode.Code, len(b.All()))
	for i, d := range b.All() {
		out[i] = d.Code
	}
	return out
}

// builtins declares just enough of a prelude (as bodiless extern data) for
// literal/condition typing to distinguish Int from Bool from Float from
// String, without pulling in a full standard library.
const builtins = "  data extern Int = {}\n  data extern Bool = {}\n  data extern Float = {}\n  data extern String = {}\n"

func TestCheck_IdentityFunctionGeneralizes(t *testing.T) {
	_, diags := mustCheck(t, "module Main where\n"+builtins+"  id x = x\n  main = 0\n")
	assert.NotContains(t, codesOf(diags), errcode.TycTypeMismatch)
}

func TestCheck_MainNotFound(t *testing.T) {
	_, diags := mustCheck(t, "module Main where\n  id x = x\n")
	assert.Contains(t, codesOf(diags), errcode.TycMainNotFound)
}

func TestCheck_IfBranchMismatchReported(t *testing.T) {
	_, diags := mustCheck(t, "module Main where\n"+builtins+"  f x = if x then 1 else True\n  main = 0\n")
	assert.Contains(t, codesOf(diags), errcode.TycTypeMismatch)
}

func TestCheck_NonExhaustiveCaseReported(t *testing.T) {
	_, diags := mustCheck(t, "module Main where\n"+builtins+"  data Maybe a = Nothing | Just a\n  f m = case m of\n    Just x -> x\n  main = 0\n")
	assert.Contains(t, codesOf(diags), errcode.TycNonExhaustivePattern)
}

func TestCheck_ExhaustiveCaseClean(t *testing.T) {
	_, diags := mustCheck(t, "module Main where\n"+builtins+"  data Maybe a = Nothing | Just a\n  f m = case m of\n    Just x -> x\n    Nothing -> 0\n  main = 0\n")
	assert.NotContains(t, codesOf(diags), errcode.TycNonExhaustivePattern)
}

func TestCheck_VariantConstructorTypeHasCorrectArity(t *testing.T) {
	c, _ := mustCheck(t, "module Main where\n  data Maybe a = Nothing | Just a\n  main = 0\n")
	var just ir.FuncID = -1
	for _, fn := range c.prog.Functions {
		if fn.Name == "Just" {
			just = fn.ID
		}
	}
	require.NotEqual(t, ir.FuncID(-1), just)
	term, _ := c.schemeFor(just)
	fn, ok := term.(types.Function)
	require.True(t, ok, "Just should take one argument")
	_, ok = fn.To.(types.Named)
	assert.True(t, ok, "Just applied to one argument should yield Maybe a")
}
