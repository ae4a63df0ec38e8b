package resolver

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
)

func mustResolve(t *testing.T, src string) (*ir.Program, *errcode.Batch) {
	t.Helper()
	locs := location.NewTable()
	toks, lerrs, err := lexer.Lex(locs, "t.src", []byte(src))
	require.NoError(t, err)
	require.Empty(t, lerrs)
	store := ast.NewStore(locs)
	p := parser.New(store, locs, toks, "t.src")
	mid, err := p.ParseModule()
	require.NoError(t, err)
	prog, diags := Resolve(store, locs, []ast.ModuleID{mid})
	require.True(t, diags.Empty(), "unexpected diagnostics: %v", diags.All())
	return prog, diags
}

func TestResolve_SimpleFunctionRef(t *testing.T) {
	prog, _ := mustResolve(t, "module Main where\n  id x = x\n")
	require.Len(t, prog.Functions, 1)
	fn := prog.Functions[0]
	assert.Equal(t, "id", fn.Name)
	ref, ok := prog.Expr(fn.Body).(ir.LocalRef)
	require.True(t, ok)
	assert.Equal(t, "x", ref.Name)
}

func TestResolve_ADTConstructorArity(t *testing.T) {
	prog, _ := mustResolve(t, "module Main where\n  data Maybe a = Nothing | Just a\n")
	require.Len(t, prog.Typedefs, 1)
	require.Len(t, prog.Functions, 2)
	var just *ir.Function
	for _, f := range prog.Functions {
		if f.Name == "Just" {
			just = f
		}
	}
	require.NotNil(t, just)
	assert.Equal(t, 1, just.Arity)
	assert.Equal(t, ir.KindVariantConstructor, just.Kind)
}

func TestResolve_LambdaLiftingCapturesOuterArg(t *testing.T) {
	prog, _ := mustResolve(t, "module Main where\n  adder x = \\y -> x + y\n")
	var lamFn *ir.Function
	for _, f := range prog.Functions {
		if f.Kind == ir.KindLambda {
			lamFn = f
		}
	}
	require.NotNil(t, lamFn)
	assert.Equal(t, []string{"x"}, lamFn.Captures)
}

func TestResolve_StaticCallToTopLevelFunction(t *testing.T) {
	prog, _ := mustResolve(t, "module Main where\n  f x = g x\n  g y = y\n")
	var fFn *ir.Function
	for _, fn := range prog.Functions {
		if fn.Name == "f" {
			fFn = fn
		}
	}
	require.NotNil(t, fFn)
	call, ok := prog.Expr(fFn.Body).(ir.StaticFunctionCall)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
}
