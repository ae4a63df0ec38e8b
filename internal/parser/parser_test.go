package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/lexer"
	"github.com/sunholo/complang/internal/location"
)

func mustParse(t *testing.T, src string) (*ast.Store, ast.ModuleID) {
	t.Helper()
	locs := location.NewTable()
	toks, lerrs, err := lexer.Lex(locs, "t.src", []byte(src))
	require.NoError(t, err)
	require.Empty(t, lerrs)
	store := ast.NewStore(locs)
	p := New(store, locs, toks, "t.src")
	id, err := p.ParseModule()
	require.NoError(t, err)
	return store, id
}

func TestParseModule_SimpleFunction(t *testing.T) {
	store, id := mustParse(t, "module Main where\n  f x = x\n")
	mod := store.Modules[id]
	require.Len(t, mod.Functions, 1)
	fn := store.Functions[mod.Functions[0]]
	assert.Equal(t, "f", fn.Name)
	require.Len(t, fn.Args, 1)
	assert.Equal(t, "x", fn.Args[0].Name)
	path, ok := store.Expr(fn.Body).(ast.PathExpr)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, path.Segments)
}

func TestParseModule_SignatureThenEquation(t *testing.T) {
	store, id := mustParse(t, "module Main where\n  add :: Int -> Int -> Int\n  add x y = x + y\n")
	mod := store.Modules[id]
	require.Len(t, mod.Functions, 1)
	fn := store.Functions[mod.Functions[0]]
	require.NotNil(t, fn.Signature)
	sig, ok := store.TypeSig(fn.Signature.Sig).(ast.FunctionSig)
	require.True(t, ok)
	from, ok := store.TypeSig(sig.From).(ast.NamedSig)
	require.True(t, ok)
	assert.Equal(t, "Int", from.Name)
}

func TestParseModule_ArithmeticPrecedence(t *testing.T) {
	store, id := mustParse(t, "module Main where\n  f x = 1 + 2 * 3\n")
	mod := store.Modules[id]
	fn := store.Functions[mod.Functions[0]]
	op, ok := store.Expr(fn.Body).(ast.BuiltinOp)
	require.True(t, ok)
	assert.Equal(t, "+", op.Op)
	rhs, ok := store.Expr(op.Args[1]).(ast.BuiltinOp)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func TestParseModule_IfExpr(t *testing.T) {
	store, id := mustParse(t, "module Main where\n  f x = if x then 1 else 2\n")
	mod := store.Modules[id]
	fn := store.Functions[mod.Functions[0]]
	ife, ok := store.Expr(fn.Body).(ast.If)
	require.True(t, ok)
	lit, ok := store.Expr(ife.Then).(ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Value)
}

func TestParseModule_CaseOf(t *testing.T) {
	src := "module Main where\n  f x = case x of\n    0 -> 1\n    _ -> 2\n"
	store, id := mustParse(t, src)
	mod := store.Modules[id]
	fn := store.Functions[mod.Functions[0]]
	c, ok := store.Expr(fn.Body).(ast.CaseOfExpr)
	require.True(t, ok)
	require.Len(t, c.Cases, 2)
	lit, ok := store.Pattern(c.Cases[0].Pattern).(ast.LiteralPattern)
	require.True(t, ok)
	assert.Equal(t, int64(0), lit.Value)
	_, ok = store.Pattern(c.Cases[1].Pattern).(ast.WildcardPattern)
	assert.True(t, ok)
}

func TestParseModule_Lambda(t *testing.T) {
	store, id := mustParse(t, "module Main where\n  f = \\x y -> x\n")
	mod := store.Modules[id]
	fn := store.Functions[mod.Functions[0]]
	lam, ok := store.Expr(fn.Body).(ast.Lambda)
	require.True(t, ok)
	assert.Len(t, lam.Params, 2)
}

func TestParseModule_DataADT(t *testing.T) {
	src := "module Main where\n  data Maybe a = Nothing | Just a\n"
	store, id := mustParse(t, src)
	mod := store.Modules[id]
	require.Len(t, mod.ADTs, 1)
	adt := store.ADTs[mod.ADTs[0]]
	assert.Equal(t, "Maybe", adt.Name)
	require.Len(t, adt.Variants, 2)
	assert.Equal(t, "Nothing", adt.Variants[0].Name)
	assert.Equal(t, "Just", adt.Variants[1].Name)
}

func TestParseModule_Record(t *testing.T) {
	src := "module Main where\n  data Point = { x :: Int, y :: Int }\n"
	store, id := mustParse(t, src)
	mod := store.Modules[id]
	require.Len(t, mod.Records, 1)
	rec := store.Records[mod.Records[0]]
	assert.Equal(t, "Point", rec.Name)
	require.Len(t, rec.Fields, 2)
}

func TestParseModule_ClassAndInstance(t *testing.T) {
	src := "module Main where\n  class Eq a where\n    eq :: a -> a -> Bool\n  instance Eq Int where\n    eq x y = True\n"
	store, id := mustParse(t, src)
	mod := store.Modules[id]
	require.Len(t, mod.Classes, 1)
	require.Len(t, mod.Instances, 1)
	cls := store.Classes[mod.Classes[0]]
	assert.Equal(t, "Eq", cls.Name)
	require.Len(t, cls.Members, 1)
	inst := store.Instances[mod.Instances[0]]
	assert.Equal(t, "Eq", inst.ClassName)
	require.Len(t, inst.Members, 1)
}

func TestParseModule_Import(t *testing.T) {
	src := "module Main where\n  import Data.List (map, filter)\n"
	store, id := mustParse(t, src)
	mod := store.Modules[id]
	require.Len(t, mod.Imports, 1)
	assert.Equal(t, "Data.List", mod.Imports[0].Module)
	require.Len(t, mod.Imports[0].Items, 2)
}

func TestParseModule_RecordInit(t *testing.T) {
	src := "module Main where\n  f = Point { x = 1, y = 2 }\n"
	store, id := mustParse(t, src)
	mod := store.Modules[id]
	fn := store.Functions[mod.Functions[0]]
	ri, ok := store.Expr(fn.Body).(ast.RecordInitExpr)
	require.True(t, ok)
	assert.Equal(t, "Point", ri.TypeName)
	require.Len(t, ri.Fields, 2)
}

func TestParseModule_DoNotation(t *testing.T) {
	src := "module Main where\n  f = do\n    x <- foo\n    bar x\n"
	store, id := mustParse(t, src)
	mod := store.Modules[id]
	fn := store.Functions[mod.Functions[0]]
	doE, ok := store.Expr(fn.Body).(ast.DoExpr)
	require.True(t, ok)
	require.Len(t, doE.Stmts, 2)
	bind, ok := store.Expr(doE.Stmts[0]).(ast.BindExpr)
	require.True(t, ok)
	pat, ok := store.Pattern(bind.Pattern).(ast.BindingPattern)
	require.True(t, ok)
	assert.Equal(t, "x", pat.Name)
}

func TestParseModule_UnexpectedTokenAborts(t *testing.T) {
	locs := location.NewTable()
	toks, lerrs, err := lexer.Lex(locs, "t.src", []byte("module Main where\n  f x = +\n"))
	require.NoError(t, err)
	require.Empty(t, lerrs)
	store := ast.NewStore(locs)
	p := New(store, locs, toks, "t.src")
	_, err = p.ParseModule()
	require.Error(t, err)
}
