package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/lexer"
	"github.com/sunholo/complang/internal/location"
	"github.com/sunholo/complang/internal/parser"
)

// parseTxtarModules splits a txtar archive into one source file per section
// and parses each independently, the way a multi-file compilation unit on
// disk would be read one file at a time before resolution ties them
// together by module name.
func parseTxtarModules(t *testing.T, archive string) (*ast.Store, *location.Table, []ast.ModuleID) {
	t.Helper()
	arc := txtar.Parse([]byte(archive))
	require.NotEmpty(t, arc.Files, "txtar archive has no sections")

	locs := location.NewTable()
	store := ast.NewStore(locs)
	var mids []ast.ModuleID
	for _, f := range arc.Files {
		toks, lerrs, err := lexer.Lex(locs, f.Name, f.Data)
		require.NoError(t, err)
		require.Empty(t, lerrs, "lexing %s", f.Name)
		p := parser.New(store, locs, toks, f.Name)
		mid, err := p.ParseModule()
		require.NoError(t, err, "parsing %s", f.Name)
		mids = append(mids, mid)
	}
	return store, locs, mids
}

// Two modules, one importing the other, packaged as a single txtar fixture
// instead of two files on disk.
const crossModuleArchive = `
-- lib.src --
module Lib (double) where
  double x = x + x
-- main.src --
module Main where
  import Lib (double)
  main = double 21
`

func TestResolve_TxtarFixture_CrossModuleImport(t *testing.T) {
	store, locs, mids := parseTxtarModules(t, crossModuleArchive)
	prog, diags := Resolve(store, locs, mids)
	require.True(t, diags.Empty(), "unexpected diagnostics: %v", diags.All())

	var sawDouble, sawMain bool
	for _, fn := range prog.Functions {
		switch fn.Name {
		case "double":
			sawDouble = true
		case "main":
			sawMain = true
		}
	}
	assert.True(t, sawDouble, "expected Lib.double to resolve")
	assert.True(t, sawMain, "expected Main.main to resolve")
}
