package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/lexer"
	"github.com/sunholo/complang/internal/location"
	"github.com/sunholo/complang/internal/parser"
	"github.com/sunholo/complang/internal/resolver"
)

// parseTxtarModules splits a multi-module test program packaged as a single
// txtar archive (one section per source file) and parses each section as
// its own module, mirroring how a real multi-file compilation unit is read
// one file at a time before resolution ties the modules together by name.
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

const crossModuleTypecheckArchive = `
-- prelude.src --
module Prelude (Int, Bool, Float, String) where
  data extern Int = {}
  data extern Bool = {}
  data extern Float = {}
  data extern String = {}
-- lib.src --
module Lib (triple) where
  import Prelude
  triple x = x + x + x
-- main.src --
module Main where
  import Prelude
  import Lib (triple)
  main = triple 7
`

func TestCheck_TxtarFixture_CrossModuleCallTypechecks(t *testing.T) {
	store, locs, mids := parseTxtarModules(t, crossModuleTypecheckArchive)
	prog, rdiags := resolver.Resolve(store, locs, mids)
	require.True(t, rdiags.Empty(), "unexpected resolver diagnostics: %v", rdiags.All())

	checker, cdiags := Check(prog)
	require.True(t, cdiags.Empty(), "unexpected checker diagnostics: %v", cdiags.All())
	assert.NotNil(t, checker)
}
