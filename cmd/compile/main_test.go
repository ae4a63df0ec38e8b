package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFiles_SingleFileSpecializesMain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.src")
	src := "module Main where\n" +
		"  data extern Int = {}\n" +
		"  add x y = x\n" +
		"  main = add 1 2\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	mirProg, _, _, diags := compileFiles([]string{path})
	require.True(t, diags.Empty(), "unexpected diagnostics: %v", diags.All())

	var sawMain bool
	for _, fn := range mirProg.Functions {
		if fn.Name == "main" {
			sawMain = true
		}
	}
	assert.True(t, sawMain)
}

func TestCompileFiles_MultiFileCrossModuleImport(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "lib.src")
	mainPath := filepath.Join(dir, "main.src")
	require.NoError(t, os.WriteFile(libPath, []byte(
		"module Lib (triple) where\n  data extern Int = {}\n  triple x = x\n"), 0o644))
	require.NoError(t, os.WriteFile(mainPath, []byte(
		"module Main where\n  import Lib (triple)\n  main = triple 7\n"), 0o644))

	mirProg, _, _, diags := compileFiles([]string{libPath, mainPath})
	require.True(t, diags.Empty(), "unexpected diagnostics: %v", diags.All())
	assert.NotEmpty(t, mirProg.Functions)
}

func TestCompileFiles_MissingFileReportsDiagnostic(t *testing.T) {
	_, _, _, diags := compileFiles([]string{filepath.Join(t.TempDir(), "nope.src")})
	assert.False(t, diags.Empty())
}
