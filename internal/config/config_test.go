package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entry_module: App\nentry_function: start\nvisualize: true\nexperiments:\n  - quasiquote\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "App", cfg.EntryModule)
	assert.Equal(t, "start", cfg.EntryFunction)
	assert.True(t, cfg.Visualize)
	assert.True(t, cfg.HasExperiment("quasiquote"))
	assert.False(t, cfg.HasExperiment("other"))
}

func TestLoad_RejectsEmptyEntryModule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entry_module: \"\"\nentry_function: main\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
