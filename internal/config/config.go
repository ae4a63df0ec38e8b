// Package config loads the compiler-wide toggles `cmd/compile` reads
// before running the pipeline: the configured entry module and function,
// which experimental syntax to accept, and whether to print a MIR
// visualization instead of a success summary. No interpreter is run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the compiler-wide configuration, optionally loaded from a YAML
// file alongside command-line flags (flags take precedence; see
// cmd/compile).
type Config struct {
	// EntryModule names the module expected to hold the program's entry
	// point. It is loaded and validated here; monomorphize.Run does not
	// read it and seeds its work queue from the top-level function named
	// "main", whichever module declares it.
	EntryModule string `yaml:"entry_module"`
	// EntryFunction names the zero-argument entry function within
	// EntryModule. Like EntryModule, it is not passed to the monomorphizer.
	EntryFunction string `yaml:"entry_function"`
	// Experiments lists experimental syntax toggles the lexer/parser may
	// gate behind a name (e.g. retained quasiquote-adjacent literals);
	// unset or unknown names are simply inert.
	Experiments []string `yaml:"experiments"`
	// Visualize, when true, makes the CLI print internal/program's YAML
	// table dump instead of its one-line success summary.
	Visualize bool `yaml:"visualize"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{EntryModule: "Main", EntryFunction: "main"}
}

// Load reads a YAML configuration file. A missing file is not an error —
// Default() is returned instead — so `compile` can be run without a config
// file present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.EntryModule == "" {
		return nil, fmt.Errorf("config: %s: entry_module must not be empty", path)
	}
	if cfg.EntryFunction == "" {
		return nil, fmt.Errorf("config: %s: entry_function must not be empty", path)
	}
	return cfg, nil
}

// HasExperiment reports whether the named experimental toggle is enabled.
func (c *Config) HasExperiment(name string) bool {
	for _, e := range c.Experiments {
		if e == name {
			return true
		}
	}
	return false
}
