package program

import (
	"gopkg.in/yaml.v3"

	"github.com/sunholo/complang/internal/mir"
)

// Visualize renders a MIR program's tables as YAML, the format behind
// the CLI's --visualize flag — a plain structural dump rather than a
// bespoke pretty-printer, mirroring how the teacher's eval harness loads
// its spec files with gopkg.in/yaml.v3.
func Visualize(prog *mir.Program) ([]byte, error) {
	snap := snapshot{
		Typedefs:  make([]typedefView, len(prog.Typedefs)),
		Functions: make([]functionView, len(prog.Functions)),
	}
	for i, td := range prog.Typedefs {
		snap.Typedefs[i] = typedefView{ID: int(td.ID), Name: td.Name, Module: td.Module, Kind: kindName(td.Kind)}
	}
	for i, fn := range prog.Functions {
		snap.Functions[i] = functionView{
			ID:       int(fn.ID),
			Name:     fn.Name,
			Module:   fn.Module,
			ArgCount: fn.ArgCount,
			Type:     fn.FunctionType.String(),
			Info:     infoName(fn.Info),
		}
	}
	return yaml.Marshal(snap)
}

type snapshot struct {
	Typedefs  []typedefView  `yaml:"typedefs"`
	Functions []functionView `yaml:"functions"`
}

type typedefView struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Module string `yaml:"module"`
	Kind   string `yaml:"kind"`
}

type functionView struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Module   string `yaml:"module"`
	ArgCount int    `yaml:"arg_count"`
	Type     string `yaml:"type"`
	Info     string `yaml:"info"`
}

func kindName(k mir.TypeDefKind) string {
	switch kv := k.(type) {
	case mir.Adt:
		return "adt"
	case mir.Record:
		switch kv.Kind.(type) {
		case mir.NormalRecord:
			return "record"
		case mir.ExternalRecord:
			return "record.external"
		case mir.ClosureRecord:
			return "record.closure"
		}
	}
	return "unknown"
}

func infoName(i mir.FuncInfo) string {
	switch i.(type) {
	case mir.Normal:
		return "normal"
	case mir.Extern:
		return "extern"
	case mir.VariantConstructor:
		return "variant_constructor"
	case mir.RecordConstructor:
		return "record_constructor"
	case mir.ExternClassImpl:
		return "extern_class_impl"
	}
	return "unknown"
}
