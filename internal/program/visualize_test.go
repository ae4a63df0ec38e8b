package program

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sunholo/complang/internal/mir"
)

// TestVisualize_RoundTripsThroughYAML asserts that the --visualize YAML
// rendering of a program's tables carries every field Visualize wrote into
// it: unmarshal the output back into the same snapshot shape and diff it
// against the one Visualize built directly, the way a table-driven IR/MIR
// test compares whole structs with go-cmp rather than field by field.
func TestVisualize_RoundTripsThroughYAML(t *testing.T) {
	prog := mir.NewProgram()
	tdID := prog.AddTypedef(&mir.TypeDef{Name: "Point", Module: "Main", Kind: mir.Adt{
		Variants: []mir.AdtVariant{{Name: "Point", Items: []mir.Type{mir.Named{Name: "Int"}, mir.Named{Name: "Int"}}}},
	}})
	bodyID := prog.AddExpr(mir.IntLit{Value: 0})
	prog.AddFunction(&mir.Function{Name: "main", Module: "Main", ArgCount: 0, FunctionType: mir.Named{Name: "Int"}, Info: mir.Normal{Body: bodyID}})
	_ = tdID

	out, err := Visualize(prog)
	require.NoError(t, err)

	var got snapshot
	require.NoError(t, yaml.Unmarshal(out, &got))

	want := snapshot{
		Typedefs: []typedefView{{ID: 0, Name: "Point", Module: "Main", Kind: "adt"}},
		Functions: []functionView{{
			ID: 0, Name: "main", Module: "Main", ArgCount: 0,
			Type: prog.Functions[0].FunctionType.String(), Info: "normal",
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("visualize round-trip mismatch (-want +got):\n%s", diff)
	}
}
