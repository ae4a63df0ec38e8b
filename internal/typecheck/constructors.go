package typecheck

import (
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/types"
)

// registerConstructors computes every variant and record constructor's
// function type directly from its owning typedef's shape: these never
// need inference, since a constructor's type is exactly what the data
// declaration says it is (spec §4.5, "constructor types are known
// up front").
func (c *Checker) registerConstructors() {
	for _, fn := range c.prog.Functions {
		switch fn.Kind {
		case ir.KindVariantConstructor:
			td := c.prog.Typedefs[fn.Typedef]
			argMap := rigidArgMap(td.TypeArgs)
			c.funcTerm[fn.ID] = c.typeSigToTerm(td.Variants[fn.VariantIndex].Sig, argMap)
			c.finalized[fn.ID] = true
		case ir.KindRecordConstructor:
			td := c.prog.Typedefs[fn.Typedef]
			argMap := rigidArgMap(td.TypeArgs)
			resultArgs := make([]types.Term, len(td.TypeArgs))
			for i, a := range td.TypeArgs {
				resultArgs[i] = argMap[a]
			}
			term := types.Term(types.Named{Typedef: fn.Typedef, Name: td.Name, Args: resultArgs})
			for i := len(td.Fields) - 1; i >= 0; i-- {
				term = types.Function{From: c.typeSigToTerm(td.Fields[i].Sig, argMap), To: term}
			}
			c.funcTerm[fn.ID] = term
			c.finalized[fn.ID] = true
		}
	}
}
