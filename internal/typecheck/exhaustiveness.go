package typecheck

import (
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/location"
	"github.com/sunholo/complang/internal/types"
)

// checkExhaustiveness adapts the teacher's universe/cover/subtract shape
// (internal/elaborate/exhaustiveness.go) to the resolved IR: for a Bool
// or ADT scrutinee it tracks which values/variants a no-guard arm
// covers, flags a missing case as TycNonExhaustivePattern, and flags any
// arm reached after full coverage as TycUnreachablePattern. Any other
// scrutinee shape (Int/Float/String/Tuple/record/unresolved Var) is not
// checked: neither TycNonExhaustivePattern nor TycUnreachablePattern is
// reported for it, whatever its arms are.
func (c *Checker) checkExhaustiveness(u *types.Unifier, scrutTy types.Term, cases []ir.CaseAlt, loc location.ID) {
	resolved := u.Sub.Apply(scrutTy)
	named, ok := resolved.(types.Named)
	if !ok {
		return
	}

	if named.Name == "Bool" {
		c.checkBoolExhaustiveness(cases, loc)
		return
	}

	td := c.prog.Typedefs[named.Typedef]
	if td.Kind != ir.TypedefADT {
		return
	}

	covered := map[int]bool{}
	dead := false
	for _, alt := range cases {
		if dead {
			c.diags.Add(errcode.New(errcode.TycUnreachablePattern, loc, "unreachable case arm", nil))
		}
		if alt.Guard != ir.NoExpr {
			continue
		}
		wildcard := false
		markVariantCoverage(c.prog, alt.Pattern, td, covered, &wildcard)
		if wildcard || len(covered) == len(td.Variants) {
			dead = true
		}
	}
	if dead {
		return
	}
	var missing []string
	for i, v := range td.Variants {
		if !covered[i] {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		c.diags.Add(errcode.New(errcode.TycNonExhaustivePattern, loc, "non-exhaustive match on "+td.Name, map[string]any{"missing": missing}))
	}
}

func (c *Checker) checkBoolExhaustiveness(cases []ir.CaseAlt, loc location.ID) {
	seenTrue, seenFalse, dead := false, false, false
	for _, alt := range cases {
		if dead {
			c.diags.Add(errcode.New(errcode.TycUnreachablePattern, loc, "unreachable case arm", nil))
		}
		if alt.Guard != ir.NoExpr {
			continue
		}
		wildcard := false
		markBoolCoverage(c.prog, alt.Pattern, &seenTrue, &seenFalse, &wildcard)
		if wildcard || (seenTrue && seenFalse) {
			dead = true
		}
	}
	if !dead {
		c.diags.Add(errcode.New(errcode.TycNonExhaustivePattern, loc, "non-exhaustive match on Bool", nil))
	}
}

func markVariantCoverage(prog *ir.Program, pid ir.PatternID, td *ir.Typedef, covered map[int]bool, wildcard *bool) {
	switch p := prog.Pattern(pid).(type) {
	case ir.WildcardPattern, ir.BindingPattern:
		*wildcard = true
	case ir.VariantPattern:
		if p.Typedef == td.ID {
			covered[p.Index] = true
		}
	case ir.OrPattern:
		for _, alt := range p.Alts {
			markVariantCoverage(prog, alt, td, covered, wildcard)
		}
	case ir.TypedPattern:
		markVariantCoverage(prog, p.Pat, td, covered, wildcard)
	}
}

func markBoolCoverage(prog *ir.Program, pid ir.PatternID, seenTrue, seenFalse, wildcard *bool) {
	switch p := prog.Pattern(pid).(type) {
	case ir.WildcardPattern, ir.BindingPattern:
		*wildcard = true
	case ir.LiteralPattern:
		if p.Kind == ir.BoolLiteral {
			if b, ok := p.Value.(bool); ok {
				if b {
					*seenTrue = true
				} else {
					*seenFalse = true
				}
			}
		}
	case ir.OrPattern:
		for _, alt := range p.Alts {
			markBoolCoverage(prog, alt, seenTrue, seenFalse, wildcard)
		}
	case ir.TypedPattern:
		markBoolCoverage(prog, p.Pat, seenTrue, seenFalse, wildcard)
	}
}
