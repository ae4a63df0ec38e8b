package typecheck

import (
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/types"
)

// inferPattern infers a pattern's type and binds any names it introduces
// directly into env (the same map the caller passed in, so subsequent
// sibling expressions in the same scope see the bindings). The result is
// recorded into patternTypes; recordResolvedTypes later re-applies the
// body's final substitution.
func (c *Checker) inferPattern(u *types.Unifier, env map[string]types.Term, pid ir.PatternID) types.Term {
	t := c.inferPatternKind(u, env, pid)
	c.patternTypes[pid] = t
	return t
}

func (c *Checker) inferPatternKind(u *types.Unifier, env map[string]types.Term, pid ir.PatternID) types.Term {
	switch p := c.prog.Pattern(pid).(type) {
	case ir.BindingPattern:
		t := c.fresh()
		env[p.Name] = t
		return t
	case ir.WildcardPattern:
		return c.fresh()
	case ir.TuplePattern:
		elems := make([]types.Term, len(p.Elems))
		for i, el := range p.Elems {
			elems[i] = c.inferPattern(u, env, el)
		}
		return types.Tuple{Elems: elems}
	case ir.VariantPattern:
		return c.inferVariantPattern(u, env, p)
	case ir.RecordPattern:
		return c.inferRecordPattern(u, env, p)
	case ir.OrPattern:
		return c.inferOrPattern(u, env, p)
	case ir.GuardedPattern:
		t := c.inferPattern(u, env, p.Pat)
		guard := c.inferExpr(u, env, p.Guard)
		if err := u.Unify(guard, c.builtinTerm("Bool")); err != nil {
			c.diags.Add(errcode.New(errcode.TycTypeMismatch, 0, "pattern guard must be Bool: "+err.Error(), nil))
		}
		return t
	case ir.LiteralPattern:
		switch p.Kind {
		case ir.IntLiteral:
			return c.builtinTerm("Int")
		case ir.FloatLiteral:
			return c.builtinTerm("Float")
		case ir.BoolLiteral:
			return c.builtinTerm("Bool")
		case ir.StringLiteral:
			return c.builtinTerm("String")
		}
		return c.fresh()
	case ir.TypedPattern:
		inner := c.inferPattern(u, env, p.Pat)
		annotated := c.typeSigToTerm(p.Sig, map[string]types.Term{})
		if err := u.Unify(inner, annotated); err != nil {
			c.diags.Add(errcode.New(errcode.TycTypeMismatch, 0, "pattern annotation: "+err.Error(), nil))
		}
		return annotated
	default:
		return c.fresh()
	}
}

func (c *Checker) inferVariantPattern(u *types.Unifier, env map[string]types.Term, p ir.VariantPattern) types.Term {
	td := c.prog.Typedefs[p.Typedef]
	argVars := make([]types.Term, len(td.TypeArgs))
	for i := range argVars {
		argVars[i] = c.fresh()
	}
	argMap := map[string]types.Term{}
	for i, a := range td.TypeArgs {
		argMap[a] = argVars[i]
	}
	cur := c.typeSigToTerm(td.Variants[p.Index].Sig, argMap)
	for _, aPat := range p.Args {
		fn, ok := cur.(types.Function)
		if !ok {
			c.diags.Add(errcode.New(errcode.TycInvalidVariantPattern, 0, "too many arguments to constructor "+td.Variants[p.Index].Name, nil))
			break
		}
		sub := c.inferPattern(u, env, aPat)
		if err := u.Unify(fn.From, sub); err != nil {
			c.diags.Add(errcode.New(errcode.TycInvalidVariantPattern, 0, err.Error(), nil))
		}
		cur = fn.To
	}
	return types.Named{Typedef: p.Typedef, Name: td.Name, Args: argVars}
}

func (c *Checker) inferRecordPattern(u *types.Unifier, env map[string]types.Term, p ir.RecordPattern) types.Term {
	td := c.prog.Typedefs[p.Typedef]
	argVars := make([]types.Term, len(td.TypeArgs))
	for i := range argVars {
		argVars[i] = c.fresh()
	}
	argMap := map[string]types.Term{}
	for i, a := range td.TypeArgs {
		argMap[a] = argVars[i]
	}
	for _, fp := range p.Fields {
		expected := c.typeSigToTerm(td.Fields[fp.Index].Sig, argMap)
		sub := c.inferPattern(u, env, fp.Pat)
		if err := u.Unify(expected, sub); err != nil {
			c.diags.Add(errcode.New(errcode.TycInvalidRecordPattern, 0, err.Error(), nil))
		}
	}
	return types.Named{Typedef: p.Typedef, Name: td.Name, Args: argVars}
}

// inferOrPattern unifies the alternatives' types and, for each name bound
// by the first alternative and again by a later one, the two bindings'
// types. The alternatives' name sets are not compared: a name bound only
// by a later alternative is not added to env.
func (c *Checker) inferOrPattern(u *types.Unifier, env map[string]types.Term, p ir.OrPattern) types.Term {
	base := cloneEnv(env)
	first := c.inferPattern(u, env, p.Alts[0])
	for _, altID := range p.Alts[1:] {
		tmp := cloneEnv(base)
		t := c.inferPattern(u, tmp, altID)
		if err := u.Unify(first, t); err != nil {
			c.diags.Add(errcode.New(errcode.TycInvalidVariantPattern, 0, "or-pattern alternatives disagree: "+err.Error(), nil))
		}
		for name, ty := range tmp {
			if _, existed := base[name]; existed {
				continue
			}
			if outer, ok := env[name]; ok {
				if err := u.Unify(outer, ty); err != nil {
					c.diags.Add(errcode.New(errcode.TycInvalidVariantPattern, 0, "or-pattern binding "+name+": "+err.Error(), nil))
				}
			}
		}
	}
	return first
}
