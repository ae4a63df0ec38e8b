package typecheck

import (
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/types"
)

// typeSigToTerm lowers a canonicalized ir.TypeSig into a checker Term.
// argMap binds a signature's own declared type-argument names to rigid
// FixedTypeArg terms so the function stays genuinely polymorphic in
// them; any TypeArgSig not found there (structurally shouldn't happen
// for a resolver-validated signature) gets its own fresh Var instead of
// failing, so a malformed signature degrades rather than panics.
func (c *Checker) typeSigToTerm(sig ir.TypeSigID, argMap map[string]types.Term) types.Term {
	switch t := c.prog.TypeSig(sig).(type) {
	case ir.NothingSig:
		return types.Tuple{}
	case ir.WildcardSig:
		return c.fresh()
	case ir.TypeArgSig:
		if bound, ok := argMap[t.Name]; ok {
			return bound
		}
		return c.fresh()
	case ir.VariantSig:
		return types.Named{Typedef: t.Typedef, Name: c.typedefName(t.Typedef), Args: c.typeSigsToTerms(t.Args, argMap)}
	case ir.NamedSig:
		return types.Named{Typedef: t.Typedef, Name: c.typedefName(t.Typedef), Args: c.typeSigsToTerms(t.Args, argMap)}
	case ir.TupleSig:
		return types.Tuple{Elems: c.typeSigsToTerms(t.Elems, argMap)}
	case ir.FunctionSig:
		return types.Function{From: c.typeSigToTerm(t.From, argMap), To: c.typeSigToTerm(t.To, argMap)}
	default:
		return c.fresh()
	}
}

// TypeSigToTerm exposes typeSigToTerm for internal/monomorphize, which
// needs to lower a class member's signature the same way inferClassCall
// did, binding the class's type argument to a sentinel it can read back
// after unifying against the concrete call-site types.
func (c *Checker) TypeSigToTerm(sig ir.TypeSigID, argMap map[string]types.Term) types.Term {
	return c.typeSigToTerm(sig, argMap)
}

func (c *Checker) typeSigsToTerms(sigs []ir.TypeSigID, argMap map[string]types.Term) []types.Term {
	out := make([]types.Term, len(sigs))
	for i, s := range sigs {
		out[i] = c.typeSigToTerm(s, argMap)
	}
	return out
}

func (c *Checker) typedefName(id ir.TypedefID) string {
	if int(id) < 0 || int(id) >= len(c.prog.Typedefs) {
		return "?"
	}
	return c.prog.Typedefs[id].Name
}

// rigidArgMap builds the FixedTypeArg bindings for a declared
// signature's own type-argument list.
func rigidArgMap(typeArgs []string) map[string]types.Term {
	m := make(map[string]types.Term, len(typeArgs))
	for _, a := range typeArgs {
		m[a] = types.FixedTypeArg{Name: a}
	}
	return m
}

// freshArgMap is rigidArgMap's counterpart for call sites: every
// declared type argument gets its own fresh Var (not a FixedTypeArg)
// so each use of a polymorphic function can specialize independently.
func (c *Checker) freshArgMap(typeArgs []string, constraints map[string][]string) map[string]types.Term {
	m := make(map[string]types.Term, len(typeArgs))
	for _, a := range typeArgs {
		m[a] = c.fresh(constraints[a]...)
	}
	return m
}
