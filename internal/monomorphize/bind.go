package monomorphize

import (
	"fmt"

	"github.com/sunholo/complang/internal/types"
)

// bindConcrete matches a possibly-polymorphic scheme (built from
// FixedTypeArg and Var nodes exactly as internal/typecheck produced it)
// against a fully concrete term, recording what each distinct
// FixedTypeArg name or Var id stands for. It is monomorphization's
// counterpart to typecheck's instantiate: instantiate copies a scheme
// with fresh placeholders for generalization, bindConcrete goes the
// other way, reading off what a *specific* call site's concrete types
// pin each placeholder to. types.Unifier is not reused here because its
// Unify deliberately refuses to bind a FixedTypeArg to anything but
// itself (the rigidity a type-checking pass requires) — exactly the
// operation a specializer needs to perform.
func bindConcrete(scheme, concrete types.Term, sub map[string]types.Term) error {
	switch s := scheme.(type) {
	case types.FixedTypeArg:
		return bindKey(sub, "F:"+s.Name, concrete)
	case types.Var:
		return bindKey(sub, fmt.Sprintf("V:%d", s.ID), concrete)
	case types.Named:
		c, ok := concrete.(types.Named)
		if !ok || c.Typedef != s.Typedef || len(c.Args) != len(s.Args) {
			return fmt.Errorf("cannot specialize %s against %s", scheme.String(), concrete.String())
		}
		for i := range s.Args {
			if err := bindConcrete(s.Args[i], c.Args[i], sub); err != nil {
				return err
			}
		}
		return nil
	case types.Tuple:
		c, ok := concrete.(types.Tuple)
		if !ok || len(c.Elems) != len(s.Elems) {
			return fmt.Errorf("cannot specialize tuple %s against %s", scheme.String(), concrete.String())
		}
		for i := range s.Elems {
			if err := bindConcrete(s.Elems[i], c.Elems[i], sub); err != nil {
				return err
			}
		}
		return nil
	case types.Function:
		c, ok := concrete.(types.Function)
		if !ok {
			return fmt.Errorf("cannot specialize function %s against %s", scheme.String(), concrete.String())
		}
		if err := bindConcrete(s.From, c.From, sub); err != nil {
			return err
		}
		return bindConcrete(s.To, c.To, sub)
	default:
		return fmt.Errorf("unexpected scheme term %T", scheme)
	}
}

func bindKey(sub map[string]types.Term, key string, concrete types.Term) error {
	if existing, ok := sub[key]; ok {
		if existing.String() != concrete.String() {
			return fmt.Errorf("conflicting specialization for %s: %s vs %s", key, existing.String(), concrete.String())
		}
		return nil
	}
	sub[key] = concrete
	return nil
}

// applyBind grounds term by replacing every FixedTypeArg/Var it finds a
// binding for; anything left unbound (a scheme more general than the
// concrete call site constrained) passes through unchanged — this can
// only happen for a node the specialization never actually touches, so
// there is nothing to substitute for it regardless.
func applyBind(term types.Term, sub map[string]types.Term) types.Term {
	switch t := term.(type) {
	case types.FixedTypeArg:
		if v, ok := sub["F:"+t.Name]; ok {
			return v
		}
		return t
	case types.Var:
		if v, ok := sub[fmt.Sprintf("V:%d", t.ID)]; ok {
			return v
		}
		return t
	case types.Named:
		args := make([]types.Term, len(t.Args))
		for i, a := range t.Args {
			args[i] = applyBind(a, sub)
		}
		return types.Named{Typedef: t.Typedef, Name: t.Name, Args: args}
	case types.Tuple:
		elems := make([]types.Term, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = applyBind(e, sub)
		}
		return types.Tuple{Elems: elems}
	case types.Function:
		return types.Function{From: applyBind(t.From, sub), To: applyBind(t.To, sub)}
	default:
		return term
	}
}

func isGround(t types.Term) bool {
	switch v := t.(type) {
	case types.FixedTypeArg, types.Var:
		return false
	case types.Named:
		for _, a := range v.Args {
			if !isGround(a) {
				return false
			}
		}
		return true
	case types.Tuple:
		for _, e := range v.Elems {
			if !isGround(e) {
				return false
			}
		}
		return true
	case types.Function:
		return isGround(v.From) && isGround(v.To)
	default:
		return true
	}
}
