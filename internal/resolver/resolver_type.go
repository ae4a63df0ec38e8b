package resolver

import (
	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/location"
)

// resolveTypeSig canonicalizes one ast type signature node (and
// everything it points to) into its ir form, replacing every named-type
// reference with a TypedefID. Errors are batched, not fatal: on an
// unknown name it records a diagnostic and substitutes typedef 0 so the
// walk can still complete and surface every unknown name in one pass.
func (r *Resolver) resolveTypeSig(scope *moduleScope, sig ast.TypeSigID) ir.TypeSigID {
	loc := r.store.TypeSigLoc(sig)
	switch t := r.store.TypeSig(sig).(type) {
	case ast.NothingSig:
		return r.prog.AddTypeSig(loc, ir.NothingSig{})
	case ast.TypeArgSig:
		return r.prog.AddTypeSig(loc, ir.TypeArgSig{Name: t.Name})
	case ast.WildcardSig:
		return r.prog.AddTypeSig(loc, ir.WildcardSig{})
	case ast.VariantSig:
		td := r.lookupType(scope, loc, t.Name)
		return r.prog.AddTypeSig(loc, ir.VariantSig{Typedef: td, Args: r.resolveTypeSigs(scope, t.Args)})
	case ast.NamedSig:
		td := r.lookupType(scope, loc, t.Name)
		return r.prog.AddTypeSig(loc, ir.NamedSig{Typedef: td, Args: r.resolveTypeSigs(scope, t.Args)})
	case ast.TupleSig:
		return r.prog.AddTypeSig(loc, ir.TupleSig{Elems: r.resolveTypeSigs(scope, t.Elems)})
	case ast.FunctionSig:
		return r.prog.AddTypeSig(loc, ir.FunctionSig{From: r.resolveTypeSig(scope, t.From), To: r.resolveTypeSig(scope, t.To)})
	default:
		return r.prog.AddTypeSig(loc, ir.NothingSig{})
	}
}

func (r *Resolver) resolveTypeSigs(scope *moduleScope, sigs []ast.TypeSigID) []ir.TypeSigID {
	out := make([]ir.TypeSigID, len(sigs))
	for i, s := range sigs {
		out[i] = r.resolveTypeSig(scope, s)
	}
	return out
}

func (r *Resolver) lookupType(scope *moduleScope, loc location.ID, name string) ir.TypedefID {
	if td, ok := scope.visibleTypes[name]; ok {
		return td
	}
	r.errorf(loc, errcode.ResUnknownTypeName, "unknown type %q", name)
	return 0
}

func (r *Resolver) resolveConstraints(scope *moduleScope, cs []ast.Constraint) []ir.Constraint {
	out := make([]ir.Constraint, len(cs))
	for i, c := range cs {
		out[i] = ir.Constraint{ClassName: c.ClassName, TypeSig: r.resolveTypeSig(scope, c.TypeSig)}
	}
	return out
}
