package resolver

import (
	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
)

// resolvePattern resolves one pattern node, registering every binding it
// introduces into ls so later siblings (a guard, the case body) see
// them. Constructor and record patterns are resolved against the
// typedef they name, turning a bare name into a (Typedef, Index) or
// (Typedef, field positions) pair (spec §4.3, "Patterns").
func (r *Resolver) resolvePattern(scope *moduleScope, ls *localScope, pid ast.PatternID) ir.PatternID {
	loc := r.store.PatternLoc(pid)
	switch p := r.store.Pattern(pid).(type) {
	case ast.BindingPattern:
		ls.define(p.Name)
		return r.prog.AddPattern(loc, ir.BindingPattern{Name: p.Name})
	case ast.WildcardPattern:
		return r.prog.AddPattern(loc, ir.WildcardPattern{})
	case ast.LiteralPattern:
		return r.prog.AddPattern(loc, ir.LiteralPattern{Kind: ir.LiteralKind(p.Kind), Value: p.Value})
	case ast.TuplePattern:
		elems := make([]ir.PatternID, len(p.Elems))
		for i, e := range p.Elems {
			elems[i] = r.resolvePattern(scope, ls, e)
		}
		return r.prog.AddPattern(loc, ir.TuplePattern{Elems: elems})
	case ast.OrPattern:
		alts := make([]ir.PatternID, len(p.Alts))
		for i, a := range p.Alts {
			alts[i] = r.resolvePattern(scope, ls, a)
		}
		return r.prog.AddPattern(loc, ir.OrPattern{Alts: alts})
	case ast.GuardedPattern:
		pat := r.resolvePattern(scope, ls, p.Pat)
		guard := r.resolveExpr(scope, ls, p.Guard)
		return r.prog.AddPattern(loc, ir.GuardedPattern{Pat: pat, Guard: guard})
	case ast.TypedPattern:
		pat := r.resolvePattern(scope, ls, p.Pat)
		sig := r.resolveTypeSig(scope, p.Sig)
		return r.prog.AddPattern(loc, ir.TypedPattern{Pat: pat, Sig: sig})
	case ast.ConstructorPattern:
		fid, ok := scope.visibleFunctions[p.Name]
		if !ok {
			r.errorf(loc, errcode.ResUnknownFunction, "unknown constructor %q", p.Name)
			return r.prog.AddPattern(loc, ir.WildcardPattern{})
		}
		fn := r.prog.Functions[fid]
		if fn.Kind != ir.KindVariantConstructor {
			r.errorf(loc, errcode.ResVariantNotUnique, "%q is not a variant constructor", p.Name)
			return r.prog.AddPattern(loc, ir.WildcardPattern{})
		}
		args := make([]ir.PatternID, len(p.Args))
		for i, a := range p.Args {
			args[i] = r.resolvePattern(scope, ls, a)
		}
		return r.prog.AddPattern(loc, ir.VariantPattern{Typedef: fn.Typedef, Index: fn.VariantIndex, Args: args})
	case ast.RecordPattern:
		tdID, ok := scope.visibleTypes[p.Name]
		if !ok {
			r.errorf(loc, errcode.ResUnknownTypeName, "unknown record type %q", p.Name)
			return r.prog.AddPattern(loc, ir.WildcardPattern{})
		}
		td := r.prog.Typedefs[tdID]
		if td.Kind != ir.TypedefRecord {
			r.errorf(loc, errcode.ResNotRecordType, "%q is not a record type", p.Name)
			return r.prog.AddPattern(loc, ir.WildcardPattern{})
		}
		fields := make([]ir.FieldPosition, 0, len(p.Fields))
		for _, f := range p.Fields {
			idx := fieldIndex(td, f.Name)
			if idx < 0 {
				r.errorf(loc, errcode.ResUnknownFieldName, "record %q has no field %q", p.Name, f.Name)
				continue
			}
			fields = append(fields, ir.FieldPosition{Name: f.Name, Index: idx, Pat: r.resolvePattern(scope, ls, f.Pat)})
		}
		return r.prog.AddPattern(loc, ir.RecordPattern{Typedef: tdID, Fields: fields})
	default:
		return r.prog.AddPattern(loc, ir.WildcardPattern{})
	}
}

func fieldIndex(td *ir.Typedef, name string) int {
	for i, f := range td.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
