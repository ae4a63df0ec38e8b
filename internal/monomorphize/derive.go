package monomorphize

import (
	"fmt"
	"strings"

	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/mir"
	"github.com/sunholo/complang/internal/types"
)

// specializeAutoDerive synthesizes the body of one auto-derived class
// member for a concrete type (spec §4.6, "Auto-derivation"): Show
// renders a value, Eq/Ord compare two. The synthesized body is built
// directly as a MIR expression tree rather than as an IR fragment fed
// back through the ordinary walker — there is no source-level function
// to walk, only a data declaration's shape to fold over.
func (m *Monomorphizer) specializeAutoDerive(concreteType types.Term, className, member string) {
	key := autoDeriveKey(concreteType, className, member)
	id, ok := m.funcMemo[key]
	if !ok {
		return
	}
	out := m.out.Function(id)

	named, ok := concreteType.(types.Named)
	if !ok {
		out.Info = mir.Extern{Name: member}
		return
	}
	td := m.prog.Typedefs[named.Typedef]
	argMap := make(map[string]types.Term, len(td.TypeArgs))
	for i, a := range td.TypeArgs {
		if i < len(named.Args) {
			argMap[a] = named.Args[i]
		}
	}

	switch member {
	case "show":
		out.ArgCount = 1
		out.FunctionType = m.mirType(buildFunctionChain([]types.Term{concreteType}, m.stringTerm()))
		out.Info = mir.ExternClassImpl{ClassName: className, Type: m.mirType(concreteType), Body: m.deriveShow(named, td, argMap)}
	default: // "==", "!=", "<", "<=", ">", ">="
		out.ArgCount = 2
		out.FunctionType = m.mirType(buildFunctionChain([]types.Term{concreteType, concreteType}, m.boolTerm()))
		out.Info = mir.ExternClassImpl{ClassName: className, Type: m.mirType(concreteType), Body: m.deriveCompare(named, td, argMap, member)}
	}
}

func (m *Monomorphizer) stringTerm() types.Term {
	id, _ := m.checker.TypedefByName("String")
	return types.Named{Typedef: id, Name: "String"}
}

// deriveShow matches ArgRef(0) against each variant/the record's single
// shape and renders it via FormatterExpr, whose existing Show-dispatch
// semantics (already required for string interpolation, spec §4.5
// "Formatter") is reused here instead of re-deriving per-field call
// resolution from scratch.
func (m *Monomorphizer) deriveShow(named types.Named, td *ir.Typedef, argMap map[string]types.Term) mir.ExprID {
	self := m.out.AddExpr(mir.ArgRef{Index: 0})
	mirTd := m.typedefFor(named.Typedef, named.Args)

	switch td.Kind {
	case ir.TypedefADT:
		cases := make([]mir.CaseAlt, len(td.Variants))
		for i, v := range td.Variants {
			scheme := m.checker.TypeSigToTerm(v.Sig, argMap)
			items := fieldItems(scheme)
			binds := make([]mir.PatternID, len(items))
			format := v.Name
			if len(items) > 0 {
				format += "(" + strings.TrimSuffix(strings.Repeat("{}, ", len(items)), ", ") + ")"
			}
			args := make([]mir.ExprID, len(items))
			for j := range items {
				name := fmt.Sprintf("f%d", j)
				binds[j] = m.out.AddPattern(mir.BindingPattern{Name: name})
				args[j] = m.out.AddExpr(mir.LocalRef{Name: name})
			}
			pat := m.out.AddPattern(mir.VariantPattern{Typedef: mirTd, Index: i, Args: binds})
			body := m.out.AddExpr(mir.FormatterExpr{Format: format, Args: args})
			cases[i] = mir.CaseAlt{Pattern: pat, Guard: mir.NoExpr, Body: body}
		}
		return m.out.AddExpr(mir.CaseOfExpr{Scrutinee: self, Cases: cases})
	default: // record
		format := td.Name + " {"
		args := make([]mir.ExprID, len(td.Fields))
		for i, f := range td.Fields {
			if i > 0 {
				format += ","
			}
			format += " " + f.Name + " = {}"
			args[i] = m.out.AddExpr(mir.FieldAccess{Receiver: self, Typedef: mirTd, Field: f.Name, Index: i})
		}
		format += " }"
		return m.out.AddExpr(mir.FormatterExpr{Format: format, Args: args})
	}
}

// deriveCompare synthesizes Eq/Ord member bodies: ADTs compare variant
// index equality first (for Eq, the case split itself enforces it — two
// values of differing variants simply have no matching alt and fall to
// the wildcard false), then fields left-to-right; records compare every
// field (spec §4.6, "PartialEq"/"PartialOrd / Ord").
func (m *Monomorphizer) deriveCompare(named types.Named, td *ir.Typedef, argMap map[string]types.Term, member string) mir.ExprID {
	a := m.out.AddExpr(mir.ArgRef{Index: 0})
	b := m.out.AddExpr(mir.ArgRef{Index: 1})
	mirTd := m.typedefFor(named.Typedef, named.Args)

	switch td.Kind {
	case ir.TypedefADT:
		cases := make([]mir.CaseAlt, 0, len(td.Variants)+1)
		for i, v := range td.Variants {
			scheme := m.checker.TypeSigToTerm(v.Sig, argMap)
			items := fieldItems(scheme)
			aBinds := make([]mir.PatternID, len(items))
			bBinds := make([]mir.PatternID, len(items))
			for j := range items {
				an, bn := fmt.Sprintf("a%d", j), fmt.Sprintf("b%d", j)
				aBinds[j] = m.out.AddPattern(mir.BindingPattern{Name: an})
				bBinds[j] = m.out.AddPattern(mir.BindingPattern{Name: bn})
			}
			aPat := m.out.AddPattern(mir.VariantPattern{Typedef: mirTd, Index: i, Args: aBinds})
			bPat := m.out.AddPattern(mir.VariantPattern{Typedef: mirTd, Index: i, Args: bBinds})
			tuplePat := m.out.AddPattern(mir.TuplePattern{Elems: []mir.PatternID{aPat, bPat}})

			body := m.out.AddExpr(mir.BoolLit{Value: member == "<=" || member == ">=" || member == "=="})
			for j := len(items) - 1; j >= 0; j-- {
				an, bn := fmt.Sprintf("a%d", j), fmt.Sprintf("b%d", j)
				fieldType := items[j]
				cmp := m.fieldCompare(fieldType, m.out.AddExpr(mir.LocalRef{Name: an}), m.out.AddExpr(mir.LocalRef{Name: bn}), member)
				body = m.out.AddExpr(mir.BuiltinOp{Op: "&&", Args: []mir.ExprID{cmp, body}})
			}
			cases = append(cases, mir.CaseAlt{Pattern: tuplePat, Guard: mir.NoExpr, Body: body})
		}
		elseBody := m.out.AddExpr(mir.BoolLit{Value: member == "!=" || member == "<" || member == "<="})
		cases = append(cases, mir.CaseAlt{Pattern: m.out.AddPattern(mir.WildcardPattern{}), Guard: mir.NoExpr, Body: elseBody})
		scrut := m.out.AddExpr(mir.TupleExpr{Elems: []mir.ExprID{a, b}})
		return m.out.AddExpr(mir.CaseOfExpr{Scrutinee: scrut, Cases: cases})
	default: // record
		result := m.out.AddExpr(mir.BoolLit{Value: true})
		for i, f := range td.Fields {
			fieldType := m.checker.TypeSigToTerm(f.Sig, argMap)
			fa := m.out.AddExpr(mir.FieldAccess{Receiver: a, Typedef: mirTd, Field: f.Name, Index: i})
			fb := m.out.AddExpr(mir.FieldAccess{Receiver: b, Typedef: mirTd, Field: f.Name, Index: i})
			cmp := m.fieldCompare(fieldType, fa, fb, member)
			result = m.out.AddExpr(mir.BuiltinOp{Op: "&&", Args: []mir.ExprID{cmp, result}})
		}
		return result
	}
}

// fieldCompare emits the comparison for one field's value, dispatching
// through the same class/instance resolution as a user-written
// comparison when the field's own type needs it (recursively
// auto-deriving it too, if that type has no explicit instance either),
// or straight to a primitive BuiltinOp when it doesn't (spec §4.6 step,
// "recursively call ... on each field with class-constraints satisfied
// by derivation").
func (m *Monomorphizer) fieldCompare(fieldType types.Term, a, b mir.ExprID, member string) mir.ExprID {
	if m.isUserType(fieldType) {
		className := comparisonClass[member]
		if className == "" {
			className = "Eq"
		}
		info, _, ok := m.checker.Instances().Lookup(m.checker.NextVarPtr(), className, fieldType)
		if ok {
			inst := m.prog.Instances[info.InstanceID]
			if fid, ok := findMemberFunc(m.prog, inst.Members, member); ok {
				target := m.enqueueNormal(fid, []types.Term{fieldType, fieldType}, m.boolTerm())
				return m.out.AddExpr(mir.StaticFunctionCall{Fn: target, Args: []mir.ExprID{a, b}})
			}
		}
		target := m.enqueueAutoDerive(fieldType, className, member)
		return m.out.AddExpr(mir.StaticFunctionCall{Fn: target, Args: []mir.ExprID{a, b}})
	}
	return m.out.AddExpr(mir.BuiltinOp{Op: member, Args: []mir.ExprID{a, b}})
}
