package monomorphize

import (
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/mir"
	"github.com/sunholo/complang/internal/types"
)

// walkExpr lowers one IR expression, rooted at id, to MIR, enqueuing any
// further specialization (callee functions, closures, auto-derived
// members) it discovers along the way (spec §4.6 step 3, "Walk the
// body").
func (w *walker) walkExpr(id ir.ExprID) mir.ExprID {
	if id == ir.NoExpr {
		return mir.NoExpr
	}
	switch e := w.m.prog.Expr(id).(type) {
	case ir.StaticFunctionCall:
		return w.walkStaticCall(e.Fn, e.Args, id)
	case ir.DynamicFunctionCall:
		fn := w.walkExpr(e.Fn)
		return w.m.out.AddExpr(mir.DynamicFunctionCall{Fn: fn, Args: w.walkExprs(e.Args)})
	case ir.ClassFunctionCall:
		return w.walkClassCall(e, id)
	case ir.Lambda:
		host := w.m.prog.Functions[e.Host]
		return w.m.makeClosure(w, id, host)
	case ir.LocalRef:
		return w.refFor(e.Name)
	case ir.BuiltinOp:
		return w.walkBuiltinOp(e)
	case ir.If:
		return w.m.out.AddExpr(mir.If{Cond: w.walkExpr(e.Cond), Then: w.walkExpr(e.Then), Else: w.walkExpr(e.Else)})
	case ir.TupleExpr:
		return w.m.out.AddExpr(mir.TupleExpr{Elems: w.walkExprs(e.Elems)})
	case ir.ListExpr:
		return w.m.out.AddExpr(mir.ListExpr{Elems: w.walkExprs(e.Elems)})
	case ir.IntLit:
		return w.m.out.AddExpr(mir.IntLit{Value: e.Value})
	case ir.FloatLit:
		return w.m.out.AddExpr(mir.FloatLit{Value: e.Value})
	case ir.BoolLit:
		return w.m.out.AddExpr(mir.BoolLit{Value: e.Value})
	case ir.StringLit:
		return w.m.out.AddExpr(mir.StringLit{Value: e.Value})
	case ir.DoExpr:
		return w.m.out.AddExpr(mir.DoExpr{Stmts: w.walkExprs(e.Stmts)})
	case ir.BindExpr:
		rhs := w.walkExpr(e.Rhs)
		pat := w.walkPattern(e.Pattern)
		return w.m.out.AddExpr(mir.BindExpr{Pattern: pat, Rhs: rhs})
	case ir.FieldAccess:
		recvType := w.exprType(e.Receiver)
		td := w.m.typedefFor(e.Typedef, namedArgsOf(recvType))
		return w.m.out.AddExpr(mir.FieldAccess{Receiver: w.walkExpr(e.Receiver), Typedef: td, Field: e.Field, Index: e.Index})
	case ir.TupleFieldAccess:
		return w.m.out.AddExpr(mir.TupleFieldAccess{Receiver: w.walkExpr(e.Receiver), Index: e.Index})
	case ir.FormatterExpr:
		args := make([]mir.ExprID, len(e.Args))
		for i, a := range e.Args {
			args[i] = w.walkExpr(a)
			w.ensureShowDerived(w.exprType(a))
		}
		return w.m.out.AddExpr(mir.FormatterExpr{Format: e.Format, Args: args})
	case ir.CaseOfExpr:
		return w.walkCaseOf(e)
	case ir.RecordInitExpr:
		recvType := w.exprType(id)
		td := w.m.typedefFor(e.Typedef, namedArgsOf(recvType))
		return w.m.out.AddExpr(mir.RecordInitExpr{Typedef: td, Fields: w.walkFieldInits(e.Fields)})
	case ir.RecordUpdateExpr:
		recvType := w.exprType(id)
		td := w.m.typedefFor(e.Typedef, namedArgsOf(recvType))
		return w.m.out.AddExpr(mir.RecordUpdateExpr{Target: w.walkExpr(e.Target), Typedef: td, Fields: w.walkFieldInits(e.Fields)})
	default:
		return w.m.out.AddExpr(mir.BoolLit{Value: false})
	}
}

func (w *walker) walkExprs(ids []ir.ExprID) []mir.ExprID {
	out := make([]mir.ExprID, len(ids))
	for i, id := range ids {
		out[i] = w.walkExpr(id)
	}
	return out
}

func (w *walker) walkFieldInits(fs []ir.FieldInit) []mir.FieldInit {
	out := make([]mir.FieldInit, len(fs))
	for i, f := range fs {
		out[i] = mir.FieldInit{Name: f.Name, Index: f.Index, Value: w.walkExpr(f.Value)}
	}
	return out
}

func (w *walker) walkCaseOf(e ir.CaseOfExpr) mir.ExprID {
	scrut := w.walkExpr(e.Scrutinee)
	cases := make([]mir.CaseAlt, len(e.Cases))
	for i, alt := range e.Cases {
		cases[i] = mir.CaseAlt{Pattern: w.walkPattern(alt.Pattern), Guard: w.walkExpr(alt.Guard), Body: w.walkExpr(alt.Body)}
	}
	return w.m.out.AddExpr(mir.CaseOfExpr{Scrutinee: scrut, Cases: cases})
}

// specializeCallTarget grounds fid's full (possibly curried) signature
// from the types actually observed at this call site — the args already
// supplied plus the call expression's own grounded result type — even
// when the call under-applies fid, since the overall call type still
// pins whatever argument/result slots the call itself didn't consume
// (spec §4.6 step 1).
func (w *walker) specializeCallTarget(fid ir.FuncID, args []ir.ExprID, callType types.Term) (mir.FuncID, int) {
	genTerm, _ := w.m.checker.FuncType(fid)
	sub := map[string]types.Term{}
	cur := genTerm
	for _, a := range args {
		at := w.exprType(a)
		fn, ok := cur.(types.Function)
		if !ok {
			break
		}
		_ = bindConcrete(fn.From, at, sub)
		cur = fn.To
	}
	_ = bindConcrete(cur, callType, sub)

	full := applyBind(genTerm, sub)
	fn := w.m.prog.Functions[fid]
	fullArgs, fullResult := splitChain(full, fn.Arity)
	target := w.m.enqueueNormal(fid, fullArgs, fullResult)
	return target, fn.Arity
}

func (w *walker) walkStaticCall(fid ir.FuncID, args []ir.ExprID, callID ir.ExprID) mir.ExprID {
	target, arity := w.specializeCallTarget(fid, args, w.exprType(callID))
	mirArgs := w.walkExprs(args)
	switch {
	case len(args) == arity:
		return w.m.out.AddExpr(mir.StaticFunctionCall{Fn: target, Args: mirArgs})
	case len(args) < arity:
		return w.m.out.AddExpr(mir.PartialFunctionCall{Fn: target, Args: mirArgs})
	default:
		call := w.m.out.AddExpr(mir.StaticFunctionCall{Fn: target, Args: mirArgs[:arity]})
		for _, extra := range mirArgs[arity:] {
			call = w.m.out.AddExpr(mir.DynamicFunctionCall{Fn: call, Args: []mir.ExprID{extra}})
		}
		return call
	}
}

// walkClassCall resolves a still-unresolved class dispatch against the
// concrete type of its first argument (the receiver, for the unary/binary
// comparison-style classes this language supports), then either calls the
// matching instance's own member function or, if the instance has no
// explicit body, the member's auto-derived implementation (spec §4.6,
// "Auto-derivation").
func (w *walker) walkClassCall(e ir.ClassFunctionCall, id ir.ExprID) mir.ExprID {
	if len(e.Args) == 0 {
		w.m.diag(errcode.MonSpecializationFailed, "class %q: no receiver to dispatch on", e.ClassName)
		return w.m.out.AddExpr(mir.BoolLit{Value: false})
	}
	recvType := w.exprType(e.Args[0])
	return w.dispatchClassMember(e.ClassName, e.Member, e.Args, recvType, id)
}

// comparisonClass maps the builtin operators the parser desugars
// directly to ir.BuiltinOp (bypassing ClassFunctionCall, per
// internal/typecheck's classForOp) back to the class whose instance
// governs them, so the monomorphizer can still dispatch a user ADT/record
// operand to its Eq/Ord instance (or auto-derived body) instead of
// emitting a raw BuiltinOp the backend has no generic fallback for.
var comparisonClass = map[string]string{
	"==": "Eq", "!=": "Eq",
	"<": "Ord", "<=": "Ord", ">": "Ord", ">=": "Ord",
}

func (w *walker) walkBuiltinOp(e ir.BuiltinOp) mir.ExprID {
	if className, ok := comparisonClass[e.Op]; ok && len(e.Args) > 0 {
		recvType := w.exprType(e.Args[0])
		if w.m.isUserType(recvType) {
			return w.dispatchClassMember(className, e.Op, e.Args, recvType, ir.NoExpr)
		}
	}
	return w.m.out.AddExpr(mir.BuiltinOp{Op: e.Op, Args: w.walkExprs(e.Args)})
}

// isUserType reports whether t names a user-declared typedef rather than
// a builtin external representation (Int, Float, Bool, String, ...),
// which keeps primitive comparisons as direct BuiltinOp nodes instead of
// routing them through a function call.
func (m *Monomorphizer) isUserType(t types.Term) bool {
	n, ok := t.(types.Named)
	if !ok || int(n.Typedef) < 0 || int(n.Typedef) >= len(m.prog.Typedefs) {
		return false
	}
	return !m.prog.Typedefs[n.Typedef].External
}

// dispatchClassMember resolves className.member against recvType's
// instance, preferring an explicit instance body and falling back to
// auto-derivation (spec §4.6, "Auto-derivation"). callID is the original
// ClassFunctionCall's own expr id for its grounded result type, or
// ir.NoExpr when called from a desugared BuiltinOp (whose own recorded
// type is already Bool regardless of operand type).
func (w *walker) dispatchClassMember(className, member string, args []ir.ExprID, recvType types.Term, callID ir.ExprID) mir.ExprID {
	info, _, ok := w.m.checker.Instances().Lookup(w.m.checker.NextVarPtr(), className, recvType)
	if !ok {
		w.m.diag(errcode.MonSpecializationFailed, "no instance of %s for %s", className, recvType.String())
		return w.m.out.AddExpr(mir.BoolLit{Value: false})
	}
	inst := w.m.prog.Instances[info.InstanceID]
	if fid, ok := findMemberFunc(w.m.prog, inst.Members, member); ok {
		if callID != ir.NoExpr {
			return w.walkStaticCall(fid, args, callID)
		}
		target, _ := w.specializeCallTarget(fid, args, w.m.boolTerm())
		return w.m.out.AddExpr(mir.StaticFunctionCall{Fn: target, Args: w.walkExprs(args)})
	}
	target := w.m.enqueueAutoDerive(recvType, className, member)
	return w.m.out.AddExpr(mir.StaticFunctionCall{Fn: target, Args: w.walkExprs(args)})
}

// ensureShowDerived makes sure argType's Show member is itself
// specialized (explicit instance body or auto-derived) even though a
// FormatterExpr's own arguments stay as plain values — the interpreter
// dispatches Show on a formatted value at runtime, so the specialization
// needs to exist in the MIR tables, but the FormatterExpr node itself
// never calls it directly (spec §4.5, "Formatter").
func (w *walker) ensureShowDerived(argType types.Term) {
	if !w.m.isUserType(argType) {
		return
	}
	info, _, ok := w.m.checker.Instances().Lookup(w.m.checker.NextVarPtr(), "Show", argType)
	if !ok {
		return
	}
	inst := w.m.prog.Instances[info.InstanceID]
	if fid, ok := findMemberFunc(w.m.prog, inst.Members, "show"); ok {
		w.m.enqueueNormal(fid, []types.Term{argType}, w.m.stringTerm())
		return
	}
	w.m.enqueueAutoDerive(argType, "Show", "show")
}

// boolTerm builds the concrete Bool type, used as the known result type
// of a desugared comparison BuiltinOp when specializing its callee (spec
// §3, classForOp's "fixedBool" operators).
func (m *Monomorphizer) boolTerm() types.Term {
	id, _ := m.checker.TypedefByName("Bool")
	return types.Named{Typedef: id, Name: "Bool"}
}

func findMemberFunc(prog *ir.Program, members []ir.FuncID, name string) (ir.FuncID, bool) {
	for _, fid := range members {
		if prog.Functions[fid].Name == name {
			return fid, true
		}
	}
	return 0, false
}

func (w *walker) walkPattern(id ir.PatternID) mir.PatternID {
	if id == ir.NoPattern {
		return mir.NoPattern
	}
	switch p := w.m.prog.Pattern(id).(type) {
	case ir.BindingPattern:
		w.localTypes[p.Name] = w.patternType(id)
		return w.m.out.AddPattern(mir.BindingPattern{Name: p.Name})
	case ir.TuplePattern:
		return w.m.out.AddPattern(mir.TuplePattern{Elems: w.walkPatterns(p.Elems)})
	case ir.VariantPattern:
		recvType := w.patternType(id)
		td := w.m.typedefFor(p.Typedef, namedArgsOf(recvType))
		return w.m.out.AddPattern(mir.VariantPattern{Typedef: td, Index: p.Index, Args: w.walkPatterns(p.Args)})
	case ir.OrPattern:
		return w.m.out.AddPattern(mir.OrPattern{Alts: w.walkPatterns(p.Alts)})
	case ir.GuardedPattern:
		return w.m.out.AddPattern(mir.GuardedPattern{Pat: w.walkPattern(p.Pat), Guard: w.walkExpr(p.Guard)})
	case ir.WildcardPattern:
		return w.m.out.AddPattern(mir.WildcardPattern{})
	case ir.LiteralPattern:
		return w.m.out.AddPattern(mir.LiteralPattern{Kind: mir.LiteralKind(p.Kind), Value: p.Value})
	case ir.RecordPattern:
		recvType := w.patternType(id)
		td := w.m.typedefFor(p.Typedef, namedArgsOf(recvType))
		return w.m.out.AddPattern(mir.RecordPattern{Typedef: td, Fields: w.walkFieldPositions(p.Fields)})
	case ir.TypedPattern:
		return w.walkPattern(p.Pat)
	default:
		return w.m.out.AddPattern(mir.WildcardPattern{})
	}
}

func (w *walker) walkPatterns(ids []ir.PatternID) []mir.PatternID {
	out := make([]mir.PatternID, len(ids))
	for i, id := range ids {
		out[i] = w.walkPattern(id)
	}
	return out
}

func (w *walker) walkFieldPositions(fs []ir.FieldPosition) []mir.FieldPosition {
	out := make([]mir.FieldPosition, len(fs))
	for i, f := range fs {
		out[i] = mir.FieldPosition{Name: f.Name, Index: f.Index, Pat: w.walkPattern(f.Pat)}
	}
	return out
}
