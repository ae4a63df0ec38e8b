package resolver

import (
	"strings"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/location"
)

// captureFrame accumulates the free-variable names a lambda currently
// being resolved closes over, in first-seen order.
type captureFrame struct {
	names []string
	seen  map[string]bool
}

func (r *Resolver) pushCaptureFrame() {
	r.captureStack = append(r.captureStack, &captureFrame{seen: map[string]bool{}})
}

func (r *Resolver) popCaptureFrame() []string {
	n := len(r.captureStack)
	top := r.captureStack[n-1]
	r.captureStack = r.captureStack[:n-1]
	return top.names
}

func (r *Resolver) recordCapture(name string) {
	if len(r.captureStack) == 0 {
		return
	}
	top := r.captureStack[len(r.captureStack)-1]
	if !top.seen[name] {
		top.seen[name] = true
		top.names = append(top.names, name)
	}
}

// lookupLocal walks ls looking for name, reporting whether the
// binding — if any — lives on the far side of a lambda boundary
// relative to the caller (meaning it must be captured).
func lookupLocal(ls *localScope, name string) (found, crossedBoundary bool) {
	past := false
	for cur := ls; cur != nil; cur = cur.parent {
		if cur.vars[name] {
			return true, past
		}
		if cur.boundary {
			past = true
		}
	}
	return false, past
}

func (r *Resolver) resolveExprs(scope *moduleScope, ls *localScope, ids []ast.ExprID) []ir.ExprID {
	out := make([]ir.ExprID, len(ids))
	for i, id := range ids {
		out[i] = r.resolveExpr(scope, ls, id)
	}
	return out
}

func (r *Resolver) resolveExpr(scope *moduleScope, ls *localScope, eid ast.ExprID) ir.ExprID {
	loc := r.store.ExprLoc(eid)
	switch e := r.store.Expr(eid).(type) {
	case ast.IntLit:
		return r.prog.AddExpr(loc, ir.IntLit{Value: e.Value})
	case ast.FloatLit:
		return r.prog.AddExpr(loc, ir.FloatLit{Value: e.Value})
	case ast.BoolLit:
		return r.prog.AddExpr(loc, ir.BoolLit{Value: e.Value})
	case ast.StringLit:
		return r.prog.AddExpr(loc, ir.StringLit{Value: e.Value})
	case ast.PathExpr:
		return r.resolvePathValue(scope, ls, loc, e.Segments)
	case ast.BuiltinOp:
		return r.prog.AddExpr(loc, ir.BuiltinOp{Op: e.Op, Args: r.resolveExprs(scope, ls, e.Args)})
	case ast.If:
		return r.prog.AddExpr(loc, ir.If{
			Cond: r.resolveExpr(scope, ls, e.Cond),
			Then: r.resolveExpr(scope, ls, e.Then),
			Else: r.resolveExpr(scope, ls, e.Else),
		})
	case ast.TupleExpr:
		return r.prog.AddExpr(loc, ir.TupleExpr{Elems: r.resolveExprs(scope, ls, e.Elems)})
	case ast.ListExpr:
		return r.prog.AddExpr(loc, ir.ListExpr{Elems: r.resolveExprs(scope, ls, e.Elems)})
	case ast.Lambda:
		return r.resolveLambda(scope, ls, loc, e)
	case ast.FunctionCall:
		return r.resolveFunctionCall(scope, ls, loc, e)
	case ast.DoExpr:
		doLS := newLocalScope(ls)
		return r.prog.AddExpr(loc, ir.DoExpr{Stmts: r.resolveExprs(scope, doLS, e.Stmts)})
	case ast.BindExpr:
		rhs := r.resolveExpr(scope, ls, e.Rhs)
		pat := r.resolvePattern(scope, ls, e.Pattern)
		return r.prog.AddExpr(loc, ir.BindExpr{Pattern: pat, Rhs: rhs})
	case ast.FieldAccess:
		recv := r.resolveExpr(scope, ls, e.Receiver)
		td, idx, ok := r.findFieldTypedef(scope, e.Field)
		if !ok {
			r.errorf(loc, errcode.ResUnknownFieldName, "unknown field %q", e.Field)
		}
		return r.prog.AddExpr(loc, ir.FieldAccess{Receiver: recv, Typedef: td, Field: e.Field, Index: idx})
	case ast.TupleFieldAccess:
		return r.prog.AddExpr(loc, ir.TupleFieldAccess{Receiver: r.resolveExpr(scope, ls, e.Receiver), Index: e.Index})
	case ast.FormatterExpr:
		return r.prog.AddExpr(loc, ir.FormatterExpr{Format: e.Format, Args: r.resolveExprs(scope, ls, e.Args)})
	case ast.CaseOfExpr:
		return r.resolveCaseOf(scope, ls, loc, e)
	case ast.RecordInitExpr:
		return r.resolveRecordInit(scope, ls, loc, e)
	case ast.RecordUpdateExpr:
		return r.resolveRecordUpdate(scope, ls, loc, e)
	default:
		r.errorf(loc, errcode.ResUnknownFunction, "internal: unhandled expression node")
		return r.prog.AddExpr(loc, ir.StringLit{Value: ""})
	}
}

// resolvePathValue resolves a bare name reference used as a value
// (never the function position of a direct call — resolveFunctionCall
// special-cases that so class members and statically-known calls avoid
// going through a DynamicFunctionCall).
func (r *Resolver) resolvePathValue(scope *moduleScope, ls *localScope, loc location.ID, segments []string) ir.ExprID {
	name := pathName(segments)
	if found, crossed := lookupLocal(ls, name); found {
		if crossed {
			r.recordCapture(name)
		}
		return r.prog.AddExpr(loc, ir.LocalRef{Name: name})
	}
	fid, ok := scope.visibleFunctions[name]
	if !ok {
		r.errorf(loc, errcode.ResUnknownFunction, "unknown name %q", name)
		return r.prog.AddExpr(loc, ir.StringLit{Value: ""})
	}
	if cm, ok := r.classMemberOf[fid]; ok {
		return r.prog.AddExpr(loc, ir.ClassFunctionCall{ClassName: cm.class, Member: cm.member})
	}
	return r.prog.AddExpr(loc, ir.StaticFunctionCall{Fn: fid})
}

func pathName(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

func (r *Resolver) resolveLambda(scope *moduleScope, ls *localScope, loc location.ID, e ast.Lambda) ir.ExprID {
	lamLS := newLocalScope(ls)
	lamLS.boundary = true
	params := make([]string, len(e.Params))
	for i, prm := range e.Params {
		lamLS.define(prm.Name)
		params[i] = prm.Name
	}

	host := r.currentHost
	idx := r.lambdaSeq[host]
	r.lambdaSeq[host] = idx + 1
	lamFn := &ir.Function{Kind: ir.KindLambda, Name: r.prog.Functions[host].Name, Host: host, Index: idx, Arity: len(e.Params), Params: params, Body: ir.NoExpr}
	lamFID := r.prog.AddFunction(lamFn)

	r.pushCaptureFrame()
	prevHost := r.currentHost
	r.currentHost = lamFID
	body := r.resolveExpr(scope, lamLS, e.Body)
	r.currentHost = prevHost
	lamFn.Body = body
	lamFn.Captures = r.popCaptureFrame()

	return r.prog.AddExpr(loc, ir.Lambda{Host: lamFID})
}

func (r *Resolver) resolveFunctionCall(scope *moduleScope, ls *localScope, loc location.ID, e ast.FunctionCall) ir.ExprID {
	args := r.resolveExprs(scope, ls, e.Args)
	if path, ok := r.store.Expr(e.Fn).(ast.PathExpr); ok {
		name := pathName(path.Segments)
		if found, crossed := lookupLocal(ls, name); found {
			if crossed {
				r.recordCapture(name)
			}
			fnLoc := r.store.ExprLoc(e.Fn)
			fnExpr := r.prog.AddExpr(fnLoc, ir.LocalRef{Name: name})
			return r.prog.AddExpr(loc, ir.DynamicFunctionCall{Fn: fnExpr, Args: args})
		}
		if fid, ok := scope.visibleFunctions[name]; ok {
			if cm, ok := r.classMemberOf[fid]; ok {
				return r.prog.AddExpr(loc, ir.ClassFunctionCall{ClassName: cm.class, Member: cm.member, Args: args})
			}
			return r.prog.AddExpr(loc, ir.StaticFunctionCall{Fn: fid, Args: args})
		}
		r.errorf(loc, errcode.ResUnknownFunction, "unknown function %q", name)
		return r.prog.AddExpr(loc, ir.StringLit{Value: ""})
	}
	fn := r.resolveExpr(scope, ls, e.Fn)
	return r.prog.AddExpr(loc, ir.DynamicFunctionCall{Fn: fn, Args: args})
}

func (r *Resolver) resolveCaseOf(scope *moduleScope, ls *localScope, loc location.ID, e ast.CaseOfExpr) ir.ExprID {
	scrutinee := r.resolveExpr(scope, ls, e.Scrutinee)
	cases := make([]ir.CaseAlt, len(e.Cases))
	for i, alt := range e.Cases {
		altLS := newLocalScope(ls)
		pat := r.resolvePattern(scope, altLS, alt.Pattern)
		guard := ir.NoExpr
		if alt.Guard != ast.NoExpr {
			guard = r.resolveExpr(scope, altLS, alt.Guard)
		}
		body := r.resolveExpr(scope, altLS, alt.Body)
		cases[i] = ir.CaseAlt{Pattern: pat, Guard: guard, Body: body}
	}
	return r.prog.AddExpr(loc, ir.CaseOfExpr{Scrutinee: scrutinee, Cases: cases})
}

func (r *Resolver) resolveRecordInit(scope *moduleScope, ls *localScope, loc location.ID, e ast.RecordInitExpr) ir.ExprID {
	tdID, ok := scope.visibleTypes[e.TypeName]
	if !ok {
		r.errorf(loc, errcode.ResUnknownTypeName, "unknown record type %q", e.TypeName)
		return r.prog.AddExpr(loc, ir.StringLit{Value: ""})
	}
	td := r.prog.Typedefs[tdID]
	if td.Kind != ir.TypedefRecord {
		r.errorf(loc, errcode.ResNotRecordType, "%q is not a record type", e.TypeName)
	}
	seen := map[string]bool{}
	fields := make([]ir.FieldInit, 0, len(e.Fields))
	for _, f := range e.Fields {
		idx := fieldIndex(td, f.Name)
		if idx < 0 {
			r.errorf(loc, errcode.ResNoSuchField, "record %q has no field %q", e.TypeName, f.Name)
			continue
		}
		if seen[f.Name] {
			r.errorf(loc, errcode.ResFieldsInitializedMultipleTimes, "field %q initialized more than once", f.Name)
			continue
		}
		seen[f.Name] = true
		fields = append(fields, ir.FieldInit{Name: f.Name, Index: idx, Value: r.resolveExpr(scope, ls, f.Value)})
	}
	for _, f := range td.Fields {
		if !seen[f.Name] {
			r.errorf(loc, errcode.ResMissingFields, "missing field %q in %q initializer", f.Name, e.TypeName)
		}
	}
	return r.prog.AddExpr(loc, ir.RecordInitExpr{Typedef: tdID, Fields: fields})
}

func (r *Resolver) resolveRecordUpdate(scope *moduleScope, ls *localScope, loc location.ID, e ast.RecordUpdateExpr) ir.ExprID {
	target := r.resolveExpr(scope, ls, e.Target)
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	tdID, ok := r.findRecordByFieldNames(scope, names)
	fields := make([]ir.FieldInit, 0, len(e.Fields))
	if !ok {
		r.errorf(loc, errcode.ResNoRecordFoundWithFields, "no record type found with fields %s", strings.Join(names, ", "))
	} else {
		td := r.prog.Typedefs[tdID]
		for _, f := range e.Fields {
			idx := fieldIndex(td, f.Name)
			fields = append(fields, ir.FieldInit{Name: f.Name, Index: idx, Value: r.resolveExpr(scope, ls, f.Value)})
		}
	}
	return r.prog.AddExpr(loc, ir.RecordUpdateExpr{Target: target, Typedef: tdID, Fields: fields})
}

// findFieldTypedef resolves a field name against every record typedef
// currently visible. This is a resolver-time heuristic: the true owner
// can be ambiguous until the receiver's type is known, in which case the
// type checker's TycAmbiguousFieldAccess takes over; here we just pick
// the first visible match, which is correct whenever field names are
// unique across a module's visible records (the common case).
func (r *Resolver) findFieldTypedef(scope *moduleScope, field string) (ir.TypedefID, int, bool) {
	for _, tdID := range scope.visibleTypes {
		td := r.prog.Typedefs[tdID]
		if td.Kind != ir.TypedefRecord {
			continue
		}
		if idx := fieldIndex(td, field); idx >= 0 {
			return tdID, idx, true
		}
	}
	return 0, -1, false
}

func (r *Resolver) findRecordByFieldNames(scope *moduleScope, names []string) (ir.TypedefID, bool) {
	var match ir.TypedefID
	found := false
	for _, tdID := range scope.visibleTypes {
		td := r.prog.Typedefs[tdID]
		if td.Kind != ir.TypedefRecord {
			continue
		}
		hasAll := true
		for _, n := range names {
			if fieldIndex(td, n) < 0 {
				hasAll = false
				break
			}
		}
		if hasAll {
			if found {
				return 0, false
			}
			match = tdID
			found = true
		}
	}
	return match, found
}
