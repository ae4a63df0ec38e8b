package monomorphize

import (
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/mir"
	"github.com/sunholo/complang/internal/types"
)

// walker threads the state needed to lower one function body (named,
// lifted-lambda dispatch, or auto-derived) from ir.Expr/ir.Pattern to
// mir.Expr/mir.Pattern: the grounding substitution pinning this
// specialization's free vars/rigid args to concrete types, and where
// each local name currently resolves (a positional ArgRef, a
// closure-capture field read off the implicit self receiver, or a plain
// pattern-bound LocalRef).
type walker struct {
	m   *Monomorphizer
	fn  *ir.Function
	sub map[string]types.Term

	argIndex     map[string]int
	localTypes   map[string]types.Term
	captureField map[string]int
	selfTypedef  mir.TypeDefID
}

// specializeNormal fills in the mir.Function the matching enqueueNormal
// call already reserved, translating fn's IR body under the
// specialization's concrete argument/result types (spec §4.6 step 2).
func (m *Monomorphizer) specializeNormal(fid ir.FuncID, argTypes []types.Term, resultType types.Term) {
	key := normalKey(fid, argTypes, resultType)
	id, ok := m.funcMemo[key]
	if !ok {
		return
	}
	fn := m.prog.Functions[fid]
	out := m.out.Function(id)
	concreteFnType := buildFunctionChain(argTypes, resultType)
	out.FunctionType = m.mirType(concreteFnType)

	switch fn.Kind {
	case ir.KindVariantConstructor:
		out.Info = mir.VariantConstructor{Typedef: m.typedefFor(fn.Typedef, namedArgsOf(resultType)), Index: fn.VariantIndex}
		return
	case ir.KindRecordConstructor:
		out.Info = mir.RecordConstructor{Typedef: m.typedefFor(fn.Typedef, namedArgsOf(resultType))}
		return
	}
	if fn.Extern || fn.Body == ir.NoExpr {
		out.Info = mir.Extern{Name: fn.Name}
		return
	}

	genTerm, _ := m.checker.FuncType(fid)
	sub := map[string]types.Term{}
	if err := bindConcrete(genTerm, concreteFnType, sub); err != nil {
		m.diag(errcode.MonSpecializationFailed, "specializing %s: %s", fn.Name, err)
		out.Info = mir.Extern{Name: fn.Name}
		return
	}

	w := m.newWalker(fn, sub, fn.Params, argTypes)
	bodyID := w.walkExpr(fn.Body)
	out.Info = mir.Normal{Body: bodyID}
}

// newWalker builds a walker whose positional params (a named function's
// own Params, or a lifted lambda's ArgRef(i+1) params — the caller
// decides which) map to argIndex 0.. — the caller passes the params list
// separately from fn, since a lambda Dispatch's param slots start after
// the closure-self receiver (closures.go handles that offset).
func (m *Monomorphizer) newWalker(fn *ir.Function, sub map[string]types.Term, params []string, argTypes []types.Term) *walker {
	w := &walker{
		m: m, fn: fn, sub: sub,
		argIndex:   map[string]int{},
		localTypes: map[string]types.Term{},
		selfTypedef: -1,
	}
	for i, p := range params {
		w.argIndex[p] = i
		if i < len(argTypes) {
			w.localTypes[p] = argTypes[i]
		}
	}
	return w
}

// ground applies the walker's specialization substitution to a term
// recorded against the checked program, producing a fully concrete type
// (spec §4.6 step 1, "apply to obtain the fully concrete function
// type").
func (w *walker) ground(t types.Term) types.Term { return applyBind(t, w.sub) }

func (w *walker) exprType(id ir.ExprID) types.Term {
	t, _ := w.m.checker.ExprType(id)
	return w.ground(t)
}

func (w *walker) patternType(id ir.PatternID) types.Term {
	t, _ := w.m.checker.PatternType(id)
	return w.ground(t)
}

// refFor resolves a local name to a mir.ExprID: a closure-capture field
// read off the implicit self receiver first (only set on a lambda
// Dispatch walker, see closures.go), then a function parameter's
// positional ArgRef, then a plain pattern-bound LocalRef.
func (w *walker) refFor(name string) mir.ExprID {
	if idx, ok := w.captureField[name]; ok {
		selfID := w.m.out.AddExpr(mir.ArgRef{Index: 0})
		return w.m.out.AddExpr(mir.FieldAccess{Receiver: selfID, Typedef: w.selfTypedef, Field: name, Index: idx})
	}
	if idx, ok := w.argIndex[name]; ok {
		return w.m.out.AddExpr(mir.ArgRef{Index: idx})
	}
	return w.m.out.AddExpr(mir.LocalRef{Name: name})
}

func namedArgsOf(t types.Term) []types.Term {
	if n, ok := t.(types.Named); ok {
		return n.Args
	}
	return nil
}
