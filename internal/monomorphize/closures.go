package monomorphize

import (
	"fmt"

	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/mir"
	"github.com/sunholo/complang/internal/types"
)

// closureKey identifies one concrete specialization of a lifted lambda:
// its host function plus the concrete types of everything it captures
// and its own concrete parameter/result types (spec §6 Glossary,
// "Closure record").
func closureKey(host ir.FuncID, captureTypes []types.Term, argTypes []types.Term, resultType types.Term) string {
	s := fmt.Sprintf("closure#%d[", host)
	for i, t := range captureTypes {
		if i > 0 {
			s += ","
		}
		s += t.String()
	}
	s += "](" + buildFunctionChain(argTypes, resultType).String() + ")"
	return s
}

// makeClosure lowers an ir.Lambda reference encountered in w's current
// scope to a MakeClosure expression: it registers (memoized) the
// ClosureRecord typedef and its Dispatch function the first time this
// exact concrete capture/parameter combination is seen, then evaluates
// the captured names in the enclosing scope to build the record value.
func (m *Monomorphizer) makeClosure(w *walker, lamID ir.ExprID, host *ir.Function) mir.ExprID {
	fnType := w.exprType(lamID)
	argTypes, resultType := splitChain(fnType, host.Arity)

	captureTypes := make([]types.Term, len(host.Captures))
	for i, name := range host.Captures {
		captureTypes[i] = w.localTypes[name]
	}

	key := closureKey(host.ID, captureTypes, argTypes, resultType)
	entry, ok := m.closureMemo[key]
	if !ok {
		entry = m.buildClosure(host, captureTypes, argTypes, resultType)
		m.closureMemo[key] = entry
	}

	captures := make([]mir.ExprID, len(host.Captures))
	for i, name := range host.Captures {
		captures[i] = w.refFor(name)
	}
	return m.out.AddExpr(mir.MakeClosure{Typedef: entry.typedef, Captures: captures})
}

// buildClosure materializes a concrete ClosureRecord typedef and
// specializes its Dispatch function: calling convention
// Dispatch(self, param1, ..., paramN), where ArgRef(0) is the closure
// value itself (captures resolve via FieldAccess on it) and the
// lambda's own declared parameters resolve via ArgRef(i+1).
func (m *Monomorphizer) buildClosure(host *ir.Function, captureTypes, argTypes []types.Term, resultType types.Term) closureEntry {
	fields := make([]mir.Field, len(host.Captures))
	for i, name := range host.Captures {
		fields[i] = mir.Field{Name: name, Type: m.mirType(captureTypes[i])}
	}

	tdID := m.out.AddTypedef(&mir.TypeDef{Name: fmt.Sprintf("%s$closure", host.Name)})
	dispatchID := m.out.AddFunction(&mir.Function{Name: host.Name + "$dispatch", ArgCount: host.Arity + 1})
	m.out.Typedef(tdID).Kind = mir.Record{Kind: mir.ClosureRecord{Captures: fields, Dispatch: dispatchID}}

	sub := map[string]types.Term{}
	genTerm, _ := m.checker.FuncType(host.ID)
	concreteFnType := buildFunctionChain(argTypes, resultType)
	_ = bindConcrete(genTerm, concreteFnType, sub)

	dw := &walker{
		m: m, fn: host, sub: sub,
		argIndex:     map[string]int{},
		localTypes:   map[string]types.Term{},
		captureField: map[string]int{},
		selfTypedef:  tdID,
	}
	for i, name := range host.Captures {
		dw.captureField[name] = i
		dw.localTypes[name] = captureTypes[i]
	}
	for i, p := range host.Params {
		dw.argIndex[p] = i + 1
		if i < len(argTypes) {
			dw.localTypes[p] = argTypes[i]
		}
	}

	out := m.out.Function(dispatchID)
	out.FunctionType = m.mirType(concreteFnType)
	bodyID := dw.walkExpr(host.Body)
	out.Info = mir.Normal{Body: bodyID}

	return closureEntry{typedef: tdID, dispatch: dispatchID}
}
