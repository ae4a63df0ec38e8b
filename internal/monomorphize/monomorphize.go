// Package monomorphize implements component H: a work-queue-driven
// specializer that turns the resolver's polymorphic IR, together with
// the type checker's per-node type side tables, into a closed,
// first-order MIR program (spec §4.6). It seeds the queue with the
// entry function, specializes each request to a concrete function
// signature, memoizing so no (ir-fn-id, concrete-arg-types,
// concrete-result-type) triple is ever emitted twice, and synthesizes
// auto-derived class member bodies (Show, PartialEq, PartialOrd, Ord) on
// demand the same way.
package monomorphize

import (
	"fmt"

	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/mir"
	"github.com/sunholo/complang/internal/typecheck"
	"github.com/sunholo/complang/internal/types"
)

// Monomorphizer holds the memo tables and pending queue for one
// compilation's specialization pass.
type Monomorphizer struct {
	checker *typecheck.Checker
	prog    *ir.Program
	out     *mir.Program
	diags   errcode.Batch

	funcMemo    map[string]mir.FuncID
	typedefMemo map[string]mir.TypeDefID
	closureMemo map[string]closureEntry

	queue []queueItem
}

type closureEntry struct {
	typedef  mir.TypeDefID
	dispatch mir.FuncID
}

type queueKind int

const (
	queueNormal queueKind = iota
	queueAutoDerive
)

type queueItem struct {
	kind       queueKind
	fid        ir.FuncID
	argTypes   []types.Term
	resultType types.Term

	// AutoDerive fields.
	concreteType types.Term
	className    string
	member       string
}

// New creates a Monomorphizer over a fully type-checked program.
func New(checker *typecheck.Checker) *Monomorphizer {
	return &Monomorphizer{
		checker:     checker,
		prog:        checker.Program(),
		out:         mir.NewProgram(),
		funcMemo:    map[string]mir.FuncID{},
		typedefMemo: map[string]mir.TypeDefID{},
		closureMemo: map[string]closureEntry{},
	}
}

// Run seeds the queue with the named zero-argument entry function (spec
// §4.6, "The queue seeds with the main function") and drains it,
// returning the resulting MIR program.
func Run(checker *typecheck.Checker) (*mir.Program, *errcode.Batch) {
	m := New(checker)
	mainFid, ok := m.findMain()
	if !ok {
		m.diags.Add(errcode.New(errcode.TycMainNotFound, 0, "no top-level function named main", nil))
		return m.out, &m.diags
	}
	genTerm, _ := m.checker.FuncType(mainFid)
	_, result := splitChain(genTerm, m.prog.Functions[mainFid].Arity)
	m.enqueueNormal(mainFid, nil, result)
	m.drain()
	return m.out, &m.diags
}

func (m *Monomorphizer) findMain() (ir.FuncID, bool) {
	for _, fn := range m.prog.Functions {
		if fn.Kind == ir.KindNamed && fn.Name == "main" {
			return fn.ID, true
		}
	}
	return 0, false
}

func (m *Monomorphizer) drain() {
	for len(m.queue) > 0 {
		item := m.queue[0]
		m.queue = m.queue[1:]
		switch item.kind {
		case queueNormal:
			m.specializeNormal(item.fid, item.argTypes, item.resultType)
		case queueAutoDerive:
			m.specializeAutoDerive(item.concreteType, item.className, item.member)
		}
	}
}

func (m *Monomorphizer) diag(code errcode.Code, format string, args ...any) {
	m.diags.Add(errcode.New(code, 0, fmt.Sprintf(format, args...), nil))
}

// enqueueNormal registers a Normal specialization request, returning the
// mir.FuncID it will occupy (reserved immediately so recursive/mutual
// requests discovered while walking the body resolve to the same id
// rather than re-entering specializeNormal, spec §4.6 step 2).
func (m *Monomorphizer) enqueueNormal(fid ir.FuncID, argTypes []types.Term, resultType types.Term) mir.FuncID {
	key := normalKey(fid, argTypes, resultType)
	if id, ok := m.funcMemo[key]; ok {
		return id
	}
	fn := m.prog.Functions[fid]
	id := m.out.AddFunction(&mir.Function{Name: fn.Name, ArgCount: fn.Arity})
	m.funcMemo[key] = id
	m.queue = append(m.queue, queueItem{kind: queueNormal, fid: fid, argTypes: argTypes, resultType: resultType})
	return id
}

func (m *Monomorphizer) enqueueAutoDerive(concreteType types.Term, className, member string) mir.FuncID {
	key := autoDeriveKey(concreteType, className, member)
	if id, ok := m.funcMemo[key]; ok {
		return id
	}
	id := m.out.AddFunction(&mir.Function{Name: className + "." + member + "." + concreteType.String()})
	m.funcMemo[key] = id
	m.queue = append(m.queue, queueItem{kind: queueAutoDerive, concreteType: concreteType, className: className, member: member})
	return id
}

func normalKey(fid ir.FuncID, argTypes []types.Term, resultType types.Term) string {
	s := fmt.Sprintf("fn#%d(", fid)
	for i, a := range argTypes {
		if i > 0 {
			s += ","
		}
		s += a.String()
	}
	return s + ")->" + resultType.String()
}

func autoDeriveKey(concreteType types.Term, className, member string) string {
	return fmt.Sprintf("derive#%s#%s#%s", className, concreteType.String(), member)
}

func buildFunctionChain(argTypes []types.Term, result types.Term) types.Term {
	term := result
	for i := len(argTypes) - 1; i >= 0; i-- {
		term = types.Function{From: argTypes[i], To: term}
	}
	return term
}

// splitChain peels arity Function layers off term, the monomorphize
// package's own copy of typecheck's splitFunctionChain (unexported
// there, and this package's version works over already-ground terms).
func splitChain(term types.Term, arity int) ([]types.Term, types.Term) {
	params := make([]types.Term, 0, arity)
	cur := term
	for i := 0; i < arity; i++ {
		fn, ok := cur.(types.Function)
		if !ok {
			break
		}
		params = append(params, fn.From)
		cur = fn.To
	}
	return params, cur
}
