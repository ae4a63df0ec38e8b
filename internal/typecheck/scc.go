package typecheck

import "github.com/sunholo/complang/internal/ir"

// callGraph is a dependency graph between top-level functions, used to
// discover mutual-recursion groups before inference so every function
// in a group is checked together (spec §4.5, steps 1-2). Tarjan's
// algorithm here is adapted directly from the teacher's
// internal/elaborate/scc.go, with string function names replaced by
// ir.FuncID.
type callGraph struct {
	nodes   []ir.FuncID
	edges   map[ir.FuncID][]ir.FuncID
	nodeSet map[ir.FuncID]bool
}

func newCallGraph() *callGraph {
	return &callGraph{edges: map[ir.FuncID][]ir.FuncID{}, nodeSet: map[ir.FuncID]bool{}}
}

func (g *callGraph) addNode(id ir.FuncID) {
	if !g.nodeSet[id] {
		g.nodes = append(g.nodes, id)
		g.nodeSet[id] = true
		g.edges[id] = nil
	}
}

func (g *callGraph) addEdge(caller, callee ir.FuncID) {
	g.addNode(caller)
	g.addNode(callee)
	g.edges[caller] = append(g.edges[caller], callee)
}

// sccs computes strongly connected components via Tarjan's algorithm,
// returned in reverse topological order (a group's dependencies appear
// before it), matching the teacher's traversal order so that
// non-recursive callees are always fully inferred before their caller.
func (g *callGraph) sccs() [][]ir.FuncID {
	index := 0
	var stack []ir.FuncID
	indices := map[ir.FuncID]int{}
	lowlinks := map[ir.FuncID]int{}
	onStack := map[ir.FuncID]bool{}
	var out [][]ir.FuncID

	var strongconnect func(ir.FuncID)
	strongconnect = func(v ir.FuncID) {
		indices[v] = index
		lowlinks[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				lowlinks[v] = minInt(lowlinks[v], lowlinks[w])
			} else if onStack[w] {
				lowlinks[v] = minInt(lowlinks[v], indices[w])
			}
		}

		if lowlinks[v] == indices[v] {
			var group []ir.FuncID
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				group = append(group, w)
				if w == v {
					break
				}
			}
			out = append(out, group)
		}
	}

	for _, n := range g.nodes {
		if _, ok := indices[n]; !ok {
			strongconnect(n)
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// buildCallGraph walks every named function's body collecting static
// call edges to other named functions (dynamic and class-dispatched
// calls are not call-graph edges: the callee isn't statically known).
func buildCallGraph(prog *ir.Program) *callGraph {
	g := newCallGraph()
	for _, fn := range prog.Functions {
		if fn.Kind != ir.KindNamed {
			continue
		}
		g.addNode(fn.ID)
		if fn.Body != ir.NoExpr {
			walkExprCalls(prog, fn.Body, func(callee ir.FuncID) {
				if prog.Functions[callee].Kind == ir.KindNamed {
					g.addEdge(fn.ID, callee)
				}
			})
		}
	}
	return g
}

func walkExprCalls(prog *ir.Program, id ir.ExprID, visit func(ir.FuncID)) {
	switch e := prog.Expr(id).(type) {
	case ir.StaticFunctionCall:
		visit(e.Fn)
		for _, a := range e.Args {
			walkExprCalls(prog, a, visit)
		}
	case ir.DynamicFunctionCall:
		walkExprCalls(prog, e.Fn, visit)
		for _, a := range e.Args {
			walkExprCalls(prog, a, visit)
		}
	case ir.ClassFunctionCall:
		for _, a := range e.Args {
			walkExprCalls(prog, a, visit)
		}
	case ir.If:
		walkExprCalls(prog, e.Cond, visit)
		walkExprCalls(prog, e.Then, visit)
		walkExprCalls(prog, e.Else, visit)
	case ir.BuiltinOp:
		for _, a := range e.Args {
			walkExprCalls(prog, a, visit)
		}
	case ir.TupleExpr:
		for _, a := range e.Elems {
			walkExprCalls(prog, a, visit)
		}
	case ir.ListExpr:
		for _, a := range e.Elems {
			walkExprCalls(prog, a, visit)
		}
	case ir.DoExpr:
		for _, s := range e.Stmts {
			walkExprCalls(prog, s, visit)
		}
	case ir.BindExpr:
		walkExprCalls(prog, e.Rhs, visit)
	case ir.FieldAccess:
		walkExprCalls(prog, e.Receiver, visit)
	case ir.TupleFieldAccess:
		walkExprCalls(prog, e.Receiver, visit)
	case ir.FormatterExpr:
		for _, a := range e.Args {
			walkExprCalls(prog, a, visit)
		}
	case ir.CaseOfExpr:
		walkExprCalls(prog, e.Scrutinee, visit)
		for _, c := range e.Cases {
			if c.Guard != ir.NoExpr {
				walkExprCalls(prog, c.Guard, visit)
			}
			walkExprCalls(prog, c.Body, visit)
		}
	case ir.RecordInitExpr:
		for _, f := range e.Fields {
			walkExprCalls(prog, f.Value, visit)
		}
	case ir.RecordUpdateExpr:
		walkExprCalls(prog, e.Target, visit)
		for _, f := range e.Fields {
			walkExprCalls(prog, f.Value, visit)
		}
	}
}
