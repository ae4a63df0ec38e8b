// Package resolver turns a parsed ast.Store into an ir.Program: every
// name reference becomes a concrete id, every lambda is lifted to a
// synthetic top-level function, and every type signature is
// canonicalized against typedef ids (spec §4.3).
package resolver

import (
	"fmt"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/location"
)

// moduleScope is the set of names visible, unqualified, inside one
// source module: its own declarations plus whatever imports bring in.
type moduleScope struct {
	// own* holds only what this module itself declares.
	types     map[string]ir.TypedefID
	classes   map[string]ir.ClassID
	functions map[string]ir.FuncID // includes constructors and class-member sentinels

	// visible* is own plus whatever imports bring in; body resolution
	// reads only these.
	visibleTypes     map[string]ir.TypedefID
	visibleClasses   map[string]ir.ClassID
	visibleFunctions map[string]ir.FuncID

	name string
}

// localScope is one lexical scope frame (function body, lambda body,
// case alternative, do-block). Resolution of a LocalRef walks up the
// parent chain; a miss falls through to the owning moduleScope.
type localScope struct {
	parent   *localScope
	vars     map[string]bool
	boundary bool // true for the frame a lambda's own parameters live in
}

func newLocalScope(parent *localScope) *localScope {
	return &localScope{parent: parent, vars: map[string]bool{}}
}

func (s *localScope) define(name string) { s.vars[name] = true }

func (s *localScope) has(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.vars[name] {
			return true
		}
	}
	return false
}

// Resolver walks every module in a Store and accumulates one shared
// ir.Program plus a diagnostic batch.
type Resolver struct {
	store *ast.Store
	locs  *location.Table
	prog  *ir.Program
	diags errcode.Batch

	modules map[ast.ModuleID]*moduleScope
	byName  map[string]ast.ModuleID

	// currentHost tracks the enclosing top-level function id while
	// resolving a body, so a nested Lambda knows who it lifts out of
	// and what free names to record as captures.
	currentHost   ir.FuncID
	lambdaSeq     map[ir.FuncID]int
	captureStack  []*captureFrame

	// classMemberOf marks a sentinel FuncID created for an abstract class
	// member so expression resolution can rewrite any call through it
	// into a ClassFunctionCall instead of a StaticFunctionCall.
	classMemberOf map[ir.FuncID]classMember
}

type classMember struct {
	class  string
	member string
}

// Resolve runs name resolution over every module in store, in the order
// given by moduleIDs. Returns the resolved program and any diagnostics
// (the batch is empty on full success).
func Resolve(store *ast.Store, locs *location.Table, moduleIDs []ast.ModuleID) (*ir.Program, *errcode.Batch) {
	r := &Resolver{
		store:     store,
		locs:      locs,
		prog:      ir.NewProgram(locs),
		modules:       map[ast.ModuleID]*moduleScope{},
		byName:        map[string]ast.ModuleID{},
		lambdaSeq:     map[ir.FuncID]int{},
		classMemberOf: map[ir.FuncID]classMember{},
	}
	r.registerModules(moduleIDs)
	for _, mid := range moduleIDs {
		r.declareTypedefsAndClasses(mid)
	}
	for _, mid := range moduleIDs {
		r.declareFunctionStubs(mid)
	}
	for _, mid := range moduleIDs {
		r.buildModuleScope(mid)
	}
	for _, mid := range moduleIDs {
		r.resolveModuleBodies(mid)
	}
	r.deriveDefaultInstances()
	return r.prog, &r.diags
}

func (r *Resolver) registerModules(moduleIDs []ast.ModuleID) {
	for _, mid := range moduleIDs {
		m := r.store.Modules[mid]
		if prev, ok := r.byName[m.Name]; ok {
			r.diags.Add(errcode.New(errcode.ResModuleConflict, m.Loc,
				fmt.Sprintf("module %q declared more than once", m.Name),
				map[string]any{"name": m.Name, "previous": r.store.Modules[prev].Loc}))
			continue
		}
		r.byName[m.Name] = mid
		r.modules[mid] = &moduleScope{
			types:     map[string]ir.TypedefID{},
			classes:   map[string]ir.ClassID{},
			functions: map[string]ir.FuncID{},
			name:      m.Name,
		}
	}
}

func (r *Resolver) errorf(loc location.ID, code errcode.Code, format string, args ...any) {
	r.diags.Add(errcode.New(code, loc, fmt.Sprintf(format, args...), nil))
}
