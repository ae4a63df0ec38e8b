// Package typecheck implements component F of spec §4.5/§5: Hindley-Milner
// inference over the resolver's IR, type-class constraint resolution via
// internal/types' instance index, and exhaustiveness checking for CaseOf.
// It is split from internal/types (component E, the pure term/unifier
// model) the way spec.md keeps "substitution/unification" and "inference
// driver" as distinct components (DESIGN.md, "E vs F split").
package typecheck

import (
	"fmt"

	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/location"
	"github.com/sunholo/complang/internal/types"
)

// Checker holds all state threaded through one program's type-checking
// pass: the fresh-variable counter, the per-node type side tables (typed
// IR is the program's shape plus these maps, never a separate tree —
// spec §4.5 "Output"), and the instance index built once up front.
type Checker struct {
	prog  *ir.Program
	diags errcode.Batch

	nextVar int

	// funcTerm caches each function's generalized type: Named/Tuple/
	// Function built from FixedTypeArg for a declared signature's own
	// type arguments, or containing Vars for an inferred signature.
	// Call sites never use this directly — always through instantiate,
	// which copies it with fresh variables per spec's let-polymorphism
	// ("generalize once, instantiate fresh at each use").
	funcTerm        map[ir.FuncID]types.Term
	funcConstraints map[ir.FuncID]map[string][]string

	exprTypes    map[ir.ExprID]types.Term
	patternTypes map[ir.PatternID]types.Term

	instances   *types.Resolver
	classByName map[string]*ir.Class

	typedefByName map[string]ir.TypedefID

	// lambdaTerm caches a lifted lambda's inferred closure type, keyed by
	// its Host FuncID, so re-encountering the same ir.Lambda node (it is
	// only ever built once per source occurrence) doesn't re-run
	// inference on its body.
	lambdaTerm map[ir.FuncID]types.Term

	// finalized marks a named function whose own body has already been
	// checked and substituted: call sites to a finalized function
	// instantiate a fresh copy (let-polymorphism), while call sites to a
	// function still being checked in the current mutual-recursion group
	// reuse its raw placeholder term directly, so recursive calls stay
	// monomorphic within the group the way a standard SCC-grouped
	// checker requires.
	finalized map[ir.FuncID]bool
}

func NewChecker(prog *ir.Program) *Checker {
	c := &Checker{
		prog:            prog,
		funcTerm:        map[ir.FuncID]types.Term{},
		funcConstraints: map[ir.FuncID]map[string][]string{},
		exprTypes:       map[ir.ExprID]types.Term{},
		patternTypes:    map[ir.PatternID]types.Term{},
		instances:       types.NewResolver(),
		classByName:     map[string]*ir.Class{},
		typedefByName:   map[string]ir.TypedefID{},
		lambdaTerm:      map[ir.FuncID]types.Term{},
		finalized:       map[ir.FuncID]bool{},
	}
	for _, cls := range prog.Classes {
		c.classByName[cls.Name] = cls
	}
	for _, td := range prog.Typedefs {
		c.typedefByName[td.Name] = td.ID
	}
	return c
}

// ExprType returns the resolved type recorded for an expression during
// body inference, and whether one was recorded at all (an expression
// belonging to an extern or never-checked function has none).
func (c *Checker) ExprType(id ir.ExprID) (types.Term, bool) {
	t, ok := c.exprTypes[id]
	return t, ok
}

// PatternType returns the resolved type recorded for a pattern during
// body inference, mirroring ExprType.
func (c *Checker) PatternType(id ir.PatternID) (types.Term, bool) {
	t, ok := c.patternTypes[id]
	return t, ok
}

// FuncType returns a function's generalized type as finalized by Check,
// for use by later compiler stages (monomorphization) that need the
// declared/inferred signature rather than a fresh instantiation.
func (c *Checker) FuncType(fid ir.FuncID) (types.Term, bool) {
	t, ok := c.funcTerm[fid]
	return t, ok
}

// Program returns the IR program this checker was built from.
func (c *Checker) Program() *ir.Program { return c.prog }

// Instantiate copies term with every distinct FixedTypeArg/Var replaced
// by its own independent fresh Var, exposed for internal/monomorphize:
// specializing a function to concrete call-site types starts from a
// fresh copy of its checked generalized type, the same way a call site
// within this package does via callSiteScheme.
func (c *Checker) Instantiate(term types.Term) types.Term {
	return c.instantiate(term, nil)
}

// Fresh allocates a new unification variable, exposed for
// internal/monomorphize's call-site unifications.
func (c *Checker) Fresh(constraints ...string) types.Term {
	return c.fresh(constraints...)
}

// NextVarPtr exposes the same fresh-variable counter Fresh/Instantiate
// draw from, so internal/monomorphize can build its own *types.Unifier
// that shares the counter instead of risking id collisions with a
// separately-seeded one.
func (c *Checker) NextVarPtr() *int { return &c.nextVar }

// FuncConstraints returns the declared per-type-argument class
// constraints recorded for a function's scheme (empty/nil if it has
// none), mirroring FuncType.
func (c *Checker) FuncConstraints(fid ir.FuncID) map[string][]string {
	return c.funcConstraints[fid]
}

// Instances exposes the instance index built during Check, so
// monomorphization can select a concrete instance the same way
// resolvePendingConstraints does.
func (c *Checker) Instances() *types.Resolver { return c.instances }

// ClassByName exposes the class table for class-member specialization
// (monomorphizing a ClassFunctionCall needs the class's member list).
func (c *Checker) ClassByName(name string) *ir.Class { return c.classByName[name] }

// TypedefByName exposes the typedef-name index built during Check.
func (c *Checker) TypedefByName(name string) (ir.TypedefID, bool) {
	id, ok := c.typedefByName[name]
	return id, ok
}

func (c *Checker) diag(code errcode.Code, loc location.ID, format string, args ...any) {
	c.diags.Add(errcode.New(code, loc, fmt.Sprintf(format, args...), nil))
}

// fresh allocates a new unification variable, optionally pre-loaded with
// class constraints (e.g. a class member's own type argument always
// carries its defining class as a constraint).
func (c *Checker) fresh(constraints ...string) types.Var {
	v := types.Var{ID: c.nextVar, Constraints: append([]string{}, constraints...)}
	c.nextVar++
	return v
}

// instantiate copies term with every distinct FixedTypeArg name and every
// distinct Var id replaced by its own fresh Var, consistently within one
// call (so `a -> a` instantiates to `t5 -> t5`, never `t5 -> t6`). extra
// attaches a signature's declared class constraints to the fresh var
// standing in for the type argument of that name.
func (c *Checker) instantiate(term types.Term, extra map[string][]string) types.Term {
	seen := map[string]types.Term{}
	var walk func(t types.Term) types.Term
	walk = func(t types.Term) types.Term {
		switch v := t.(type) {
		case types.FixedTypeArg:
			key := "F:" + v.Name
			if bound, ok := seen[key]; ok {
				return bound
			}
			fresh := c.fresh(extra[v.Name]...)
			seen[key] = fresh
			return fresh
		case types.Var:
			key := fmt.Sprintf("V:%d", v.ID)
			if bound, ok := seen[key]; ok {
				return bound
			}
			fresh := c.fresh(v.Constraints...)
			seen[key] = fresh
			return fresh
		case types.Named:
			args := make([]types.Term, len(v.Args))
			for i, a := range v.Args {
				args[i] = walk(a)
			}
			return types.Named{Typedef: v.Typedef, Name: v.Name, Args: args}
		case types.Tuple:
			elems := make([]types.Term, len(v.Elems))
			for i, e := range v.Elems {
				elems[i] = walk(e)
			}
			return types.Tuple{Elems: elems}
		case types.Function:
			return types.Function{From: walk(v.From), To: walk(v.To)}
		default:
			return t
		}
	}
	return walk(term)
}

// constraintsByArg groups a resolved constraint list by the type-argument
// name it constrains, reading off the TypeArgSig every constraint's
// TypeSig is expected to be (spec §3's constraint shape is always a
// bare type-argument reference at the declaring signature).
func (c *Checker) constraintsByArg(cs []ir.Constraint) map[string][]string {
	out := map[string][]string{}
	for _, cst := range cs {
		if arg, ok := c.prog.TypeSig(cst.TypeSig).(ir.TypeArgSig); ok {
			out[arg.Name] = append(out[arg.Name], cst.ClassName)
		}
	}
	return out
}

// collectTypeArgNames walks a resolved TypeSig collecting every distinct
// TypeArgSig name it mentions, in first-seen order. Used to discover an
// instance declaration's own implicit type parameters (e.g. the `a` in
// `instance Eq a => Eq (List a)`), which the resolver never names
// explicitly since ast.Instance carries no type-arg list of its own.
func (c *Checker) collectTypeArgNames(sig ir.TypeSigID) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(ir.TypeSigID)
	walk = func(id ir.TypeSigID) {
		switch t := c.prog.TypeSig(id).(type) {
		case ir.TypeArgSig:
			if !seen[t.Name] {
				seen[t.Name] = true
				out = append(out, t.Name)
			}
		case ir.VariantSig:
			for _, a := range t.Args {
				walk(a)
			}
		case ir.NamedSig:
			for _, a := range t.Args {
				walk(a)
			}
		case ir.TupleSig:
			for _, e := range t.Elems {
				walk(e)
			}
		case ir.FunctionSig:
			walk(t.From)
			walk(t.To)
		}
	}
	walk(sig)
	return out
}

func (c *Checker) builtinTerm(name string) types.Term {
	id, ok := c.typedefByName[name]
	if !ok {
		// A prelude lacking this builtin shouldn't happen in a complete
		// program; degrade to a fresh var rather than panic.
		return c.fresh()
	}
	return types.Named{Typedef: id, Name: name}
}
