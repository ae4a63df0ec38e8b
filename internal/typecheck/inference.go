package typecheck

import (
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/types"
)

// Check runs the whole type-checking pass over a resolved program: it
// registers constructor and instance types, discovers mutual-recursion
// groups, infers every named function's body group by group in
// dependency order, and finally confirms an entry point exists (spec
// §4.5, §6 "TycMainNotFound").
func Check(prog *ir.Program) (*Checker, *errcode.Batch) {
	c := NewChecker(prog)
	c.registerConstructors()
	c.registerInstances()

	g := buildCallGraph(prog)
	for _, group := range g.sccs() {
		c.checkGroup(group)
	}

	c.checkEntryPoint()
	return c, &c.diags
}

func (c *Checker) checkEntryPoint() {
	for _, fn := range c.prog.Functions {
		if fn.Kind == ir.KindNamed && fn.Name == "main" {
			return
		}
	}
	c.diags.Add(errcode.New(errcode.TycMainNotFound, 0, "no top-level function named main", nil))
}

// schemeFor returns a function's generalized type, materializing it on
// first use: a declared signature lowers straight to a rigid term;
// an undeclared one gets a fresh placeholder chain that checkGroup later
// fills in by inferring the body. Constructors and instance members are
// already materialized by registerConstructors/registerInstances.
func (c *Checker) schemeFor(fid ir.FuncID) (types.Term, map[string][]string) {
	if t, ok := c.funcTerm[fid]; ok {
		return t, c.funcConstraints[fid]
	}
	fn := c.prog.Functions[fid]
	if fn.Signature != nil {
		argMap := rigidArgMap(fn.Signature.TypeArgs)
		t := c.typeSigToTerm(fn.Signature.Sig, argMap)
		cons := c.constraintsByArg(fn.Signature.Constraints)
		c.funcTerm[fid] = t
		c.funcConstraints[fid] = cons
		return t, cons
	}
	params := make([]types.Term, fn.Arity)
	for i := range params {
		params[i] = c.fresh()
	}
	ret := c.fresh()
	term := types.Term(ret)
	for i := len(params) - 1; i >= 0; i-- {
		term = types.Function{From: params[i], To: term}
	}
	c.funcTerm[fid] = term
	return term, nil
}

// callSiteScheme is what inferExpr uses at every reference to a named
// function: a finalized function (already body-checked) instantiates
// fresh per use, a function still being checked in the current group is
// used as-is so recursive/mutual calls stay monomorphic within the
// group, matching the standard treatment of letrec-bound functions.
func (c *Checker) callSiteScheme(fid ir.FuncID) types.Term {
	term, cons := c.schemeFor(fid)
	if c.finalized[fid] {
		return c.instantiate(term, cons)
	}
	return term
}

func (c *Checker) checkGroup(fids []ir.FuncID) {
	for _, fid := range fids {
		if c.prog.Functions[fid].Kind == ir.KindNamed {
			c.schemeFor(fid)
		}
	}
	for _, fid := range fids {
		fn := c.prog.Functions[fid]
		if fn.Kind != ir.KindNamed || fn.Extern || fn.Body == ir.NoExpr {
			continue
		}
		c.checkFunctionBody(fid)
	}
	for _, fid := range fids {
		c.finalized[fid] = true
	}
}

func (c *Checker) checkFunctionBody(fid ir.FuncID) {
	fn := c.prog.Functions[fid]
	term := c.funcTerm[fid]
	params, ret := splitFunctionChain(term, fn.Arity)

	env := map[string]types.Term{}
	for i, p := range fn.Params {
		if i < len(params) {
			env[p] = params[i]
		}
	}

	u := types.NewUnifier(&c.nextVar)
	actual := c.inferExpr(u, env, fn.Body)
	if err := u.Unify(actual, ret); err != nil {
		loc := c.prog.ExprLoc(fn.Body)
		if fn.Signature != nil {
			c.diag(errcode.TycFunctionArgAndSignatureMismatch, loc, "%s's body does not match its declared signature: %s", fn.Name, err)
		} else {
			c.diag(errcode.TycTypeMismatch, loc, "%s: %s", fn.Name, err)
		}
	}
	c.resolvePendingConstraints(u)
	c.funcTerm[fid] = u.Sub.Apply(term)
	c.recordResolvedTypes(u)
}

// recordResolvedTypes re-applies one function body's final substitution
// to every recorded expression and pattern type. Type variable ids come
// from one checker-wide counter, so applying it to the whole map is safe
// for types recorded by earlier bodies. Resolution happens once, after
// the body's unifier has reached its final substitution, so downstream
// passes (mir, monomorphize) see concrete types rather than the
// intermediate Vars inferExpr/inferPattern produced along the way.
func (c *Checker) recordResolvedTypes(u *types.Unifier) {
	for eid, t := range c.exprTypes {
		c.exprTypes[eid] = u.Sub.Apply(t)
	}
	for pid, t := range c.patternTypes {
		c.patternTypes[pid] = u.Sub.Apply(t)
	}
}

func splitFunctionChain(term types.Term, arity int) ([]types.Term, types.Term) {
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

// resolvePendingConstraints checks every class constraint a unifier
// accumulated during one function's inference: a constraint whose
// variable resolved to a concrete type must have a matching instance; one
// still carried by an unresolved Var or a rigid FixedTypeArg is left for
// the caller (or the function's own declared constraint list) to satisfy
// (spec §4.5, "pending class constraints").
func (c *Checker) resolvePendingConstraints(u *types.Unifier) {
	for varID, classes := range u.PendingConstraints() {
		resolved := u.Sub.Apply(types.Var{ID: varID})
		switch resolved.(type) {
		case types.Var, types.FixedTypeArg:
			continue
		}
		for _, className := range classes {
			if _, _, ok := c.instances.Lookup(&c.nextVar, className, resolved); !ok {
				c.diags.Add(errcode.New(errcode.TycMissingInstance, 0,
					"no instance "+className+" "+resolved.String(), nil))
			}
		}
	}
}

func (c *Checker) requireInstance(u *types.Unifier, term types.Term, className string) {
	cv := u.Fresh(className)
	if err := u.Unify(cv, term); err != nil {
		c.diags.Add(errcode.New(errcode.TycMissingInstance, 0, "cannot satisfy "+className+": "+err.Error(), nil))
	}
}

func cloneEnv(env map[string]types.Term) map[string]types.Term {
	out := make(map[string]types.Term, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
