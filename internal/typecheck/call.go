package typecheck

import (
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/location"
	"github.com/sunholo/complang/internal/types"
)

// inferCall applies fnTerm to each argument expression in turn, peeling
// one Function layer per argument — this naturally supports partial
// application, since any leftover Function layers are simply returned as
// the call's result type.
func (c *Checker) inferCall(u *types.Unifier, env map[string]types.Term, loc location.ID, fnTerm types.Term, args []ir.ExprID) types.Term {
	cur := fnTerm
	for _, a := range args {
		argTerm := c.inferExpr(u, env, a)
		next, err := c.peelArg(u, cur, argTerm)
		if err != nil {
			c.diag(errcode.TycFunctionArgumentMismatch, loc, "%s", err)
			return c.fresh()
		}
		cur = next
	}
	return cur
}

// peelArg unifies fn against a Function type (conjuring one via fresh
// vars if fn is not yet known to be one) and returns the result type
// after the argument is consumed.
func (c *Checker) peelArg(u *types.Unifier, fn types.Term, arg types.Term) (types.Term, error) {
	if f, ok := fn.(types.Function); ok {
		if err := u.Unify(f.From, arg); err != nil {
			return nil, err
		}
		return f.To, nil
	}
	from, to := c.fresh(), c.fresh()
	if err := u.Unify(fn, types.Function{From: from, To: to}); err != nil {
		return nil, err
	}
	if err := u.Unify(from, arg); err != nil {
		return nil, err
	}
	return to, nil
}

func (c *Checker) inferClassCall(u *types.Unifier, env map[string]types.Term, loc location.ID, e ir.ClassFunctionCall) types.Term {
	cls := c.classByName[e.ClassName]
	if cls == nil {
		c.diag(errcode.TycMissingInstance, loc, "unknown class %q", e.ClassName)
		return c.fresh()
	}
	idx := -1
	for i, m := range cls.Members {
		if m == e.Member {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.diag(errcode.TycMissingInstance, loc, "class %q has no member %q", e.ClassName, e.Member)
		return c.fresh()
	}
	recv := c.fresh(e.ClassName)
	memberTerm := c.typeSigToTerm(cls.MemberTypes[idx], map[string]types.Term{cls.TypeArg: recv})
	return c.inferCall(u, env, loc, memberTerm, e.Args)
}

func (c *Checker) inferLambda(u *types.Unifier, env map[string]types.Term, e ir.Lambda) types.Term {
	if cached, ok := c.lambdaTerm[e.Host]; ok {
		return cached
	}
	host := c.prog.Functions[e.Host]

	lamEnv := map[string]types.Term{}
	for _, name := range host.Captures {
		if t, ok := env[name]; ok {
			lamEnv[name] = t
		} else {
			lamEnv[name] = c.fresh()
		}
	}
	paramTypes := make([]types.Term, host.Arity)
	for i := range paramTypes {
		paramTypes[i] = c.fresh()
	}
	for i, p := range host.Params {
		lamEnv[p] = paramTypes[i]
	}

	bodyTerm := c.inferExpr(u, lamEnv, host.Body)
	term := bodyTerm
	for i := len(paramTypes) - 1; i >= 0; i-- {
		term = types.Function{From: paramTypes[i], To: term}
	}
	c.lambdaTerm[e.Host] = term
	c.funcTerm[e.Host] = term
	return term
}

func (c *Checker) inferBuiltinOp(u *types.Unifier, env map[string]types.Term, loc location.ID, e ir.BuiltinOp) types.Term {
	if boolOps[e.Op] {
		boolT := c.builtinTerm("Bool")
		for _, a := range e.Args {
			t := c.inferExpr(u, env, a)
			if err := u.Unify(t, boolT); err != nil {
				c.diag(errcode.TycTypeMismatch, loc, "operator %s expects Bool: %s", e.Op, err)
			}
		}
		return boolT
	}
	info, ok := classForOp[e.Op]
	if !ok {
		for _, a := range e.Args {
			c.inferExpr(u, env, a)
		}
		return c.fresh()
	}
	recv := c.fresh(info.class)
	for _, a := range e.Args {
		t := c.inferExpr(u, env, a)
		if err := u.Unify(recv, t); err != nil {
			c.diag(errcode.TycTypeMismatch, loc, "operator %s: %s", e.Op, err)
		}
	}
	if info.fixedBool {
		return c.builtinTerm("Bool")
	}
	return recv
}

func (c *Checker) inferIf(u *types.Unifier, env map[string]types.Term, loc location.ID, e ir.If) types.Term {
	cond := c.inferExpr(u, env, e.Cond)
	if err := u.Unify(cond, c.builtinTerm("Bool")); err != nil {
		c.diag(errcode.TycTypeMismatch, loc, "if condition must be Bool: %s", err)
	}
	then := c.inferExpr(u, env, e.Then)
	els := c.inferExpr(u, env, e.Else)
	if err := u.Unify(then, els); err != nil {
		c.diag(errcode.TycTypeMismatch, loc, "if branches disagree: %s", err)
	}
	return then
}

func (c *Checker) inferFieldAccess(u *types.Unifier, env map[string]types.Term, loc location.ID, e ir.FieldAccess) types.Term {
	recv := c.inferExpr(u, env, e.Receiver)
	td := c.prog.Typedefs[e.Typedef]
	argVars := make([]types.Term, len(td.TypeArgs))
	for i := range argVars {
		argVars[i] = c.fresh()
	}
	expected := types.Named{Typedef: e.Typedef, Name: td.Name, Args: argVars}
	if err := u.Unify(recv, expected); err != nil {
		c.diag(errcode.TycAmbiguousFieldAccess, loc, "field %q: %s", e.Field, err)
	}
	argMap := map[string]types.Term{}
	for i, a := range td.TypeArgs {
		argMap[a] = argVars[i]
	}
	return c.typeSigToTerm(td.Fields[e.Index].Sig, argMap)
}

func (c *Checker) inferCaseOf(u *types.Unifier, env map[string]types.Term, loc location.ID, e ir.CaseOfExpr) types.Term {
	scrut := c.inferExpr(u, env, e.Scrutinee)
	result := c.fresh()
	for _, alt := range e.Cases {
		altEnv := cloneEnv(env)
		pat := c.inferPattern(u, altEnv, alt.Pattern)
		if err := u.Unify(pat, scrut); err != nil {
			c.diag(errcode.TycInvalidVariantPattern, loc, "case pattern does not match scrutinee: %s", err)
		}
		if alt.Guard != ir.NoExpr {
			guard := c.inferExpr(u, altEnv, alt.Guard)
			if err := u.Unify(guard, c.builtinTerm("Bool")); err != nil {
				c.diag(errcode.TycTypeMismatch, loc, "guard must be Bool: %s", err)
			}
		}
		body := c.inferExpr(u, altEnv, alt.Body)
		if err := u.Unify(body, result); err != nil {
			c.diag(errcode.TycTypeMismatch, loc, "case arms disagree: %s", err)
		}
	}
	c.checkExhaustiveness(u, scrut, e.Cases, loc)
	return result
}

func (c *Checker) inferRecordInit(u *types.Unifier, env map[string]types.Term, loc location.ID, e ir.RecordInitExpr) types.Term {
	td := c.prog.Typedefs[e.Typedef]
	argVars := make([]types.Term, len(td.TypeArgs))
	for i := range argVars {
		argVars[i] = c.fresh()
	}
	argMap := map[string]types.Term{}
	for i, a := range td.TypeArgs {
		argMap[a] = argVars[i]
	}
	for _, f := range e.Fields {
		expected := c.typeSigToTerm(td.Fields[f.Index].Sig, argMap)
		actual := c.inferExpr(u, env, f.Value)
		if err := u.Unify(expected, actual); err != nil {
			c.diag(errcode.TycTypeMismatch, loc, "field %q: %s", f.Name, err)
		}
	}
	return types.Named{Typedef: e.Typedef, Name: td.Name, Args: argVars}
}

func (c *Checker) inferRecordUpdate(u *types.Unifier, env map[string]types.Term, loc location.ID, e ir.RecordUpdateExpr) types.Term {
	td := c.prog.Typedefs[e.Typedef]
	argVars := make([]types.Term, len(td.TypeArgs))
	for i := range argVars {
		argVars[i] = c.fresh()
	}
	argMap := map[string]types.Term{}
	for i, a := range td.TypeArgs {
		argMap[a] = argVars[i]
	}
	result := types.Named{Typedef: e.Typedef, Name: td.Name, Args: argVars}
	target := c.inferExpr(u, env, e.Target)
	if err := u.Unify(target, result); err != nil {
		c.diag(errcode.TycTypeMismatch, loc, "record update target: %s", err)
	}
	for _, f := range e.Fields {
		expected := c.typeSigToTerm(td.Fields[f.Index].Sig, argMap)
		actual := c.inferExpr(u, env, f.Value)
		if err := u.Unify(expected, actual); err != nil {
			c.diag(errcode.TycTypeMismatch, loc, "field %q: %s", f.Name, err)
		}
	}
	return result
}
