package typecheck

import (
	"strings"

	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/ir"
	"github.com/sunholo/complang/internal/types"
)

// classForOp maps a builtin operator to the type class its operand type
// must belong to, and whether its result is fixed to Bool. Equality and
// ordering operators fix their result to Bool; arithmetic ones return the
// operand type itself (spec §4.5, "BuiltinOp").
type opInfo struct {
	class     string
	fixedBool bool
}

var classForOp = map[string]opInfo{
	"+": {class: "Num"}, "-": {class: "Num"}, "*": {class: "Num"}, "/": {class: "Num"},
	"==": {class: "Eq", fixedBool: true}, "!=": {class: "Eq", fixedBool: true},
	"<": {class: "Ord", fixedBool: true}, "<=": {class: "Ord", fixedBool: true},
	">": {class: "Ord", fixedBool: true}, ">=": {class: "Ord", fixedBool: true},
}

var boolOps = map[string]bool{"&&": true, "||": true, "!": true}

// inferExpr infers an expression's type, threading a single Unifier (so
// every constraint generated while checking one function's body shares
// one substitution) and an environment of locally-bound names. The result
// is recorded into exprTypes; recordResolvedTypes later re-applies the
// body's final substitution so the stored type is concrete rather than a
// snapshot mid-unification.
func (c *Checker) inferExpr(u *types.Unifier, env map[string]types.Term, id ir.ExprID) types.Term {
	t := c.inferExprKind(u, env, id)
	c.exprTypes[id] = t
	return t
}

func (c *Checker) inferExprKind(u *types.Unifier, env map[string]types.Term, id ir.ExprID) types.Term {
	loc := c.prog.ExprLoc(id)
	switch e := c.prog.Expr(id).(type) {
	case ir.IntLit:
		return c.builtinTerm("Int")
	case ir.FloatLit:
		return c.builtinTerm("Float")
	case ir.BoolLit:
		return c.builtinTerm("Bool")
	case ir.StringLit:
		return c.builtinTerm("String")
	case ir.LocalRef:
		if t, ok := env[e.Name]; ok {
			return t
		}
		c.diag(errcode.TycTypeAnnotationNeeded, loc, "unresolved local %q", e.Name)
		return c.fresh()
	case ir.StaticFunctionCall:
		return c.inferCall(u, env, loc, c.callSiteScheme(e.Fn), e.Args)
	case ir.DynamicFunctionCall:
		fnTerm := c.inferExpr(u, env, e.Fn)
		return c.inferCall(u, env, loc, fnTerm, e.Args)
	case ir.ClassFunctionCall:
		return c.inferClassCall(u, env, loc, e)
	case ir.Lambda:
		return c.inferLambda(u, env, e)
	case ir.BuiltinOp:
		return c.inferBuiltinOp(u, env, loc, e)
	case ir.If:
		return c.inferIf(u, env, loc, e)
	case ir.TupleExpr:
		elems := make([]types.Term, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = c.inferExpr(u, env, el)
		}
		return types.Tuple{Elems: elems}
	case ir.ListExpr:
		elem := c.fresh()
		for _, el := range e.Elems {
			t := c.inferExpr(u, env, el)
			if err := u.Unify(elem, t); err != nil {
				c.diag(errcode.TycTypeMismatch, loc, "list elements disagree: %s", err)
			}
		}
		return c.listOf(elem)
	case ir.DoExpr:
		child := cloneEnv(env)
		result := types.Term(types.Tuple{})
		for _, s := range e.Stmts {
			result = c.inferExpr(u, child, s)
		}
		return result
	case ir.BindExpr:
		rhs := c.inferExpr(u, env, e.Rhs)
		pat := c.inferPattern(u, env, e.Pattern)
		if err := u.Unify(pat, rhs); err != nil {
			c.diag(errcode.TycTypeMismatch, loc, "bind pattern does not match its value: %s", err)
		}
		return rhs
	case ir.FieldAccess:
		return c.inferFieldAccess(u, env, loc, e)
	case ir.TupleFieldAccess:
		recv := u.Sub.Apply(c.inferExpr(u, env, e.Receiver))
		if tup, ok := recv.(types.Tuple); ok && e.Index < len(tup.Elems) {
			return tup.Elems[e.Index]
		}
		return c.fresh()
	case ir.FormatterExpr:
		expected := strings.Count(e.Format, "{}")
		if expected != len(e.Args) {
			c.diag(errcode.TycInvalidFormatString, loc, "formatter expects %d argument(s), got %d", expected, len(e.Args))
		}
		for _, a := range e.Args {
			t := c.inferExpr(u, env, a)
			c.requireInstance(u, t, "Show")
		}
		return c.builtinTerm("String")
	case ir.CaseOfExpr:
		return c.inferCaseOf(u, env, loc, e)
	case ir.RecordInitExpr:
		return c.inferRecordInit(u, env, loc, e)
	case ir.RecordUpdateExpr:
		return c.inferRecordUpdate(u, env, loc, e)
	default:
		return c.fresh()
	}
}

func (c *Checker) listOf(elem types.Term) types.Term {
	id, ok := c.typedefByName["List"]
	if !ok {
		return c.fresh()
	}
	return types.Named{Typedef: id, Name: "List", Args: []types.Term{elem}}
}
