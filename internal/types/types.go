// Package types implements the type checker's term representation:
// substitution-based Hindley-Milner terms, a unifier with occurs-check,
// and a base-type-head instance resolver (spec §4.4). Unlike
// internal/ir's TypeSig (the canonicalized source-level signature), a
// Term is the checker's working representation — fresh each time a
// polymorphic signature is instantiated, mutated only through
// Substitution.
package types

import (
	"fmt"
	"strings"

	"github.com/sunholo/complang/internal/ir"
)

// Term is the type checker's term sum type.
type Term interface {
	typeTerm()
	String() string
}

// Var is a unification variable, annotated with the class names it
// must be an instance of once resolved.
type Var struct {
	ID          int
	Constraints []string
}

// FixedTypeArg is a rigid type variable bound by an enclosing
// signature's own declared type argument list (the `a` in
// `id :: a -> a`): it never unifies with a concrete type or with a
// different rigid argument — otherwise a polymorphic signature would get
// silently specialized by whatever its first call site happens to be. An
// unbound Var may still be bound to it.
type FixedTypeArg struct{ Name string }

// Named is a concrete nominal type: a typedef applied to zero or more
// argument terms.
type Named struct {
	Typedef ir.TypedefID
	Name    string // kept for error messages; Typedef is authoritative
	Args    []Term
}

type Tuple struct{ Elems []Term }

type Function struct{ From, To Term }

func (Var) typeTerm()          {}
func (FixedTypeArg) typeTerm() {}
func (Named) typeTerm()        {}
func (Tuple) typeTerm()        {}
func (Function) typeTerm()     {}

func (t Var) String() string {
	cs := ""
	if len(t.Constraints) > 0 {
		cs = "(" + strings.Join(t.Constraints, ", ") + ") => "
	}
	return fmt.Sprintf("%sv%d", cs, t.ID)
}

func (t FixedTypeArg) String() string { return t.Name }

func (t Named) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + " " + strings.Join(parts, " ")
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t Function) String() string {
	return fmt.Sprintf("%s -> %s", t.From.String(), t.To.String())
}

// BaseType is the coarse head a term unifies under for instance
// lookup purposes: two terms with the same BaseType are candidates for
// the same instance regardless of their argument terms (grounded on
// siko_type_checker2::instance_resolver's BaseType-keyed instance map).
type BaseType struct {
	IsVar   bool
	Typedef ir.TypedefID
	IsTuple bool
	Arity   int
	IsFunc  bool
}

func (b BaseType) key() string {
	switch {
	case b.IsVar:
		return "var"
	case b.IsTuple:
		return fmt.Sprintf("tuple/%d", b.Arity)
	case b.IsFunc:
		return "func"
	default:
		return fmt.Sprintf("named/%d", b.Typedef)
	}
}

func GetBaseType(t Term) BaseType {
	switch v := t.(type) {
	case Var, FixedTypeArg:
		return BaseType{IsVar: true}
	case Named:
		return BaseType{Typedef: v.Typedef}
	case Tuple:
		return BaseType{IsTuple: true, Arity: len(v.Elems)}
	case Function:
		return BaseType{IsFunc: true}
	default:
		return BaseType{}
	}
}
