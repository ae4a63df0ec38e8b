package ast

import "github.com/sunholo/complang/internal/location"

// Module is a parsed module: its name, export list, imports, and the ids
// of every item it declares directly (functions, ADTs, records, classes,
// instances). Member functions of classes/instances are also registered
// in Functions but are additionally reachable via their owning Class or
// Instance.
type Module struct {
	ID      ModuleID
	Name    string
	Loc     location.ID
	Exports []ExportItem
	Imports []*Import

	Functions []FuncID
	ADTs      []ADTID
	Records   []RecordID
	Classes   []ClassID
	Instances []InstanceID
}

// ExportItem is one entry of an export list: either bare (Members == nil,
// implicit-all for that item) or restricted to a sub-list of members
// (record fields / class methods / data constructors).
type ExportItem struct {
	Name    string
	Members *MemberSublist
	Loc     location.ID
}

// MemberSublist is either every member (`..`) or a specific name list.
type MemberSublist struct {
	All   bool
	Names []string
}

// Import is one `import` declaration. It is either a hiding-list import
// (import everything from Module except Hiding) or an explicit-list
// import (only Items, each with an optional local rename).
type Import struct {
	Loc      location.ID
	Module   string
	As       string // alias for the whole module ("" if none)
	IsHiding bool
	Hiding   []string
	Items    []ImportItem
}

// ImportItem is one name in an explicit import list, with an optional
// `as` rename and an optional member sub-list (for importing specific
// variants/fields of a data type).
type ImportItem struct {
	Name    string
	As      string
	Members *MemberSublist
	Loc     location.ID
}

// ADT is an algebraic data type declaration: a name, its type parameters,
// and its variants.
type ADT struct {
	ID       ADTID
	Name     string
	Loc      location.ID
	TypeArgs []string
	Variants []Variant
}

// Variant is one constructor of an ADT. Sig is a Function-shaped
// TypeSignature chaining the variant's field types to the ADT's own type
// (built by the parser from the declared field list), matching how the
// type checker seeds constructor function types (component G, Step 1).
type Variant struct {
	Name string
	Loc  location.ID
	Sig  TypeSigID
}

// Record is a record type declaration: a name, its type parameters, its
// fields, and whether it is `external` (foreign-defined, body-less).
type Record struct {
	ID       RecordID
	Name     string
	Loc      location.ID
	TypeArgs []string
	Fields   []Field
	External bool
}

// Field is one record field.
type Field struct {
	Name string
	Loc  location.ID
	Sig  TypeSigID
}

// Constraint is a class-name/type pair, either a class's super-class
// requirement or an instance's own super-class obligation.
type Constraint struct {
	ClassName string
	TypeSig   TypeSigID
	Loc       location.ID
}

// Class declares a type class over one type argument, with an optional
// set of super-class constraints and a parallel list of member function
// ids / member declared types.
type Class struct {
	ID           ClassID
	Name         string
	Loc          location.ID
	TypeArg      string
	SuperClasses []Constraint
	Members      []FuncID
	MemberTypes  []TypeSigID
}

// Instance implements a class for one concrete (possibly still generic)
// type signature, with its own super-class obligations discharged and a
// member function per class member.
type Instance struct {
	ID               InstanceID
	Loc              location.ID
	ClassName        string
	TypeSig          TypeSigID
	SuperConstraints []Constraint
	Members          []FuncID
}

// Arg is one function parameter: a name and the location it was bound at
// (used both for diagnostics and as the resolver's capture-naming anchor).
type Arg struct {
	Name string
	Loc  location.ID
}

// Signature is a function's optional declared type: its own type
// parameters, any class constraints on them, and the type itself.
type Signature struct {
	TypeArgs    []string
	Constraints []Constraint
	Sig         TypeSigID
}

// Function is a named function: its parameters, and either a body
// expression or an Extern marker (no body — implemented outside the
// language, e.g. builtin arithmetic). Class and instance members are also
// represented as Function, distinguished from free functions only by
// appearing in a Class.Members / Instance.Members list.
type Function struct {
	ID        FuncID
	Name      string
	Loc       location.ID
	Args      []Arg
	Body      ExprID // NoExpr when Extern
	Extern    bool
	Signature *Signature // nil when undeclared
}
