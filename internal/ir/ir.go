// Package ir holds the name resolver's output: every name reference
// resolved to a concrete id, lambdas lifted to top-level functions, and
// type signatures canonicalized against typedef ids instead of source
// names (spec §3, "IR (resolver output)"). Like internal/ast, expression
// and pattern nodes are stored in a Store arena and referenced by dense
// id, never by pointer, so the type checker can attach types in a side
// table without mutating the IR itself (spec §3, "Lifecycles").
package ir

import "github.com/sunholo/complang/internal/location"

type (
	FuncID     int32
	TypedefID  int32
	ClassID    int32
	InstanceID int32
	ExprID     int32
	PatternID  int32
	TypeSigID  int32
)

const (
	NoExpr    ExprID    = -1
	NoPattern PatternID = -1
	NoTypeSig TypeSigID = -1
)

// FuncKind distinguishes the four shapes a resolved Function can take
// (spec §3, "IR (resolver output)").
type FuncKind int

const (
	KindNamed FuncKind = iota
	KindLambda
	KindVariantConstructor
	KindRecordConstructor
)

// Function is one resolved, globally-id'd function. Which fields are
// meaningful depends on Kind:
//   - KindNamed: Body (NoExpr if extern), Module, Name, Signature.
//   - KindLambda: Body, Host, Captures, Index.
//   - KindVariantConstructor: Typedef, VariantIndex.
//   - KindRecordConstructor: Typedef.
type Function struct {
	ID        FuncID
	Kind      FuncKind
	Module    TypedefID // owning module id, reused as a small int handle
	Name      string
	Arity     int
	Params    []string // parameter names, in order; meaningful for KindNamed/KindLambda
	Body      ExprID
	Extern    bool
	Signature *Signature

	Host         FuncID // KindLambda only
	Captures     []string // free-variable names closed over from Host's scope, in stable order
	Index        int      // stable per-host lambda index
	Typedef      TypedefID // constructors only
	VariantIndex int       // KindVariantConstructor only
}

// Signature is a function's canonical declared type, already lowered to
// TypeSig form with all names resolved.
type Signature struct {
	TypeArgs    []string
	Constraints []Constraint
	Sig         TypeSigID
}

type Constraint struct {
	ClassName string
	TypeSig   TypeSigID
}

// TypedefKind distinguishes an ADT from a record typedef.
type TypedefKind int

const (
	TypedefADT TypedefKind = iota
	TypedefRecord
)

// Typedef unifies ADT and record declarations behind one id space, since
// the instance resolver's base-type-head indexes on typedef id regardless
// of which kind it is (spec §4.4 invariant).
type Typedef struct {
	ID       TypedefID
	Kind     TypedefKind
	Name     string
	TypeArgs []string
	Variants []TypedefVariant // ADT only
	Fields   []TypedefField   // record only
	External bool
}

type TypedefVariant struct {
	Name string
	Sig  TypeSigID // function type from fields to the ADT itself
}

type TypedefField struct {
	Name string
	Sig  TypeSigID
}

// Class is a resolved type class. It lists its members by name, not
// FuncID: a class member has no callable body of its own (spec §4.4) —
// only an Instance provides one, selected by the monomorphizer from
// ClassFunctionCall's (ClassName, Member) pair once the receiver's
// concrete type is known.
type Class struct {
	ID           ClassID
	Name         string
	TypeArg      string
	SuperClasses []Constraint
	Members      []string
	MemberTypes  []TypeSigID
}

// Instance is a resolved instance: which class, for which type, with
// which member function bodies.
type Instance struct {
	ID               InstanceID
	ClassName        string
	TypeSig          TypeSigID
	SuperConstraints []Constraint
	Members          []FuncID
	AutoDerived      bool
}

// Program is the complete resolved IR: every function, typedef, class
// and instance, with every expression/pattern resolved (spec §4.3
// "Output").
type Program struct {
	Locs *location.Table

	Functions []*Function
	Typedefs  []*Typedef
	Classes   []*Class
	Instances []*Instance

	Exprs    []Expr
	ExprLocs []location.ID

	Patterns    []Pattern
	PatternLocs []location.ID

	TypeSigs    []TypeSig
	TypeSigLocs []location.ID
}

func NewProgram(locs *location.Table) *Program {
	return &Program{Locs: locs}
}

func (p *Program) AddFunction(f *Function) FuncID {
	f.ID = FuncID(len(p.Functions))
	p.Functions = append(p.Functions, f)
	return f.ID
}

func (p *Program) AddTypedef(t *Typedef) TypedefID {
	t.ID = TypedefID(len(p.Typedefs))
	p.Typedefs = append(p.Typedefs, t)
	return t.ID
}

func (p *Program) AddClass(c *Class) ClassID {
	c.ID = ClassID(len(p.Classes))
	p.Classes = append(p.Classes, c)
	return c.ID
}

func (p *Program) AddInstance(i *Instance) InstanceID {
	i.ID = InstanceID(len(p.Instances))
	p.Instances = append(p.Instances, i)
	return i.ID
}

func (p *Program) AddExpr(loc location.ID, e Expr) ExprID {
	id := ExprID(len(p.Exprs))
	p.Exprs = append(p.Exprs, e)
	p.ExprLocs = append(p.ExprLocs, loc)
	return id
}

func (p *Program) Expr(id ExprID) Expr            { return p.Exprs[id] }
func (p *Program) ExprLoc(id ExprID) location.ID   { return p.ExprLocs[id] }

func (p *Program) AddPattern(loc location.ID, pat Pattern) PatternID {
	id := PatternID(len(p.Patterns))
	p.Patterns = append(p.Patterns, pat)
	p.PatternLocs = append(p.PatternLocs, loc)
	return id
}

func (p *Program) Pattern(id PatternID) Pattern        { return p.Patterns[id] }
func (p *Program) PatternLoc(id PatternID) location.ID { return p.PatternLocs[id] }

func (p *Program) AddTypeSig(loc location.ID, t TypeSig) TypeSigID {
	id := TypeSigID(len(p.TypeSigs))
	p.TypeSigs = append(p.TypeSigs, t)
	p.TypeSigLocs = append(p.TypeSigLocs, loc)
	return id
}

func (p *Program) TypeSig(id TypeSigID) TypeSig        { return p.TypeSigs[id] }
func (p *Program) TypeSigLoc(id TypeSigID) location.ID { return p.TypeSigLocs[id] }
