// Package ast holds the parser's output: modules, declarations, expressions,
// patterns and type signatures, each carrying a LocationID into a shared
// location.Table. Expression, pattern and type-signature nodes reference
// their children by dense id rather than by pointer — a Store is the arena
// each id resolves against — so the shape matches the identifier model laid
// out for every other compiler stage: opaque handles into per-kind tables,
// never pointers crossing stage boundaries.
package ast

import "github.com/sunholo/complang/internal/location"

// ModuleID, FuncID, etc. are dense per-kind identifiers assigned by the
// parser as it builds a Store. They are opaque: never compare across kinds.
type (
	ModuleID   int32
	FuncID     int32
	ADTID      int32
	RecordID   int32
	ClassID    int32
	InstanceID int32
	ExprID     int32
	PatternID  int32
	TypeSigID  int32
)

// NoExpr, NoPattern and NoTypeSig mark an absent optional child (e.g. a
// case alternative with no guard, a function with no declared signature).
const (
	NoExpr     ExprID    = -1
	NoPattern  PatternID = -1
	NoTypeSig  TypeSigID = -1
)

// Expr is the interface every expression node satisfies. The marker method
// keeps the sum type closed to this package.
type Expr interface {
	exprNode()
}

// Pattern is the interface every pattern node satisfies.
type Pattern interface {
	patternNode()
}

// TypeSig is the interface every type-signature node satisfies.
type TypeSig interface {
	typeSigNode()
}

// Store is the arena that owns every item a Program's AST stage produces.
// Top-level items (modules, functions, data declarations, classes,
// instances) are stored by pointer since they are referenced by id from a
// handful of places and never duplicated; expressions, patterns and type
// signatures are stored by value-or-interface slice so that ExprID/
// PatternID/TypeSigID are true dense arena indices.
type Store struct {
	Locs *location.Table

	Modules   []*Module
	Functions []*Function
	ADTs      []*ADT
	Records   []*Record
	Classes   []*Class
	Instances []*Instance

	Exprs    []Expr
	ExprLocs []location.ID

	Patterns    []Pattern
	PatternLocs []location.ID

	TypeSigs    []TypeSig
	TypeSigLocs []location.ID
}

// NewStore creates an empty Store backed by the given shared location
// table (see internal/program, which owns the table for the whole
// pipeline).
func NewStore(locs *location.Table) *Store {
	return &Store{Locs: locs}
}

func (s *Store) AddModule(m *Module) ModuleID {
	m.ID = ModuleID(len(s.Modules))
	s.Modules = append(s.Modules, m)
	return m.ID
}

func (s *Store) AddFunction(f *Function) FuncID {
	f.ID = FuncID(len(s.Functions))
	s.Functions = append(s.Functions, f)
	return f.ID
}

func (s *Store) AddADT(d *ADT) ADTID {
	d.ID = ADTID(len(s.ADTs))
	s.ADTs = append(s.ADTs, d)
	return d.ID
}

func (s *Store) AddRecord(r *Record) RecordID {
	r.ID = RecordID(len(s.Records))
	s.Records = append(s.Records, r)
	return r.ID
}

func (s *Store) AddClass(c *Class) ClassID {
	c.ID = ClassID(len(s.Classes))
	s.Classes = append(s.Classes, c)
	return c.ID
}

func (s *Store) AddInstance(inst *Instance) InstanceID {
	inst.ID = InstanceID(len(s.Instances))
	s.Instances = append(s.Instances, inst)
	return inst.ID
}

// AddExpr interns an expression node and returns its dense id.
func (s *Store) AddExpr(loc location.ID, e Expr) ExprID {
	id := ExprID(len(s.Exprs))
	s.Exprs = append(s.Exprs, e)
	s.ExprLocs = append(s.ExprLocs, loc)
	return id
}

// Expr resolves an ExprID to its node. Panics on NoExpr or an id this store
// never issued — every id referenced anywhere must resolve.
func (s *Store) Expr(id ExprID) Expr { return s.Exprs[id] }

// ExprLoc resolves an ExprID to its LocationID.
func (s *Store) ExprLoc(id ExprID) location.ID { return s.ExprLocs[id] }

// AddPattern interns a pattern node and returns its dense id.
func (s *Store) AddPattern(loc location.ID, p Pattern) PatternID {
	id := PatternID(len(s.Patterns))
	s.Patterns = append(s.Patterns, p)
	s.PatternLocs = append(s.PatternLocs, loc)
	return id
}

func (s *Store) Pattern(id PatternID) Pattern { return s.Patterns[id] }

func (s *Store) PatternLoc(id PatternID) location.ID { return s.PatternLocs[id] }

// AddTypeSig interns a type-signature node and returns its dense id.
func (s *Store) AddTypeSig(loc location.ID, t TypeSig) TypeSigID {
	id := TypeSigID(len(s.TypeSigs))
	s.TypeSigs = append(s.TypeSigs, t)
	s.TypeSigLocs = append(s.TypeSigLocs, loc)
	return id
}

func (s *Store) TypeSig(id TypeSigID) TypeSig { return s.TypeSigs[id] }

func (s *Store) TypeSigLoc(id TypeSigID) location.ID { return s.TypeSigLocs[id] }
