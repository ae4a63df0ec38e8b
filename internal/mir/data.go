package mir

// TypeDef is a monomorphic typedef: an Adt with its variants' field
// types already concrete, or a Record — either a normal user record, an
// external (builtin) representation, or a closure record synthesized by
// the monomorphizer for a captured higher-order value (spec §6,
// Glossary "Closure record").
type TypeDef struct {
	ID     TypeDefID
	Name   string
	Module string
	Kind   TypeDefKind
}

type TypeDefKind interface{ typeDefKindNode() }

type Adt struct {
	Variants []AdtVariant
}

type AdtVariant struct {
	Name  string
	Items []Type
}

// Record wraps one of the three record representations a monomorphic
// record typedef can take.
type Record struct {
	Kind RecordKind
}

type RecordKind interface{ recordKindNode() }

type NormalRecord struct{ Fields []Field }

type Field struct {
	Name string
	Type Type
}

// ExternalRecord is a builtin representation (Int, Float, String, Map,
// ...) whose storage the interpreter/transpiler supplies directly; the
// monomorphizer never synthesizes a body for it.
type ExternalRecord struct {
	DataKind string
	Args     []Type
}

// ClosureRecord is the record shape backing a first-class function
// value after monomorphization: its fields hold the captured
// environment, and Dispatch is the specialized function the
// DynamicFunctionCall that invokes this closure resolves to (spec §6,
// "higher-order calls remain as DynamicFunctionCall invoking a closure
// record").
type ClosureRecord struct {
	Captures []Field
	Dispatch FuncID
}

func (Adt) typeDefKindNode()    {}
func (Record) typeDefKindNode() {}

func (NormalRecord) recordKindNode()   {}
func (ExternalRecord) recordKindNode() {}
func (ClosureRecord) recordKindNode()  {}
