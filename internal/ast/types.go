package ast

// NothingSig marks an absent type annotation (e.g. an untyped function
// argument); distinct from TypeSigID's own NoTypeSig sentinel, which marks
// "no child slot at all" rather than "the source wrote nothing here".
type NothingSig struct{}

func (NothingSig) typeSigNode() {}

// TypeArgSig references a bound type parameter by name (e.g. the `a` in
// `data List a = ...`).
type TypeArgSig struct {
	Name string
}

func (TypeArgSig) typeSigNode() {}

// VariantSig references a type by name applied to arguments, in a
// position the parser already knows denotes a sum-type's own variant
// result (the implicit return type it synthesizes at the end of a
// variant's field-chain, e.g. the `List a` at the end of `Cons :: a ->
// List a -> List a`). NamedSig covers every other named-type reference;
// the resolver canonicalizes both to the same IR form once the name is
// known to denote a typedef (component D/IR, "Type signatures
// canonicalize to internal forms with typedef-ids replacing names").
type VariantSig struct {
	Name string
	Args []TypeSigID
}

func (VariantSig) typeSigNode() {}

// NamedSig references a named type (builtin or user ADT/record) applied
// to arguments.
type NamedSig struct {
	Name string
	Args []TypeSigID
}

func (NamedSig) typeSigNode() {}

// TupleSig is a tuple type.
type TupleSig struct {
	Elems []TypeSigID
}

func (TupleSig) typeSigNode() {}

// FunctionSig is an arrow type `From -> To`.
type FunctionSig struct {
	From TypeSigID
	To   TypeSigID
}

func (FunctionSig) typeSigNode() {}

// WildcardSig is `_` in type position: "infer this", distinct from
// NothingSig ("nothing was written").
type WildcardSig struct{}

func (WildcardSig) typeSigNode() {}
