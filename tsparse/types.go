package tsparse

import "strings"

// Type is a parsed type annotation. Text is the annotation's source text.
type Type interface {
	Text() string
	Span() Range
}

type typeBase struct {
	text string
	rng  Range
}

func (t *typeBase) Text() string { return t.text }
func (t *typeBase) Span() Range  { return t.rng }

// KeywordType is a built-in type keyword: string, number, boolean, any,
// unknown, void, undefined, null, never, object, bigint, symbol.
type KeywordType struct {
	typeBase
	Keyword string
}

// RefType is a (possibly qualified) type reference with optional arguments.
type RefType struct {
	typeBase
	Name []string
	Args []Type
}

// QualifiedName joins the reference's name parts with dots.
func (r *RefType) QualifiedName() string {
	return strings.Join(r.Name, ".")
}

// ArrayType is T[] or readonly T[].
type ArrayType struct {
	typeBase
	Elem     Type
	Readonly bool
}

// UnionType is A | B.
type UnionType struct {
	typeBase
	Types []Type
}

// IntersectionType is A & B.
type IntersectionType struct {
	typeBase
	Types []Type
}

// LiteralKind classifies literal types.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBoolean
	LiteralTemplate
)

// LiteralType is a literal used as a type: "a", 1, -1, true, `x${y}`.
type LiteralType struct {
	typeBase
	Kind  LiteralKind
	Value string
}

// ObjectType is an object type literal { a: T; b(): U }.
type ObjectType struct {
	typeBase
	Members []*Member
}

// TupleType is [A, B].
type TupleType struct {
	typeBase
	Elems []Type
}

// FuncType is (a: A) => R or new (a: A) => R.
type FuncType struct {
	typeBase
	Params []*Param
	Result Type
}

// ParenType is (T).
type ParenType struct {
	typeBase
	Inner Type
}

// OpaqueType is any type form the generator never needs to look inside:
// typeof, keyof, indexed access, conditional and mapped types.
type OpaqueType struct {
	typeBase
}
