package transform

import (
	"github.com/teranos/tscli/codegen"
)

// ArgumentType is the closed set of yargs argument shapes: Primitive,
// ArrayOf and Enum.
type ArgumentType interface {
	// Config returns the type-derived configuration properties.
	Config() []codegen.Prop
	String() string
	argumentType()
}

// Primitive is a scalar yargs type.
type Primitive string

const (
	String  Primitive = "string"
	Number  Primitive = "number"
	Boolean Primitive = "boolean"
)

func (p Primitive) Config() []codegen.Prop {
	return []codegen.Prop{{Key: "type", Value: codegen.Str(string(p))}}
}

func (p Primitive) String() string { return string(p) }
func (Primitive) argumentType()    {}

// ArrayOf is a repeatable argument of a primitive type.
type ArrayOf struct {
	Elem Primitive
}

func (a ArrayOf) Config() []codegen.Prop {
	return []codegen.Prop{
		{Key: "type", Value: codegen.Str(string(a.Elem))},
		{Key: "array", Value: &codegen.Bool{Value: true}},
	}
}

func (a ArrayOf) String() string { return string(a.Elem) + "[]" }
func (ArrayOf) argumentType()    {}

// Enum restricts the argument to the members of a string enum. Choices
// are written as member accesses on the imported enum.
type Enum struct {
	Ref     Reference
	Members []string
	Values  []string
}

func (e Enum) Config() []codegen.Prop {
	choices := &codegen.Array{}
	for _, m := range e.Members {
		choices.Elems = append(choices.Elems, codegen.Sel(codegen.Id(e.Ref.Name), m))
	}
	return []codegen.Prop{{Key: "choices", Value: choices}}
}

func (e Enum) String() string { return "enum " + e.Ref.Name }
func (Enum) argumentType()    {}
