package tsparse

// File is the declaration-level view of one TypeScript source unit.
// Statements that declare nothing the generator can use are skipped.
type File struct {
	Path    string
	Source  string
	Imports []*ImportDecl
	Exports []*ExportDecl
	Decls   []Decl // functions, interfaces, type aliases, enums in source order
}

// Decl is a top-level declaration.
type Decl interface {
	DeclName() string
	Modifiers() *Modifiers
	Docs() []*DocBlock
	Span() Range
}

// Modifiers shared by all declarations.
type Modifiers struct {
	Exported bool // export keyword
	Default  bool // export default
	Declare  bool // ambient declaration
}

type declBase struct {
	Name  string
	Mods  Modifiers
	Doc   []*DocBlock
	Range Range
}

func (d *declBase) DeclName() string      { return d.Name }
func (d *declBase) Modifiers() *Modifiers { return &d.Mods }
func (d *declBase) Docs() []*DocBlock     { return d.Doc }
func (d *declBase) Span() Range           { return d.Range }

// FuncDecl is a function declaration. Overload signatures are folded into
// the implementation that follows them.
type FuncDecl struct {
	declBase
	Params     []*Param
	ReturnType Type
	Async      bool
	Generator  bool
	HasBody    bool
	Overloads  int
}

// Param is a function parameter.
type Param struct {
	Name       string // empty for destructuring patterns
	Pattern    string // raw text of a destructuring pattern
	Type       Type   // nil when untyped
	Optional   bool
	Rest       bool
	HasDefault bool
	Range      Range
}

// InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	declBase
	Extends []Type
	Members []*Member
}

// TypeAliasDecl is a `type X = ...` declaration.
type TypeAliasDecl struct {
	declBase
	Type Type
}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	declBase
	Const   bool
	Members []*EnumMember
}

// EnumValueKind classifies an enum member initializer.
type EnumValueKind int

const (
	EnumValueNone EnumValueKind = iota // auto-incremented
	EnumValueString
	EnumValueNumber
	EnumValueComputed
)

// EnumMember is one member of an enum.
type EnumMember struct {
	Name      string
	ValueKind EnumValueKind
	Value     string // unescaped string or number text
	Raw       string // initializer source text
	Doc       []*DocBlock
	Range     Range
}

// MemberKind classifies an interface or object type member.
type MemberKind int

const (
	MemberProperty MemberKind = iota
	MemberMethod
	MemberIndex
	MemberCall
	MemberConstruct
	MemberComputed
)

// Member is a property, method or signature of an interface or type literal.
type Member struct {
	Kind     MemberKind
	Name     string
	Optional bool
	Readonly bool
	Type     Type // property type, or return type for methods
	Doc      []*DocBlock
	Range    Range
	Text     string
}

// ImportDecl is an import declaration.
type ImportDecl struct {
	Module    string
	TypeOnly  bool
	Default   string // local name of the default import
	Namespace string // local name of `* as ns`
	Named     []ImportSpec
	Range     Range
}

// ImportSpec is one `{ a as b }` element.
type ImportSpec struct {
	Imported string
	Local    string
	TypeOnly bool
}

// ExportDecl covers export statements that do not carry a declaration:
//
//	export { a, b as c }
//	export { a } from "./m"
//	export * from "./m"
//	export * as ns from "./m"
//	export default a
type ExportDecl struct {
	Module string // empty for local exports
	Star   bool
	StarAs string
	Specs  []ExportSpec
	Range  Range
}

// ExportSpec is one `{ local as exported }` element.
type ExportSpec struct {
	Local    string
	Exported string
}

// Functions returns the function declarations in source order.
func (f *File) Functions() []*FuncDecl {
	var out []*FuncDecl
	for _, d := range f.Decls {
		if fn, ok := d.(*FuncDecl); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Lookup returns the declarations named name. Interfaces may merge, so
// more than one can be returned.
func (f *File) Lookup(name string) []Decl {
	var out []Decl
	for _, d := range f.Decls {
		if d.DeclName() == name && name != "" {
			out = append(out, d)
		}
	}
	return out
}

// DefaultDecl returns the declaration carrying `export default`, if any.
func (f *File) DefaultDecl() Decl {
	for _, d := range f.Decls {
		if d.Modifiers().Default {
			return d
		}
	}
	return nil
}
