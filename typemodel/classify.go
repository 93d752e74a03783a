package typemodel

import (
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/tsparse"
)

// Kind is the closed set of type shapes the generator distinguishes.
type Kind int

const (
	KindUnsupported Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindArray
	KindEnum
	KindEnumMember
	KindStructural
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindEnum:
		return "enum"
	case KindEnumMember:
		return "enum-member"
	case KindStructural:
		return "structural"
	case KindAny:
		return "any"
	default:
		return "unsupported"
	}
}

// TypeInfo is the classification of one type annotation.
type TypeInfo struct {
	Kind       Kind
	Text       string     // annotation source text
	Elem       *TypeInfo  // KindArray
	Enum       *EnumRef   // KindEnum, KindEnumMember
	Member     string     // KindEnumMember
	Structure  *Structure // KindStructural
	Unresolved bool       // KindUnsupported because a name had no declaration
}

// EnumRef points at an enum declaration in its declaring unit.
type EnumRef struct {
	Unit *Unit
	Decl *tsparse.EnumDecl
}

// Structure is an interface-like type: an interface, an alias of an
// object type literal, or an inline literal.
type Structure struct {
	Unit    *Unit
	Decl    tsparse.Decl // nil for inline literals
	Members []StructMember
}

// StructMember is a member together with the unit its type is written in.
type StructMember struct {
	Unit *Unit
	*tsparse.Member
}

const maxAliasDepth = 32

// Classify determines the Kind of typ as written in unit u. A nil typ is
// an untyped parameter and classifies as KindAny.
func Classify(u *Unit, typ tsparse.Type) (TypeInfo, error) {
	return classify(u, typ, 0)
}

func classify(u *Unit, typ tsparse.Type, depth int) (TypeInfo, error) {
	if typ == nil {
		return TypeInfo{Kind: KindAny}, nil
	}
	info := TypeInfo{Kind: KindUnsupported, Text: typ.Text()}
	if depth > maxAliasDepth {
		return info, nil
	}

	switch t := typ.(type) {
	case *tsparse.KeywordType:
		switch t.Keyword {
		case "string":
			info.Kind = KindString
		case "number":
			info.Kind = KindNumber
		case "boolean":
			info.Kind = KindBoolean
		case "any", "unknown":
			info.Kind = KindAny
		}
		return info, nil

	case *tsparse.ParenType:
		inner, err := classify(u, t.Inner, depth+1)
		inner.Text = info.Text
		return inner, err

	case *tsparse.ArrayType:
		elem, err := classify(u, t.Elem, depth+1)
		if err != nil {
			return info, err
		}
		info.Kind = KindArray
		info.Elem = &elem
		return info, nil

	case *tsparse.UnionType:
		return classifyUnion(u, t, depth)

	case *tsparse.IntersectionType:
		structure := &Structure{Unit: u}
		for _, part := range t.Types {
			pi, err := classify(u, part, depth+1)
			if err != nil {
				return info, err
			}
			if pi.Kind != KindStructural {
				return info, nil
			}
			structure.Members = mergeMembers(structure.Members, pi.Structure.Members)
		}
		info.Kind = KindStructural
		info.Structure = structure
		return info, nil

	case *tsparse.ObjectType:
		info.Kind = KindStructural
		info.Structure = &Structure{Unit: u, Members: unitMembers(u, t.Members)}
		return info, nil

	case *tsparse.RefType:
		return classifyRef(u, t, info, depth)
	}
	return info, nil
}

func isNullish(t tsparse.Type) bool {
	kw, ok := t.(*tsparse.KeywordType)
	return ok && (kw.Keyword == "undefined" || kw.Keyword == "null")
}

// classifyUnion strips undefined and null, and treats true|false as boolean.
func classifyUnion(u *Unit, t *tsparse.UnionType, depth int) (TypeInfo, error) {
	info := TypeInfo{Kind: KindUnsupported, Text: t.Text()}
	var rest []tsparse.Type
	for _, part := range t.Types {
		if !isNullish(part) {
			rest = append(rest, part)
		}
	}
	if len(rest) == 1 {
		inner, err := classify(u, rest[0], depth+1)
		inner.Text = info.Text
		return inner, err
	}

	bools := map[string]bool{}
	for _, part := range rest {
		lit, ok := part.(*tsparse.LiteralType)
		if !ok || lit.Kind != tsparse.LiteralBoolean {
			return info, nil
		}
		bools[lit.Value] = true
	}
	if bools["true"] && bools["false"] {
		info.Kind = KindBoolean
	}
	return info, nil
}

func classifyRef(u *Unit, t *tsparse.RefType, info TypeInfo, depth int) (TypeInfo, error) {
	name := t.Name

	if len(name) == 1 && (name[0] == "Array" || name[0] == "ReadonlyArray") && len(t.Args) == 1 {
		elem, err := classify(u, t.Args[0], depth+1)
		if err != nil {
			return info, err
		}
		info.Kind = KindArray
		info.Elem = &elem
		return info, nil
	}

	sym, ok, err := u.Lookup(name[0])
	if err != nil {
		return info, err
	}
	if !ok {
		info.Unresolved = true
		return info, nil
	}

	// Walk qualified names through namespaces
	i := 1
	for ; i < len(name) && sym.Namespace != nil; i++ {
		sym, ok, err = sym.Namespace.ResolveExport(name[i])
		if err != nil {
			return info, err
		}
		if !ok {
			info.Unresolved = true
			return info, nil
		}
	}

	decl := sym.TypeDecl()
	if decl == nil {
		info.Unresolved = true
		return info, nil
	}

	switch d := decl.(type) {
	case *tsparse.EnumDecl:
		ref := &EnumRef{Unit: sym.Unit, Decl: d}
		switch len(name) - i {
		case 0:
			info.Kind = KindEnum
			info.Enum = ref
		case 1:
			member := name[i]
			if !hasEnumMember(d, member) {
				return info, errors.Mark(
					errors.Newf("enum %s has no member %q", d.Name, member),
					errors.ErrUnresolved,
				)
			}
			info.Kind = KindEnumMember
			info.Enum = ref
			info.Member = member
		}
		return info, nil

	case *tsparse.InterfaceDecl:
		if len(name) != i {
			return info, nil
		}
		structure, err := interfaceStructure(sym, depth)
		if err != nil {
			return info, err
		}
		info.Kind = KindStructural
		info.Structure = structure
		return info, nil

	case *tsparse.TypeAliasDecl:
		if len(name) != i {
			return info, nil
		}
		aliased, err := classify(sym.Unit, d.Type, depth+1)
		if err != nil {
			return info, err
		}
		aliased.Text = info.Text
		if aliased.Kind == KindStructural && aliased.Structure.Decl == nil {
			aliased.Structure.Decl = d
		}
		return aliased, nil
	}
	return info, nil
}

func hasEnumMember(d *tsparse.EnumDecl, name string) bool {
	for _, m := range d.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// interfaceStructure merges every declaration of the interface and then
// appends inherited members that are not redeclared.
func interfaceStructure(sym Symbol, depth int) (*Structure, error) {
	structure := &Structure{Unit: sym.Unit, Decl: sym.TypeDecl()}
	var inherited []StructMember
	for _, d := range sym.Decls {
		iface, ok := d.(*tsparse.InterfaceDecl)
		if !ok {
			continue
		}
		structure.Members = mergeMembers(structure.Members, unitMembers(sym.Unit, iface.Members))
		for _, base := range iface.Extends {
			bi, err := classify(sym.Unit, base, depth+1)
			if err != nil {
				return nil, err
			}
			if bi.Kind == KindStructural {
				inherited = mergeMembers(inherited, bi.Structure.Members)
			}
		}
	}
	structure.Members = mergeMembers(structure.Members, inherited)
	return structure, nil
}

func unitMembers(u *Unit, members []*tsparse.Member) []StructMember {
	out := make([]StructMember, 0, len(members))
	for _, m := range members {
		out = append(out, StructMember{Unit: u, Member: m})
	}
	return out
}

// mergeMembers appends members of add whose names are not already present.
// Unnamed signatures are always kept.
func mergeMembers(into, add []StructMember) []StructMember {
	seen := make(map[string]bool, len(into))
	for _, m := range into {
		if m.Kind == tsparse.MemberProperty || m.Kind == tsparse.MemberMethod {
			seen[m.Name] = true
		}
	}
	for _, m := range add {
		if (m.Kind == tsparse.MemberProperty || m.Kind == tsparse.MemberMethod) && seen[m.Name] {
			continue
		}
		into = append(into, m)
	}
	return into
}
