package tsparse

var keywordTypes = map[string]bool{
	"string": true, "number": true, "boolean": true, "any": true, "unknown": true,
	"void": true, "undefined": true, "null": true, "never": true, "object": true,
	"bigint": true, "symbol": true,
}

func (p *parser) base(start token) typeBase {
	return typeBase{text: p.text(start), rng: p.span(start)}
}

// parseType parses a full type, including conditional types.
func (p *parser) parseType() (Type, error) {
	start := p.peek()
	t, err := p.parseUnionType()
	if err != nil {
		return nil, err
	}
	if p.isIdent("extends") && !p.peek().nl {
		p.advance()
		if _, err := p.parseUnionType(); err != nil {
			return nil, err
		}
		if _, err := p.expectPunct("?"); err != nil {
			return nil, err
		}
		if _, err := p.parseType(); err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		if _, err := p.parseType(); err != nil {
			return nil, err
		}
		return &OpaqueType{typeBase: p.base(start)}, nil
	}
	return t, nil
}

func (p *parser) parseUnionType() (Type, error) {
	start := p.peek()
	p.eatPunct("|")
	first, err := p.parseIntersectionType()
	if err != nil {
		return nil, err
	}
	if !p.isPunct("|") {
		return first, nil
	}
	types := []Type{first}
	for p.eatPunct("|") {
		t, err := p.parseIntersectionType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return &UnionType{typeBase: p.base(start), Types: types}, nil
}

func (p *parser) parseIntersectionType() (Type, error) {
	start := p.peek()
	p.eatPunct("&")
	first, err := p.parsePostfixType()
	if err != nil {
		return nil, err
	}
	if !p.isPunct("&") {
		return first, nil
	}
	types := []Type{first}
	for p.eatPunct("&") {
		t, err := p.parsePostfixType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return &IntersectionType{typeBase: p.base(start), Types: types}, nil
}

// parsePostfixType handles T[] and indexed access T[K]. A bracket on a
// new line starts the next member instead.
func (p *parser) parsePostfixType() (Type, error) {
	start := p.peek()
	t, err := p.parsePrimaryType()
	if err != nil {
		return nil, err
	}
	for p.isPunct("[") && !p.peek().nl {
		if p.peekAt(1).is(tokPunct, "]") {
			p.advance()
			p.advance()
			t = &ArrayType{typeBase: p.base(start), Elem: t}
			continue
		}
		p.advance()
		if _, err := p.parseType(); err != nil {
			return nil, err
		}
		if _, err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		t = &OpaqueType{typeBase: p.base(start)}
	}
	return t, nil
}

func (p *parser) parsePrimaryType() (Type, error) {
	start := p.peek()
	next := p.peekAt(1)

	switch start.kind {
	case tokString:
		p.advance()
		return &LiteralType{typeBase: p.base(start), Kind: LiteralString, Value: start.value}, nil
	case tokNumber:
		p.advance()
		return &LiteralType{typeBase: p.base(start), Kind: LiteralNumber, Value: start.text}, nil
	case tokTemplate:
		p.advance()
		return &LiteralType{typeBase: p.base(start), Kind: LiteralTemplate, Value: start.text}, nil

	case tokPunct:
		switch start.text {
		case "-":
			if next.kind == tokNumber {
				p.advance()
				p.advance()
				return &LiteralType{typeBase: p.base(start), Kind: LiteralNumber, Value: "-" + next.text}, nil
			}
		case "{":
			members, err := p.parseObjectMembers()
			if err != nil {
				return nil, err
			}
			return &ObjectType{typeBase: p.base(start), Members: members}, nil
		case "[":
			return p.parseTupleType()
		case "(":
			if p.isFunctionTypeStart() {
				return p.parseFunctionType(start)
			}
			p.advance()
			inner, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return &ParenType{typeBase: p.base(start), Inner: inner}, nil
		case "<":
			if err := p.skipAngles(); err != nil {
				return nil, err
			}
			return p.parseFunctionType(start)
		}

	case tokIdent:
		switch start.text {
		case "keyof", "unique", "infer":
			if next.kind == tokIdent || isOpen(next) || next.kind == tokString {
				p.advance()
				if _, err := p.parsePostfixType(); err != nil {
					return nil, err
				}
				if start.text == "infer" && p.isIdent("extends") {
					p.advance()
					if _, err := p.parsePostfixType(); err != nil {
						return nil, err
					}
				}
				return &OpaqueType{typeBase: p.base(start)}, nil
			}
		case "typeof":
			p.advance()
			if err := p.skipEntityName(); err != nil {
				return nil, err
			}
			return &OpaqueType{typeBase: p.base(start)}, nil
		case "import":
			if next.is(tokPunct, "(") {
				if err := p.skipEntityName(); err != nil {
					return nil, err
				}
				return &OpaqueType{typeBase: p.base(start)}, nil
			}
		case "readonly":
			if next.kind == tokIdent || next.is(tokPunct, "[") || next.is(tokPunct, "(") || next.is(tokPunct, "{") {
				p.advance()
				inner, err := p.parsePostfixType()
				if err != nil {
					return nil, err
				}
				if arr, ok := inner.(*ArrayType); ok {
					return &ArrayType{typeBase: p.base(start), Elem: arr.Elem, Readonly: true}, nil
				}
				return &OpaqueType{typeBase: p.base(start)}, nil
			}
		case "new":
			if next.is(tokPunct, "(") || next.is(tokPunct, "<") {
				p.advance()
				if p.isPunct("<") {
					if err := p.skipAngles(); err != nil {
						return nil, err
					}
				}
				return p.parseFunctionType(start)
			}
		case "abstract":
			if next.is(tokIdent, "new") {
				p.advance()
				return p.parsePrimaryType()
			}
		case "true", "false":
			p.advance()
			return &LiteralType{typeBase: p.base(start), Kind: LiteralBoolean, Value: start.text}, nil
		}

		if keywordTypes[start.text] && !next.is(tokPunct, ".") {
			p.advance()
			return &KeywordType{typeBase: p.base(start), Keyword: start.text}, nil
		}
		return p.parseTypeReference()
	}

	return nil, p.errorAt(start, "type expected")
}

// skipEntityName consumes a.b.c<Args> or import("m").a.b<Args>.
func (p *parser) skipEntityName() error {
	if p.isIdent("import") && p.peekAt(1).is(tokPunct, "(") {
		p.advance()
		if err := p.skipBalanced(); err != nil {
			return err
		}
	} else if _, err := p.expectName(); err != nil {
		return err
	}
	for p.eatPunct(".") {
		if _, err := p.expectName(); err != nil {
			return err
		}
	}
	if p.isPunct("<") && !p.peek().nl {
		return p.skipAngles()
	}
	return nil
}

func (p *parser) parseTypeReference() (Type, error) {
	start := p.peek()
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	ref := &RefType{Name: []string{name.text}}
	for p.isPunct(".") && p.peekAt(1).kind == tokIdent {
		p.advance()
		ref.Name = append(ref.Name, p.advance().text)
	}
	if p.isPunct("<") && !p.peek().nl {
		p.advance()
		for !p.isPunct(">") {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			ref.Args = append(ref.Args, arg)
			if !p.eatPunct(",") {
				break
			}
		}
		if _, err := p.expectPunct(">"); err != nil {
			return nil, err
		}
	}
	ref.typeBase = p.base(start)
	return ref, nil
}

func (p *parser) parseTupleType() (Type, error) {
	start := p.advance() // [
	var elems []Type
	for !p.isPunct("]") {
		p.eatPunct("...")
		if p.peek().kind == tokIdent && (p.peekAt(1).is(tokPunct, ":") ||
			p.peekAt(1).is(tokPunct, "?") && p.peekAt(2).is(tokPunct, ":")) {
			p.advance()
			p.eatPunct("?")
			p.advance() // :
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		p.eatPunct("?")
		elems = append(elems, elem)
		if !p.eatPunct(",") {
			break
		}
	}
	if _, err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return &TupleType{typeBase: p.base(start), Elems: elems}, nil
}

// isFunctionTypeStart reports whether the parenthesised group at the
// current token is followed by =>.
func (p *parser) isFunctionTypeStart() bool {
	depth := 0
	for j := p.i; j < len(p.toks); j++ {
		t := p.toks[j]
		switch {
		case t.kind == tokEOF:
			return false
		case isOpen(t):
			depth++
		case isClose(t):
			depth--
			if depth == 0 {
				return j+1 < len(p.toks) && p.toks[j+1].is(tokPunct, "=>")
			}
		}
	}
	return false
}

func (p *parser) parseFunctionType(start token) (Type, error) {
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("=>"); err != nil {
		return nil, err
	}
	result, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}
	return &FuncType{typeBase: p.base(start), Params: params, Result: result}, nil
}

// parseObjectMembers parses { ... } for interfaces and type literals.
func (p *parser) parseObjectMembers() ([]*Member, error) {
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var members []*Member
	for !p.isPunct("}") {
		if p.eatPunct(";") || p.eatPunct(",") {
			continue
		}
		if p.peek().kind == tokEOF {
			return nil, p.errorAt(p.peek(), "%q expected", "}")
		}
		m, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	p.advance()
	return members, nil
}

func isMemberNameToken(t token) bool {
	return t.kind == tokIdent || t.kind == tokString || t.kind == tokNumber || t.is(tokPunct, "[")
}

func (p *parser) parseMember() (*Member, error) {
	start := p.peek()
	m := &Member{Doc: start.docs}

	// +readonly / -readonly in mapped types
	if (p.isPunct("+") || p.isPunct("-")) && p.peekAt(1).is(tokIdent, "readonly") {
		p.advance()
	}
	if p.isIdent("readonly") && isMemberNameToken(p.peekAt(1)) {
		p.advance()
		m.Readonly = true
	}
	if (p.isIdent("get") || p.isIdent("set")) && isMemberNameToken(p.peekAt(1)) {
		p.advance()
	}

	switch {
	case p.isPunct("(") || p.isPunct("<"):
		m.Kind = MemberCall
		if err := p.parseSignatureTail(m); err != nil {
			return nil, err
		}

	case p.isIdent("new") && (p.peekAt(1).is(tokPunct, "(") || p.peekAt(1).is(tokPunct, "<")):
		p.advance()
		m.Kind = MemberConstruct
		if err := p.parseSignatureTail(m); err != nil {
			return nil, err
		}

	case p.isPunct("["):
		if p.peekAt(1).kind == tokIdent && p.peekAt(2).is(tokPunct, ":") {
			m.Kind = MemberIndex
			p.advance()
			m.Name = p.advance().text
			p.advance() // :
			if _, err := p.parseType(); err != nil {
				return nil, err
			}
			if _, err := p.expectPunct("]"); err != nil {
				return nil, err
			}
		} else {
			m.Kind = MemberComputed
			open := p.peek()
			if err := p.skipBalanced(); err != nil {
				return nil, err
			}
			m.Name = p.text(open)
		}
		if p.isPunct("+") || p.isPunct("-") {
			p.advance()
		}
		m.Optional = p.eatPunct("?")
		if p.isPunct("(") || p.isPunct("<") {
			m.Kind = MemberMethod
			if err := p.parseSignatureTail(m); err != nil {
				return nil, err
			}
		} else if p.eatPunct(":") {
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			m.Type = typ
		}

	default:
		name := p.peek()
		switch name.kind {
		case tokIdent, tokNumber:
			m.Name = name.text
		case tokString:
			m.Name = name.value
		default:
			return nil, p.errorAt(name, "property name expected")
		}
		p.advance()
		m.Optional = p.eatPunct("?")
		if p.isPunct("(") || p.isPunct("<") {
			m.Kind = MemberMethod
			if err := p.parseSignatureTail(m); err != nil {
				return nil, err
			}
		} else {
			m.Kind = MemberProperty
			if p.eatPunct(":") {
				typ, err := p.parseType()
				if err != nil {
					return nil, err
				}
				m.Type = typ
			}
		}
	}

	m.Range = p.span(start)
	m.Text = p.text(start)
	return m, nil
}

func (p *parser) parseSignatureTail(m *Member) error {
	if p.isPunct("<") {
		if err := p.skipAngles(); err != nil {
			return err
		}
	}
	if _, err := p.parseParams(); err != nil {
		return err
	}
	if p.eatPunct(":") {
		typ, err := p.parseReturnType()
		if err != nil {
			return err
		}
		m.Type = typ
	}
	return nil
}
