package tsparse

import (
	"strings"
)

// ExprKind classifies a literal expression.
type ExprKind int

const (
	ExprString ExprKind = iota
	ExprNumber
	ExprBoolean
	ExprNull
	ExprUndefined
	ExprRef // identifier or member access such as Color.A
	ExprArray
	ExprObject
)

func (k ExprKind) String() string {
	switch k {
	case ExprString:
		return "string"
	case ExprNumber:
		return "number"
	case ExprBoolean:
		return "boolean"
	case ExprNull:
		return "null"
	case ExprUndefined:
		return "undefined"
	case ExprRef:
		return "reference"
	case ExprArray:
		return "array"
	default:
		return "object"
	}
}

// Expr is a literal expression: the restricted grammar accepted where a
// value is written inside documentation, e.g. `@default 42`.
type Expr struct {
	Kind  ExprKind
	Value string   // unescaped string, number text with sign, "true" or "false"
	Path  []string // ExprRef
	Elems []*Expr  // ExprArray
	Props []Prop   // ExprObject
	Text  string   // source text
}

// Prop is one `key: value` of an object literal.
type Prop struct {
	Key   string
	Value *Expr
}

// ParseExpr parses src as a single literal expression. Strings, numbers,
// booleans, null, undefined, identifiers with member access, and arrays
// and objects of those are accepted; calls, operators and template
// substitutions are not.
func ParseExpr(name, src string) (*Expr, error) {
	lines := newLineTable(src)
	toks, err := tokenize(name, src, lines)
	if err != nil {
		return nil, err
	}
	p := &parser{file: name, src: src, lines: lines, toks: toks}

	if p.peek().kind == tokEOF {
		return nil, p.errorAt(p.peek(), "expression expected")
	}
	e, err := p.literal()
	if err != nil {
		return nil, err
	}
	p.eatPunct(";")
	if p.peek().kind != tokEOF {
		return nil, p.errorAt(p.peek(), "unexpected token after expression")
	}
	return e, nil
}

func (p *parser) literal() (*Expr, error) {
	start := p.peek()
	e, err := p.literalInner()
	if err != nil {
		return nil, err
	}
	e.Text = p.text(start)
	return e, nil
}

func (p *parser) literalInner() (*Expr, error) {
	t := p.peek()
	switch t.kind {
	case tokString:
		p.advance()
		return &Expr{Kind: ExprString, Value: t.value}, nil

	case tokTemplate:
		p.advance()
		raw := t.text[1 : len(t.text)-1]
		if strings.Contains(raw, "${") {
			return nil, p.errorAt(t, "template substitutions are not supported")
		}
		return &Expr{Kind: ExprString, Value: templateValue(raw)}, nil

	case tokNumber:
		p.advance()
		return &Expr{Kind: ExprNumber, Value: t.text}, nil

	case tokPunct:
		switch t.text {
		case "-", "+":
			p.advance()
			n := p.peek()
			if n.kind == tokNumber || n.is(tokIdent, "Infinity") {
				p.advance()
				value := n.text
				if t.text == "-" {
					value = "-" + value
				}
				return &Expr{Kind: ExprNumber, Value: value}, nil
			}
			return nil, p.errorAt(n, "number expected")
		case "(":
			p.advance()
			inner, err := p.literal()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return inner, nil
		case "[":
			return p.arrayLiteral()
		case "{":
			return p.objectLiteral()
		}

	case tokIdent:
		switch t.text {
		case "true", "false":
			p.advance()
			return &Expr{Kind: ExprBoolean, Value: t.text}, nil
		case "null":
			p.advance()
			return &Expr{Kind: ExprNull}, nil
		case "undefined":
			p.advance()
			return &Expr{Kind: ExprUndefined}, nil
		case "NaN", "Infinity":
			p.advance()
			return &Expr{Kind: ExprNumber, Value: t.text}, nil
		}
		return p.refLiteral()
	}
	return nil, p.errorAt(t, "literal expected")
}

func (p *parser) refLiteral() (*Expr, error) {
	first := p.advance()
	e := &Expr{Kind: ExprRef, Path: []string{first.text}}
	for {
		switch {
		case p.isPunct("."):
			p.advance()
			name, err := p.expectName()
			if err != nil {
				return nil, err
			}
			e.Path = append(e.Path, name.text)
		case p.isPunct("[") && !p.peek().nl:
			p.advance()
			key := p.peek()
			if key.kind != tokString {
				return nil, p.errorAt(key, "string key expected")
			}
			p.advance()
			if _, err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			e.Path = append(e.Path, key.value)
		case p.isPunct("("):
			return nil, p.errorAt(p.peek(), "calls are not supported")
		default:
			return e, nil
		}
	}
}

func (p *parser) arrayLiteral() (*Expr, error) {
	p.advance()
	e := &Expr{Kind: ExprArray}
	for !p.isPunct("]") {
		elem, err := p.literal()
		if err != nil {
			return nil, err
		}
		e.Elems = append(e.Elems, elem)
		if !p.eatPunct(",") {
			break
		}
	}
	if _, err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) objectLiteral() (*Expr, error) {
	p.advance()
	e := &Expr{Kind: ExprObject}
	for !p.isPunct("}") {
		key := p.peek()
		var name string
		switch key.kind {
		case tokIdent, tokNumber:
			name = key.text
		case tokString:
			name = key.value
		default:
			return nil, p.errorAt(key, "property name expected")
		}
		p.advance()
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		value, err := p.literal()
		if err != nil {
			return nil, err
		}
		e.Props = append(e.Props, Prop{Key: name, Value: value})
		if !p.eatPunct(",") {
			break
		}
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return e, nil
}

func templateValue(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); {
		if raw[i] == '\\' {
			s, width := unescape(raw[i:])
			b.WriteString(s)
			i += width
			continue
		}
		b.WriteByte(raw[i])
		i++
	}
	return b.String()
}
