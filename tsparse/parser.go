// Package tsparse reads the declaration-level structure of TypeScript
// source: imports, exports, functions, interfaces, type aliases and enums,
// with their JSDoc blocks. Function bodies, classes, namespaces and other
// statements are skipped by balanced-bracket scanning.
package tsparse

import (
	"fmt"
)

type parser struct {
	file  string
	src   string
	lines *lineTable
	toks  []token
	i     int
}

// Parse parses source as the unit at path.
func Parse(path, source string) (*File, error) {
	lines := newLineTable(source)
	toks, err := tokenize(path, source, lines)
	if err != nil {
		return nil, err
	}
	p := &parser{file: path, src: source, lines: lines, toks: toks}

	f := &File{Path: path, Source: source}
	for p.peek().kind != tokEOF {
		if err := p.statement(f); err != nil {
			return nil, err
		}
	}
	f.Decls = foldOverloads(f.Decls)
	return f, nil
}


func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) peekAt(n int) token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) prev() token {
	if p.i == 0 {
		return p.toks[0]
	}
	return p.toks[p.i-1]
}

func (p *parser) advance() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) isPunct(s string) bool { return p.peek().is(tokPunct, s) }
func (p *parser) isIdent(s string) bool { return p.peek().is(tokIdent, s) }

func (p *parser) eatPunct(s string) bool {
	if p.isPunct(s) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) eatIdent(s string) bool {
	if p.isIdent(s) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) errorAt(t token, format string, args ...interface{}) *ParseError {
	e := &ParseError{
		File:    p.file,
		Message: fmt.Sprintf(format, args...),
		Range:   p.lines.span(t.start, t.end),
		Token:   t.text,
	}
	if t.kind == tokEOF {
		e.Token = ""
		e.Message += " at end of file"
	}
	return e
}

func (p *parser) expectPunct(s string) (token, error) {
	if !p.isPunct(s) {
		return token{}, p.errorAt(p.peek(), "%q expected", s)
	}
	return p.advance(), nil
}

func (p *parser) expectIdent(s string) error {
	if !p.isIdent(s) {
		return p.errorAt(p.peek(), "%q expected", s)
	}
	p.advance()
	return nil
}

// expectName accepts any identifier, keywords included.
func (p *parser) expectName() (token, error) {
	if p.peek().kind != tokIdent {
		return token{}, p.errorAt(p.peek(), "identifier expected")
	}
	return p.advance(), nil
}

func (p *parser) expectString() (token, error) {
	if p.peek().kind != tokString {
		return token{}, p.errorAt(p.peek(), "module specifier expected")
	}
	return p.advance(), nil
}

func (p *parser) span(start token) Range {
	return p.lines.span(start.start, p.prev().end)
}

func (p *parser) text(start token) string {
	end := p.prev().end
	if end < start.start {
		return ""
	}
	return p.src[start.start:end]
}

func isOpen(t token) bool {
	return t.kind == tokPunct && (t.text == "(" || t.text == "[" || t.text == "{")
}

func isClose(t token) bool {
	return t.kind == tokPunct && (t.text == ")" || t.text == "]" || t.text == "}")
}

// skipBalanced consumes a bracketed group starting at the current token.
func (p *parser) skipBalanced() error {
	open := p.peek()
	if !isOpen(open) {
		return p.errorAt(open, "bracket expected")
	}
	depth := 0
	for {
		t := p.advance()
		switch {
		case t.kind == tokEOF:
			return p.errorAt(open, "unbalanced %q", open.text)
		case isOpen(t):
			depth++
		case isClose(t):
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

// skipAngles consumes a <...> group such as type parameters.
func (p *parser) skipAngles() error {
	open := p.peek()
	depth := 0
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return p.errorAt(open, "unbalanced %q", "<")
		case t.is(tokPunct, "<"):
			depth++
			p.advance()
		case t.is(tokPunct, ">"):
			depth--
			p.advance()
			if depth == 0 {
				return nil
			}
		case isOpen(t):
			if err := p.skipBalanced(); err != nil {
				return err
			}
		default:
			p.advance()
		}
	}
}

// skipExpression consumes tokens up to (not including) one of stops at
// bracket depth zero.
func (p *parser) skipExpression(stops ...string) error {
	for {
		t := p.peek()
		if t.kind == tokEOF {
			return nil
		}
		if t.kind == tokPunct {
			for _, s := range stops {
				if t.text == s {
					return nil
				}
			}
		}
		if isOpen(t) {
			if err := p.skipBalanced(); err != nil {
				return err
			}
			continue
		}
		if isClose(t) {
			return nil
		}
		p.advance()
	}
}

func endsStatement(t token) bool {
	switch t.kind {
	case tokIdent, tokNumber, tokString, tokTemplate, tokRegex:
		return true
	case tokPunct:
		switch t.text {
		case ")", "]", "}", "++", "--":
			return true
		}
	}
	return false
}

var binaryWords = map[string]bool{
	"in": true, "instanceof": true, "as": true, "satisfies": true, "of": true,
}

func startsStatement(t token) bool {
	switch t.kind {
	case tokIdent:
		return !binaryWords[t.text]
	case tokString, tokNumber:
		return true
	}
	return false
}

// skipStatement consumes one statement the parser does not model,
// honoring semicolons and the common automatic-semicolon cases.
func (p *parser) skipStatement() error {
	first := true
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return nil
		case !first && t.nl && endsStatement(p.prev()) && startsStatement(t):
			return nil
		case t.is(tokPunct, ";"):
			p.advance()
			return nil
		case isOpen(t):
			if err := p.skipBalanced(); err != nil {
				return err
			}
		case isClose(t):
			return p.errorAt(t, "unexpected %q", t.text)
		default:
			p.advance()
		}
		first = false
	}
}



func (p *parser) statement(f *File) error {
	t := p.peek()
	switch {
	case t.is(tokPunct, ";"):
		p.advance()
		return nil
	case t.is(tokIdent, "import") && !p.peekAt(1).is(tokPunct, "(") && !p.peekAt(1).is(tokPunct, "."):
		return p.parseImport(f)
	case t.is(tokIdent, "export"):
		return p.parseExport(f)
	}

	decl, consumed, err := p.declaration(Modifiers{}, t.docs, t)
	if err != nil {
		return err
	}
	if decl != nil {
		f.Decls = append(f.Decls, decl)
	}
	if consumed {
		return nil
	}
	return p.skipStatement()
}

// declaration parses the declaration at the current token. It reports
// consumed=true when it advanced past a construct, even one it does not
// model (classes, namespaces).
func (p *parser) declaration(mods Modifiers, docs []*DocBlock, start token) (Decl, bool, error) {
	t := p.peek()
	next := p.peekAt(1)

	switch {
	case t.is(tokIdent, "declare") && next.kind == tokIdent && !next.nl:
		p.advance()
		mods.Declare = true
		return p.declaration(mods, append(docs, next.docs...), start)

	case t.is(tokIdent, "function"),
		t.is(tokIdent, "async") && next.is(tokIdent, "function") && !next.nl:
		fn, err := p.parseFunction(mods, docs, start)
		if err != nil {
			return nil, true, err
		}
		return fn, true, nil

	case t.is(tokIdent, "interface") && next.kind == tokIdent:
		decl, err := p.parseInterface(mods, docs, start)
		return decl, true, err

	case t.is(tokIdent, "type") && next.kind == tokIdent && !next.nl &&
		(p.peekAt(2).is(tokPunct, "=") || p.peekAt(2).is(tokPunct, "<")):
		decl, err := p.parseTypeAlias(mods, docs, start)
		return decl, true, err

	case t.is(tokIdent, "enum") && next.kind == tokIdent:
		decl, err := p.parseEnum(mods, docs, start, false)
		return decl, true, err

	case t.is(tokIdent, "const") && next.is(tokIdent, "enum"):
		p.advance()
		decl, err := p.parseEnum(mods, docs, start, true)
		return decl, true, err

	case t.is(tokIdent, "class"),
		t.is(tokIdent, "abstract") && next.is(tokIdent, "class"):
		return nil, true, p.skipBlockDeclaration()

	case (t.is(tokIdent, "namespace") || t.is(tokIdent, "module")) &&
		(next.kind == tokIdent || next.kind == tokString) && !next.nl,
		t.is(tokIdent, "global") && next.is(tokPunct, "{"):
		return nil, true, p.skipBlockDeclaration()
	}
	return nil, false, nil
}

// skipBlockDeclaration skips a header up to its body and the body itself.
// A header without a body (`declare module "x";`) ends at the semicolon.
func (p *parser) skipBlockDeclaration() error {
	angle := 0
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return nil
		case t.is(tokPunct, "<"):
			angle++
			p.advance()
		case t.is(tokPunct, ">"):
			angle--
			p.advance()
		case t.is(tokPunct, "{") && angle <= 0:
			return p.skipBalanced()
		case t.is(tokPunct, ";") && angle <= 0:
			p.advance()
			return nil
		case isOpen(t):
			if err := p.skipBalanced(); err != nil {
				return err
			}
		default:
			p.advance()
		}
	}
}

func (p *parser) parseImport(f *File) error {
	start := p.advance()
	decl := &ImportDecl{}

	if p.isIdent("type") {
		next := p.peekAt(1)
		if next.is(tokPunct, "{") || next.is(tokPunct, "*") || (next.kind == tokIdent && !next.is(tokIdent, "from")) {
			p.advance()
			decl.TypeOnly = true
		}
	}

	if p.peek().kind == tokString {
		mod := p.advance()
		decl.Module = mod.value
		p.eatPunct(";")
		decl.Range = p.span(start)
		f.Imports = append(f.Imports, decl)
		return nil
	}

	if p.peek().kind == tokIdent && !p.isIdent("from") || p.isIdent("from") && p.peekAt(1).is(tokIdent, "from") {
		name := p.advance()
		if p.isPunct("=") {
			// import x = require("y")
			return p.skipStatement()
		}
		decl.Default = name.text
		p.eatPunct(",")
	}

	if p.eatPunct("*") {
		if err := p.expectIdent("as"); err != nil {
			return err
		}
		name, err := p.expectName()
		if err != nil {
			return err
		}
		decl.Namespace = name.text
	}

	if p.isPunct("{") {
		specs, err := p.parseImportSpecs()
		if err != nil {
			return err
		}
		decl.Named = specs
	}

	if err := p.expectIdent("from"); err != nil {
		return err
	}
	mod, err := p.expectString()
	if err != nil {
		return err
	}
	decl.Module = mod.value

	if (p.isIdent("assert") || p.isIdent("with")) && p.peekAt(1).is(tokPunct, "{") {
		p.advance()
		if err := p.skipBalanced(); err != nil {
			return err
		}
	}
	p.eatPunct(";")
	decl.Range = p.span(start)
	f.Imports = append(f.Imports, decl)
	return nil
}

func (p *parser) specName() (string, error) {
	t := p.peek()
	switch t.kind {
	case tokIdent:
		p.advance()
		return t.text, nil
	case tokString:
		p.advance()
		return t.value, nil
	}
	return "", p.errorAt(t, "identifier expected")
}

func (p *parser) parseImportSpecs() ([]ImportSpec, error) {
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var specs []ImportSpec
	for !p.isPunct("}") {
		spec := ImportSpec{}
		if p.isIdent("type") {
			next := p.peekAt(1)
			if next.kind == tokIdent && !next.is(tokIdent, "as") || next.kind == tokString {
				p.advance()
				spec.TypeOnly = true
			}
		}
		name, err := p.specName()
		if err != nil {
			return nil, err
		}
		spec.Imported, spec.Local = name, name
		if p.eatIdent("as") {
			local, err := p.expectName()
			if err != nil {
				return nil, err
			}
			spec.Local = local.text
		}
		specs = append(specs, spec)
		if !p.eatPunct(",") {
			break
		}
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return specs, nil
}

func (p *parser) parseExportSpecs() ([]ExportSpec, error) {
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var specs []ExportSpec
	for !p.isPunct("}") {
		if p.isIdent("type") {
			next := p.peekAt(1)
			if next.kind == tokIdent && !next.is(tokIdent, "as") || next.kind == tokString {
				p.advance()
			}
		}
		local, err := p.specName()
		if err != nil {
			return nil, err
		}
		spec := ExportSpec{Local: local, Exported: local}
		if p.eatIdent("as") {
			exported, err := p.specName()
			if err != nil {
				return nil, err
			}
			spec.Exported = exported
		}
		specs = append(specs, spec)
		if !p.eatPunct(",") {
			break
		}
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return specs, nil
}

func (p *parser) parseExportFrom(decl *ExportDecl) error {
	if p.eatIdent("from") {
		mod, err := p.expectString()
		if err != nil {
			return err
		}
		decl.Module = mod.value
	}
	if (p.isIdent("assert") || p.isIdent("with")) && p.peekAt(1).is(tokPunct, "{") {
		p.advance()
		if err := p.skipBalanced(); err != nil {
			return err
		}
	}
	p.eatPunct(";")
	return nil
}

func (p *parser) parseExport(f *File) error {
	start := p.advance()
	docs := start.docs

	if p.isIdent("type") && (p.peekAt(1).is(tokPunct, "{") || p.peekAt(1).is(tokPunct, "*")) {
		p.advance()
	}

	switch {
	case p.isPunct("*"):
		p.advance()
		decl := &ExportDecl{Star: true}
		if p.eatIdent("as") {
			name, err := p.specName()
			if err != nil {
				return err
			}
			decl.Star = false
			decl.StarAs = name
		}
		if p.peek().kind != tokIdent || p.peek().text != "from" {
			return p.errorAt(p.peek(), "%q expected", "from")
		}
		if err := p.parseExportFrom(decl); err != nil {
			return err
		}
		decl.Range = p.span(start)
		f.Exports = append(f.Exports, decl)
		return nil

	case p.isPunct("{"):
		specs, err := p.parseExportSpecs()
		if err != nil {
			return err
		}
		decl := &ExportDecl{Specs: specs}
		if err := p.parseExportFrom(decl); err != nil {
			return err
		}
		decl.Range = p.span(start)
		f.Exports = append(f.Exports, decl)
		return nil

	case p.isPunct("="), p.isIdent("as"), p.isIdent("import"):
		// export = x; export as namespace x; export import a = b.c;
		return p.skipStatement()

	case p.isIdent("default"):
		def := p.advance()
		docs = append(docs, def.docs...)
		mods := Modifiers{Exported: true, Default: true}

		decl, consumed, err := p.declaration(mods, docs, start)
		if err != nil {
			return err
		}
		if decl != nil {
			f.Decls = append(f.Decls, decl)
		}
		if consumed {
			return nil
		}

		t := p.peek()
		after := p.peekAt(1)
		if t.kind == tokIdent && (after.is(tokPunct, ";") || after.kind == tokEOF || after.nl) {
			p.advance()
			p.eatPunct(";")
			f.Exports = append(f.Exports, &ExportDecl{
				Specs: []ExportSpec{{Local: t.text, Exported: "default"}},
				Range: p.span(start),
			})
			return nil
		}
		return p.skipStatement()
	}

	decl, consumed, err := p.declaration(Modifiers{Exported: true}, docs, start)
	if err != nil {
		return err
	}
	if decl != nil {
		f.Decls = append(f.Decls, decl)
	}
	if consumed {
		return nil
	}
	return p.skipStatement()
}

func (p *parser) parseFunction(mods Modifiers, docs []*DocBlock, start token) (*FuncDecl, error) {
	fn := &FuncDecl{}
	fn.Mods = mods
	if tok := p.peek(); tok.is(tokIdent, "async") {
		p.advance()
		fn.Async = true
		docs = append(docs, p.peek().docs...)
	}
	if err := p.expectIdent("function"); err != nil {
		return nil, err
	}
	fn.Generator = p.eatPunct("*")

	if p.peek().kind == tokIdent {
		fn.Name = p.advance().text
	} else if !mods.Default {
		return nil, p.errorAt(p.peek(), "function name expected")
	}

	if p.isPunct("<") {
		if err := p.skipAngles(); err != nil {
			return nil, err
		}
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	fn.Params = params

	if p.eatPunct(":") {
		ret, err := p.parseReturnType()
		if err != nil {
			return nil, err
		}
		fn.ReturnType = ret
	}

	if p.isPunct("{") {
		if err := p.skipBalanced(); err != nil {
			return nil, err
		}
		fn.HasBody = true
	} else {
		p.eatPunct(";")
	}

	fn.Doc = docs
	fn.Range = p.span(start)
	return fn, nil
}

var paramModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true, "override": true,
}

func (p *parser) parseParams() ([]*Param, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []*Param
	for !p.isPunct(")") {
		for p.eatPunct("@") {
			for p.peek().kind == tokIdent {
				p.advance()
				if !p.eatPunct(".") {
					break
				}
			}
			if p.isPunct("(") {
				if err := p.skipBalanced(); err != nil {
					return nil, err
				}
			}
		}
		for p.peek().kind == tokIdent && paramModifiers[p.peek().text] {
			next := p.peekAt(1)
			if next.kind == tokIdent || next.is(tokPunct, "{") || next.is(tokPunct, "[") || next.is(tokPunct, "...") {
				p.advance()
				continue
			}
			break
		}

		start := p.peek()
		param := &Param{Rest: p.eatPunct("...")}

		if p.isPunct("{") || p.isPunct("[") {
			open := p.peek()
			if err := p.skipBalanced(); err != nil {
				return nil, err
			}
			param.Pattern = p.text(open)
		} else {
			name, err := p.expectName()
			if err != nil {
				return nil, err
			}
			param.Name = name.text
		}

		param.Optional = p.eatPunct("?")
		if p.eatPunct(":") {
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			param.Type = typ
		}
		if p.eatPunct("=") {
			param.HasDefault = true
			if err := p.skipExpression(",", ")"); err != nil {
				return nil, err
			}
		}
		param.Range = p.span(start)

		// `this` parameters only type the receiver
		if param.Name != "this" {
			params = append(params, param)
		}
		if !p.eatPunct(",") {
			break
		}
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseReturnType accepts type predicates (`x is T`, `asserts x is T`).
func (p *parser) parseReturnType() (Type, error) {
	start := p.peek()
	if p.isIdent("asserts") && p.peekAt(1).kind == tokIdent && !p.peekAt(1).nl {
		p.advance()
		p.advance()
		if p.eatIdent("is") {
			if _, err := p.parseType(); err != nil {
				return nil, err
			}
		}
		return &OpaqueType{typeBase: p.base(start)}, nil
	}
	if p.peek().kind == tokIdent && p.peekAt(1).is(tokIdent, "is") && !p.peekAt(1).nl {
		p.advance()
		p.advance()
		if _, err := p.parseType(); err != nil {
			return nil, err
		}
		return &OpaqueType{typeBase: p.base(start)}, nil
	}
	return p.parseType()
}

func (p *parser) parseInterface(mods Modifiers, docs []*DocBlock, start token) (*InterfaceDecl, error) {
	p.advance() // interface
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	decl := &InterfaceDecl{}
	decl.Name = name.text
	decl.Mods = mods
	decl.Doc = docs

	if p.isPunct("<") {
		if err := p.skipAngles(); err != nil {
			return nil, err
		}
	}
	if p.eatIdent("extends") {
		for {
			typ, err := p.parsePostfixType()
			if err != nil {
				return nil, err
			}
			decl.Extends = append(decl.Extends, typ)
			if !p.eatPunct(",") {
				break
			}
		}
	}

	members, err := p.parseObjectMembers()
	if err != nil {
		return nil, err
	}
	decl.Members = members
	decl.Range = p.span(start)
	return decl, nil
}

func (p *parser) parseTypeAlias(mods Modifiers, docs []*DocBlock, start token) (*TypeAliasDecl, error) {
	p.advance() // type
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	decl := &TypeAliasDecl{}
	decl.Name = name.text
	decl.Mods = mods
	decl.Doc = docs

	if p.isPunct("<") {
		if err := p.skipAngles(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct("="); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	decl.Type = typ
	p.eatPunct(";")
	decl.Range = p.span(start)
	return decl, nil
}

func (p *parser) parseEnum(mods Modifiers, docs []*DocBlock, start token, isConst bool) (*EnumDecl, error) {
	p.advance() // enum
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	decl := &EnumDecl{Const: isConst}
	decl.Name = name.text
	decl.Mods = mods
	decl.Doc = docs

	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		first := p.peek()
		member := &EnumMember{Doc: first.docs}
		switch first.kind {
		case tokIdent:
			member.Name = first.text
		case tokString:
			member.Name = first.value
		default:
			return nil, p.errorAt(first, "enum member name expected")
		}
		p.advance()

		if p.eatPunct("=") {
			initStart := p.peek()
			next := p.peekAt(1)
			terminated := next.is(tokPunct, ",") || next.is(tokPunct, "}")
			switch {
			case initStart.kind == tokString && terminated:
				p.advance()
				member.ValueKind = EnumValueString
				member.Value = initStart.value
			case initStart.kind == tokNumber && terminated:
				p.advance()
				member.ValueKind = EnumValueNumber
				member.Value = initStart.text
			case initStart.is(tokPunct, "-") && next.kind == tokNumber &&
				(p.peekAt(2).is(tokPunct, ",") || p.peekAt(2).is(tokPunct, "}")):
				p.advance()
				p.advance()
				member.ValueKind = EnumValueNumber
				member.Value = "-" + next.text
			default:
				if err := p.skipExpression(",", "}"); err != nil {
					return nil, err
				}
				member.ValueKind = EnumValueComputed
			}
			member.Raw = p.text(initStart)
		}
		member.Range = p.span(first)
		decl.Members = append(decl.Members, member)
		if !p.eatPunct(",") {
			break
		}
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	decl.Range = p.span(start)
	return decl, nil
}


// foldOverloads drops bodiless overload signatures that precede an
// implementation of the same name, counting them on the implementation.
// The implementation inherits the first signature's docs when it has none.
func foldOverloads(decls []Decl) []Decl {
	out := make([]Decl, 0, len(decls))
	var pending []*FuncDecl
	flush := func() {
		for _, fn := range pending {
			out = append(out, fn)
		}
		pending = nil
	}
	for _, d := range decls {
		fn, ok := d.(*FuncDecl)
		if !ok {
			flush()
			out = append(out, d)
			continue
		}
		if len(pending) > 0 && pending[0].Name != fn.Name {
			flush()
		}
		if !fn.HasBody && !fn.Mods.Declare {
			pending = append(pending, fn)
			continue
		}
		if len(pending) > 0 {
			fn.Overloads = len(pending)
			if len(fn.Doc) == 0 {
				fn.Doc = pending[0].Doc
			}
			pending = nil
		}
		out = append(out, fn)
	}
	flush()
	return out
}
