package codegen

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultWidth is the line width the printer tries to stay within.
const DefaultWidth = 80

// Print renders the program as TypeScript source with two-space
// indentation, double-quoted strings, semicolons and a trailing newline.
// Output depends only on the program.
func Print(prog *Program) string {
	return PrintWidth(prog, DefaultWidth)
}

// PrintWidth is Print with an explicit line width.
func PrintWidth(prog *Program, width int) string {
	p := &printer{width: width}
	var b strings.Builder
	for i, s := range prog.Stmts {
		_, verbatim := s.(*Verbatim)
		if i > 0 {
			_, prevVerbatim := prog.Stmts[i-1].(*Verbatim)
			if verbatim || prevVerbatim {
				b.WriteString("\n")
			}
		}
		b.WriteString(p.stmt(s, 0))
	}
	return b.String()
}

type printer struct {
	width int
}

func pad(level int) string {
	return strings.Repeat("  ", level)
}

func textWidth(s string) int {
	return utf8.RuneCountInString(s)
}

// firstLineWidth is the width of s up to its first line break.
func firstLineWidth(s string) int {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return textWidth(s[:i])
	}
	return textWidth(s)
}

func (p *printer) stmt(s Stmt, indent int) string {
	in := pad(indent)
	col := indent * 2

	switch s := s.(type) {
	case *ExprStmt:
		return in + p.expr(s.X, indent, col, 1) + ";\n"

	case *Return:
		if s.X == nil {
			return in + "return;\n"
		}
		return in + "return " + p.expr(s.X, indent, col+7, 1) + ";\n"

	case *Throw:
		return in + "throw " + p.expr(s.X, indent, col+6, 1) + ";\n"

	case *If:
		cond := p.expr(s.Cond, indent, col+4, 3)
		head := in + "if (" + cond + ")"
		then := p.stmt(s.Then, 0)
		if !strings.Contains(strings.TrimSuffix(then, "\n"), "\n") && firstLineWidth(head)+1+textWidth(then)-1 <= p.width {
			return head + " " + then
		}
		return head + "\n" + p.stmt(s.Then, indent+1)

	case *Destructure:
		names := append([]string(nil), s.Names...)
		if s.Rest != "" {
			names = append(names, "..."+s.Rest)
		}
		init := p.flatOr(s.Init)
		flat := "const { " + strings.Join(names, ", ") + " } = " + init + ";"
		if len(names) == 0 {
			flat = "const {} = " + init + ";"
		}
		if col+textWidth(flat) <= p.width {
			return in + flat + "\n"
		}
		var b strings.Builder
		b.WriteString(in + "const {\n")
		for i, n := range names {
			b.WriteString(pad(indent+1) + n)
			if i < len(names)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(in + "} = " + init + ";\n")
		return b.String()

	case *Import:
		return in + p.importDecl(s, col) + "\n"

	case *Func:
		return p.funcDecl(s, indent)

	case *Verbatim:
		return strings.TrimRight(s.Text, "\n") + "\n"
	}
	return ""
}

func (p *printer) importDecl(s *Import, col int) string {
	from := " from " + quote(s.Module) + ";"
	if s.Namespace != "" {
		return "import * as " + s.Namespace + from
	}
	if s.Default == "" && len(s.Named) == 0 {
		return "import " + quote(s.Module) + ";"
	}

	var clause []string
	if s.Default != "" {
		clause = append(clause, s.Default)
	}
	if len(s.Named) == 0 {
		return "import " + strings.Join(clause, ", ") + from
	}

	flat := "import " + strings.Join(append(clause, "{ "+strings.Join(s.Named, ", ")+" }"), ", ") + from
	if col+textWidth(flat) <= p.width {
		return flat
	}
	var b strings.Builder
	b.WriteString("import ")
	if s.Default != "" {
		b.WriteString(s.Default + ", ")
	}
	b.WriteString("{\n")
	for i, n := range s.Named {
		b.WriteString("  " + n)
		if i < len(s.Named)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}" + from)
	return b.String()
}

func (p *printer) funcDecl(s *Func, indent int) string {
	var head strings.Builder
	head.WriteString(pad(indent))
	if s.Export {
		head.WriteString("export ")
	}
	if s.Default {
		head.WriteString("default ")
	}
	if s.Async {
		head.WriteString("async ")
	}
	head.WriteString("function")
	if s.Name != "" {
		head.WriteString(" " + s.Name)
	}
	head.WriteString("(" + strings.Join(s.Params, ", ") + ")")
	if s.ReturnType != "" {
		head.WriteString(": " + s.ReturnType)
	}
	if len(s.Body) == 0 {
		return head.String() + " {}\n"
	}
	head.WriteString(" {\n")
	for _, st := range s.Body {
		head.WriteString(p.stmt(st, indent+1))
	}
	head.WriteString(pad(indent) + "}\n")
	return head.String()
}

func (p *printer) flatOr(e Expr) string {
	s, _ := p.flat(e)
	return s
}

// flat renders e on a single line. It reports false when e cannot be
// written on one line, as with arrow functions that have a body.
func (p *printer) flat(e Expr) (string, bool) {
	switch e := e.(type) {
	case *Ident:
		return e.Name, true
	case *String:
		return quote(e.Value), true
	case *Number:
		return e.Raw, true
	case *Bool:
		if e.Value {
			return "true", true
		}
		return "false", true
	case *Keyword:
		return e.Name, true
	case *Array:
		if len(e.Elems) == 0 {
			return "[]", true
		}
		parts, ok := p.flatList(e.Elems)
		return "[" + parts + "]", ok
	case *Object:
		if len(e.Props) == 0 {
			return "{}", true
		}
		var parts []string
		ok := true
		for _, prop := range e.Props {
			v, vok := p.flat(prop.Value)
			ok = ok && vok
			parts = append(parts, propKey(prop.Key)+": "+v)
		}
		return "{ " + strings.Join(parts, ", ") + " }", ok
	case *Member:
		x, ok := p.flat(e.X)
		return p.wrap(e.X, x) + "." + e.Name, ok
	case *Call:
		fun, ok := p.flat(e.Fun)
		args, aok := p.flatList(e.Args)
		return p.wrap(e.Fun, fun) + "(" + args + ")", ok && aok
	case *New:
		fun, ok := p.flat(e.Fun)
		args, aok := p.flatList(e.Args)
		return "new " + fun + "(" + args + ")", ok && aok
	case *Arrow:
		return arrowHead(e) + " => {}", len(e.Body) == 0
	case *Await:
		x, ok := p.flat(e.X)
		return "await " + x, ok
	case *Binary:
		l, lok := p.flat(e.L)
		r, rok := p.flat(e.R)
		return l + " " + e.Op + " " + r, lok && rok
	}
	return "", false
}

func (p *printer) flatList(items []Expr) (string, bool) {
	parts := make([]string, 0, len(items))
	ok := true
	for _, it := range items {
		s, iok := p.flat(it)
		ok = ok && iok
		parts = append(parts, s)
	}
	return strings.Join(parts, ", "), ok
}

// wrap parenthesizes operands that bind looser than member access.
func (p *printer) wrap(x Expr, s string) string {
	switch x.(type) {
	case *Await, *Binary, *Arrow, *New:
		return "(" + s + ")"
	}
	return s
}

// expr renders e starting at column col. reserve is the width of text
// that follows e on its last line.
func (p *printer) expr(e Expr, indent, col, reserve int) string {
	if s, ok := p.flat(e); ok && col+textWidth(s)+reserve <= p.width {
		return s
	}

	switch e := e.(type) {
	case *Call, *Member:
		head, links := flattenChain(e)
		if countCalls(links) >= 2 {
			return p.chain(head, links, indent, col, reserve)
		}
		switch e := e.(type) {
		case *Call:
			fun, _ := p.flat(e.Fun)
			fun = p.wrap(e.Fun, fun)
			return p.call(fun, e.Args, indent, col, reserve)
		case *Member:
			return p.wrap(e.X, p.expr(e.X, indent, col, reserve+1+textWidth(e.Name))) + "." + e.Name
		}
	case *New:
		fun, _ := p.flat(e.Fun)
		return "new " + p.call(fun, e.Args, indent, col+4, reserve)
	case *Array:
		return p.list("[", "]", e.Elems, indent)
	case *Object:
		return p.object(e, indent)
	case *Arrow:
		var b strings.Builder
		b.WriteString(arrowHead(e) + " => {\n")
		for _, st := range e.Body {
			b.WriteString(p.stmt(st, indent+1))
		}
		b.WriteString(pad(indent) + "}")
		return b.String()
	case *Await:
		return "await " + p.expr(e.X, indent, col+6, reserve)
	}
	return p.flatOr(e)
}

func huggable(e Expr) bool {
	switch e := e.(type) {
	case *Object:
		return len(e.Props) > 0
	case *Array:
		return len(e.Elems) > 0
	case *Arrow:
		return true
	}
	return false
}

// call renders fun(args). When only the last argument is an object,
// array or arrow function it is hugged: the call stays open on the first
// line and the argument breaks. Otherwise each argument gets a line.
func (p *printer) call(fun string, args []Expr, indent, col, reserve int) string {
	head := fun + "("
	if len(args) == 0 {
		return head + ")"
	}
	if flat, ok := p.flatList(args); ok && col+textWidth(head+flat)+1+reserve <= p.width {
		return head + flat + ")"
	}

	last := args[len(args)-1]
	if huggable(last) {
		var prefix []string
		ok := true
		for _, a := range args[:len(args)-1] {
			s, aok := p.flat(a)
			if !aok || huggable(a) {
				ok = false
				break
			}
			prefix = append(prefix, s+", ")
		}
		if ok {
			lead := head + strings.Join(prefix, "")
			rest := p.expr(last, indent, col+textWidth(lead), reserve+1)
			out := lead + rest + ")"
			if strings.Contains(out, "\n") && col+firstLineWidth(out) <= p.width {
				return out
			}
		}
	}

	var b strings.Builder
	b.WriteString(head + "\n")
	for i, a := range args {
		r := 1
		if i == len(args)-1 {
			r = 0
		}
		b.WriteString(pad(indent+1) + p.expr(a, indent+1, (indent+1)*2, r))
		if r == 1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(pad(indent) + ")")
	return b.String()
}

func (p *printer) list(open, close string, items []Expr, indent int) string {
	var b strings.Builder
	b.WriteString(open + "\n")
	for i, it := range items {
		r := 1
		if i == len(items)-1 {
			r = 0
		}
		b.WriteString(pad(indent+1) + p.expr(it, indent+1, (indent+1)*2, r))
		if r == 1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(pad(indent) + close)
	return b.String()
}

func (p *printer) object(o *Object, indent int) string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, prop := range o.Props {
		r := 1
		if i == len(o.Props)-1 {
			r = 0
		}
		key := propKey(prop.Key) + ": "
		b.WriteString(pad(indent+1) + key + p.expr(prop.Value, indent+1, (indent+1)*2+textWidth(key), r))
		if r == 1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(pad(indent) + "}")
	return b.String()
}

// link is one .name or .name(args) step of a member chain.
type link struct {
	name string
	call bool
	args []Expr
}

func flattenChain(e Expr) (Expr, []link) {
	var links []link
	for {
		switch x := e.(type) {
		case *Call:
			m, ok := x.Fun.(*Member)
			if !ok {
				return reverseLinks(e, links)
			}
			links = append(links, link{name: m.Name, call: true, args: x.Args})
			e = m.X
			continue
		case *Member:
			links = append(links, link{name: x.Name})
			e = x.X
			continue
		}
		return reverseLinks(e, links)
	}
}

func reverseLinks(head Expr, links []link) (Expr, []link) {
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}
	return head, links
}

func countCalls(links []link) int {
	n := 0
	for _, l := range links {
		if l.call {
			n++
		}
	}
	return n
}

// chain prints a member chain with one call per line. Property accesses
// stay attached to the call before them.
func (p *printer) chain(head Expr, links []link, indent, col, reserve int) string {
	headText := p.expr(head, indent, col, 0)
	headText = p.wrap(head, headText)
	for len(links) > 0 && !links[0].call {
		headText += "." + links[0].name
		links = links[1:]
	}

	// group each call with the property accesses that follow it
	type group struct {
		call  link
		props []string
	}
	var groups []group
	for _, l := range links {
		if l.call {
			groups = append(groups, group{call: l})
			continue
		}
		groups[len(groups)-1].props = append(groups[len(groups)-1].props, "."+l.name)
	}

	var b strings.Builder
	b.WriteString(headText)
	for i, g := range groups {
		tail := strings.Join(g.props, "")
		r := textWidth(tail)
		if i == len(groups)-1 {
			r += reserve
		}
		b.WriteString("\n" + pad(indent+1))
		b.WriteString(p.call("."+g.call.name, g.call.args, indent+1, (indent+1)*2, r))
		b.WriteString(tail)
	}
	return b.String()
}

func arrowHead(e *Arrow) string {
	if e.Async {
		return "async " + arrowParams(e.Params)
	}
	return arrowParams(e.Params)
}

func arrowParams(params []string) string {
	if len(params) == 1 && IsIdentifier(params[0]) {
		return params[0]
	}
	return "(" + strings.Join(params, ", ") + ")"
}

func propKey(key string) string {
	if IsIdentifier(key) {
		return key
	}
	return quote(key)
}

// IsIdentifier reports whether s can be written as a bare identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// quote writes a string literal, preferring double quotes unless the
// value holds more double than single quotes.
func quote(s string) string {
	q := byte('"')
	if strings.Count(s, `"`) > strings.Count(s, "'") {
		q = '\''
	}

	var b strings.Builder
	b.WriteByte(q)
	for i, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == 0:
			if i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
				b.WriteString(`\x00`)
			} else {
				b.WriteString(`\0`)
			}
		case r == '\u2028':
			b.WriteString(`\u2028`)
		case r == '\u2029':
			b.WriteString(`\u2029`)
		case r < 0x20 || r == 0x7f:
			b.WriteString(`\x`)
			b.WriteByte("0123456789abcdef"[r>>4])
			b.WriteByte("0123456789abcdef"[r&0xf])
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
