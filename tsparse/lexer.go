package tsparse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokTemplate
	tokNumber
	tokRegex
	tokPunct
)

type token struct {
	kind  tokenKind
	text  string // raw source text
	value string // unescaped value for strings
	start int
	end   int
	nl    bool        // a line break precedes the token
	docs  []*DocBlock // JSDoc blocks between the previous token and this one
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// Punctuators, longest first. '<' and '>' are always single so nested
// generic closers like ">>" split naturally.
var puncts = []string{
	"...", "===", "!==", "**=", "&&=", "||=", "??=",
	"=>", "?.", "??", "==", "!=", "<=", "&&", "||", "++", "--", "**",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*", "/",
	"%", "&", "|", "^", "!", "~", "?", ":", "=", ".", "@",
}

var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

type lexer struct {
	file   string
	src    string
	pos    int
	lines  *lineTable
	tokens []token
	docs   []*DocBlock
	nl     bool
}

func tokenize(file, src string, lines *lineTable) ([]token, error) {
	lx := &lexer{file: file, src: src, lines: lines}
	for {
		if err := lx.skipTrivia(); err != nil {
			return nil, err
		}
		if lx.pos >= len(lx.src) {
			lx.emit(tokEOF, lx.pos, lx.pos, "")
			return lx.tokens, nil
		}
		if err := lx.next(); err != nil {
			return nil, err
		}
	}
}

func (lx *lexer) errorf(start, end int, format string, args ...interface{}) *ParseError {
	return &ParseError{File: lx.file, Message: fmt.Sprintf(format, args...), Range: lx.lines.span(start, end)}
}

func (lx *lexer) emit(kind tokenKind, start, end int, value string) {
	lx.tokens = append(lx.tokens, token{
		kind:  kind,
		text:  lx.src[start:end],
		value: value,
		start: start,
		end:   end,
		nl:    lx.nl,
		docs:  lx.docs,
	})
	lx.nl = false
	lx.docs = nil
}

func (lx *lexer) skipTrivia() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\n':
			lx.nl = true
			lx.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			lx.pos++
		case strings.HasPrefix(lx.src[lx.pos:], "//"):
			end := strings.IndexByte(lx.src[lx.pos:], '\n')
			if end < 0 {
				lx.pos = len(lx.src)
			} else {
				lx.pos += end
			}
		case strings.HasPrefix(lx.src[lx.pos:], "/*"):
			start := lx.pos
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				return lx.errorf(start, len(lx.src), "unterminated comment")
			}
			lx.pos += end + 4
			raw := lx.src[start:lx.pos]
			if strings.Contains(raw, "\n") {
				lx.nl = true
			}
			if strings.HasPrefix(raw, "/**") && raw != "/**/" && !strings.HasPrefix(raw, "/***") {
				lx.docs = append(lx.docs, parseDocBlock(raw, lx.lines.span(start, lx.pos)))
			}
		case c == 0xEF && strings.HasPrefix(lx.src[lx.pos:], "\uFEFF"):
			lx.pos += 3
		default:
			r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			if r == '\u2028' || r == '\u2029' {
				lx.nl = true
				lx.pos += size
				continue
			}
			if unicode.IsSpace(r) {
				lx.pos += size
				continue
			}
			return nil
		}
	}
	return nil
}

func (lx *lexer) next() error {
	start := lx.pos
	c := lx.src[lx.pos]
	switch {
	case c == '"' || c == '\'':
		value, end, err := lx.scanString(start)
		if err != nil {
			return err
		}
		lx.pos = end
		lx.emit(tokString, start, end, value)
	case c == '`':
		end, err := lx.scanTemplate(start)
		if err != nil {
			return err
		}
		lx.pos = end
		lx.emit(tokTemplate, start, end, "")
	case isDigit(c) || (c == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1])):
		lx.pos = lx.scanNumber(start)
		lx.emit(tokNumber, start, lx.pos, "")
	case c == '/' && lx.regexAllowed():
		end, err := lx.scanRegex(start)
		if err != nil {
			return err
		}
		lx.pos = end
		lx.emit(tokRegex, start, end, "")
	case c == '#' || c == '$' || c == '_' || c == '\\' || isLetterStart(lx.src[lx.pos:]):
		lx.pos = lx.scanIdent(start + 1)
		lx.emit(tokIdent, start, lx.pos, "")
	default:
		for _, p := range puncts {
			if strings.HasPrefix(lx.src[lx.pos:], p) {
				lx.pos += len(p)
				lx.emit(tokPunct, start, lx.pos, "")
				return nil
			}
		}
		r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
		return lx.errorf(start, start+1, "unexpected character %q", r)
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetterStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

func (lx *lexer) scanIdent(i int) int {
	for i < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[i:])
		if r == '$' || r == '_' || r == '\u200c' || r == '\u200d' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			i += size
			continue
		}
		if r == '\\' && i+1 < len(lx.src) && lx.src[i+1] == 'u' {
			i += 2
			continue
		}
		break
	}
	return i
}

func (lx *lexer) scanNumber(start int) int {
	hex := strings.HasPrefix(lx.src[start:], "0x") || strings.HasPrefix(lx.src[start:], "0X")
	i := start
	for i < len(lx.src) {
		c := lx.src[i]
		if isDigit(c) || c == '.' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			i++
			continue
		}
		// exponent sign
		if (c == '+' || c == '-') && (lx.src[i-1] == 'e' || lx.src[i-1] == 'E') && !hex {
			i++
			continue
		}
		break
	}
	return i
}

func (lx *lexer) scanString(start int) (string, int, error) {
	quote := lx.src[start]
	var b strings.Builder
	i := start + 1
	for i < len(lx.src) {
		c := lx.src[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\n':
			return "", 0, lx.errorf(start, i, "unterminated string literal")
		case c == '\\':
			n, width := unescape(lx.src[i:])
			b.WriteString(n)
			i += width
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, lx.errorf(start, len(lx.src), "unterminated string literal")
}

// unescape decodes one escape sequence at the start of s (which begins
// with a backslash) and returns the decoded text and consumed width.
func unescape(s string) (string, int) {
	if len(s) < 2 {
		return "", len(s)
	}
	switch s[1] {
	case 'n':
		return "\n", 2
	case 't':
		return "\t", 2
	case 'r':
		return "\r", 2
	case 'b':
		return "\b", 2
	case 'f':
		return "\f", 2
	case 'v':
		return "\v", 2
	case '0':
		return "\x00", 2
	case '\r':
		if len(s) > 2 && s[2] == '\n' {
			return "", 3
		}
		return "", 2
	case '\n':
		return "", 2
	case 'x':
		if len(s) >= 4 {
			if v, err := strconv.ParseUint(s[2:4], 16, 8); err == nil {
				return string(rune(v)), 4
			}
		}
	case 'u':
		if len(s) >= 3 && s[2] == '{' {
			if end := strings.IndexByte(s, '}'); end > 3 {
				if v, err := strconv.ParseUint(s[3:end], 16, 32); err == nil {
					return string(rune(v)), end + 1
				}
			}
		} else if len(s) >= 6 {
			if v, err := strconv.ParseUint(s[2:6], 16, 16); err == nil {
				return string(rune(v)), 6
			}
		}
	}
	r, size := utf8.DecodeRuneInString(s[1:])
	return string(r), 1 + size
}

// scanTemplate returns the offset just past the closing backtick,
// skipping over nested ${ } expressions.
func (lx *lexer) scanTemplate(start int) (int, error) {
	i := start + 1
	for i < len(lx.src) {
		switch lx.src[i] {
		case '\\':
			i += 2
		case '`':
			return i + 1, nil
		case '$':
			if i+1 < len(lx.src) && lx.src[i+1] == '{' {
				end, err := lx.skipBraces(i + 1)
				if err != nil {
					return 0, err
				}
				i = end
				continue
			}
			i++
		default:
			i++
		}
	}
	return 0, lx.errorf(start, len(lx.src), "unterminated template literal")
}

// skipBraces returns the offset just past the brace matching src[open].
func (lx *lexer) skipBraces(open int) (int, error) {
	depth := 0
	i := open
	for i < len(lx.src) {
		c := lx.src[i]
		switch {
		case c == '{':
			depth++
			i++
		case c == '}':
			depth--
			i++
			if depth == 0 {
				return i, nil
			}
		case c == '"' || c == '\'':
			_, end, err := lx.scanString(i)
			if err != nil {
				return 0, err
			}
			i = end
		case c == '`':
			end, err := lx.scanTemplate(i)
			if err != nil {
				return 0, err
			}
			i = end
		case strings.HasPrefix(lx.src[i:], "//"):
			end := strings.IndexByte(lx.src[i:], '\n')
			if end < 0 {
				return 0, lx.errorf(open, len(lx.src), "unterminated template expression")
			}
			i += end
		case strings.HasPrefix(lx.src[i:], "/*"):
			end := strings.Index(lx.src[i+2:], "*/")
			if end < 0 {
				return 0, lx.errorf(i, len(lx.src), "unterminated comment")
			}
			i += end + 4
		default:
			i++
		}
	}
	return 0, lx.errorf(open, len(lx.src), "unterminated template expression")
}

func (lx *lexer) regexAllowed() bool {
	if len(lx.tokens) == 0 {
		return true
	}
	prev := lx.tokens[len(lx.tokens)-1]
	switch prev.kind {
	case tokPunct:
		return prev.text != ")" && prev.text != "]" && prev.text != "}"
	case tokIdent:
		return regexKeywords[prev.text]
	default:
		return false
	}
}

func (lx *lexer) scanRegex(start int) (int, error) {
	i := start + 1
	inClass := false
	for i < len(lx.src) {
		c := lx.src[i]
		switch {
		case c == '\n':
			return 0, lx.errorf(start, i, "unterminated regular expression")
		case c == '\\':
			i += 2
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			i++
			for i < len(lx.src) && (unicode.IsLetter(rune(lx.src[i]))) {
				i++
			}
			return i, nil
		}
		i++
	}
	return 0, lx.errorf(start, len(lx.src), "unterminated regular expression")
}
