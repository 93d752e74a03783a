package tsparse

import (
	"strings"
)

// DocBlock is a parsed /** ... */ comment.
type DocBlock struct {
	Description string
	Tags        []*Tag
	Range       Range
}

// Tag is one @name annotation inside a DocBlock.
//
// For parameter-like tags (@param, @arg, @argument, @prop, @property)
// TypeExpr and ParamName are split off the front of the text and Comment holds
// the remainder. For every other tag Comment is the full text.
type Tag struct {
	Name      string
	TypeExpr  string // contents of a leading {...}, if any
	ParamName string // documented parameter name for parameter-like tags
	Comment   string
}

// Text returns the tag's comment trimmed of surrounding whitespace.
func (t *Tag) Text() string {
	return strings.TrimSpace(t.Comment)
}

var parameterTags = map[string]bool{
	"param": true, "arg": true, "argument": true, "prop": true, "property": true,
}

func parseDocBlock(raw string, r Range) *DocBlock {
	body := strings.TrimPrefix(raw, "/**")
	body = strings.TrimSuffix(body, "*/")

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, " \t\r")
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "*") {
			trimmed = strings.TrimPrefix(trimmed, "*")
			trimmed = strings.TrimPrefix(trimmed, " ")
			line = trimmed
		} else {
			line = trimmed
		}
		lines = append(lines, line)
	}

	block := &DocBlock{Range: r}
	var desc []string
	var current *Tag
	var text []string

	flush := func() {
		if current == nil {
			return
		}
		finishTag(current, strings.Join(text, "\n"))
		block.Tags = append(block.Tags, current)
		current = nil
		text = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if name, rest, ok := tagStart(trimmed); ok {
			flush()
			current = &Tag{Name: name}
			text = []string{rest}
			continue
		}
		if current != nil {
			text = append(text, line)
		} else {
			desc = append(desc, line)
		}
	}
	flush()

	block.Description = strings.TrimSpace(strings.Join(desc, "\n"))
	return block
}

// tagStart recognizes "@name rest" at the start of a line.
func tagStart(line string) (name, rest string, ok bool) {
	if !strings.HasPrefix(line, "@") || len(line) < 2 {
		return "", "", false
	}
	end := 1
	for end < len(line) && isTagNameByte(line[end]) {
		end++
	}
	if end == 1 {
		return "", "", false
	}
	return line[1:end], strings.TrimSpace(line[end:]), true
}

func isTagNameByte(c byte) bool {
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func finishTag(t *Tag, text string) {
	text = strings.TrimRight(text, " \t\n")
	if !parameterTags[t.Name] {
		t.Comment = text
		return
	}

	rest := strings.TrimLeft(text, " \t")
	if strings.HasPrefix(rest, "{") {
		if end := matchingBrace(rest); end > 0 {
			t.TypeExpr = strings.TrimSpace(rest[1:end])
			rest = strings.TrimLeft(rest[end+1:], " \t")
		}
	}

	// [name=default] marks an optional parameter
	if strings.HasPrefix(rest, "[") {
		if end := strings.IndexByte(rest, ']'); end > 0 {
			inner := rest[1:end]
			if eq := strings.IndexByte(inner, '='); eq >= 0 {
				inner = inner[:eq]
			}
			t.ParamName = strings.TrimSpace(inner)
			t.Comment = strings.TrimLeft(rest[end+1:], " \t")
			return
		}
	}

	end := strings.IndexAny(rest, " \t\n")
	if end < 0 {
		t.ParamName = rest
		return
	}
	t.ParamName = rest[:end]
	t.Comment = strings.TrimLeft(rest[end:], " \t")
}

func matchingBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
