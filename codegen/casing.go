package codegen

import (
	"strings"
	"unicode"
)

// ToPascalCase converts snake_case, kebab-case or dotted names to PascalCase.
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !(r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})

	var result strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}
	return result.String()
}

// ToCamelCase converts snake_case, kebab-case or dotted names to camelCase.
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return pascal
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// Identifier turns a file base name into a usable identifier: "my-cmd"
// becomes "myCmd" and "2fa" becomes "_2fa".
func Identifier(name string) string {
	id := ToCamelCase(name)
	if id == "" {
		return "_"
	}
	if unicode.IsDigit([]rune(id)[0]) {
		id = "_" + id
	}
	if reserved[id] {
		id = "_" + id
	}
	return id
}

var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "let": true, "static": true, "await": true,
}
