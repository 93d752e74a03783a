package tsparse

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/teranos/tscli/errors"
)

// ErrorContext selects how a ParseError is rendered
type ErrorContext int

const (
	ErrorContextPlain    ErrorContext = iota // logs, JSON, tests
	ErrorContextTerminal                     // colored terminal output
)

// ParseError represents a syntax error with its source location
type ParseError struct {
	File        string   // Source unit path
	Message     string   // Human-readable message
	Range       Range    // Offending token span
	Token       string   // Offending token text (optional)
	Suggestions []string // Possible fixes
}

// Error implements error interface
func (e *ParseError) Error() string {
	return e.FormatError(ErrorContextPlain)
}

// Unwrap lets errors.Is(err, errors.ErrParse) match every ParseError
func (e *ParseError) Unwrap() error {
	return errors.ErrParse
}

// FormatError generates context-appropriate error message
func (e *ParseError) FormatError(ctx ErrorContext) string {
	if ctx == ErrorContextPlain {
		return e.formatPlainError()
	}
	return e.formatTerminalError()
}

func (e *ParseError) location() string {
	return fmt.Sprintf("%s:%d:%d", e.File, e.Range.Start.Line, e.Range.Start.Character+1)
}

func (e *ParseError) formatPlainError() string {
	msg := e.location() + ": " + e.Message
	if e.Token != "" {
		msg += fmt.Sprintf(" (found %q)", e.Token)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(". Suggestions: %s", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *ParseError) formatTerminalError() string {
	var b strings.Builder
	b.WriteString(pterm.Red(e.Message))
	b.WriteString(fmt.Sprintf("\n\n%s\n  %s %s", pterm.LightCyan("Context:"), pterm.Yellow("At:"), e.location()))
	if e.Token != "" {
		b.WriteString(fmt.Sprintf("\n  %s '%s'", pterm.Yellow("Token:"), e.Token))
	}
	if len(e.Suggestions) > 0 {
		b.WriteString(fmt.Sprintf("\n\n%s", pterm.Green("Suggestions:")))
		for _, s := range e.Suggestions {
			b.WriteString("\n  • " + s)
		}
	}
	return b.String()
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ParseError) WithSuggestion(suggestion string) *ParseError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}
