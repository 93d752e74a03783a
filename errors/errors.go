// Package errors provides error handling for tscli.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints for the person fixing the source file
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := parse(); err != nil {
//	    return errors.Wrap(err, "failed to parse entry")
//	}
//
//	// Classify with a sentinel, keeping the message
//	return errors.Mark(errors.Newf("Unsupported option type %q", text), errors.ErrUnsupportedType)
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark

	CombineErrors = crdb.CombineErrors
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Resolution errors.
var (
	// ErrNoFunctionFound indicates the entry has no top-level function declaration
	ErrNoFunctionFound = New("no function found")

	// ErrNoExportedFunctionFound indicates several functions exist but none is exported
	ErrNoExportedFunctionFound = New("no exported function found")
)

// Type errors.
var (
	// ErrUnsupportedType indicates a parameter or member type outside the recognized set
	ErrUnsupportedType = New("unsupported type")

	// ErrNotStructural indicates the options parameter is not an interface-like type
	ErrNotStructural = New("options type is not structural")

	// ErrUnresolved indicates a type reference has no declaration the reader can find
	ErrUnresolved = New("unresolved type reference")

	// ErrNonStringEnum indicates an enum member without a string literal value
	ErrNonStringEnum = New("enum member is not a string")
)

// Declaration and documentation errors.
var (
	// ErrNotExported indicates a referenced declaration cannot be imported by generated code
	ErrNotExported = New("declaration is not exported")

	// ErrNameConflict indicates two distinct declarations share an import name
	ErrNameConflict = New("name conflict")

	// ErrTagConflict indicates a documentation tag collides with a generated configuration key
	ErrTagConflict = New("tag conflicts with generated key")

	// ErrParse indicates the source text could not be parsed
	ErrParse = New("parse error")
)

// ErrCanceled indicates the user declined to overwrite the destination.
// It is a clean cancellation, not a failure.
var ErrCanceled = New("canceled")

// IsCanceled reports whether err is or wraps ErrCanceled.
func IsCanceled(err error) bool {
	return err != nil && Is(err, ErrCanceled)
}

// IsSourceError reports whether err is caused by the content of the
// command source, as opposed to I/O or configuration.
func IsSourceError(err error) bool {
	return err != nil && IsAny(err,
		ErrNoFunctionFound,
		ErrNoExportedFunctionFound,
		ErrUnsupportedType,
		ErrNotStructural,
		ErrUnresolved,
		ErrNonStringEnum,
		ErrNotExported,
		ErrNameConflict,
		ErrTagConflict,
		ErrParse,
	)
}
