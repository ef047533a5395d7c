// Package errors provides error handling for opgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints shown to the user when a run fails
//
// Every pipeline stage marks its failures with one of the sentinels below,
// so callers can test the failure class with Is while the message still
// carries the stage and the underlying cause:
//
//	if err := load(path); err != nil {
//	    return errors.Mark(errors.Wrapf(err, "load definitions %s", path), errors.ErrParse)
//	}
//
//	if errors.Is(err, errors.ErrParse) {
//	    // malformed input
//	}
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
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Failure classes of a generation run.
// Use these with errors.Is(); stages attach them with Mark so the original
// cause stays in the message.
var (
	// ErrInputNotFound indicates the definitions file is missing or unreadable
	ErrInputNotFound = New("input not found")

	// ErrParse indicates malformed structured data or a missing required key
	ErrParse = New("parse error")

	// ErrIncompatible indicates the definitions require another generator version
	ErrIncompatible = New("incompatible generator version")

	// ErrTemplateNotFound indicates the template file does not exist
	ErrTemplateNotFound = New("template not found")

	// ErrTemplate indicates a template syntax error or an unresolved reference
	ErrTemplate = New("template error")

	// ErrUnknownTarget indicates the template argument names no known target
	ErrUnknownTarget = New("unknown target")

	// ErrOutputWrite indicates the result could not be written
	ErrOutputWrite = New("output write error")

	// ErrOutOfDate indicates a checked output file differs from a fresh render
	ErrOutOfDate = New("output out of date")

	// ErrInvalidConfig indicates a configuration value is out of range
	ErrInvalidConfig = New("invalid configuration")
)

// Stage returns a short name of the pipeline stage that produced err,
// or "" when err carries none of the stage sentinels.
func Stage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsAny(err, ErrInputNotFound, ErrParse, ErrIncompatible):
		return "load"
	case IsAny(err, ErrTemplateNotFound, ErrTemplate, ErrUnknownTarget):
		return "template"
	case Is(err, ErrOutputWrite):
		return "write"
	case Is(err, ErrOutOfDate):
		return "check"
	case Is(err, ErrInvalidConfig):
		return "config"
	}
	return ""
}

// MarkStage wraps err with msg and marks it with the sentinel class.
// Returns nil when err is nil.
func MarkStage(err error, class error, msg string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, msg), class)
}

// MarkStagef is MarkStage with a formatted message.
func MarkStagef(err error, class error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Mark(Wrapf(err, format, args...), class)
}

// NewStagef creates a new error already marked with the sentinel class.
func NewStagef(class error, format string, args ...interface{}) error {
	return Mark(Newf(format, args...), class)
}
