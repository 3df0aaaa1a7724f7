// Package errors defines the compiler's diagnostic taxonomy: every
// error the parser, verifier, or emitter reports carries a Kind, a
// source location, and a message, and can wrap an underlying cause via
// github.com/pkg/errors.
package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies a diagnostic by which pipeline stage raised it and
// what it complains about.
type Kind string

const (
	ParseError             Kind = "ParseError"
	NameResolutionError    Kind = "NameResolutionError"
	TypeError              Kind = "TypeError"
	OperatorResolutionError Kind = "OperatorResolutionError"
	StructuralError        Kind = "StructuralError"
	EnvironmentError       Kind = "EnvironmentError"
)

// Location is a position in a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// CompileError is a single diagnostic produced by the toolchain.
type CompileError struct {
	Kind     Kind
	Message  string
	Location Location
	Source   string // the offending source line, for a caret display
	cause    error
}

func (e *CompileError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Kind, e.Message))
	if e.Location.File != "" || e.Location.Line != 0 {
		sb.WriteString(fmt.Sprintf(" (at %s)", e.Location))
	}
	if e.Source != "" {
		sb.WriteString(fmt.Sprintf("\n  %d | %s", e.Location.Line, e.Source))
		if e.Location.Column > 0 {
			sb.WriteString("\n  " + strings.Repeat(" ", len(fmt.Sprintf("%d | ", e.Location.Line))+e.Location.Column-1) + "^")
		}
	}
	if e.cause != nil {
		sb.WriteString(": " + e.cause.Error())
	}
	return sb.String()
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *CompileError) Unwrap() error { return e.cause }

// WithSource attaches the offending source line for caret display.
func (e *CompileError) WithSource(line string) *CompileError {
	e.Source = line
	return e
}

// WithCause wraps an underlying error via pkg/errors, preserving its
// stack trace for log output.
func (e *CompileError) WithCause(cause error) *CompileError {
	e.cause = pkgerrors.WithStack(cause)
	return e
}

func New(kind Kind, loc Location, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)}
}

func NewParseError(loc Location, format string, args ...interface{}) *CompileError {
	return New(ParseError, loc, format, args...)
}

func NewNameResolutionError(loc Location, format string, args ...interface{}) *CompileError {
	return New(NameResolutionError, loc, format, args...)
}

func NewTypeError(loc Location, format string, args ...interface{}) *CompileError {
	return New(TypeError, loc, format, args...)
}

func NewOperatorResolutionError(loc Location, format string, args ...interface{}) *CompileError {
	return New(OperatorResolutionError, loc, format, args...)
}

func NewStructuralError(loc Location, format string, args ...interface{}) *CompileError {
	return New(StructuralError, loc, format, args...)
}

func NewEnvironmentError(format string, args ...interface{}) *CompileError {
	return New(EnvironmentError, Location{}, format, args...)
}

// List aggregates diagnostics from a pipeline stage that keeps going
// after the first error, such as the verifier.
type List []*CompileError

func (l List) Error() string {
	var sb strings.Builder
	for i, e := range l {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

func (l List) HasErrors() bool { return len(l) > 0 }
