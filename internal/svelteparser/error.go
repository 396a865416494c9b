// Package svelteparser implements a recursive-descent parser over
// internal/lexer's token stream, producing an internal/ast.Document plus a
// possibly-empty list of recoverable errors.
package svelteparser

import (
	"fmt"

	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// ErrorKind classifies a recoverable parse error.
type ErrorKind int

const (
	ErrUnexpectedToken ErrorKind = iota
	ErrUnexpectedEOF
	ErrUnclosedTag
	ErrMismatchedClosingTag
	ErrUnclosedBlock
	ErrInvalidAttribute
	ErrInvalidExpression
	ErrInvalidDirective
	ErrUnknownBlock
)

// Error is a single recoverable parse error attached to a span. The parser
// accumulates these rather than aborting; Document is always fully
// populated even when Errors is non-empty.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    position.Span
}

func (e Error) String() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

func newError(kind ErrorKind, span position.Span, format string, args ...any) Error {
	return Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}
