// Package diag is the front-end's single diagnostic sink. The front-end
// is fail-fast: the first Error produced by any stage aborts the
// pipeline, so there is one kind of fatal diagnostic (Error) plus one
// non-fatal Warning, not a growing bag of severities.
package diag

import (
	"fmt"
	"strings"
)

// Stage identifies which pipeline stage raised a diagnostic.
type Stage int

const (
	Lex Stage = iota
	Parse
	Annotate
)

func (s Stage) String() string {
	switch s {
	case Lex:
		return "lex error"
	case Parse:
		return "parse error"
	case Annotate:
		return "annotate error"
	default:
		return "error"
	}
}

// Error is a positioned diagnostic. Every lex, parse, or annotate
// failure in this module is reported as one of these; the CLI renders
// it and exits non-zero.
type Error struct {
	Stage   Stage
	Message string
	Line    int
	Column  int
	Source  string // full source text, for snippet rendering; may be empty
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Snippet renders a Rust/Clang-style source pointer under the
// diagnostic, when Source was supplied.
func (e *Error) Snippet() string {
	if e.Source == "" || e.Line <= 0 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if e.Line > len(lines) {
		return ""
	}
	line := lines[e.Line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", e.Line, e.Column)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", e.Line, line)
	b.WriteString("   | ")
	if e.Column > 0 && e.Column <= len(line)+1 {
		b.WriteString(strings.Repeat(" ", e.Column-1) + "^")
	}
	return b.String()
}

// New constructs a diagnostic at a stage and position.
func New(stage Stage, line, column int, format string, args ...any) *Error {
	return &Error{Stage: stage, Message: fmt.Sprintf(format, args...), Line: line, Column: column}
}

// WithSource attaches source text for snippet rendering and returns e.
func (e *Error) WithSource(src string) *Error {
	e.Source = src
	return e
}

// Warning is a non-fatal diagnostic: today only the annotator's "bound
// but never accessed" case. Warnings do not stop the pipeline.
type Warning struct {
	Message string
	Line    int
	Column  int
}

func (w Warning) String() string {
	return fmt.Sprintf("warning: %d:%d: %s", w.Line, w.Column, w.Message)
}
