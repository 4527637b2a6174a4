package deck

import (
	"errors"
	"fmt"
)

// Sentinel errors for fatal parse and traversal failures.
var (
	// ErrMalformedField is returned when a field looks numeric but fails
	// strict numeric conversion.
	ErrMalformedField = errors.New("malformed numeric field")

	// ErrIncludeNotFound is returned when an INCLUDE target is missing or
	// unreadable. It aborts the whole traversal.
	ErrIncludeNotFound = errors.New("include file not found")

	// ErrIncludeDepth is returned when INCLUDE nesting exceeds
	// maxIncludeDepth, which almost always means an include cycle.
	ErrIncludeDepth = errors.New("include depth exceeded")
)

// DiagKind classifies a recoverable finding reported during assembly.
type DiagKind int

const (
	// DiagDuplicateKey: two records in one deck collapsed to the same
	// canonical key. The later record wins.
	DiagDuplicateKey DiagKind = iota

	// DiagUnbalancedContinuation: a continuation line appeared with no
	// record open. The line is dropped.
	DiagUnbalancedContinuation

	// DiagMalformedField: a line held a numeric-looking field that failed
	// strict parsing. The record is dropped.
	DiagMalformedField
)

func (k DiagKind) String() string {
	switch k {
	case DiagDuplicateKey:
		return "duplicate key"
	case DiagUnbalancedContinuation:
		return "unbalanced continuation"
	case DiagMalformedField:
		return "malformed field"
	}
	return "unknown"
}

// Diagnostic is a recoverable, structured finding with enough context to
// locate the offending line. Diagnostics are collected and returned with the
// assembled table; the caller chooses the sink.
type Diagnostic struct {
	Kind   DiagKind
	File   string
	Line   int
	Key    string
	Detail string
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Kind)
	if d.Key != "" {
		s += fmt.Sprintf(" (key %q)", d.Key)
	}
	if d.Detail != "" {
		s += ": " + d.Detail
	}
	return s
}
