package data

import (
	"fmt"
	"strings"
)

// NotFoundError reports a config name with no document behind it.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ParseError reports a malformed document. Line and Column are 1-based and
// zero when the position is unknown.
type ParseError struct {
	Name   string
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("parse %s:%d:%d: %s", e.Name, e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("parse %s:%d: %s", e.Name, e.Line, e.Msg)
	}
	return fmt.Sprintf("parse %s: %s", e.Name, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CyclicInheritanceError reports a derive_from chain that revisits a
// document. Chain ends with the repeated name.
type CyclicInheritanceError struct {
	Chain []string
}

func (e *CyclicInheritanceError) Error() string {
	return "cyclic derive_from: " + strings.Join(e.Chain, " -> ")
}

// ResolutionDepthExceededError reports a derive_from chain longer than the
// resolver's limit.
type ResolutionDepthExceededError struct {
	Limit int
	Chain []string
}

func (e *ResolutionDepthExceededError) Error() string {
	return fmt.Sprintf("derive_from chain exceeds %d documents at %s", e.Limit, e.Chain[len(e.Chain)-1])
}
