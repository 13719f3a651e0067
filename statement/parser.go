package statement

import "github.com/kvschema/advisor/schema"

// Parser turns statement source text into a Statement. Statement
// syntax (the textual query language itself) is an external
// collaborator's concern, out of scope for this module; Parser names
// the contract the rest of the advisor depends on.
type Parser interface {
	// Parse resolves src against sch and returns the Statement it
	// denotes, including the KeyPath it traverses.
	Parse(sch *schema.Schema, src string) (*Statement, error)
}

// ParseError wraps a rejected statement with the source text and an
// optional byte offset into it, so a caller can report a span.
type ParseError struct {
	Source string
	Offset int
	Err    error
}

func (e *ParseError) Error() string { return e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }
