// Package region resolves directive streams into injectable regions.
//
// A document is a tree of scopes. The root scope is implicit; every
// begin/end pair opens a nested one. Each scope owns a snapshot of the data
// it inherited from its parent and updates it with assign (shallow overlay)
// and merge (deep merge) directives. An emit directive must be followed
// directly by end; the text between the two lines is the region that a
// caller replaces with rendered output.
package region

import (
	"incode/internal/directive"
	"incode/internal/source"
)

// Region is a span of text bounded by an emit directive and its end.
type Region struct {
	// Args are the emit arguments, in order.
	Args []any
	// Data is the scope data at the emit directive. It is a deep copy and
	// may be modified by the caller.
	Data map[string]any
	// Padding is the leading whitespace of the emit line.
	Padding string
	// Span starts right after the emit line and ends at the start of the
	// end line. Span.Start points at the emit line's newline.
	Span source.Span
	// Emit is the span of the emit directive line.
	Emit source.Span
}

// Content returns the current text of the region in text.
func (r *Region) Content(text string) string {
	return r.Span.Slice(text)
}

// ExtractRegions tokenizes and parses the directives of text and resolves
// them into regions, in source order.
func ExtractRegions(text string, m *directive.Matcher, initial map[string]any) ([]Region, error) {
	dirs, err := directive.Extract(text, m)
	if err != nil {
		return nil, err
	}
	return Resolve(text, dirs, initial)
}
