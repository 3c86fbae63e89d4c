package incode

import (
	"regexp"

	"incode/internal/diag"
	"incode/internal/directive"
	"incode/internal/region"
	"incode/internal/source"
)

type (
	// Matcher finds directive comment lines.
	Matcher = directive.Matcher
	// Directive is a parsed directive line.
	Directive = directive.Directive
	// Kind is the directive type.
	Kind = directive.Kind
	// Region is an emit/end bounded span with its resolved data.
	Region = region.Region
	// RenderFunc produces the replacement text of a region.
	RenderFunc = region.RenderFunc
	// Error is a positioned extraction error.
	Error = diag.Error
	// Span is a half-open byte range.
	Span = source.Span
	// LineCol is a 1-based line and column.
	LineCol = source.LineCol
)

const (
	Begin  = directive.KindBegin
	End    = directive.KindEnd
	Assign = directive.KindAssign
	Merge  = directive.KindMerge
	Emit   = directive.KindEmit
)

// DefaultPrefix is the directive prefix used by the incode tool.
const DefaultPrefix = directive.DefaultPrefix

var (
	ErrInvalidDirective = diag.ErrInvalidDirective
	ErrInvalidRegion    = diag.ErrInvalidRegion
	ErrOffsetOutOfRange = source.ErrOffsetOutOfRange
)

// NewMatcher returns a matcher for "// <prefix>:<body>" lines.
func NewMatcher(prefix string) (*Matcher, error) {
	return directive.NewMatcher(prefix)
}

// NewMatcherRegexp wraps a custom pattern. Group 1 must capture the comment
// starting at its marker, group 2 the directive body.
func NewMatcherRegexp(re *regexp.Regexp) (*Matcher, error) {
	return directive.NewMatcherRegexp(re)
}

// Directives returns the parsed directives of text in source order.
func Directives(text string, m *Matcher) ([]Directive, error) {
	return directive.Extract(text, m)
}

// ExtractRegions returns the regions of text in source order. initial is the
// data of the root scope and may be nil.
func ExtractRegions(text string, m *Matcher, initial map[string]any) ([]Region, error) {
	return region.ExtractRegions(text, m, initial)
}

// Inject replaces every region of text with the output of render.
func Inject(text string, m *Matcher, render RenderFunc, initial map[string]any) (string, error) {
	return region.Inject(text, m, render, initial)
}

// Position converts a byte offset of text into a line and column.
func Position(text string, offset int) (LineCol, error) {
	return source.Position(text, offset)
}
