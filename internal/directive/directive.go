package directive

import "incode/internal/source"

// Payload is the typed result of parsing one directive body.
type Payload struct {
	Kind Kind
	// Object is set for assign and merge.
	Object map[string]any
	// Args is set (possibly empty, never nil) for emit.
	Args []any
}

// Directive is one parsed instruction found in a comment line.
// Directives are immutable once parsed.
type Directive struct {
	Payload
	// Padding is the whitespace preceding the comment marker on its line.
	Padding string
	// Span covers the matched line: Start is its first byte, End is one past
	// its last byte (the newline is not included).
	Span source.Span
	// Marker is the offset of the comment marker, used for diagnostics.
	Marker uint32
}
