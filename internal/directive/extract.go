package directive

import (
	"errors"

	"incode/internal/diag"
	"incode/internal/source"
)

// Extract scans text with m and parses every directive line, in source order.
// The first malformed directive aborts the scan with a positioned *diag.Error.
func Extract(text string, m *Matcher) ([]Directive, error) {
	occs := m.Scan(text)
	out := make([]Directive, 0, len(occs))
	for _, occ := range occs {
		p, err := Parse(occ.Body)
		if err != nil {
			code := diag.DirUnknownType
			var se *SyntaxError
			if errors.As(err, &se) {
				code = se.Code
			}
			span := source.Span{Start: occ.Marker, End: occ.Span.End}
			return nil, diag.NewError(code, text, span, err.Error())
		}
		out = append(out, Directive{
			Payload: p,
			Padding: occ.Padding(),
			Span:    occ.Span,
			Marker:  occ.Marker,
		})
	}
	return out, nil
}
