package region

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"incode/internal/directive"
	"incode/internal/source"
)

// RenderFunc produces the replacement text of a region.
type RenderFunc func(r *Region) (string, error)

// Inject extracts the regions of text and replaces each of them with its
// rendered text. The emit and end lines are preserved.
func Inject(text string, m *directive.Matcher, render RenderFunc, initial map[string]any) (string, error) {
	regions, err := ExtractRegions(text, m, initial)
	if err != nil {
		return "", err
	}
	return Splice(text, regions, render)
}

// Splice replaces regions (sorted, non-overlapping) in text with rendered
// output. A newline is added at either end of the output when missing so it
// sits on its own lines between the emit and end directives; blank lines the
// output already carries are kept.
func Splice(text string, regions []Region, render RenderFunc) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	size, err := safecast.Conv[uint32](len(text))
	if err != nil {
		return "", fmt.Errorf("text too large: %w", err)
	}
	var cursor uint32
	for i := range regions {
		r := &regions[i]
		if r.Span.Start > r.Span.End || r.Span.End > size {
			return "", fmt.Errorf("region %s out of bounds for text of %d bytes", r.Span, size)
		}
		if r.Emit.Start > size {
			return "", fmt.Errorf("region %s: emit offset %d beyond text", r.Span, r.Emit.Start)
		}
		if r.Span.Start < cursor {
			return "", fmt.Errorf("region %s overlaps previous region", r.Span)
		}
		out, err := render(r)
		if err != nil {
			lc := source.MustPosition(text, r.Emit.Start)
			return "", fmt.Errorf("render region at line %d: %w", lc.Line, err)
		}
		b.WriteString(text[cursor:r.Span.Start])
		b.WriteString(normalizeNewlines(out))
		cursor = r.Span.End
	}
	b.WriteString(text[cursor:])
	return b.String(), nil
}

func normalizeNewlines(s string) string {
	if s == "" || s == "\n" {
		return "\n"
	}
	if !strings.HasPrefix(s, "\n") {
		s = "\n" + s
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}
