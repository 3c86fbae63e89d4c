package directive

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"incode/internal/source"
)

// DefaultPrefix is the directive prefix used when none is configured.
const DefaultPrefix = "inj"

// Occurrence is one raw directive line found by a Matcher.
type Occurrence struct {
	// Line is the matched line including leading whitespace.
	Line string
	// Comment is the suffix of Line starting at the comment marker.
	Comment string
	// Body is the text after "<prefix>:".
	Body string
	Span source.Span
	// Marker is the offset of the comment marker in the scanned text.
	Marker uint32
}

// Padding returns the part of Line that precedes Comment.
func (o Occurrence) Padding() string {
	return o.Line[:o.Marker-o.Span.Start]
}

// Matcher finds directive comment lines.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher returns a matcher for lines of the form
//
//	<spaces or tabs>// <prefix>:<body>
func NewMatcher(prefix string) (*Matcher, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, errors.New("directive prefix must not be empty")
	}
	if strings.ContainsAny(prefix, " \t\n:") {
		return nil, fmt.Errorf("directive prefix %q must not contain whitespace or ':'", prefix)
	}
	re := regexp.MustCompile(`(?m)^[ \t]*(//[ \t]+` + regexp.QuoteMeta(prefix) + `:(.+))$`)
	return &Matcher{re: re}, nil
}

// MustMatcher is NewMatcher that panics on error.
func MustMatcher(prefix string) *Matcher {
	m, err := NewMatcher(prefix)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMatcherRegexp wraps a caller-built pattern. The pattern must match whole
// lines in multi-line mode; group 1 captures the comment text and group 2 the
// directive body.
func NewMatcherRegexp(re *regexp.Regexp) (*Matcher, error) {
	if re == nil {
		return nil, errors.New("nil directive pattern")
	}
	if re.NumSubexp() < 2 {
		return nil, fmt.Errorf("directive pattern %q must have 2 capture groups, has %d", re.String(), re.NumSubexp())
	}
	return &Matcher{re: re}, nil
}

// String returns the underlying pattern.
func (m *Matcher) String() string {
	return m.re.String()
}

// Scan returns every directive line of text in source order.
func (m *Matcher) Scan(text string) []Occurrence {
	matches := m.re.FindAllStringSubmatchIndex(text, -1)
	out := make([]Occurrence, 0, len(matches))
	for _, loc := range matches {
		if loc[2] < 0 || loc[4] < 0 {
			continue
		}
		if loc[2] < loc[0] || loc[3] > loc[1] {
			continue
		}
		marker := source.SpanOf(0, loc[2], loc[3])
		out = append(out, Occurrence{
			Line:    text[loc[0]:loc[1]],
			Comment: text[loc[2]:loc[3]],
			Body:    text[loc[4]:loc[5]],
			Span:    source.SpanOf(0, loc[0], loc[1]),
			Marker:  marker.Start,
		})
	}
	return out
}
