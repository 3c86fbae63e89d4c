package region

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"incode/internal/diag"
	"incode/internal/directive"
	"incode/internal/source"
)

func TestInject(t *testing.T) {
	text := lines(
		`package models`,
		``,
		`// inj:assign({"schema":"User","fields":["ID","Name"]})`,
		`type User struct {`,
		`	// inj:emit("fields")`,
		`	stale`,
		`	// inj:end`,
		`}`,
		``,
	)
	render := func(r *Region) (string, error) {
		var b strings.Builder
		for _, f := range r.Data["fields"].([]any) {
			fmt.Fprintf(&b, "%s%s string\n", r.Padding, f)
		}
		return b.String(), nil
	}
	want := lines(
		`package models`,
		``,
		`// inj:assign({"schema":"User","fields":["ID","Name"]})`,
		`type User struct {`,
		`	// inj:emit("fields")`,
		`	ID string`,
		`	Name string`,
		`	// inj:end`,
		`}`,
		``,
	)

	got, err := Inject(text, directive.MustMatcher("inj"), render, nil)
	if err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if got != want {
		t.Errorf("Inject() =\n%s\nwant\n%s", got, want)
	}

	again, err := Inject(got, directive.MustMatcher("inj"), render, nil)
	if err != nil {
		t.Fatalf("second Inject() error = %v", err)
	}
	if again != got {
		t.Errorf("Inject() is not idempotent:\n%s", again)
	}
}

func TestInjectRoundTrip(t *testing.T) {
	texts := []string{
		"",
		"no directives\n",
		lines(`// inj:emit()`, `// inj:end`),
		lines(`// inj:emit()`, `body`, `// inj:end`, `tail`),
		lines(
			`// inj:begin`,
			`  // inj:merge({"a":{"b":1}})`,
			`  // inj:emit("x", [1, 2])`,
			`  line 1`,
			`  line 2`,
			`  // inj:end`,
			`// inj:end`,
			`// inj:emit()`,
			``,
			`// inj:end`,
			``,
		),
		lines(
			`head`,
			`	// inj:emit("x")`,
			``,
			``,
			`	body`,
			``,
			``,
			`	// inj:end`,
		),
	}
	m := directive.MustMatcher("inj")
	for i, text := range texts {
		regions, err := ExtractRegions(text, m, nil)
		if err != nil {
			t.Fatalf("case %d: ExtractRegions() error = %v", i, err)
		}
		got, err := Splice(text, regions, func(r *Region) (string, error) {
			return r.Content(text), nil
		})
		if err != nil {
			t.Fatalf("case %d: Splice() error = %v", i, err)
		}
		if got != text {
			t.Errorf("case %d: round trip changed text:\n%q\nwant\n%q", i, got, text)
		}
	}
}

func TestInjectNormalizesNewlines(t *testing.T) {
	text := lines(`// inj:emit()`, `old`, `// inj:end`)
	tests := []struct {
		out  string
		want string
	}{
		{"", lines(`// inj:emit()`, `// inj:end`)},
		{"\n", lines(`// inj:emit()`, `// inj:end`)},
		{"new", lines(`// inj:emit()`, `new`, `// inj:end`)},
		{"\n\nnew\n\n\n", lines(`// inj:emit()`, ``, `new`, ``, ``, `// inj:end`)},
		{"\nnew", lines(`// inj:emit()`, `new`, `// inj:end`)},
		{"new\n", lines(`// inj:emit()`, `new`, `// inj:end`)},
		{"a\n\nb", lines(`// inj:emit()`, `a`, ``, `b`, `// inj:end`)},
	}
	for _, tt := range tests {
		got, err := Inject(text, directive.MustMatcher("inj"), func(*Region) (string, error) {
			return tt.out, nil
		}, nil)
		if err != nil {
			t.Fatalf("Inject(%q) error = %v", tt.out, err)
		}
		if got != tt.want {
			t.Errorf("Inject(%q) = %q, want %q", tt.out, got, tt.want)
		}
	}
}

func TestInjectErrors(t *testing.T) {
	m := directive.MustMatcher("inj")
	noop := func(*Region) (string, error) { return "", nil }

	_, err := Inject(lines(`// inj:emit()`, `// inj:merge({})`, `// inj:end`), m, noop, nil)
	if !errors.Is(err, diag.ErrInvalidRegion) {
		t.Errorf("Inject() error = %v, want invalid region", err)
	}

	errBoom := errors.New("boom")
	_, err = Inject(lines(`x`, `// inj:emit()`, `// inj:end`), m, func(*Region) (string, error) {
		return "", errBoom
	}, nil)
	if !errors.Is(err, errBoom) {
		t.Fatalf("Inject() error = %v, want wrapped render error", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Inject() error = %q, want emit line", err)
	}
}

func TestSpliceRejectsOutOfBounds(t *testing.T) {
	text := "0123456789"
	tests := []struct {
		name   string
		region Region
	}{
		{"inverted", Region{Span: source.SpanOf(0, 6, 2)}},
		{"past end", Region{Span: source.SpanOf(0, 4, 20)}},
		{"emit past end", Region{Span: source.SpanOf(0, 4, 6), Emit: source.SpanOf(0, 30, 31)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			_, err := Splice(text, []Region{tt.region}, func(*Region) (string, error) {
				called = true
				return "", nil
			})
			if err == nil {
				t.Fatal("Splice() expected bounds error")
			}
			if called {
				t.Error("render called for an invalid region")
			}
		})
	}
}

func TestSpliceRejectsOverlap(t *testing.T) {
	text := "0123456789"
	regions := []Region{
		{Span: source.SpanOf(0, 2, 6)},
		{Span: source.SpanOf(0, 4, 8)},
	}
	_, err := Splice(text, regions, func(*Region) (string, error) { return "", nil })
	if err == nil {
		t.Fatal("Splice() expected overlap error")
	}
}
