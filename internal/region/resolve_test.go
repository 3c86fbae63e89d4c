package region

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"incode/internal/diag"
	"incode/internal/directive"
)

type view struct {
	Args    []any
	Data    map[string]any
	Padding string
	Content string
}

func views(text string, regions []Region) []view {
	out := make([]view, 0, len(regions))
	for i := range regions {
		r := &regions[i]
		out = append(out, view{Args: r.Args, Data: r.Data, Padding: r.Padding, Content: r.Content(text)})
	}
	return out
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		initial map[string]any
		want    []view
	}{
		{
			name: "assign then emit",
			text: lines(
				`// inj:assign({"schema":"User"})`,
				`// inj:emit("pck")`,
				`// inj:end`,
			),
			want: []view{{Args: []any{"pck"}, Data: map[string]any{"schema": "User"}, Content: "\n"}},
		},
		{
			name: "no directives",
			text: "package a\n\nfunc f() {}\n",
			want: nil,
		},
		{
			name: "padding and body",
			text: lines(
				"func f() {",
				"\t\t// inj:emit()",
				"\t\tbody()",
				"\t\t// inj:end",
				"}",
			),
			want: []view{{Args: []any{}, Data: map[string]any{}, Padding: "\t\t", Content: "\n\t\tbody()\n"}},
		},
		{
			name: "emit args keep order and types",
			text: lines(
				`// inj:emit("a", 1, {"k":[true,null]})`,
				`// inj:end`,
			),
			want: []view{{
				Args: []any{"a", float64(1), map[string]any{"k": []any{true, nil}}},
				Data:    map[string]any{},
				Content: "\n",
			}},
		},
		{
			name: "nested scope does not leak",
			text: lines(
				`// inj:assign({"a":1})`,
				`// inj:begin`,
				`  // inj:assign({"a":2,"b":true})`,
				`  // inj:emit("inner")`,
				`  // inj:end`,
				`// inj:end`,
				`// inj:emit("outer")`,
				`// inj:end`,
			),
			want: []view{
				{Args: []any{"inner"}, Data: map[string]any{"a": float64(2), "b": true}, Padding: "  ", Content: "\n"},
				{Args: []any{"outer"}, Data: map[string]any{"a": float64(1)}, Content: "\n"},
			},
		},
		{
			name: "assign is shallow",
			text: lines(
				`// inj:assign({"o":{"x":1,"y":1}})`,
				`// inj:assign({"o":{"y":2}})`,
				`// inj:emit()`,
				`// inj:end`,
			),
			want: []view{{Args: []any{}, Data: map[string]any{"o": map[string]any{"y": float64(2)}}, Content: "\n"}},
		},
		{
			name: "merge is deep",
			text: lines(
				`// inj:merge({"o":{"x":1,"y":1,"n":{"p":1}}})`,
				`// inj:merge({"o":{"y":2,"n":{"q":2}}})`,
				`// inj:emit()`,
				`// inj:end`,
			),
			want: []view{{Args: []any{}, Data: map[string]any{
				"o": map[string]any{"x": float64(1), "y": float64(2), "n": map[string]any{"p": float64(1), "q": float64(2)}},
			}, Content: "\n"}},
		},
		{
			name: "merge replaces arrays and scalars",
			text: lines(
				`// inj:merge({"l":[1,2],"o":{"k":1}})`,
				`// inj:merge({"l":[3],"o":"flat"})`,
				`// inj:emit()`,
				`// inj:end`,
			),
			want: []view{{Args: []any{}, Data: map[string]any{"l": []any{float64(3)}, "o": "flat"}, Content: "\n"}},
		},
		{
			name:    "initial data is inherited",
			initial: map[string]any{"base": map[string]any{"pkg": "main"}},
			text: lines(
				`// inj:merge({"base":{"name":"x"}})`,
				`// inj:emit()`,
				`// inj:end`,
			),
			want: []view{{Args: []any{}, Data: map[string]any{"base": map[string]any{"pkg": "main", "name": "x"}}, Content: "\n"}},
		},
		{
			name: "stray root end stops traversal",
			text: lines(
				`// inj:emit("kept")`,
				`// inj:end`,
				`// inj:end`,
				`// inj:emit("ignored")`,
			),
			want: []view{{Args: []any{"kept"}, Data: map[string]any{}, Content: "\n"}},
		},
		{
			name: "regions keep content",
			text: lines(
				`// inj:emit(1)`,
				`old one`,
				`// inj:end`,
				`between`,
				`// inj:emit(2)`,
				`old two`,
				``,
				`// inj:end`,
			),
			want: []view{
				{Args: []any{float64(1)}, Data: map[string]any{}, Content: "\nold one\n"},
				{Args: []any{float64(2)}, Data: map[string]any{}, Content: "\nold two\n\n"},
			},
		},
	}

	m := directive.MustMatcher(directive.DefaultPrefix)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractRegions(tt.text, m, tt.initial)
			if err != nil {
				t.Fatalf("ExtractRegions() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, views(tt.text, got), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ExtractRegions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		sentinel  error
		code      diag.Code
		line, col uint32
	}{
		{
			name:     "directive inside emit",
			text:     lines(`// inj:emit("x")`, `  // inj:assign({})`, `// inj:end`),
			sentinel: diag.ErrInvalidRegion,
			code:     diag.RegEmitContainsDirective,
			line:     2, col: 3,
		},
		{
			name:     "begin inside emit",
			text:     lines(`// inj:emit()`, `// inj:begin`, `// inj:end`, `// inj:end`),
			sentinel: diag.ErrInvalidRegion,
			code:     diag.RegEmitContainsDirective,
			line:     2, col: 1,
		},
		{
			name:     "emit at end of input",
			text:     lines(`package a`, `  // inj:emit()`),
			sentinel: diag.ErrInvalidRegion,
			code:     diag.RegEmitNotClosed,
			line:     2, col: 3,
		},
		{
			name:     "unclosed begin",
			text:     lines(`// inj:begin`, `// inj:end`, `x`, `  // inj:begin`),
			sentinel: diag.ErrInvalidRegion,
			code:     diag.RegScopeNotClosed,
			line:     4, col: 3,
		},
		{
			name:     "emit at end of nested scope",
			text:     lines(`// inj:begin`, `	// inj:begin`, `// inj:emit()`),
			sentinel: diag.ErrInvalidRegion,
			code:     diag.RegEmitNotClosed,
			line:     3, col: 1,
		},
		{
			name:     "nested begins left open",
			text:     lines(`// inj:begin`, `	// inj:begin`),
			sentinel: diag.ErrInvalidRegion,
			code:     diag.RegScopeNotClosed,
			line:     2, col: 2,
		},
		{
			name:     "malformed directive",
			text:     lines(`x`, `// inj:emit`),
			sentinel: diag.ErrInvalidDirective,
			code:     diag.DirMissingArgs,
			line:     2, col: 1,
		},
	}

	m := directive.MustMatcher(directive.DefaultPrefix)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractRegions(tt.text, m, nil)
			if err == nil {
				t.Fatal("ExtractRegions() expected error")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			var e *diag.Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *diag.Error", err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %v, want %v", e.Code, tt.code)
			}
			if e.Pos.Line != tt.line || e.Pos.Col != tt.col {
				t.Errorf("position = %d:%d, want %d:%d", e.Pos.Line, e.Pos.Col, tt.line, tt.col)
			}
		})
	}
}

func TestRegionsOrderedAndDisjoint(t *testing.T) {
	text := lines(
		`// inj:begin`,
		`// inj:emit(1)`,
		`a`,
		`// inj:end`,
		`// inj:begin`,
		`// inj:emit(2)`,
		`// inj:end`,
		`// inj:end`,
		`// inj:end`,
		`// inj:emit(3)`,
		`b`,
		`c`,
		`// inj:end`,
	)
	regions, err := ExtractRegions(text, directive.MustMatcher("inj"), nil)
	if err != nil {
		t.Fatalf("ExtractRegions() error = %v", err)
	}
	if len(regions) != 3 {
		t.Fatalf("len(regions) = %d, want 3", len(regions))
	}
	var prev uint32
	for i, r := range regions {
		if r.Span.Start > r.Span.End {
			t.Errorf("region %d: inverted span %s", i, r.Span)
		}
		if r.Span.Start < prev {
			t.Errorf("region %d: span %s overlaps previous end %d", i, r.Span, prev)
		}
		if r.Emit.End != r.Span.Start {
			t.Errorf("region %d: emit line ends at %d, region starts at %d", i, r.Emit.End, r.Span.Start)
		}
		if text[r.Span.Start] != '\n' {
			t.Errorf("region %d: does not start at the emit line break", i)
		}
		prev = r.Span.End
	}
}

func TestRegionDataIsDetached(t *testing.T) {
	text := lines(
		`// inj:merge({"o":{"list":[1]}})`,
		`// inj:emit({"arg":{}})`,
		`// inj:end`,
		`// inj:emit()`,
		`// inj:end`,
	)
	m := directive.MustMatcher("inj")
	dirs, err := directive.Extract(text, m)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	initial := map[string]any{"init": map[string]any{"v": 1}}

	first, err := Resolve(text, dirs, initial)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	first[0].Data["o"].(map[string]any)["list"] = "changed"
	first[0].Data["init"].(map[string]any)["v"] = 2
	first[0].Args[0].(map[string]any)["arg"] = true

	if got := first[1].Data["o"].(map[string]any)["list"]; !cmp.Equal(got, []any{float64(1)}) {
		t.Errorf("sibling region data changed: %v", got)
	}
	if got := initial["init"].(map[string]any)["v"]; got != 1 {
		t.Errorf("initial data changed: %v", got)
	}

	second, err := Resolve(text, dirs, initial)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := map[string]any{"o": map[string]any{"list": []any{float64(1)}}, "init": map[string]any{"v": 1}}
	if diff := cmp.Diff(want, second[0].Data); diff != "" {
		t.Errorf("directive payload was mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{map[string]any{"arg": map[string]any{}}}, second[0].Args); diff != "" {
		t.Errorf("emit args were mutated (-want +got):\n%s", diff)
	}
}
