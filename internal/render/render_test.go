package render

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"incode/internal/diag"
	"incode/internal/directive"
	"incode/internal/region"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "model.tmpl"), "type {{.Data.schema}} struct{}\n")
	writeFile(t, filepath.Join(dir, "sql", "insert.tmpl"), "INSERT INTO {{lower .Data.schema}}\n")
	writeFile(t, filepath.Join(dir, "README.md"), "ignored")

	r, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]string{"model", "sql/insert"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	got, err := r.Render("a.go", &region.Region{Args: []any{"sql/insert"}, Data: map[string]any{"schema": "User"}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "INSERT INTO user\n" {
		t.Errorf("Render() = %q", got)
	}
}

func TestLoadReportsParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.tmpl"), "{{.Data")
	_, err := Load(dir)
	var re *Error
	if !errors.As(err, &re) || re.Code != diag.RndTemplateError {
		t.Fatalf("Load() error = %v, want template error", err)
	}
}

func TestRender(t *testing.T) {
	r := New()
	must := func(name, text string) {
		if err := r.Parse(name, text); err != nil {
			t.Fatalf("Parse(%s) error = %v", name, err)
		}
	}
	must("fields", "{{range .Args}}{{title .}} string\n{{end}}")
	must("json", "var cfg = `{{json .Data}}`")
	must("join", "{{join \", \" .Data.list}}")
	must("file", "// {{.File}} {{upper .Data.name}}")

	tests := []struct {
		name string
		reg  region.Region
		want string
	}{
		{
			name: "args and padding",
			reg:  region.Region{Args: []any{"fields", "id", "name"}, Padding: "\t"},
			want: "\tId string\n\tName string\n",
		},
		{
			name: "json",
			reg:  region.Region{Args: []any{"json"}, Data: map[string]any{"b": 1.5, "a": true}},
			want: "var cfg = `{\"a\":true,\"b\":1.5}`",
		},
		{
			name: "join",
			reg:  region.Region{Args: []any{"join"}, Data: map[string]any{"list": []any{"x", 2.0, true}}},
			want: "x, 2, true",
		},
		{
			name: "file",
			reg:  region.Region{Args: []any{"file"}, Data: map[string]any{"name": "svc"}, Padding: "  "},
			want: "  // gen.go SVC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render("gen.go", &tt.reg)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	r := New()
	if err := r.Parse("fail", `{{index .Args 5}}`); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		args []any
		code diag.Code
	}{
		{"no args", nil, diag.RndMissingTemplate},
		{"name not string", []any{1.0}, diag.RndBadTemplateName},
		{"unknown", []any{"nope"}, diag.RndMissingTemplate},
		{"exec failure", []any{"fail"}, diag.RndTemplateError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render("f", &region.Region{Args: tt.args})
			var re *Error
			if !errors.As(err, &re) {
				t.Fatalf("Render() error = %v, want *Error", err)
			}
			if re.Code != tt.code {
				t.Errorf("code = %v, want %v", re.Code, tt.code)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a, b := New(), New()
	_ = a.Parse("x", "one")
	_ = b.Parse("x", "one")
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("equal sets have different fingerprints")
	}
	_ = b.Parse("y", "two")
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("fingerprint did not change after adding a template")
	}
}

func TestIndent(t *testing.T) {
	tests := []struct {
		in, prefix, want string
	}{
		{"a\nb\n", "\t", "\ta\n\tb\n"},
		{"a\n\n  \nb", "  ", "  a\n\n  \n  b"},
		{"a", "", "a"},
		{"", "\t", ""},
	}
	for _, tt := range tests {
		if got := Indent(tt.in, tt.prefix); got != tt.want {
			t.Errorf("Indent(%q, %q) = %q, want %q", tt.in, tt.prefix, got, tt.want)
		}
	}
}

func TestInjectWithRenderer(t *testing.T) {
	r := New()
	if err := r.Parse("greet", "hello {{.Data.who}}"); err != nil {
		t.Fatal(err)
	}
	text := "// inj:assign({\"who\":\"gopher\"})\n  // inj:emit(\"greet\")\n  // inj:end\n"
	got, err := region.Inject(text, directive.MustMatcher("inj"), r.Func("x.go"), nil)
	if err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	want := "// inj:assign({\"who\":\"gopher\"})\n  // inj:emit(\"greet\")\n  hello gopher\n  // inj:end\n"
	if got != want {
		t.Errorf("Inject() = %q, want %q", got, want)
	}
}
