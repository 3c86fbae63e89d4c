package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"incode/internal/diag"
	"incode/internal/directive"
	"incode/internal/region"
	"incode/internal/source"
)

const brokenSrc = "package a\n// inj:emit(\"x\")\n\t// inj:merge({})\n// inj:end\n"

func brokenBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("/work/pkg/a.go", []byte(brokenSrc))
	_, err := region.ExtractRegions(brokenSrc, directive.MustMatcher("inj"), nil)
	if err == nil {
		t.Fatal("expected extraction error")
	}
	bag := diag.NewBag(10)
	bag.Add(diag.FromError(err, diag.DirUnknownType, source.Span{File: id}))
	return bag, fs
}

func TestPretty(t *testing.T) {
	bag, fs := brokenBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeRelative, BaseDir: "/work"})

	want := "pkg/a.go:3:2: ERROR REG2002: emit region must not contain directives, found merge\n" +
		"2 | // inj:emit(\"x\")\n" +
		"3 | \t// inj:merge({})\n" +
		"  | \t^~~~~~~~~~~~~~~~\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Pretty() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrettyPathModes(t *testing.T) {
	bag, fs := brokenBag(t)
	tests := []struct {
		mode PathMode
		base string
		want string
	}{
		{PathModeAbsolute, "", "/work/pkg/a.go:3:2"},
		{PathModeBasename, "", "a.go:3:2"},
		{PathModeAuto, "/work", "pkg/a.go:3:2"},
		{PathModeAuto, "/elsewhere", "/work/pkg/a.go:3:2"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: tt.base})
		if !strings.HasPrefix(buf.String(), tt.want+":") {
			t.Errorf("mode %d: got %q, want prefix %q", tt.mode, buf.String(), tt.want)
		}
	}
}

func TestCaretLine(t *testing.T) {
	tests := []struct {
		line       string
		start, end int
		want       string
	}{
		{"abc", 1, 2, "^"},
		{"abcdef", 2, 5, " ^~~"},
		{"\tx", 2, 3, "\t^"},
		{"日本語x", 10, 11, "      ^"},
		{"ab", 3, 3, "  ^"},
		{"ab", 9, 12, "  ^"},
	}
	for _, tt := range tests {
		if got := caretLine(tt.line, tt.start, tt.end); got != tt.want {
			t.Errorf("caretLine(%q, %d, %d) = %q, want %q", tt.line, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestJSON(t *testing.T) {
	bag, fs := brokenBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("output = %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "REG2002" || d.Severity != "ERROR" || d.Location.File != "a.go" {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Location.StartLine != 3 || d.Location.StartCol != 2 {
		t.Errorf("location = %+v", d.Location)
	}
}

func TestRegions(t *testing.T) {
	src := "package a\n\n// inj:assign({\"n\":1})\n  // inj:emit(\"t\", true)\n  old\n  // inj:end\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("/work/a.go", []byte(src))
	regions, err := region.ExtractRegions(src, directive.MustMatcher("inj"), nil)
	if err != nil {
		t.Fatal(err)
	}
	files := []FileRegions{{FileID: id, Regions: regions}}

	want := []RegionJSON{{
		File:      "a.go",
		Line:      4,
		Args:      []any{"t", true},
		Data:      map[string]any{"n": float64(1)},
		Padding:   "  ",
		StartByte: regions[0].Span.Start,
		EndByte:   regions[0].Span.End,
		Content:   "\n  old\n",
	}}
	if diff := cmp.Diff(want, BuildRegions(fs, files, PathModeBasename, "")); diff != "" {
		t.Errorf("BuildRegions() mismatch (-want +got):\n%s", diff)
	}

	opts := PrettyOpts{PathMode: PathModeBasename}
	var buf bytes.Buffer
	if err := Regions(&buf, fs, files, RegionsPretty, opts); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "a.go:4 emit[\"t\",true] (1 lines)\n    data {\"n\":1}\n" {
		t.Errorf("pretty = %q", got)
	}

	buf.Reset()
	if err := Regions(&buf, fs, files, RegionsYAML, opts); err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if len(decoded) != 1 || decoded[0]["file"] != "a.go" || decoded[0]["padding"] != "  " {
		t.Errorf("yaml = %v", decoded)
	}

	buf.Reset()
	if err := Regions(&buf, fs, files, RegionsJSON, opts); err != nil {
		t.Fatal(err)
	}
	var fromJSON []RegionJSON
	if err := json.Unmarshal(buf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if diff := cmp.Diff(want, fromJSON); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRegionFormat(t *testing.T) {
	for _, s := range []string{"pretty", "JSON", "yaml"} {
		if _, err := ParseRegionFormat(s); err != nil {
			t.Errorf("ParseRegionFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseRegionFormat("xml"); err == nil {
		t.Error("ParseRegionFormat(xml) expected error")
	}
}
