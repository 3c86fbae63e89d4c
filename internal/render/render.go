// Package render turns regions into text with a set of text/template files.
package render

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"

	"incode/internal/diag"
	"incode/internal/region"
)

// Ext is the file extension of template files.
const Ext = ".tmpl"

// Context is the value templates execute with.
type Context struct {
	Data    map[string]any
	Args    []any // emit arguments after the template name
	Padding string
	File    string
}

// Error is a render failure tagged with a diagnostic code.
type Error struct {
	Code     diag.Code
	Template string
	Err      error
}

func (e *Error) Error() string {
	if e.Template == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("template %q: %v", e.Template, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Renderer holds a parsed template set.
type Renderer struct {
	root    *template.Template
	sources map[string]string
}

// New returns an empty renderer.
func New() *Renderer {
	return &Renderer{
		root:    template.New("").Funcs(funcs()),
		sources: make(map[string]string),
	}
}

// Load parses every *.tmpl file under dir. A template is named by its path
// relative to dir with the extension removed, e.g. "sql/insert".
func Load(dir string) (*Renderer, error) {
	r := New()
	matches, err := doublestar.Glob(os.DirFS(dir), "**/*"+Ext)
	if err != nil {
		return nil, fmt.Errorf("list templates in %s: %w", dir, err)
	}
	slices.Sort(matches)
	for _, rel := range matches {
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		if err := r.Parse(strings.TrimSuffix(rel, Ext), string(content)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Parse adds a named template.
func (r *Renderer) Parse(name, text string) error {
	if _, err := r.root.New(name).Parse(text); err != nil {
		return &Error{Code: diag.RndTemplateError, Template: name, Err: err}
	}
	r.sources[name] = text
	return nil
}

// Names returns the loaded template names, sorted.
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Fingerprint identifies the template set; it changes whenever a template
// is added or edited.
func (r *Renderer) Fingerprint() string {
	h := sha256.New()
	for _, name := range r.Names() {
		fmt.Fprintf(h, "%s\x00%d\x00%s", name, len(r.sources[name]), r.sources[name])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Render executes the template named by the first emit argument and indents
// the result with the region's padding.
func (r *Renderer) Render(file string, reg *region.Region) (string, error) {
	if len(reg.Args) == 0 {
		return "", &Error{Code: diag.RndMissingTemplate, Err: fmt.Errorf("emit needs a template name argument")}
	}
	name, ok := reg.Args[0].(string)
	if !ok {
		return "", &Error{Code: diag.RndBadTemplateName, Err: fmt.Errorf("template name must be a string, got %T", reg.Args[0])}
	}
	name = path.Clean(name)
	if _, ok := r.sources[name]; !ok {
		return "", &Error{Code: diag.RndMissingTemplate, Template: name, Err: fmt.Errorf("not found")}
	}

	ctx := Context{
		Data:    reg.Data,
		Args:    reg.Args[1:],
		Padding: reg.Padding,
		File:    file,
	}
	var buf bytes.Buffer
	if err := r.root.ExecuteTemplate(&buf, name, ctx); err != nil {
		return "", &Error{Code: diag.RndTemplateError, Template: name, Err: err}
	}
	return Indent(buf.String(), reg.Padding), nil
}

// Func binds Render to a file for region.Inject.
func (r *Renderer) Func(file string) region.RenderFunc {
	return func(reg *region.Region) (string, error) {
		return r.Render(file, reg)
	}
}

// Indent prefixes every non-blank line of s with prefix.
func Indent(s, prefix string) string {
	if prefix == "" || s == "" {
		return s
	}
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	b.Grow(len(s) + len(lines)*len(prefix))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			b.WriteString(prefix)
		}
		b.WriteString(line)
	}
	return b.String()
}
