// Package driver runs extraction and injection over sets of files.
package driver

import (
	"encoding/json"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"incode/internal/diag"
	"incode/internal/directive"
	"incode/internal/render"
)

// Options configures Extract and Run.
type Options struct {
	Matcher  *directive.Matcher
	Renderer *render.Renderer // required by Run
	// Data is the initial root scope data of every file.
	Data map[string]any

	Jobs           int // 0 means GOMAXPROCS
	MaxDiagnostics int

	// Check reports files that would change without writing them.
	Check bool
	// Diff computes a unified diff for every changed file.
	Diff bool

	Cache    *DiskCache
	Progress ProgressSink
	Logger   *zap.Logger
}

func (o *Options) normalize() error {
	if o.Matcher == nil {
		o.Matcher = directive.MustMatcher(directive.DefaultPrefix)
	}
	if o.Data == nil {
		o.Data = map[string]any{}
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = diag.DefaultMaxDiagnostics
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return nil
}

// fingerprint identifies everything besides the file text that affects a
// run's output.
func (o *Options) fingerprint() (string, error) {
	data, err := json.Marshal(o.Data)
	if err != nil {
		return "", fmt.Errorf("encode initial data: %w", err)
	}
	tmpl := ""
	if o.Renderer != nil {
		tmpl = o.Renderer.Fingerprint()
	}
	return fmt.Sprintf("v%d|%s|%s|%s", cacheSchemaVersion, o.Matcher, tmpl, data), nil
}
