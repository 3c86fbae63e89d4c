// Package project loads incode.toml and expands it into the set of files
// the tool works on.
package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"incode/internal/directive"
)

// Project is a loaded configuration together with its location.
type Project struct {
	// Path is the config file, empty when defaults are used.
	Path string
	// Root is the directory globs and the templates dir are relative to.
	Root   string
	Config Config
}

// Config mirrors incode.toml.
type Config struct {
	Inject InjectConfig   `toml:"inject"`
	Data   map[string]any `toml:"data"`
}

// InjectConfig is the [inject] table.
type InjectConfig struct {
	Prefix    string   `toml:"prefix"`
	Include   []string `toml:"include"`
	Exclude   []string `toml:"exclude"`
	Templates string   `toml:"templates"`
	Jobs      int      `toml:"jobs"`
}

var (
	defaultInclude = []string{"**/*.go"}
	defaultExclude = []string{".git/**", "vendor/**", "**/testdata/**"}
)

const defaultTemplates = "templates"

// Default returns the configuration used when no incode.toml exists.
func Default() Config {
	return Config{
		Inject: InjectConfig{
			Prefix:    directive.DefaultPrefix,
			Include:   append([]string(nil), defaultInclude...),
			Exclude:   append([]string(nil), defaultExclude...),
			Templates: defaultTemplates,
		},
		Data: map[string]any{},
	}
}

// Discover loads explicit when set, otherwise the nearest incode.toml above
// startDir. Without a config file the defaults apply and Root is startDir.
func Discover(startDir, explicit string) (*Project, error) {
	path := explicit
	if path == "" {
		found, ok, err := FindConfig(startDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			root, err := filepath.Abs(startDir)
			if err != nil {
				return nil, err
			}
			return &Project{Root: root, Config: Default()}, nil
		}
		path = found
	}
	return Load(path)
}

// Load decodes and validates a config file. Keys that are not set keep
// their defaults.
func Load(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(abs)
	if err != nil {
		return nil, err
	}
	return &Project{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

func loadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if key, ok := unknownKey(meta); ok {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, key)
	}
	if meta.IsDefined("inject", "prefix") {
		if _, err := directive.NewMatcher(cfg.Inject.Prefix); err != nil {
			return Config{}, fmt.Errorf("%s: [inject].prefix: %w", path, err)
		}
	}
	if meta.IsDefined("inject", "include") && len(cfg.Inject.Include) == 0 {
		return Config{}, fmt.Errorf("%s: [inject].include must not be empty", path)
	}
	for _, key := range []string{"include", "exclude"} {
		patterns := cfg.Inject.Include
		if key == "exclude" {
			patterns = cfg.Inject.Exclude
		}
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return Config{}, fmt.Errorf("%s: [inject].%s: invalid pattern %q", path, key, p)
			}
		}
	}
	if meta.IsDefined("inject", "templates") && strings.TrimSpace(cfg.Inject.Templates) == "" {
		return Config{}, fmt.Errorf("%s: [inject].templates must not be empty", path)
	}
	if cfg.Inject.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [inject].jobs must be >= 0", path)
	}
	cfg.Data = normalizeData(cfg.Data)
	return cfg, nil
}

// unknownKey returns the first key outside the schema. Everything below
// [data] is free-form, even though the decoder lists nested tables there as
// undecoded.
func unknownKey(meta toml.MetaData) (string, bool) {
	for _, key := range meta.Undecoded() {
		if len(key) > 0 && key[0] == "data" {
			continue
		}
		return key.String(), true
	}
	return "", false
}

// TemplatesDir returns the absolute templates directory.
func (p *Project) TemplatesDir() string {
	dir := filepath.FromSlash(p.Config.Inject.Templates)
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.Root, dir)
}

// Matcher builds the directive matcher for the configured prefix.
func (p *Project) Matcher() (*directive.Matcher, error) {
	return directive.NewMatcher(p.Config.Inject.Prefix)
}

// normalizeData converts TOML values to the shapes encoding/json produces,
// so that data from the config merges with directive data consistently.
func normalizeData(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return normalizeData(v)
	case []map[string]any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalizeData(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalizeValue(e)
		}
		return out
	case int64:
		return float64(v)
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}
