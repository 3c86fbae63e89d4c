package project

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Files expands the include globs under Root, drops excluded paths and
// returns absolute paths sorted lexically.
func (p *Project) Files() ([]string, error) {
	fsys := os.DirFS(p.Root)
	seen := make(map[string]struct{})
	var rels []string
	for _, pattern := range p.Config.Inject.Include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, rel := range matches {
			if _, dup := seen[rel]; dup || p.Excluded(rel) {
				continue
			}
			seen[rel] = struct{}{}
			rels = append(rels, rel)
		}
	}
	slices.Sort(rels)
	out := make([]string, len(rels))
	for i, rel := range rels {
		out[i] = filepath.Join(p.Root, filepath.FromSlash(rel))
	}
	return out, nil
}

// Excluded reports whether the slash-separated path rel, relative to Root,
// matches an exclude pattern.
func (p *Project) Excluded(rel string) bool {
	for _, pattern := range p.Config.Inject.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Rel returns path relative to Root when possible.
func (p *Project) Rel(path string) string {
	if rel, err := filepath.Rel(p.Root, path); err == nil {
		return rel
	}
	return path
}
