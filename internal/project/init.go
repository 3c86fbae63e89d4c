package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `# incode configuration

[inject]
# Directive prefix: "// inj:emit(...)".
prefix = "inj"
# Files to scan, relative to this file.
include = ["**/*.go"]
exclude = [".git/**", "vendor/**", "**/testdata/**"]
# Directory with *.tmpl files; emit("name") renders templates/name.tmpl.
templates = "templates"
# Parallel workers, 0 means GOMAXPROCS.
jobs = 0

# Initial data of the root scope in every file.
[data]
`

// WriteDefault writes a commented incode.toml into dir and returns its path.
// An existing file is never overwritten.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ConfigName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("project already initialized: %s exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}
