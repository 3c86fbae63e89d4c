package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"incode/internal/project"
	"incode/internal/render"
)

const exampleTemplateName = "example"

const exampleTemplate = `// Code generated by incode from {{ .File }}. DO NOT EDIT.
{{- range $key, $value := .Data }}
// {{ $key }}: {{ json $value }}
{{- end }}
`

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create incode.toml and a templates directory",
	Long: `Initialize writes a commented incode.toml and a templates directory with
an example template into [path], or into the current directory when [path]
is omitted. A missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	configPath, err := project.WriteDefault(target)
	if err != nil {
		return err
	}
	p, err := project.Load(configPath)
	if err != nil {
		return err
	}

	templates := p.TemplatesDir()
	if err := os.MkdirAll(templates, 0o755); err != nil {
		return fmt.Errorf("failed to create templates directory: %w", err)
	}
	examplePath := filepath.Join(templates, exampleTemplateName+render.Ext)
	createdExample := false
	if _, err := os.Stat(examplePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(examplePath, []byte(exampleTemplate), 0o600); err != nil {
			return fmt.Errorf("failed to write example template: %w", err)
		}
		createdExample = true
	}

	out := cmd.OutOrStdout()
	printf(out, "Initialized incode project in %s\n", displayPath(target))
	printf(out, "  - %s\n", project.ConfigName)
	if createdExample {
		printf(out, "  - %s\n", p.Rel(examplePath))
	} else {
		printf(out, "  - %s (existing)\n", p.Rel(examplePath))
	}
	return nil
}

func displayPath(path string) string {
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil {
			return rel
		}
	}
	return path
}
