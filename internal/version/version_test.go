package version

import (
	"strings"
	"testing"
)

func TestColored(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "1.2.3-rc1"
	if got := Colored(false); got != "1.2.3-rc1" {
		t.Errorf("Colored(false) = %q", got)
	}
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc1") {
		t.Errorf("Colored(true) = %q, want ANSI colored version", got)
	}

	Version = "dev"
	if got := Colored(true); got != "dev" {
		t.Errorf("Colored(true) for non-semver = %q", got)
	}
}
