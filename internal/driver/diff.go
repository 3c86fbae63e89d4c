package driver

import (
	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff returns a unified diff of a and b labelled with name, or ""
// when they are equal.
func unifiedDiff(name, a, b string) (string, error) {
	if a == b {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}
