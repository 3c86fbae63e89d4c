package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB

// directiveSeeds cover every directive kind, nesting and the common
// malformed shapes.
var directiveSeeds = []string{
	"",
	"package x\n",
	"// inj:emit()\n// inj:end\n",
	"// inj:assign({\"a\":1})\n// inj:emit(\"t\")\nold\n// inj:end\n",
	"// inj:begin\n\t// inj:merge({\"a\":{\"b\":[1,2]}})\n\t// inj:emit(\"t\", {\"k\":null})\n\t// inj:end\n// inj:end\n",
	"// inj:begin\n// inj:begin\n// inj:end\n",
	"// inj:end\n// inj:emit()\n",
	"// inj:emit()\n// inj:assign({})\n// inj:end\n",
	"// inj:emit(\n",
	"// inj:assign([1])\n",
	"// inj:merge(\"x\")\n",
	"// inj:emit(\"a)b\", [\")\"])\n// inj:end\n",
	"// inj:unknown\n",
	"// inj:emit() trailing\n// inj:end\n",
	"  // inj:emit({\"deep\":{\"deeper\":{\"deepest\":true}}})\r\n  // inj:end\r\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range directiveSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every file under the repository testdata directory
// that contains a directive.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil || !strings.Contains(string(src), "inj:") {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
