package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"incode/internal/region"
	"incode/internal/source"
)

// RegionFormat selects how Regions prints.
type RegionFormat string

const (
	RegionsPretty RegionFormat = "pretty"
	RegionsJSON   RegionFormat = "json"
	RegionsYAML   RegionFormat = "yaml"
)

// ParseRegionFormat validates a --format value.
func ParseRegionFormat(s string) (RegionFormat, error) {
	switch f := RegionFormat(strings.ToLower(s)); f {
	case RegionsPretty, RegionsJSON, RegionsYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (expected: pretty|json|yaml)", s)
}

// FileRegions are the regions extracted from one file of a FileSet.
type FileRegions struct {
	FileID  source.FileID
	Regions []region.Region
}

// RegionJSON is the serialized form of a region, shared by JSON and YAML.
type RegionJSON struct {
	File      string         `json:"file" yaml:"file"`
	Line      uint32         `json:"line" yaml:"line"`
	Args      []any          `json:"args" yaml:"args"`
	Data      map[string]any `json:"data" yaml:"data"`
	Padding   string         `json:"padding" yaml:"padding"`
	StartByte uint32         `json:"start_byte" yaml:"start_byte"`
	EndByte   uint32         `json:"end_byte" yaml:"end_byte"`
	Content   string         `json:"content" yaml:"content"`
}

// BuildRegions flattens files into serializable regions in input order.
func BuildRegions(fs *source.FileSet, files []FileRegions, mode PathMode, base string) []RegionJSON {
	out := make([]RegionJSON, 0)
	for _, fr := range files {
		f := fs.Get(fr.FileID)
		if f == nil {
			continue
		}
		text := f.Text()
		path := formatPath(f.Path, mode, base)
		for i := range fr.Regions {
			r := &fr.Regions[i]
			lc := source.MustPosition(text, r.Emit.Start)
			out = append(out, RegionJSON{
				File:      path,
				Line:      lc.Line,
				Args:      r.Args,
				Data:      r.Data,
				Padding:   r.Padding,
				StartByte: r.Span.Start,
				EndByte:   r.Span.End,
				Content:   r.Content(text),
			})
		}
	}
	return out
}

// Regions writes the regions of files in the given format.
func Regions(w io.Writer, fs *source.FileSet, files []FileRegions, format RegionFormat, opts PrettyOpts) error {
	regions := BuildRegions(fs, files, opts.PathMode, opts.BaseDir)
	switch format {
	case RegionsJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(regions)
	case RegionsYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(regions); err != nil {
			return err
		}
		return enc.Close()
	case RegionsPretty, "":
		return prettyRegions(w, regions, newPalette(opts.Color))
	}
	return fmt.Errorf("unknown format %q", format)
}

func prettyRegions(w io.Writer, regions []RegionJSON, p palette) error {
	for _, r := range regions {
		args, err := json.Marshal(r.Args)
		if err != nil {
			return err
		}
		data, err := json.Marshal(r.Data)
		if err != nil {
			return err
		}
		lines := strings.Count(r.Content, "\n") - 1
		if _, err := fmt.Fprintf(w, "%s emit%s (%d lines)\n    data %s\n",
			p.path.Sprintf("%s:%d", r.File, r.Line), args, max(lines, 0), data); err != nil {
			return err
		}
	}
	return nil
}
