package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"incode/internal/diag"
	"incode/internal/source"
)

type palette struct {
	err, warn, info, code, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty prints every diagnostic of bag (call bag.Sort first) as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line and a caret under the span.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		if f == nil {
			fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String())), p.code.Sprint(d.Code.ID()), d.Message)
			continue
		}
		start, end := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprintf("%s:%d:%d", formatPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col),
			p.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String())),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		)
		if len(f.Content) > 0 {
			writeSnippet(w, f, start, end, opts.Context, p)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				nf := fs.Get(n.Span.File)
				if nf == nil {
					fmt.Fprintf(w, "  note: %s\n", n.Msg)
					continue
				}
				ns, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", formatPath(nf.Path, opts.PathMode, opts.BaseDir), ns.Line, ns.Col, n.Msg)
			}
		}
	}
}

func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, context int, p palette) {
	first := start.Line
	if context > 0 {
		back := uint32(context)
		if back >= first {
			back = first - 1
		}
		first -= back
	}
	width := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, ln), f.GetLine(ln))
	}

	line := f.GetLine(start.Line)
	endCol := uint32(len(line)) + 1
	if end.Line == start.Line && end.Col > start.Col {
		endCol = end.Col
	}
	fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*s |", width, ""), p.caret.Sprint(caretLine(line, int(start.Col), int(endCol))))
}

// caretLine builds "   ^~~~" aligned under columns [startCol, endCol) of
// line. Tabs are kept so the marker lines up in any terminal; other text
// is measured in display cells.
func caretLine(line string, startCol, endCol int) string {
	startCol = max(1, min(startCol, len(line)+1))
	endCol = max(startCol+1, min(endCol, len(line)+1))

	var b strings.Builder
	for _, r := range line[:startCol-1] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	n := runewidth.StringWidth(line[startCol-1 : min(endCol-1, len(line))])
	b.WriteByte('^')
	if n > 1 {
		b.WriteString(strings.Repeat("~", n-1))
	}
	return b.String()
}
