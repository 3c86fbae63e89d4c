package region

import (
	"incode/internal/diag"
	"incode/internal/directive"
	"incode/internal/source"
)

type frame struct {
	data  map[string]any
	begin int // index of the opening begin, -1 for the root
}

// Resolve walks dirs with an explicit scope stack and returns the regions in
// source order. text is only used to resolve positions for errors.
//
// An end directive at the root closes the traversal: directives after it are
// not consumed.
func Resolve(text string, dirs []directive.Directive, initial map[string]any) ([]Region, error) {
	if initial == nil {
		initial = map[string]any{}
	}
	stack := make([]frame, 1, 8)
	stack[0] = frame{data: initial, begin: -1}
	var regions []Region

walk:
	for i := 0; i < len(dirs); i++ {
		d := &dirs[i]
		top := &stack[len(stack)-1]

		switch d.Kind {
		case directive.KindBegin:
			stack = append(stack, frame{data: top.data, begin: i})

		case directive.KindEnd:
			if len(stack) == 1 {
				break walk
			}
			stack = stack[:len(stack)-1]

		case directive.KindAssign:
			top.data = assign(top.data, d.Object)

		case directive.KindMerge:
			top.data = merge(top.data, d.Object)

		case directive.KindEmit:
			if i+1 == len(dirs) {
				return nil, diag.NewError(diag.RegEmitNotClosed, text, markerSpan(d),
					"emit region must end with end directive")
			}
			next := &dirs[i+1]
			if next.Kind != directive.KindEnd {
				return nil, diag.Errorf(diag.RegEmitContainsDirective, text, markerSpan(next),
					"emit region must not contain directives, found %s", next.Kind)
			}
			regions = append(regions, Region{
				Args:    cloneSlice(d.Args),
				Data:    cloneObject(top.data),
				Padding: d.Padding,
				Span:    source.Span{File: d.Span.File, Start: d.Span.End, End: next.Span.Start},
				Emit:    d.Span,
			})
			i++
		}
	}

	if len(stack) > 1 {
		open := &dirs[stack[len(stack)-1].begin]
		return nil, diag.NewError(diag.RegScopeNotClosed, text, markerSpan(open), "scope not closed")
	}
	return regions, nil
}

// markerSpan points diagnostics at the comment marker rather than the
// start of the line.
func markerSpan(d *directive.Directive) source.Span {
	return source.Span{File: d.Span.File, Start: d.Marker, End: d.Span.End}
}
