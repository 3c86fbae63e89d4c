// Package testkit holds checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"incode/internal/region"
	"incode/internal/source"
)

// CheckRegionInvariants verifies the structural guarantees of a resolved
// region list for text:
// 1) every span lies within text and is not inverted
// 2) a region starts where its emit line ends
// 3) regions are ordered and do not overlap
// 4) padding is blank and data is non-nil
func CheckRegionInvariants(text string, regions []region.Region) error {
	size, err := safecast.Conv[uint32](len(text))
	if err != nil {
		return fmt.Errorf("len text overflow: %w", err)
	}
	for i := range regions {
		r := &regions[i]
		if r.Emit.Start > r.Emit.End || r.Span.Start > r.Span.End {
			return fmt.Errorf("region %d: inverted span emit=%v span=%v", i, r.Emit, r.Span)
		}
		if r.Span.End > size {
			return fmt.Errorf("region %d: span %v beyond text of %d bytes", i, r.Span, size)
		}
		if r.Emit.End != r.Span.Start {
			return fmt.Errorf("region %d: span %v does not start at end of emit line %v", i, r.Span, r.Emit)
		}
		if i > 0 {
			prev := &regions[i-1]
			if r.Emit.Start < prev.Emit.Start {
				return fmt.Errorf("region %d: emit %v precedes previous emit %v", i, r.Emit, prev.Emit)
			}
			if footprint(prev).Overlaps(footprint(r)) {
				return fmt.Errorf("region %d: %v overlaps previous region %v", i, footprint(r), footprint(prev))
			}
		}
		if strings.Trim(r.Padding, " \t") != "" {
			return fmt.Errorf("region %d: padding %q is not blank", i, r.Padding)
		}
		if r.Data == nil {
			return fmt.Errorf("region %d: nil data", i)
		}
	}
	return nil
}

// footprint covers the emit line and the replaceable body of r.
func footprint(r *region.Region) source.Span {
	return r.Emit.Cover(r.Span)
}
