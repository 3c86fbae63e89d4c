package source

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// ErrOffsetOutOfRange is returned by Position for offsets outside the text.
var ErrOffsetOutOfRange = errors.New("offset out of range")

// Position converts a byte offset into a 1-based line/column pair by counting
// newlines from the start of text. Offset len(text) is valid and points just
// past the last byte.
func Position(text string, offset int) (LineCol, error) {
	if offset < 0 || offset > len(text) {
		return LineCol{}, fmt.Errorf("%w: %d not in [0, %d]", ErrOffsetOutOfRange, offset, len(text))
	}
	before := text[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - (strings.LastIndexByte(before, '\n') + 1) + 1

	l, err := safecast.Conv[uint32](line)
	if err != nil {
		return LineCol{}, fmt.Errorf("line overflow: %w", err)
	}
	c, err := safecast.Conv[uint32](col)
	if err != nil {
		return LineCol{}, fmt.Errorf("column overflow: %w", err)
	}
	return LineCol{Line: l, Col: c}, nil
}

// MustPosition is Position for offsets that are known to be in range.
func MustPosition(text string, offset uint32) LineCol {
	lc, err := Position(text, int(offset))
	if err != nil {
		panic(err)
	}
	return lc
}
