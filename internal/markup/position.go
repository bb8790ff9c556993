package markup

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Position locates a byte offset for editor cursors and diagnostics.
// Line and Column are 1-based; Column counts grapheme clusters and
// DisplayColumn counts terminal cells.
type Position struct {
	Offset        int
	Line          int
	Column        int
	DisplayColumn int
}

// PositionAt converts a byte offset in text to a Position. Offsets outside
// the text are clamped.
func PositionAt(text string, offset int) Position {
	offset = max(0, min(offset, len(text)))

	prefix := text[:offset]
	line := strings.Count(prefix, "\n") + 1
	if i := strings.LastIndexByte(prefix, '\n'); i >= 0 {
		prefix = prefix[i+1:]
	}

	return Position{
		Offset:        offset,
		Line:          line,
		Column:        uniseg.GraphemeClusterCount(prefix) + 1,
		DisplayColumn: runewidth.StringWidth(prefix) + 1,
	}
}

// Span returns the positions of a token's start and end.
func (t Token) Span(text string) (Position, Position) {
	return PositionAt(text, t.Start), PositionAt(text, t.End)
}
