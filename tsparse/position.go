package tsparse

import "sort"

// Position represents a line/column position in source text.
// Uses LSP conventions: 1-based line numbers, 0-based character offsets.
type Position struct {
	Line      int `json:"line"`      // 1-based line number
	Character int `json:"character"` // 0-based character offset within line
	Offset    int `json:"offset"`    // 0-based byte offset in entire source
}

// Range represents a source code span from start to end position
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// lineTable maps byte offsets to positions after the source has been read.
type lineTable struct {
	starts []int // byte offset of each line start
}

func newLineTable(source string) *lineTable {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineTable{starts: starts}
}

// position converts a byte offset. Characters count bytes, which matches
// editors for the ASCII sources this tool deals with.
func (lt *lineTable) position(offset int) Position {
	line := sort.Search(len(lt.starts), func(i int) bool { return lt.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Position{
		Line:      line + 1,
		Character: offset - lt.starts[line],
		Offset:    offset,
	}
}

func (lt *lineTable) span(start, end int) Range {
	return Range{Start: lt.position(start), End: lt.position(end)}
}
