package ast

import "sort"

// LineIndex maps byte offsets to (line, column) and back. NewLineIndex
// builds one from a file's contents; it is not stored with the parse
// output, and each caller that needs one builds its own.
type LineIndex struct {
	// lineStarts[i] is the byte offset of the first byte of line i (0-based).
	lineStarts []int
}

// NewLineIndex scans src once for newlines.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{lineStarts: starts}
}

// LineCol converts a 0-based byte offset to a 1-based (line, column) pair.
func (li *LineIndex) LineCol(offset int) (line, col int) {
	// Find the last line start <= offset.
	i := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	})
	lineIdx := i - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	return lineIdx + 1, offset - li.lineStarts[lineIdx] + 1
}

// Offset converts a 1-based (line, column) pair back to a 0-based byte
// offset. Out-of-range lines clamp to the nearest valid line.
func (li *LineIndex) Offset(line, col int) int {
	lineIdx := line - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	if lineIdx >= len(li.lineStarts) {
		lineIdx = len(li.lineStarts) - 1
	}
	return li.lineStarts[lineIdx] + (col - 1)
}

// PosAt builds a Pos for a given 0-based offset.
func (li *LineIndex) PosAt(offset int) Pos {
	line, col := li.LineCol(offset)
	return Pos{Line: line, Column: col, Offset: offset}
}
