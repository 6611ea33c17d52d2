package source

import "fmt"

// TabWidth is the number of columns a '\t' advances the column by.
const TabWidth = 4

// Location is a point in a named input: byte offset plus 1-based line/column.
// Locations are ordered by Offset only.
type Location struct {
	File   string
	Offset uint32
	Line   uint32
	Col    uint32
}

// StartOf returns the location of the first byte of the named input.
func StartOf(file string) Location {
	return Location{File: file, Offset: 0, Line: 1, Col: 1}
}

// advance moves the location past one byte of input.
func (l Location) advance(b byte) Location {
	l.Offset++
	switch {
	case b == '\n':
		l.Line++
		l.Col = 1
	case b == '\t':
		l.Col += TabWidth
	case b&0xC0 == 0x80:
		// продолжение UTF-8 последовательности, колонка не двигается
	default:
		l.Col++
	}
	return l
}

// Compare orders two locations by offset.
func (l Location) Compare(other Location) int {
	switch {
	case l.Offset < other.Offset:
		return -1
	case l.Offset > other.Offset:
		return 1
	}
	return 0
}

// Before reports whether l precedes other.
func (l Location) Before(other Location) bool { return l.Offset < other.Offset }

// LineCol converts the location into the FileSet coordinate type.
func (l Location) LineCol() LineCol {
	return LineCol{Line: l.Line, Col: l.Col}
}

// String renders "line:col", prefixed with the file name when it is set.
func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Col)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}
