package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Span is a half-open byte range inside one file of a FileSet.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// SpanAt builds a span of n bytes starting at a scanner location.
func SpanAt(file FileID, loc Location, n int) Span {
	width, err := safecast.Conv[uint32](max(n, 0))
	if err != nil {
		panic(fmt.Errorf("span width overflow: %w", err))
	}
	return Span{File: file, Start: loc.Offset, End: loc.Offset + width}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends s so that it also includes other. Spans of different files
// are left untouched.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
