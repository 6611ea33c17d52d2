package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/safecast"
)

// EOF is returned by Current/Peek once the input is exhausted.
const EOF rune = -1

// Scanner is a seekable byte cursor over a fully buffered input.
// The whole input stays in memory: any position visited earlier can be
// restored with Seek in O(1).
type Scanner struct {
	name string
	src  string
	size uint32
	loc  Location
	cur  rune
}

// NewScanner buffers src under the given file name.
func NewScanner(name, src string) *Scanner {
	size, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("scanner input too large: %w", err))
	}
	s := &Scanner{
		name: name,
		src:  src,
		size: size,
		loc:  StartOf(name),
	}
	s.refresh()
	return s
}

// ScannerFromBytes is NewScanner for a byte slice.
func ScannerFromBytes(name string, src []byte) *Scanner {
	return NewScanner(name, string(src))
}

// ScannerFromReader drains r and buffers its contents.
func ScannerFromReader(name string, r io.Reader) (*Scanner, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return ScannerFromBytes(name, data), nil
}

// ScannerFromFile reads path from disk applying the same BOM/CRLF
// normalization as FileSet.Load.
func ScannerFromFile(path string) (*Scanner, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, _ = removeBOM(data)
	data, _ = normalizeCRLF(data)
	return ScannerFromBytes(normalizePath(path), data), nil
}

// FileScanner scans a file that is already registered in a FileSet.
func FileScanner(f *File) *Scanner {
	return ScannerFromBytes(f.Path, f.Content)
}

// Name returns the file label used in locations.
func (s *Scanner) Name() string { return s.name }

// Source returns the buffered input.
func (s *Scanner) Source() string { return s.src }

func (s *Scanner) refresh() {
	if s.loc.Offset >= s.size {
		s.cur = EOF
		return
	}
	s.cur = rune(s.src[s.loc.Offset])
}

// Current returns the byte under the cursor or EOF.
func (s *Scanner) Current() rune { return s.cur }

// Peek returns the byte offset positions away from the cursor (negative
// offsets look back). Positions outside the input yield EOF.
func (s *Scanner) Peek(offset int) rune {
	idx := int(s.loc.Offset) + offset
	if idx < 0 || idx >= len(s.src) {
		return EOF
	}
	return rune(s.src[idx])
}

// AtEOF reports whether the whole input has been consumed.
func (s *Scanner) AtEOF() bool { return s.cur == EOF }

// Advance consumes up to n bytes. Advancing at EOF is a no-op.
func (s *Scanner) Advance(n int) {
	for ; n > 0 && s.loc.Offset < s.size; n-- {
		s.loc = s.loc.advance(s.src[s.loc.Offset])
	}
	s.refresh()
}

// ReadWhile consumes the maximal run of bytes satisfying pred and returns it.
// An empty run is legal.
func (s *Scanner) ReadWhile(pred func(rune) bool) string {
	start := s.loc
	for s.cur != EOF && pred(s.cur) {
		s.Advance(1)
	}
	return s.ViewSince(start)
}

// SkipSpace skips ASCII whitespace, newlines included.
func (s *Scanner) SkipSpace() {
	s.ReadWhile(IsSpace)
}

// SkipLine consumes the rest of the current line including its '\n'.
func (s *Scanner) SkipLine() {
	s.ReadWhile(func(r rune) bool { return r != '\n' })
	s.Advance(1)
}

// Tell returns a checkpoint of the current position.
func (s *Scanner) Tell() Location { return s.loc }

// Seek restores a checkpoint obtained from Tell on this scanner.
func (s *Scanner) Seek(loc Location) {
	if loc.Offset > s.size {
		panic(fmt.Errorf("scanner: seek past end of input (%d > %d)", loc.Offset, s.size))
	}
	s.loc = loc
	s.refresh()
}

// ViewSince returns the input between a checkpoint and the cursor without copying.
func (s *Scanner) ViewSince(loc Location) string {
	if loc.Offset > s.loc.Offset {
		panic(fmt.Errorf("scanner: view from %s is ahead of cursor %s", loc, s.loc))
	}
	return s.src[loc.Offset:s.loc.Offset]
}

// Slice returns the input between two checkpoints.
func (s *Scanner) Slice(from, to Location) string {
	return s.src[from.Offset:to.Offset]
}

func (s *Scanner) lineBounds(off uint32) (start, end uint32) {
	if off > s.size {
		off = s.size
	}
	start = off
	for start > 0 && s.src[start-1] != '\n' {
		start--
	}
	end = off
	for end < s.size && s.src[end] != '\n' {
		end++
	}
	return start, end
}

// LineAt returns the full line containing loc, without its terminator.
func (s *Scanner) LineAt(loc Location) string {
	start, end := s.lineBounds(loc.Offset)
	return s.src[start:end]
}

// Context returns up to n bytes on each side of loc, clipped to loc's line.
func (s *Scanner) Context(loc Location, n int) string {
	start, end := s.lineBounds(loc.Offset)
	width, err := safecast.Conv[uint32](max(n, 0))
	if err != nil {
		panic(fmt.Errorf("context width overflow: %w", err))
	}
	from, to := start, end
	if loc.Offset > start+width {
		from = loc.Offset - width
	}
	if loc.Offset+width < end {
		to = loc.Offset + width
	}
	return strings.TrimRight(s.src[from:to], "\r")
}

// IsSpace reports ASCII whitespace.
func IsSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
