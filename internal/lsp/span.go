package lsp

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bondrewd/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// utf16Len is the number of UTF-16 code units r takes on the wire.
func utf16Len(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// lineBounds returns the byte range of line (zero-based) without its '\n'.
func lineBounds(file *source.File, line int) (start, end uint32) {
	contentLen := safeUint32(len(file.Content))
	if line > 0 {
		start = file.LineIdx[line-1] + 1
	}
	end = contentLen
	if line < len(file.LineIdx) {
		end = file.LineIdx[line]
	}
	return start, max(start, end)
}

// offsetForPosition maps an LSP position onto a byte offset. Positions past
// the end of a line clamp to the line end, past the last line to EOF.
func offsetForPosition(file *source.File, pos protocol.Position) uint32 {
	if file == nil || len(file.Content) == 0 {
		return 0
	}
	line := int(pos.Line)
	if line > len(file.LineIdx) {
		return safeUint32(len(file.Content))
	}
	off, end := lineBounds(file, line)
	units := 0
	want := int(pos.Character)
	for off < end && units < want {
		r, size := utf8.DecodeRune(file.Content[off:end])
		if units+utf16Len(r) > want {
			break
		}
		units += utf16Len(r)
		off += safeUint32(size)
	}
	return off
}

func positionForOffset(file *source.File, offset uint32) protocol.Position {
	if file == nil {
		return protocol.Position{}
	}
	offset = min(offset, safeUint32(len(file.Content)))
	lineIdx := file.LineIdx
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= offset })
	start, _ := lineBounds(file, line)

	units := 0
	for off := start; off < offset; {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		units += utf16Len(r)
		off += safeUint32(size)
	}
	return protocol.Position{Line: safeUint32(line), Character: safeUint32(units)}
}

func rangeForSpan(file *source.File, span source.Span) protocol.Range {
	return protocol.Range{
		Start: positionForOffset(file, span.Start),
		End:   positionForOffset(file, span.End),
	}
}
