package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"bondrewd/internal/diag"
	"bondrewd/internal/source"
)

// fixEditPreview is the block of whole lines an edit touches, before and
// after applying it.
type fixEditPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}

	startPos, endPos := fs.Resolve(edit.Span)
	size, err := contentLen(file)
	if err != nil {
		return fixEditPreview{}, err
	}
	blockStart := lineStartOffset(file, startPos.Line, size)
	blockEnd := min(max(lineEndOffset(file, max(endPos.Line, startPos.Line), size), blockStart), size)
	if edit.Span.Start < blockStart || edit.Span.End > blockEnd || edit.Span.End < edit.Span.Start {
		return fixEditPreview{}, fmt.Errorf("edit span %s outside lines %d-%d", edit.Span, startPos.Line, endPos.Line)
	}

	original := file.Content[blockStart:blockEnd]
	relStart, relEnd := edit.Span.Start-blockStart, edit.Span.End-blockStart

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func contentLen(f *source.File) (uint32, error) {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return 0, fmt.Errorf("len file content overflow: %w", err)
	}
	return n, nil
}

// lineStartOffset is the offset of the first byte of the 1-based line.
func lineStartOffset(f *source.File, line, size uint32) uint32 {
	if line <= 1 {
		return 0
	}
	if idx := int(line - 2); idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return size
}

// lineEndOffset is the offset just past the newline ending the line.
func lineEndOffset(f *source.File, line, size uint32) uint32 {
	if line == 0 {
		return 0
	}
	if idx := int(line - 1); idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return size
}
