// Package testkit holds checks shared by parser, driver and fuzz tests.
package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"bondrewd/internal/ast"
	"bondrewd/internal/source"
)

// CheckLocationInvariants runs a minimal set of location invariants on a
// parsed file:
// 1) every node location lies within the file content
// 2) a node's line matches the newlines before its offset
// 3) top-level statements appear in strictly increasing offset order
//
// Nodes with a zero Line carry no location and are skipped.
func CheckLocationInvariants(root *ast.File, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var walkErr error
	ast.Walk(root, func(n ast.Node, _ int) bool {
		if walkErr != nil {
			return false
		}
		loc := n.Location()
		if loc.Line == 0 {
			return true
		}
		if loc.File != sf.Path {
			walkErr = fmt.Errorf("%s node at %s belongs to %q", n.Kind(), loc, loc.File)
			return false
		}
		if loc.Offset > size {
			walkErr = fmt.Errorf("%s node offset %d beyond content (%d bytes)", n.Kind(), loc.Offset, size)
			return false
		}
		want := uint32(bytes.Count(sf.Content[:loc.Offset], []byte{'\n'})) + 1 //nolint:gosec // bounded by size
		if loc.Line != want {
			walkErr = fmt.Errorf("%s node at offset %d reports line %d, want %d", n.Kind(), loc.Offset, loc.Line, want)
			return false
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}

	var prev *source.Location
	for _, stmt := range root.Stmts.Nodes() {
		loc := stmt.Location()
		if prev != nil && loc.Offset <= prev.Offset {
			return fmt.Errorf("statement at offset %d does not follow the one at %d", loc.Offset, prev.Offset)
		}
		prev = &loc
	}
	return nil
}
