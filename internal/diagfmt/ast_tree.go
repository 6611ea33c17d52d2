package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"bondrewd/internal/ast"
	"bondrewd/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// FormatASTDiagram draws the tree top-down with / | \ connectors. The root
// label carries the file location when fs knows the file.
func FormatASTDiagram(w io.Writer, root ast.Node, fs *source.FileSet) error {
	node := buildTreeNode(root)
	if root != nil {
		node.label = fmt.Sprintf("%s (%s)", node.label, formatLoc(root.Location(), fs))
	}
	block := renderTree(node)
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// buildTreeNode labels each node with its kind and non-zero scalars.
// Constants and variable references become bare leaves.
func buildTreeNode(n ast.Node) *treeNode {
	switch n := n.(type) {
	case nil:
		return &treeNode{label: "_"}
	case *ast.ConstantExpr:
		return &treeNode{label: ast.FormatConstant(n.Value)}
	case *ast.VarRefExpr:
		return &treeNode{label: n.Name}
	}
	parts := []string{n.Kind().String()}
	node := &treeNode{}
	for _, f := range n.Fields() {
		switch f.Kind {
		case ast.FieldScalar:
			if isZeroScalar(f.Scalar) {
				continue
			}
			parts = append(parts, f.Name+"="+scalarString(f.Scalar))
		case ast.FieldChild:
			if f.Child != nil {
				node.children = append(node.children, buildTreeNode(f.Child))
			}
		case ast.FieldSeq:
			for _, c := range f.Seq {
				node.children = append(node.children, buildTreeNode(c))
			}
		}
	}
	node.label = strings.Join(parts, " ")
	return node
}

func isZeroScalar(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case ast.XTime:
		return v == ast.XTimeDefault
	case []string:
		return len(v) == 0
	case []ast.CmpOp:
		return len(v) == 0
	}
	return false
}

// renderTree lays a node out as a block of equal-width lines. root is the
// column of the node's own connector; widths are display columns.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := runewidth.StringWidth(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		maxChildHeight = max(maxChildHeight, len(childBlocks[i].lines))
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		// метка шире детей: сдвигаем детей вправо
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	width := max(totalWidth, shift+labelWidth)
	rootLine := padRight(strings.Repeat(" ", shift)+label, width)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	lines := make([]string, 0, 2+maxChildHeight)
	lines = append(lines, rootLine, string(connector))
	for row := range maxChildHeight {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(padRight(line, block.width))
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		lines = append(lines, padRight(sb.String(), width))
	}

	return treeBlock{lines: lines, width: width, root: rootPos}
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
