package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"bondrewd/internal/ast"
	"bondrewd/internal/source"
)

// FormatASTTree prints the tree one field per line, children in braces:
//
//	File {
//	  name: t.bd
//	  body[0]: CartridgeHeaderStmt {
//	    name: foo
//	  }
//	}
//
// Zero scalars and absent optional children are shown too, so every node
// of a kind has the same shape.
func FormatASTTree(w io.Writer, root ast.Node) error {
	var b strings.Builder
	writeTree(&b, "", root, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTree(b *strings.Builder, label string, n ast.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	if label != "" {
		b.WriteString(label)
		b.WriteString(": ")
	}
	if n == nil {
		b.WriteString("<none>\n")
		return
	}
	fields := n.Fields()
	if len(fields) == 0 {
		fmt.Fprintf(b, "%s {}\n", n.Kind())
		return
	}
	fmt.Fprintf(b, "%s {\n", n.Kind())
	for _, f := range fields {
		switch f.Kind {
		case ast.FieldScalar:
			fmt.Fprintf(b, "%s  %s: %s\n", indent, f.Name, scalarString(f.Scalar))
		case ast.FieldChild:
			writeTree(b, f.Name, f.Child, depth+1)
		case ast.FieldSeq:
			if len(f.Seq) == 0 {
				fmt.Fprintf(b, "%s  %s: []\n", indent, f.Name)
			}
			for i, c := range f.Seq {
				writeTree(b, fmt.Sprintf("%s[%d]", f.Name, i), c, depth+1)
			}
		}
	}
	b.WriteString(indent)
	b.WriteString("}\n")
}

func scalarString(v any) string {
	switch v := v.(type) {
	case []string:
		return strings.Join(v, "::")
	case string:
		return v
	case int64, float64:
		return ast.FormatConstant(v)
	}
	return fmt.Sprint(v)
}

// FormatASTSexpr prints ast.Sexpr of root on one line.
func FormatASTSexpr(w io.Writer, root ast.Node) error {
	_, err := fmt.Fprintln(w, ast.Sexpr(root))
	return err
}

type ASTNodeOutput struct {
	Type     string                     `json:"type"`
	Line     uint32                     `json:"line"`
	Col      uint32                     `json:"col"`
	Fields   map[string]any             `json:"fields,omitempty"`
	Children map[string]ASTNodeOutput   `json:"children,omitempty"`
	Lists    map[string][]ASTNodeOutput `json:"lists,omitempty"`
}

// BuildASTOutput converts the tree into the JSON document model.
func BuildASTOutput(n ast.Node) ASTNodeOutput {
	loc := n.Location()
	out := ASTNodeOutput{Type: n.Kind().String(), Line: loc.Line, Col: loc.Col}
	for _, f := range n.Fields() {
		switch f.Kind {
		case ast.FieldScalar:
			if out.Fields == nil {
				out.Fields = make(map[string]any)
			}
			out.Fields[f.Name] = jsonScalar(f.Scalar)
		case ast.FieldChild:
			if f.Child == nil {
				continue
			}
			if out.Children == nil {
				out.Children = make(map[string]ASTNodeOutput)
			}
			out.Children[f.Name] = BuildASTOutput(f.Child)
		case ast.FieldSeq:
			if out.Lists == nil {
				out.Lists = make(map[string][]ASTNodeOutput)
			}
			items := make([]ASTNodeOutput, len(f.Seq))
			for i, c := range f.Seq {
				items[i] = BuildASTOutput(c)
			}
			out.Lists[f.Name] = items
		}
	}
	return out
}

func jsonScalar(v any) any {
	switch v := v.(type) {
	case bool, string, int64, float64, []string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	if ops, ok := v.([]ast.CmpOp); ok {
		names := make([]string, len(ops))
		for i, op := range ops {
			names[i] = op.String()
		}
		return names
	}
	return fmt.Sprint(v)
}

// FormatASTJSON writes the tree as indented JSON.
func FormatASTJSON(w io.Writer, root ast.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildASTOutput(root))
}

// formatLoc renders "line:col", prefixed by the file path in fs when known.
func formatLoc(loc source.Location, fs *source.FileSet) string {
	if fs != nil {
		if id, ok := fs.GetLatest(loc.File); ok {
			return fmt.Sprintf("%s:%d:%d", fs.Get(id).FormatPath("auto", fs.BaseDir()), loc.Line, loc.Col)
		}
	}
	return fmt.Sprintf("%d:%d", loc.Line, loc.Col)
}
