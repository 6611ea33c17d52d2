package ast

import (
	"fmt"
	"strconv"
	"strings"

	"bondrewd/internal/token"
)

// Sexpr renders n on one line as nested `(Kind field=value child...)`.
// Constants and variable references print bare; zero scalars and absent
// children are omitted.
func Sexpr(n Node) string {
	var b strings.Builder
	writeSexpr(&b, n)
	return b.String()
}

func writeSexpr(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("_")
		return
	case *ConstantExpr:
		b.WriteString(FormatConstant(n.Value))
		return
	case *VarRefExpr:
		b.WriteString(n.Name)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Kind().String())
	for _, f := range n.Fields() {
		switch f.Kind {
		case FieldScalar:
			v, ok := scalarText(f.Scalar)
			if !ok {
				continue
			}
			b.WriteByte(' ')
			b.WriteString(f.Name)
			b.WriteByte('=')
			b.WriteString(v)
		case FieldChild:
			if f.Child == nil {
				continue
			}
			b.WriteByte(' ')
			writeSexpr(b, f.Child)
		case FieldSeq:
			for _, c := range f.Seq {
				b.WriteByte(' ')
				writeSexpr(b, c)
			}
		}
	}
	b.WriteByte(')')
}

// FormatConstant renders a ConstantExpr value the way it would be written
// in source.
func FormatConstant(v any) string {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return strconv.Quote(v)
	}
	return fmt.Sprint(v)
}

func scalarText(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case bool:
		return "true", v
	case string:
		return v, v != ""
	case XTime:
		return v.String(), v != XTimeDefault
	case []string:
		return strings.Join(v, "::"), len(v) > 0
	case []CmpOp:
		parts := make([]string, len(v))
		for i, op := range v {
			parts[i] = op.String()
		}
		return strings.Join(parts, ","), len(v) > 0
	case []token.Token:
		return strconv.Itoa(len(v)), true
	case fmt.Stringer:
		return v.String(), true
	}
	return fmt.Sprint(v), true
}
