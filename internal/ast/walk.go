package ast

// Walk visits n and then its children depth-first, in field order.
// If fn returns false the children of that node are skipped.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, f := range n.Fields() {
		switch f.Kind {
		case FieldChild:
			walk(f.Child, depth+1, fn)
		case FieldSeq:
			for _, c := range f.Seq {
				walk(c, depth+1, fn)
			}
		}
	}
}

// Count returns the number of nodes reachable from n, n included.
func Count(n Node) int {
	total := 0
	Walk(n, func(Node, int) bool {
		total++
		return true
	})
	return total
}
