package ast_test

import (
	"errors"
	"testing"

	"bondrewd/internal/ast"
	"bondrewd/internal/source"
)

func constant(a *ast.Arena, v any) ast.Handle[ast.Expr] {
	return ast.Allocate[ast.Expr](a, &ast.ConstantExpr{Value: v})
}

func binary(a *ast.Arena, op ast.BinOp, l, r ast.Handle[ast.Expr]) ast.Handle[ast.Expr] {
	return ast.Allocate[ast.Expr](a, &ast.BinaryExpr{Op: op, Left: l, Right: r})
}

func expectUntracked(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ast.ErrUntracked) {
			t.Fatalf("recovered %v, want ErrUntracked", r)
		}
	}()
	f()
}

func TestHandleCopyDropUnique(t *testing.T) {
	a := ast.NewArena("t", 0)
	h := constant(a, int64(1))

	if a.Len() != 1 || !h.IsUnique() || h.RefCount() != 1 {
		t.Fatalf("fresh handle: len=%d refs=%d", a.Len(), h.RefCount())
	}

	c := h.Copy()
	if h.IsUnique() || c.RefCount() != 2 {
		t.Fatalf("after Copy refs=%d", c.RefCount())
	}
	if c.Get() != h.Get() {
		t.Fatal("copies must share the node")
	}

	c.Drop()
	if !c.IsNil() {
		t.Fatal("Drop must nil the handle")
	}
	if !h.IsUnique() || a.Len() != 1 {
		t.Fatal("dropping a copy must not free the node")
	}

	h.Drop()
	if a.Len() != 0 {
		t.Fatalf("len=%d after last drop", a.Len())
	}
}

func TestHandleMove(t *testing.T) {
	a := ast.NewArena("t", 0)
	h := constant(a, "x")
	m := h.Move()

	if !h.IsNil() || m.IsNil() || m.RefCount() != 1 {
		t.Fatal("Move must transfer the reference without counting")
	}
	m.Drop()
	h.Drop() // nil handle: no-op
	if a.Len() != 0 {
		t.Fatalf("len=%d", a.Len())
	}
}

func TestDropReleasesSubtree(t *testing.T) {
	a := ast.NewArena("t", 0)
	left := constant(a, int64(1))
	shared := constant(a, int64(2))
	keep := shared.Copy()
	root := binary(a, ast.BinSub, left, shared)

	if a.Len() != 3 {
		t.Fatalf("len=%d", a.Len())
	}

	root.Drop()
	if a.Len() != 1 {
		t.Fatalf("len=%d, the shared child must survive", a.Len())
	}
	if !keep.IsUnique() {
		t.Fatal("survivor must be unique")
	}
	if got := keep.Get().(*ast.ConstantExpr).Value; got != int64(2) {
		t.Fatalf("survivor value %v", got)
	}
	keep.Drop()
	if a.Len() != 0 {
		t.Fatalf("len=%d", a.Len())
	}
}

func TestSwapRemoveKeepsOthersReachable(t *testing.T) {
	a := ast.NewArena("t", 0)
	hs := []ast.Handle[ast.Expr]{constant(a, int64(0)), constant(a, int64(1)), constant(a, int64(2))}

	hs[0].Drop()
	for i, h := range hs[1:] {
		if got := h.Get().(*ast.ConstantExpr).Value; got != int64(i+1) {
			t.Fatalf("hs[%d] = %v", i+1, got)
		}
	}
	hs[2].Drop()
	hs[1].Drop()
	if a.Len() != 0 {
		t.Fatalf("len=%d", a.Len())
	}
}

func TestDanglingHandlePanics(t *testing.T) {
	a := ast.NewArena("t", 0)
	h := constant(a, int64(1))
	stale := h // a plain copy, not a counted one
	h.Drop()

	expectUntracked(t, func() { stale.Get() })
	expectUntracked(t, func() { stale.Copy() })
	expectUntracked(t, func() { stale.Drop() })
}

func TestCloseReportsLeaks(t *testing.T) {
	a := ast.NewArena("t", 0)
	constant(a, int64(1))
	h := constant(a, int64(2))
	h.Copy()

	if n := a.Close(); n != 2 {
		t.Fatalf("Close() = %d leaks, want 2", n)
	}
	if a.Len() != 0 {
		t.Fatal("Close must empty the arena")
	}
	if n := a.Close(); n != 0 {
		t.Fatalf("second Close() = %d", n)
	}
}

func TestRollback(t *testing.T) {
	a := ast.NewArena("t", 0)
	old := constant(a, int64(1))
	mark := a.Mark()
	partial := binary(a, ast.BinAdd, constant(a, int64(2)), constant(a, int64(3)))

	if n := a.Rollback(mark); n != 3 {
		t.Fatalf("Rollback removed %d records", n)
	}
	if !old.IsUnique() {
		t.Fatal("records before the mark must survive")
	}
	expectUntracked(t, func() { partial.Get() })
	old.Drop()
}

func TestAs(t *testing.T) {
	a := ast.NewArena("t", 0)
	h := constant(a, int64(7))

	if _, ok := ast.As[*ast.VarRefExpr](h); ok {
		t.Fatal("As converted to the wrong type")
	}
	c, ok := ast.As[*ast.ConstantExpr](h)
	if !ok || c.Get().Value != int64(7) || c.ID() != h.ID() {
		t.Fatal("As[*ConstantExpr]")
	}
	if n := ast.Erase(c); n.RefCount() != 1 || n.Get().Kind() != ast.KindConstantExpr {
		t.Fatal("Erase")
	}
	c.Drop()
	if a.Len() != 0 {
		t.Fatalf("len=%d", a.Len())
	}
}

func TestSeqPrependAndDrop(t *testing.T) {
	a := ast.NewArena("t", 0)
	var s ast.Seq[ast.Expr]
	for i := 3; i >= 1; i-- {
		s = ast.Prepend(constant(a, int64(i)), s)
	}

	nodes := s.Nodes()
	for i, n := range nodes {
		if n.(*ast.ConstantExpr).Value != int64(i+1) {
			t.Fatalf("order: %d -> %v", i, n.(*ast.ConstantExpr).Value)
		}
	}
	s.Drop()
	if len(s) != 0 || a.Len() != 0 {
		t.Fatalf("seq=%d len=%d", len(s), a.Len())
	}
}

func TestWalkAndFields(t *testing.T) {
	a := ast.NewArena("t", 0)
	loc := source.Location{File: "t.bd", Offset: 4, Line: 1, Col: 5}

	body := ast.Allocate[ast.Expr](a, &ast.BlockExpr{Value: constant(a, int64(0))})
	fn := ast.Allocate[ast.Defn](a, &ast.FuncDef{
		Pos:  ast.At(loc),
		Name: "main",
		Args: ast.Allocate(a, &ast.ArgsSpec{}),
		Body: body,
	})
	root := ast.Allocate(a, &ast.File{Name: "t.bd", Stmts: ast.Seq[ast.Stmt]{
		ast.Allocate[ast.Stmt](a, &ast.ExprStmt{Value: ast.Allocate[ast.Expr](a, &ast.DefnExpr{Defn: fn})}),
	}})

	if got := ast.Count(root.Get()); got != 7 {
		t.Fatalf("Count = %d, want 7", got)
	}
	if got := fn.Get().Location(); got != loc {
		t.Fatalf("Location = %v", got)
	}

	var names []string
	for _, f := range fn.Get().Fields() {
		names = append(names, f.Name)
	}
	want := []string{"xtime", "name", "args", "result", "body"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("fields %v", names)
		}
	}
	if f := fn.Get().Fields()[3]; f.Kind != ast.FieldChild || f.Child != nil {
		t.Fatal("absent optional child must be nil")
	}

	depths := map[ast.NodeKind]int{}
	ast.Walk(root.Get(), func(n ast.Node, depth int) bool {
		depths[n.Kind()] = depth
		return n.Kind() != ast.KindBlockExpr
	})
	if depths[ast.KindFuncDef] != 3 || depths[ast.KindBlockExpr] != 4 {
		t.Fatalf("depths %v", depths)
	}
	if _, seen := depths[ast.KindConstantExpr]; seen {
		t.Fatal("returning false must skip children")
	}

	root.Drop()
	if a.Len() != 0 {
		t.Fatalf("len=%d after dropping the root", a.Len())
	}
}

func TestNodeKindString(t *testing.T) {
	if ast.KindBinaryExpr.String() != "BinaryExpr" || ast.NodeKind(255).String() != "Invalid" {
		t.Fatal("NodeKind.String")
	}
	if ast.BinPow.String() != "**" || ast.CmpNotIn.String() != "not in" || ast.AssignLShift.String() != "<<=" {
		t.Fatal("operator spellings")
	}
}
