package ast

// File is the root: every top-level statement of one source file.
type File struct {
	Pos
	Name  string
	Stmts Seq[Stmt]
}

func (*File) Kind() NodeKind { return KindFile }
func (n *File) Fields() []Field {
	return []Field{scalar("name", n.Name), seq("body", n.Stmts)}
}
func (n *File) release() { n.Stmts.Drop() }

// CartridgeHeaderStmt is `cartridge name;`.
type CartridgeHeaderStmt struct {
	Pos
	Name string
}

func (*CartridgeHeaderStmt) Kind() NodeKind { return KindCartridgeHeaderStmt }
func (n *CartridgeHeaderStmt) Fields() []Field {
	return []Field{scalar("name", n.Name)}
}
func (*CartridgeHeaderStmt) release() {}

type AssignStmt struct {
	Pos
	Target Handle[Expr]
	Op     AssignOp
	Value  Handle[Expr]
}

func (*AssignStmt) Kind() NodeKind { return KindAssignStmt }
func (n *AssignStmt) Fields() []Field {
	return []Field{child("target", n.Target), scalar("op", n.Op), child("value", n.Value)}
}
func (n *AssignStmt) release() {
	n.Target.Drop()
	n.Value.Drop()
}

type ExprStmt struct {
	Pos
	Value Handle[Expr]
}

func (*ExprStmt) Kind() NodeKind { return KindExprStmt }
func (n *ExprStmt) Fields() []Field {
	return []Field{child("value", n.Value)}
}
func (n *ExprStmt) release() { n.Value.Drop() }

// PassStmt is a lone `;`.
type PassStmt struct {
	Pos
}

func (*PassStmt) Kind() NodeKind  { return KindPassStmt }
func (*PassStmt) Fields() []Field { return nil }
func (*PassStmt) release()        {}

func (*CartridgeHeaderStmt) stmtNode() {}
func (*AssignStmt) stmtNode()          {}
func (*ExprStmt) stmtNode()            {}
func (*PassStmt) stmtNode()            {}
