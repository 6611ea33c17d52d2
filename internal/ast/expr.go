package ast

import (
	"bondrewd/internal/token"
)

// DefnExpr lets a definition appear where an expression is expected.
type DefnExpr struct {
	Pos
	Defn Handle[Defn]
}

func (*DefnExpr) Kind() NodeKind    { return KindDefnExpr }
func (n *DefnExpr) Fields() []Field { return []Field{child("defn", n.Defn)} }
func (n *DefnExpr) release()        { n.Defn.Drop() }

type FlowExpr struct {
	Pos
	Flow Handle[Flow]
}

func (*FlowExpr) Kind() NodeKind    { return KindFlowExpr }
func (n *FlowExpr) Fields() []Field { return []Field{child("flow", n.Flow)} }
func (n *FlowExpr) release()        { n.Flow.Drop() }

// AndExpr is `a and b and c`; Operands has at least two entries.
type AndExpr struct {
	Pos
	Operands Seq[Expr]
}

func (*AndExpr) Kind() NodeKind    { return KindAndExpr }
func (n *AndExpr) Fields() []Field { return []Field{seq("operands", n.Operands)} }
func (n *AndExpr) release()        { n.Operands.Drop() }

type OrExpr struct {
	Pos
	Operands Seq[Expr]
}

func (*OrExpr) Kind() NodeKind    { return KindOrExpr }
func (n *OrExpr) Fields() []Field { return []Field{seq("operands", n.Operands)} }
func (n *OrExpr) release()        { n.Operands.Drop() }

type NotExpr struct {
	Pos
	Value Handle[Expr]
}

func (*NotExpr) Kind() NodeKind    { return KindNotExpr }
func (n *NotExpr) Fields() []Field { return []Field{child("value", n.Value)} }
func (n *NotExpr) release()        { n.Value.Drop() }

type ExpandExpr struct {
	Pos
	Value Handle[Expr]
}

func (*ExpandExpr) Kind() NodeKind    { return KindExpandExpr }
func (n *ExpandExpr) Fields() []Field { return []Field{child("value", n.Value)} }
func (n *ExpandExpr) release()        { n.Value.Drop() }

type PassSpecExpr struct {
	Pos
	Mode  PassMode
	Value Handle[Expr]
}

func (*PassSpecExpr) Kind() NodeKind { return KindPassSpecExpr }
func (n *PassSpecExpr) Fields() []Field {
	return []Field{scalar("mode", n.Mode), child("value", n.Value)}
}
func (n *PassSpecExpr) release() { n.Value.Drop() }

type ReturnExpr struct {
	Pos
	Value Handle[Expr] // optional
}

func (*ReturnExpr) Kind() NodeKind    { return KindReturnExpr }
func (n *ReturnExpr) Fields() []Field { return []Field{child("value", n.Value)} }
func (n *ReturnExpr) release()        { n.Value.Drop() }

type BreakExpr struct {
	Pos
	Value Handle[Expr] // optional
}

func (*BreakExpr) Kind() NodeKind    { return KindBreakExpr }
func (n *BreakExpr) Fields() []Field { return []Field{child("value", n.Value)} }
func (n *BreakExpr) release()        { n.Value.Drop() }

type ContinueExpr struct {
	Pos
}

func (*ContinueExpr) Kind() NodeKind  { return KindContinueExpr }
func (*ContinueExpr) Fields() []Field { return nil }
func (*ContinueExpr) release()        {}

// ComparisonExpr is a chain `a < b <= c`: len(Ops) == len(Operands)-1.
type ComparisonExpr struct {
	Pos
	Operands Seq[Expr]
	Ops      []CmpOp
}

func (*ComparisonExpr) Kind() NodeKind { return KindComparisonExpr }
func (n *ComparisonExpr) Fields() []Field {
	return []Field{seq("operands", n.Operands), scalar("ops", n.Ops)}
}
func (n *ComparisonExpr) release() { n.Operands.Drop() }

// BidirCmpExpr is `a <=> b`.
type BidirCmpExpr struct {
	Pos
	Left  Handle[Expr]
	Right Handle[Expr]
}

func (*BidirCmpExpr) Kind() NodeKind { return KindBidirCmpExpr }
func (n *BidirCmpExpr) Fields() []Field {
	return []Field{child("left", n.Left), child("right", n.Right)}
}
func (n *BidirCmpExpr) release() {
	n.Left.Drop()
	n.Right.Drop()
}

type BinaryExpr struct {
	Pos
	Op    BinOp
	Left  Handle[Expr]
	Right Handle[Expr]
}

func (*BinaryExpr) Kind() NodeKind { return KindBinaryExpr }
func (n *BinaryExpr) Fields() []Field {
	return []Field{child("left", n.Left), scalar("op", n.Op), child("right", n.Right)}
}
func (n *BinaryExpr) release() {
	n.Left.Drop()
	n.Right.Drop()
}

type UnaryExpr struct {
	Pos
	Op    UnaryOp
	Value Handle[Expr]
}

func (*UnaryExpr) Kind() NodeKind { return KindUnaryExpr }
func (n *UnaryExpr) Fields() []Field {
	return []Field{scalar("op", n.Op), child("value", n.Value)}
}
func (n *UnaryExpr) release() { n.Value.Drop() }

// InfixCallExpr is `(a name b)`, a call of name with two arguments.
type InfixCallExpr struct {
	Pos
	Func  string
	Left  Handle[Expr]
	Right Handle[Expr]
}

func (*InfixCallExpr) Kind() NodeKind { return KindInfixCallExpr }
func (n *InfixCallExpr) Fields() []Field {
	return []Field{scalar("func", n.Func), child("left", n.Left), child("right", n.Right)}
}
func (n *InfixCallExpr) release() {
	n.Left.Drop()
	n.Right.Drop()
}

// AttrExpr is `value.name`, or `value::name` when Colon is set.
type AttrExpr struct {
	Pos
	Value Handle[Expr]
	Colon bool
	Name  string
}

func (*AttrExpr) Kind() NodeKind { return KindAttrExpr }
func (n *AttrExpr) Fields() []Field {
	return []Field{child("value", n.Value), scalar("colon", n.Colon), scalar("name", n.Name)}
}
func (n *AttrExpr) release() { n.Value.Drop() }

type CallExpr struct {
	Pos
	Func Handle[Expr]
	Args Seq[Expr]
}

func (*CallExpr) Kind() NodeKind { return KindCallExpr }
func (n *CallExpr) Fields() []Field {
	return []Field{child("func", n.Func), seq("args", n.Args)}
}
func (n *CallExpr) release() {
	n.Func.Drop()
	n.Args.Drop()
}

type SubscriptExpr struct {
	Pos
	Value Handle[Expr]
	Args  Seq[Expr]
}

func (*SubscriptExpr) Kind() NodeKind { return KindSubscriptExpr }
func (n *SubscriptExpr) Fields() []Field {
	return []Field{child("value", n.Value), seq("args", n.Args)}
}
func (n *SubscriptExpr) release() {
	n.Value.Drop()
	n.Args.Drop()
}

// MacroCallExpr is `macro!(...)`. Tokens is the raw stream including the
// outer delimiters.
type MacroCallExpr struct {
	Pos
	Macro  Handle[Expr]
	Tokens []token.Token
}

func (*MacroCallExpr) Kind() NodeKind { return KindMacroCallExpr }
func (n *MacroCallExpr) Fields() []Field {
	return []Field{child("macro", n.Macro), scalar("tokens", n.Tokens)}
}
func (n *MacroCallExpr) release() { n.Macro.Drop() }

// ConstantExpr holds an int64, a float64 or a string.
type ConstantExpr struct {
	Pos
	Value any
}

func (*ConstantExpr) Kind() NodeKind    { return KindConstantExpr }
func (n *ConstantExpr) Fields() []Field { return []Field{scalar("value", n.Value)} }
func (*ConstantExpr) release()          {}

type EllipsisExpr struct {
	Pos
}

func (*EllipsisExpr) Kind() NodeKind  { return KindEllipsisExpr }
func (*EllipsisExpr) Fields() []Field { return nil }
func (*EllipsisExpr) release()        {}

type VarRefExpr struct {
	Pos
	Name string
}

func (*VarRefExpr) Kind() NodeKind    { return KindVarRefExpr }
func (n *VarRefExpr) Fields() []Field { return []Field{scalar("name", n.Name)} }
func (*VarRefExpr) release()          {}

type TupleExpr struct {
	Pos
	Elts Seq[Expr]
}

func (*TupleExpr) Kind() NodeKind    { return KindTupleExpr }
func (n *TupleExpr) Fields() []Field { return []Field{seq("elts", n.Elts)} }
func (n *TupleExpr) release()        { n.Elts.Drop() }

type ArrayExpr struct {
	Pos
	Elts Seq[Expr]
}

func (*ArrayExpr) Kind() NodeKind    { return KindArrayExpr }
func (n *ArrayExpr) Fields() []Field { return []Field{seq("elts", n.Elts)} }
func (n *ArrayExpr) release()        { n.Elts.Drop() }

// CtimeExpr is `ctime { ... }`.
type CtimeExpr struct {
	Pos
	Body Handle[Expr]
}

func (*CtimeExpr) Kind() NodeKind    { return KindCtimeExpr }
func (n *CtimeExpr) Fields() []Field { return []Field{child("body", n.Body)} }
func (n *CtimeExpr) release()        { n.Body.Drop() }

// BlockExpr is `{ stmt* value? }`. A nil Value means the block yields unit.
type BlockExpr struct {
	Pos
	Stmts Seq[Stmt]
	Value Handle[Expr]
}

func (*BlockExpr) Kind() NodeKind { return KindBlockExpr }
func (n *BlockExpr) Fields() []Field {
	return []Field{seq("body", n.Stmts), child("value", n.Value)}
}
func (n *BlockExpr) release() {
	n.Stmts.Drop()
	n.Value.Drop()
}

func (*DefnExpr) exprNode()       {}
func (*FlowExpr) exprNode()       {}
func (*AndExpr) exprNode()        {}
func (*OrExpr) exprNode()         {}
func (*NotExpr) exprNode()        {}
func (*ExpandExpr) exprNode()     {}
func (*PassSpecExpr) exprNode()   {}
func (*ReturnExpr) exprNode()     {}
func (*BreakExpr) exprNode()      {}
func (*ContinueExpr) exprNode()   {}
func (*ComparisonExpr) exprNode() {}
func (*BidirCmpExpr) exprNode()   {}
func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*InfixCallExpr) exprNode()  {}
func (*AttrExpr) exprNode()       {}
func (*CallExpr) exprNode()       {}
func (*SubscriptExpr) exprNode()  {}
func (*MacroCallExpr) exprNode()  {}
func (*ConstantExpr) exprNode()   {}
func (*EllipsisExpr) exprNode()   {}
func (*VarRefExpr) exprNode()     {}
func (*TupleExpr) exprNode()      {}
func (*ArrayExpr) exprNode()      {}
func (*CtimeExpr) exprNode()      {}
func (*BlockExpr) exprNode()      {}
