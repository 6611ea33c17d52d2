package ast

import (
	"bondrewd/internal/source"
)

// Node is implemented by every concrete AST node. The set of implementations
// is closed: release is unexported.
type Node interface {
	Kind() NodeKind
	Location() source.Location
	// Fields lists the node's fields in declaration order.
	Fields() []Field
	// release drops the owned children; called by the arena once the node's
	// own count reaches zero.
	release()
}

// Sum families.
type (
	Stmt interface {
		Node
		stmtNode()
	}
	Expr interface {
		Node
		exprNode()
	}
	Defn interface {
		Node
		defnNode()
	}
	Flow interface {
		Node
		flowNode()
	}
)

// Pos is embedded in every node.
type Pos struct {
	Loc source.Location
}

// At is shorthand for Pos{Loc: loc}.
func At(loc source.Location) Pos { return Pos{Loc: loc} }

func (p Pos) Location() source.Location { return p.Loc }

type NodeKind uint8

const (
	KindInvalid NodeKind = iota
	KindFile

	// stmt
	KindCartridgeHeaderStmt
	KindAssignStmt
	KindExprStmt
	KindPassStmt

	// defn
	KindVarDef
	KindFuncDef
	KindStructDef
	KindImplDef
	KindNamespaceDef
	KindArgsSpec
	KindArgSpec

	// flow
	KindIfFlow
	KindForFlow
	KindWhileFlow
	KindLoopFlow

	// expr
	KindDefnExpr
	KindFlowExpr
	KindAndExpr
	KindOrExpr
	KindNotExpr
	KindExpandExpr
	KindPassSpecExpr
	KindReturnExpr
	KindBreakExpr
	KindContinueExpr
	KindComparisonExpr
	KindBidirCmpExpr
	KindBinaryExpr
	KindUnaryExpr
	KindInfixCallExpr
	KindAttrExpr
	KindCallExpr
	KindSubscriptExpr
	KindMacroCallExpr
	KindConstantExpr
	KindEllipsisExpr
	KindVarRefExpr
	KindTupleExpr
	KindArrayExpr
	KindCtimeExpr
	KindBlockExpr

	kindCount
)

var nodeKindNames = [...]string{
	KindInvalid:             "Invalid",
	KindFile:                "File",
	KindCartridgeHeaderStmt: "CartridgeHeaderStmt",
	KindAssignStmt:          "AssignStmt",
	KindExprStmt:            "ExprStmt",
	KindPassStmt:            "PassStmt",
	KindVarDef:              "VarDef",
	KindFuncDef:             "FuncDef",
	KindStructDef:           "StructDef",
	KindImplDef:             "ImplDef",
	KindNamespaceDef:        "NamespaceDef",
	KindArgsSpec:            "ArgsSpec",
	KindArgSpec:             "ArgSpec",
	KindIfFlow:              "IfFlow",
	KindForFlow:             "ForFlow",
	KindWhileFlow:           "WhileFlow",
	KindLoopFlow:            "LoopFlow",
	KindDefnExpr:            "DefnExpr",
	KindFlowExpr:            "FlowExpr",
	KindAndExpr:             "AndExpr",
	KindOrExpr:              "OrExpr",
	KindNotExpr:             "NotExpr",
	KindExpandExpr:          "ExpandExpr",
	KindPassSpecExpr:        "PassSpecExpr",
	KindReturnExpr:          "ReturnExpr",
	KindBreakExpr:           "BreakExpr",
	KindContinueExpr:        "ContinueExpr",
	KindComparisonExpr:      "ComparisonExpr",
	KindBidirCmpExpr:        "BidirCmpExpr",
	KindBinaryExpr:          "BinaryExpr",
	KindUnaryExpr:           "UnaryExpr",
	KindInfixCallExpr:       "InfixCallExpr",
	KindAttrExpr:            "AttrExpr",
	KindCallExpr:            "CallExpr",
	KindSubscriptExpr:       "SubscriptExpr",
	KindMacroCallExpr:       "MacroCallExpr",
	KindConstantExpr:        "ConstantExpr",
	KindEllipsisExpr:        "EllipsisExpr",
	KindVarRefExpr:          "VarRefExpr",
	KindTupleExpr:           "TupleExpr",
	KindArrayExpr:           "ArrayExpr",
	KindCtimeExpr:           "CtimeExpr",
	KindBlockExpr:           "BlockExpr",
}

func (k NodeKind) String() string {
	if k < kindCount {
		return nodeKindNames[k]
	}
	return "Invalid"
}

// FieldKind says which member of Field is meaningful.
type FieldKind uint8

const (
	FieldScalar FieldKind = iota
	FieldChild
	FieldSeq
)

// Field is one entry of Node.Fields. For FieldChild a nil Child means the
// optional child is absent.
type Field struct {
	Name   string
	Kind   FieldKind
	Scalar any
	Child  Node
	Seq    []Node
}

func scalar(name string, v any) Field {
	return Field{Name: name, Kind: FieldScalar, Scalar: v}
}

func child[T Node](name string, h Handle[T]) Field {
	f := Field{Name: name, Kind: FieldChild}
	if !h.IsNil() {
		f.Child = h.Get()
	}
	return f
}

func seq[T Node](name string, s Seq[T]) Field {
	nodes := make([]Node, len(s))
	for i, h := range s {
		nodes[i] = h.Get()
	}
	return Field{Name: name, Kind: FieldSeq, Seq: nodes}
}
