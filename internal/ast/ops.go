package ast

// XTime is the optional ctime/rtime marker in front of a definition.
type XTime uint8

const (
	XTimeDefault XTime = iota
	XTimeCtime
	XTimeRtime
)

func (x XTime) String() string {
	switch x {
	case XTimeCtime:
		return "ctime"
	case XTimeRtime:
		return "rtime"
	default:
		return "default"
	}
}

type AssignOp uint8

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignLShift
	AssignRShift
	AssignBitAnd
	AssignBitOr
	AssignBitXor
)

var assignOpSpelling = [...]string{"=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "|=", "^="}

func (op AssignOp) String() string {
	if int(op) < len(assignOpSpelling) {
		return assignOpSpelling[op]
	}
	return "?="
}

type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow
	BinBitOr
	BinBitAnd
	BinBitXor
	BinLShift
	BinRShift
)

var binOpSpelling = [...]string{"+", "-", "*", "/", "%", "**", "|", "&", "^", "<<", ">>"}

func (op BinOp) String() string {
	if int(op) < len(binOpSpelling) {
		return binOpSpelling[op]
	}
	return "?"
}

type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryInvert
	UnaryRef   // &
	UnaryDeref // *
)

var unaryOpSpelling = [...]string{"+", "-", "~", "&", "*"}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpSpelling) {
		return unaryOpSpelling[op]
	}
	return "?"
}

type CmpOp uint8

const (
	CmpEq CmpOp = iota
	CmpNotEq
	CmpLt
	CmpLtE
	CmpGt
	CmpGtE
	CmpIn
	CmpNotIn
)

var cmpOpSpelling = [...]string{"==", "!=", "<", "<=", ">", ">=", "in", "not in"}

func (op CmpOp) String() string {
	if int(op) < len(cmpOpSpelling) {
		return cmpOpSpelling[op]
	}
	return "?"
}

// PassMode is the ref/move/copy prefix of an argument.
type PassMode uint8

const (
	PassRef PassMode = iota
	PassMove
	PassCopy
)

func (m PassMode) String() string {
	switch m {
	case PassMove:
		return "move"
	case PassCopy:
		return "copy"
	default:
		return "ref"
	}
}
