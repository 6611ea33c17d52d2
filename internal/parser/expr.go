package parser

import (
	"bondrewd/internal/ast"
	"bondrewd/internal/token"
)

type opTable map[token.PunctID]ast.BinOp

var (
	sumOps     = opTable{token.Plus: ast.BinAdd, token.Minus: ast.BinSub}
	productOps = opTable{token.Star: ast.BinMul, token.Slash: ast.BinDiv}
	moduloOps  = opTable{token.Percent: ast.BinMod}
	powerOps   = opTable{token.Power: ast.BinPow}
	bitorOps   = opTable{token.VBar: ast.BinBitOr}
	bitandOps  = opTable{token.Amper: ast.BinBitAnd}
	bitxorOps  = opTable{token.Circumflex: ast.BinBitXor}
	shiftOps   = opTable{token.LeftShift: ast.BinLShift, token.RightShift: ast.BinRShift}
)

var unaryOps = map[token.PunctID]ast.UnaryOp{
	token.Plus:  ast.UnaryPlus,
	token.Minus: ast.UnaryMinus,
	token.Tilde: ast.UnaryInvert,
	token.Amper: ast.UnaryRef,
	token.Star:  ast.UnaryDeref,
}

var cmpOps = map[token.PunctID]ast.CmpOp{
	token.DoubleEqual:  ast.CmpEq,
	token.NotEqual:     ast.CmpNotEq,
	token.Less:         ast.CmpLt,
	token.LessEqual:    ast.CmpLtE,
	token.Greater:      ast.CmpGt,
	token.GreaterEqual: ast.CmpGtE,
}

var passModes = map[token.KeywordID]ast.PassMode{
	token.KwRef:  ast.PassRef,
	token.KwMove: ast.PassMove,
	token.KwCopy: ast.PassCopy,
}

type exprRule func() (ast.Handle[ast.Expr], bool)

// expr: defn_expr | flow_expr | expr_0
func (p *Parser) expr() (ast.Handle[ast.Expr], bool) {
	return memoized(p, ruleExpr, func() (ast.Handle[ast.Expr], bool) {
		return choice(p.defnExpr, p.flowExpr, p.expr0)
	})
}

func (p *Parser) defnExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	d, ok := p.defn()
	if !ok {
		return ast.Handle[ast.Expr]{}, false
	}
	return p.okExpr(&ast.DefnExpr{Pos: at.pos(), Defn: d})
}

func (p *Parser) flowExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	f, ok := p.flow()
	if !ok {
		return ast.Handle[ast.Expr]{}, false
	}
	return p.okExpr(&ast.FlowExpr{Pos: at.pos(), Flow: f})
}

// expr_0: and_expr | or_expr | expr_1
func (p *Parser) expr0() (ast.Handle[ast.Expr], bool) {
	return memoized(p, ruleExpr0, func() (ast.Handle[ast.Expr], bool) {
		return choice(p.andExpr, p.orExpr, p.expr1)
	})
}

// and_expr: expr_2 ('and' expr_1)+
func (p *Parser) andExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	operands, ok := p.boolChain(token.KwAnd)
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.AndExpr{Pos: at.pos(), Operands: operands})
}

// or_expr: expr_2 ('or' expr_1)+
func (p *Parser) orExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	operands, ok := p.boolChain(token.KwOr)
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.OrExpr{Pos: at.pos(), Operands: operands})
}

func (p *Parser) boolChain(kw token.KeywordID) (ast.Seq[ast.Expr], bool) {
	at := p.try()
	first, ok := p.expr2()
	if !ok {
		return nil, at.fail()
	}
	operands := ast.Seq[ast.Expr]{first}
	at.own(&operands)
	for {
		save := p.lx.Tell()
		if !p.keyword(kw) {
			break
		}
		next, ok := p.expr1()
		if !ok {
			p.lx.Seek(save)
			break
		}
		operands = append(operands, next)
	}
	if len(operands) < 2 {
		return nil, at.fail()
	}
	return operands, true
}

// expr_1: not_expr | expand_expr | pass_spec_expr | flow_control_expr | expr_2
func (p *Parser) expr1() (ast.Handle[ast.Expr], bool) {
	return choice(p.notExpr, p.expandExpr, p.passSpecExpr, p.flowControlExpr, p.expr2)
}

// not_expr: 'not' expr_1
func (p *Parser) notExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	if !p.keyword(token.KwNot) {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	v, ok := p.expr1()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.NotExpr{Pos: at.pos(), Value: v})
}

// expand_expr: 'expand' expr_1
func (p *Parser) expandExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	if !p.keyword(token.KwExpand) {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	v, ok := p.expr1()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.ExpandExpr{Pos: at.pos(), Value: v})
}

// pass_spec_expr: ('ref' | 'move' | 'copy') expr_1
func (p *Parser) passSpecExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	tok := p.lx.Current()
	mode, ok := passModes[tok.Keyword]
	if tok.Kind != token.Keyword || !ok {
		return ast.Handle[ast.Expr]{}, false
	}
	p.lx.Advance()
	v, ok := p.expr1()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.PassSpecExpr{Pos: at.pos(), Mode: mode, Value: v})
}

// flow_control_expr: return_expr | break_expr | continue_expr
//
//	return_expr: 'return' expr_or_unit
//	break_expr: 'break' expr_or_unit
//	continue_expr: 'continue'
func (p *Parser) flowControlExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	switch {
	case p.keyword(token.KwReturn):
		v, _ := p.expr()
		return p.okExpr(&ast.ReturnExpr{Pos: at.pos(), Value: v})
	case p.keyword(token.KwBreak):
		v, _ := p.expr()
		return p.okExpr(&ast.BreakExpr{Pos: at.pos(), Value: v})
	case p.keyword(token.KwContinue):
		return p.okExpr(&ast.ContinueExpr{Pos: at.pos()})
	}
	return ast.Handle[ast.Expr]{}, false
}

// expr_2: comparison_expr | bidir_cmp_expr | expr_3
func (p *Parser) expr2() (ast.Handle[ast.Expr], bool) {
	return choice(p.comparisonExpr, p.bidirCmpExpr, p.expr3)
}

// comparison_expr: expr_3 (comparison_op expr_3)+
func (p *Parser) comparisonExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	first, ok := p.expr3()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	operands := ast.Seq[ast.Expr]{first}
	at.own(&operands)
	var ops []ast.CmpOp
	for {
		save := p.lx.Tell()
		op, ok := p.comparisonOp()
		if !ok {
			break
		}
		next, ok := p.expr3()
		if !ok {
			p.lx.Seek(save)
			break
		}
		operands = append(operands, next)
		ops = append(ops, op)
	}
	if len(ops) == 0 {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.ComparisonExpr{Pos: at.pos(), Operands: operands, Ops: ops})
}

// comparison_op: '==' | '!=' | '<' | '<=' | '>' | '>=' | 'in' | 'not' 'in'
func (p *Parser) comparisonOp() (ast.CmpOp, bool) {
	tok := p.lx.Current()
	if op, ok := cmpOps[tok.Punct]; ok && tok.Kind == token.Punct {
		p.lx.Advance()
		return op, true
	}
	if p.keyword(token.KwIn) {
		return ast.CmpIn, true
	}
	if tok.IsKeyword(token.KwNot) && p.lx.Peek(1).IsKeyword(token.KwIn) {
		p.lx.Advance()
		p.lx.Advance()
		return ast.CmpNotIn, true
	}
	return 0, false
}

// bidir_cmp_expr: expr_3 '<=>' expr_3
func (p *Parser) bidirCmpExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	left, ok := p.expr3()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	at.own(&left)
	if !p.punct(token.BidirCmp) {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	right, ok := p.expr3()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.BidirCmpExpr{Pos: at.pos(), Left: left, Right: right})
}

// expr_3: arithm_expr | bitwise_expr | expr_4
//
//	arithm_expr: sum | product | modulo
//	bitwise_expr: bitor | bitand | bitxor | shift
func (p *Parser) expr3() (ast.Handle[ast.Expr], bool) {
	return choice(p.sum, p.product, p.modulo, p.bitor, p.bitand, p.bitxor, p.shift, p.expr4)
}

// term is the operand of sum: product | modulo | expr_4
func (p *Parser) term() (ast.Handle[ast.Expr], bool) {
	return choice(p.product, p.modulo, p.expr4)
}

// sum: (sum | term) ('+' | '-') term
func (p *Parser) sum() (ast.Handle[ast.Expr], bool) {
	return leftRec(p, ruleSum, func() (ast.Handle[ast.Expr], bool) {
		return p.binary(func() (ast.Handle[ast.Expr], bool) { return choice(p.sum, p.term) }, sumOps, p.term)
	})
}

// product: (product | expr_4) ('*' | '/') expr_4
func (p *Parser) product() (ast.Handle[ast.Expr], bool) {
	return leftRec(p, ruleProduct, func() (ast.Handle[ast.Expr], bool) {
		return p.binary(func() (ast.Handle[ast.Expr], bool) { return choice(p.product, p.expr4) }, productOps, p.expr4)
	})
}

// modulo: expr_4 '%' expr_4
func (p *Parser) modulo() (ast.Handle[ast.Expr], bool) {
	return p.binary(p.expr4, moduloOps, p.expr4)
}

// bitor: (bitor | expr_4) '|' expr_4
func (p *Parser) bitor() (ast.Handle[ast.Expr], bool) {
	return leftRec(p, ruleBitor, func() (ast.Handle[ast.Expr], bool) {
		return p.binary(func() (ast.Handle[ast.Expr], bool) { return choice(p.bitor, p.expr4) }, bitorOps, p.expr4)
	})
}

// bitand: (bitand | expr_4) '&' expr_4
func (p *Parser) bitand() (ast.Handle[ast.Expr], bool) {
	return leftRec(p, ruleBitand, func() (ast.Handle[ast.Expr], bool) {
		return p.binary(func() (ast.Handle[ast.Expr], bool) { return choice(p.bitand, p.expr4) }, bitandOps, p.expr4)
	})
}

// bitxor: (bitxor | expr_4) '^' expr_4
func (p *Parser) bitxor() (ast.Handle[ast.Expr], bool) {
	return leftRec(p, ruleBitxor, func() (ast.Handle[ast.Expr], bool) {
		return p.binary(func() (ast.Handle[ast.Expr], bool) { return choice(p.bitxor, p.expr4) }, bitxorOps, p.expr4)
	})
}

// shift: (shift | expr_4) ('<<' | '>>') expr_4
func (p *Parser) shift() (ast.Handle[ast.Expr], bool) {
	return leftRec(p, ruleShift, func() (ast.Handle[ast.Expr], bool) {
		return p.binary(func() (ast.Handle[ast.Expr], bool) { return choice(p.shift, p.expr4) }, shiftOps, p.expr4)
	})
}

// binary matches `lhs op rhs` for an op in ops.
func (p *Parser) binary(lhs exprRule, ops opTable, rhs exprRule) (ast.Handle[ast.Expr], bool) {
	at := p.try()
	left, ok := lhs()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	at.own(&left)

	tok := p.lx.Current()
	op, ok := ops[tok.Punct]
	if tok.Kind != token.Punct || !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	p.lx.Advance()

	right, ok := rhs()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.BinaryExpr{Pos: at.pos(), Op: op, Left: left, Right: right})
}

// expr_4: unary_expr | power_expr | expr_5
func (p *Parser) expr4() (ast.Handle[ast.Expr], bool) {
	return memoized(p, ruleExpr4, func() (ast.Handle[ast.Expr], bool) {
		return choice(p.unaryExpr, p.powerExpr, p.expr5)
	})
}

// unary_expr: unary_op (unary_expr | expr_5)
func (p *Parser) unaryExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	tok := p.lx.Current()
	op, ok := unaryOps[tok.Punct]
	if tok.Kind != token.Punct || !ok {
		return ast.Handle[ast.Expr]{}, false
	}
	p.lx.Advance()
	v, ok := choice(p.unaryExpr, p.expr5)
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.UnaryExpr{Pos: at.pos(), Op: op, Value: v})
}

// power_expr: expr_5 '**' expr_5
func (p *Parser) powerExpr() (ast.Handle[ast.Expr], bool) {
	return p.binary(p.expr5, powerOps, p.expr5)
}

// expr_5 is left-recursive over the postfix forms:
//
//	expr_5 '.' name | expr_5 '::' name | expr_5 '(' call_args ')'
//	| expr_5 '!' token_stream_delim | expr_5 '[' call_args ']' | primary
func (p *Parser) expr5() (ast.Handle[ast.Expr], bool) {
	return leftRec(p, ruleExpr5, func() (ast.Handle[ast.Expr], bool) {
		return choice(p.postfix, p.primary)
	})
}

func (p *Parser) postfix() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	base, ok := p.expr5()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	at.own(&base)

	tok := p.lx.Current()
	if tok.Kind != token.Punct {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	switch tok.Punct {
	case token.Dot, token.DoubleColon:
		p.lx.Advance()
		name, ok := p.name()
		if !ok {
			return ast.Handle[ast.Expr]{}, at.fail()
		}
		return p.okExpr(&ast.AttrExpr{Pos: at.pos(), Value: base, Colon: tok.Punct == token.DoubleColon, Name: name})

	case token.LPar, token.LSqb:
		p.lx.Advance()
		args, _ := p.callArgs()
		at.own(&args)
		closer := token.RPar
		if tok.Punct == token.LSqb {
			closer = token.RSqb
		}
		if !p.punct(closer) {
			return ast.Handle[ast.Expr]{}, at.fail()
		}
		if closer == token.RPar {
			return p.okExpr(&ast.CallExpr{Pos: at.pos(), Func: base, Args: args})
		}
		return p.okExpr(&ast.SubscriptExpr{Pos: at.pos(), Value: base, Args: args})

	case token.Exclamation:
		p.lx.Advance()
		toks, ok := p.tokenStreamDelim()
		if !ok {
			return ast.Handle[ast.Expr]{}, at.fail()
		}
		return p.okExpr(&ast.MacroCallExpr{Pos: at.pos(), Macro: base, Tokens: toks})
	}
	return ast.Handle[ast.Expr]{}, at.fail()
}

// call_args: ','.expr* ','?
func (p *Parser) callArgs() (ast.Seq[ast.Expr], bool) {
	return memoized(p, ruleCallArgs, func() (ast.Seq[ast.Expr], bool) {
		var args ast.Seq[ast.Expr]
		for {
			e, ok := p.expr()
			if !ok {
				break
			}
			args = append(args, e)
			if !p.punct(token.Comma) {
				break
			}
		}
		return args, true
	})
}
