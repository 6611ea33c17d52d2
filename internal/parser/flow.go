package parser

import (
	"bondrewd/internal/ast"
	"bondrewd/internal/token"
)

// flow: 'unwrap' raw_flow | raw_flow
// raw_flow: if_flow | for_flow | while_flow | loop_flow
func (p *Parser) flow() (ast.Handle[ast.Flow], bool) {
	return memoized(p, ruleFlow, func() (ast.Handle[ast.Flow], bool) {
		at := p.try()
		unwrap := p.keyword(token.KwUnwrap)
		f, ok := choice(
			func() (ast.Handle[ast.Flow], bool) { return p.ifFlow(at, unwrap) },
			func() (ast.Handle[ast.Flow], bool) { return p.forFlow(at, unwrap) },
			func() (ast.Handle[ast.Flow], bool) { return p.whileFlow(at, unwrap) },
			func() (ast.Handle[ast.Flow], bool) { return p.loopFlow(at, unwrap) },
		)
		if !ok {
			return f, at.fail()
		}
		return f, true
	})
}

// if_flow: 'if' expr flow_block ['else' flow_block]
func (p *Parser) ifFlow(outer *attempt, unwrap bool) (ast.Handle[ast.Flow], bool) {
	at := p.try()
	if !p.keyword(token.KwIf) {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	cond, ok := p.expr()
	if !ok {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	at.own(&cond)
	then, ok := p.flowBlock()
	if !ok {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	at.own(&then)
	els, ok := p.elseBlock()
	if !ok {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	return p.okFlow(&ast.IfFlow{Pos: outer.pos(), Unwrap: unwrap, Cond: cond, Then: then, Else: els})
}

// for_flow: 'for' name 'in' expr flow_block ['else' flow_block]
func (p *Parser) forFlow(outer *attempt, unwrap bool) (ast.Handle[ast.Flow], bool) {
	at := p.try()
	if !p.keyword(token.KwFor) {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	name, ok := p.name()
	if !ok || !p.keyword(token.KwIn) {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	iter, ok := p.expr()
	if !ok {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	at.own(&iter)
	body, ok := p.flowBlock()
	if !ok {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	at.own(&body)
	els, ok := p.elseBlock()
	if !ok {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	return p.okFlow(&ast.ForFlow{Pos: outer.pos(), Unwrap: unwrap, Var: name, Iter: iter, Body: body, Else: els})
}

// while_flow: 'while' expr flow_block ['else' flow_block]
func (p *Parser) whileFlow(outer *attempt, unwrap bool) (ast.Handle[ast.Flow], bool) {
	at := p.try()
	if !p.keyword(token.KwWhile) {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	cond, ok := p.expr()
	if !ok {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	at.own(&cond)
	body, ok := p.flowBlock()
	if !ok {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	at.own(&body)
	els, ok := p.elseBlock()
	if !ok {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	return p.okFlow(&ast.WhileFlow{Pos: outer.pos(), Unwrap: unwrap, Cond: cond, Body: body, Else: els})
}

// loop_flow: 'loop' flow_block
func (p *Parser) loopFlow(outer *attempt, unwrap bool) (ast.Handle[ast.Flow], bool) {
	at := p.try()
	if !p.keyword(token.KwLoop) {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	body, ok := p.flowBlock()
	if !ok {
		return ast.Handle[ast.Flow]{}, at.fail()
	}
	return p.okFlow(&ast.LoopFlow{Pos: outer.pos(), Unwrap: unwrap, Body: body})
}

// elseBlock parses an optional ['else' flow_block]. A nil handle with ok
// means there was no else; ok is false only for a dangling `else`.
func (p *Parser) elseBlock() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	if !p.keyword(token.KwElse) {
		return ast.Handle[ast.Expr]{}, true
	}
	els, ok := p.flowBlock()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return els, true
}

// flow_block: block_expr | flow_expr | flow_control_expr
func (p *Parser) flowBlock() (ast.Handle[ast.Expr], bool) {
	return choice(p.blockExpr, p.flowExpr, p.flowControlExpr)
}
