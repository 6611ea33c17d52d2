package parser

import (
	"bondrewd/internal/ast"
	"bondrewd/internal/token"
)

var assignOps = map[token.PunctID]ast.AssignOp{
	token.Equal:           ast.AssignPlain,
	token.PlusEqual:       ast.AssignAdd,
	token.MinEqual:        ast.AssignSub,
	token.StarEqual:       ast.AssignMul,
	token.SlashEqual:      ast.AssignDiv,
	token.PercentEqual:    ast.AssignMod,
	token.LeftShiftEqual:  ast.AssignLShift,
	token.RightShiftEqual: ast.AssignRShift,
	token.AmperEqual:      ast.AssignBitAnd,
	token.VBarEqual:       ast.AssignBitOr,
	token.CircumflexEqual: ast.AssignBitXor,
}

// stmt: cartridge_header_stmt | assign_stmt | expr_stmt | pass_stmt
func (p *Parser) stmt() (ast.Handle[ast.Stmt], bool) {
	return memoized(p, ruleStmt, func() (ast.Handle[ast.Stmt], bool) {
		return choice(p.cartridgeHeaderStmt, p.assignStmt, p.exprStmt, p.passStmt)
	})
}

// cartridge_header_stmt: 'cartridge' name ';'
func (p *Parser) cartridgeHeaderStmt() (ast.Handle[ast.Stmt], bool) {
	kw, ok := p.lx.ExpectKeyword(token.KwCartridge)
	if !ok {
		return ast.Handle[ast.Stmt]{}, false
	}
	name := p.mustName()
	p.mustPunct(token.Semi)
	return p.okStmt(&ast.CartridgeHeaderStmt{Pos: ast.At(kw.Loc), Name: name})
}

// assign_stmt: expr assign_op expr ';'
func (p *Parser) assignStmt() (ast.Handle[ast.Stmt], bool) {
	at := p.try()
	target, ok := p.expr()
	if !ok {
		return ast.Handle[ast.Stmt]{}, at.fail()
	}
	at.own(&target)

	tok := p.lx.Current()
	op, ok := assignOps[tok.Punct]
	if tok.Kind != token.Punct || !ok {
		return ast.Handle[ast.Stmt]{}, at.fail()
	}
	p.lx.Advance()

	value, ok := p.expr()
	if !ok {
		return ast.Handle[ast.Stmt]{}, at.fail()
	}
	at.own(&value)

	if !p.punct(token.Semi) {
		return ast.Handle[ast.Stmt]{}, at.fail()
	}
	return p.okStmt(&ast.AssignStmt{Pos: at.pos(), Target: target, Op: op, Value: value})
}

// expr_stmt: expr ';'
func (p *Parser) exprStmt() (ast.Handle[ast.Stmt], bool) {
	at := p.try()
	value, ok := p.expr()
	if !ok {
		return ast.Handle[ast.Stmt]{}, at.fail()
	}
	at.own(&value)
	if !p.punct(token.Semi) {
		return ast.Handle[ast.Stmt]{}, at.fail()
	}
	return p.okStmt(&ast.ExprStmt{Pos: at.pos(), Value: value})
}

// pass_stmt: ';'
func (p *Parser) passStmt() (ast.Handle[ast.Stmt], bool) {
	tok, ok := p.lx.ExpectPunct(token.Semi)
	if !ok {
		return ast.Handle[ast.Stmt]{}, false
	}
	return p.okStmt(&ast.PassStmt{Pos: ast.At(tok.Loc)})
}

// stmts collects stmt* into a sequence.
func (p *Parser) stmts() ast.Seq[ast.Stmt] {
	var out ast.Seq[ast.Stmt]
	for {
		s, ok := p.stmt()
		if !ok {
			return out
		}
		out = append(out, s)
	}
}

func (p *Parser) punct(pid token.PunctID) bool {
	_, ok := p.lx.ExpectPunct(pid)
	return ok
}

func (p *Parser) keyword(kw token.KeywordID) bool {
	_, ok := p.lx.ExpectKeyword(kw)
	return ok
}

func (p *Parser) name() (string, bool) {
	tok, ok := p.lx.Expect(token.Name)
	return tok.Text, ok
}

func (p *Parser) mustPunct(pid token.PunctID) {
	if !p.punct(pid) {
		p.forcedFailed("'"+pid.Spelling()+"'", pid.Spelling())
	}
}

func (p *Parser) mustName() string {
	name, ok := p.name()
	if !ok {
		p.forcedFailed("name", "")
	}
	return name
}
