package parser

import (
	"strings"

	"bondrewd/internal/ast"
	"bondrewd/internal/diag"
	"bondrewd/internal/token"
)

var closers = map[token.PunctID]token.PunctID{
	token.LPar:   token.RPar,
	token.LSqb:   token.RSqb,
	token.LBrace: token.RBrace,
}

// primary: NUMBER | &STRING strings | '...' | var_ref | group | tuple
//
//	| array | ctime_block | block_expr
func (p *Parser) primary() (ast.Handle[ast.Expr], bool) {
	tok := p.lx.Current()
	switch {
	case tok.Kind == token.Number:
		p.lx.Advance()
		var v any = tok.Num.Int
		if tok.Num.Float {
			v = tok.Num.Value
		}
		return p.okExpr(&ast.ConstantExpr{Pos: ast.At(tok.Loc), Value: v})
	case tok.Kind == token.String:
		return p.stringsExpr()
	case tok.IsPunct(token.Ellipsis):
		p.lx.Advance()
		return p.okExpr(&ast.EllipsisExpr{Pos: ast.At(tok.Loc)})
	case tok.Kind == token.Name:
		p.lx.Advance()
		return p.okExpr(&ast.VarRefExpr{Pos: ast.At(tok.Loc), Name: tok.Text})
	case tok.IsPunct(token.LPar):
		return choice(p.group, p.tuple)
	case tok.IsPunct(token.LSqb):
		return p.array()
	case tok.IsKeyword(token.KwCtime):
		return p.ctimeBlock()
	case tok.IsPunct(token.LBrace):
		return p.blockExpr()
	}
	return ast.Handle[ast.Expr]{}, false
}

// strings: STRING+
//
// Adjacent literals are concatenated; they must all use the same quotes.
func (p *Parser) stringsExpr() (ast.Handle[ast.Expr], bool) {
	return memoized(p, ruleStrings, func() (ast.Handle[ast.Expr], bool) {
		first, ok := p.lx.Expect(token.String)
		if !ok {
			return ast.Handle[ast.Expr]{}, false
		}
		var value strings.Builder
		value.WriteString(first.Str.Value)
		for {
			tok, ok := p.lx.Expect(token.String)
			if !ok {
				break
			}
			if tok.Str.Quotes != first.Str.Quotes {
				p.raise(diag.SynMixedQuotes, tok.Loc, "String literals must have the same quotes")
			}
			value.WriteString(tok.Str.Value)
		}
		return p.okExpr(&ast.ConstantExpr{Pos: ast.At(first.Loc), Value: value.String()})
	})
}

// group: '(' weak_expr ')'
// weak_expr: infix_call_expr | expr
func (p *Parser) group() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	if !p.punct(token.LPar) {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	inner, ok := choice(p.infixCallExpr, p.expr)
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	at.own(&inner)
	if !p.punct(token.RPar) {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return inner, true
}

// infix_call_expr: expr_4 name expr_4
func (p *Parser) infixCallExpr() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	left, ok := p.expr4()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	at.own(&left)
	fn, ok := p.name()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	right, ok := p.expr4()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.InfixCallExpr{Pos: at.pos(), Func: fn, Left: left, Right: right})
}

// tuple: '(' ')' | '(' ','.expr+ ','? ')'
func (p *Parser) tuple() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	elts, ok := p.exprList(token.LPar, token.RPar)
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.TupleExpr{Pos: at.pos(), Elts: elts})
}

// array: '[' ']' | '[' ','.expr+ ','? ']'
func (p *Parser) array() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	elts, ok := p.exprList(token.LSqb, token.RSqb)
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.ArrayExpr{Pos: at.pos(), Elts: elts})
}

// exprList matches opening ','.expr* ','? closing. A trailing comma needs at
// least one element.
func (p *Parser) exprList(opening, closing token.PunctID) (ast.Seq[ast.Expr], bool) {
	at := p.try()
	if !p.punct(opening) {
		return nil, at.fail()
	}
	var elts ast.Seq[ast.Expr]
	at.own(&elts)
	for {
		e, ok := p.expr()
		if !ok {
			break
		}
		elts = append(elts, e)
		if !p.punct(token.Comma) {
			break
		}
	}
	if !p.punct(closing) {
		return nil, at.fail()
	}
	return elts, true
}

// ctime_block: 'ctime' block_expr
func (p *Parser) ctimeBlock() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	if !p.keyword(token.KwCtime) {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	body, ok := p.blockExpr()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return p.okExpr(&ast.CtimeExpr{Pos: at.pos(), Body: body})
}

// block_expr: '{' stmt* expr_or_unit '}'
func (p *Parser) blockExpr() (ast.Handle[ast.Expr], bool) {
	return memoized(p, ruleBlockExpr, func() (ast.Handle[ast.Expr], bool) {
		at := p.try()
		if !p.punct(token.LBrace) {
			return ast.Handle[ast.Expr]{}, at.fail()
		}
		body := p.stmts()
		at.own(&body)
		value, _ := p.expr()
		at.own(&value)
		if !p.punct(token.RBrace) {
			return ast.Handle[ast.Expr]{}, at.fail()
		}
		return p.okExpr(&ast.BlockExpr{Pos: at.pos(), Stmts: body, Value: value})
	})
}

// token_stream_delim: '(' ~ token_stream* ')' | '[' ~ token_stream* ']' | '{' ~ token_stream* '}'
// token_stream: token_stream_delim | (!any_paren any_token)+
//
// Once the opening delimiter is seen the closing one is forced.
func (p *Parser) tokenStreamDelim() ([]token.Token, bool) {
	start := p.lx.Tell()
	if !p.skipDelimited() {
		return nil, false
	}
	return append([]token.Token(nil), p.lx.Buffered()[start:p.lx.Tell()]...), true
}

func (p *Parser) skipDelimited() bool {
	open := p.lx.Current()
	closer, ok := closers[open.Punct]
	if open.Kind != token.Punct || !ok {
		return false
	}
	p.lx.Advance()
	for {
		tok := p.lx.Current()
		switch {
		case tok.IsPunct(closer):
			p.lx.Advance()
			return true
		case tok.IsEnd(), tok.IsPunct(token.RPar), tok.IsPunct(token.RSqb), tok.IsPunct(token.RBrace):
			p.forcedFailed("'"+closer.Spelling()+"'", closer.Spelling())
		case tok.Kind == token.Punct && closers[tok.Punct] != token.NoPunct:
			p.skipDelimited()
		default:
			p.lx.Advance()
		}
	}
}
