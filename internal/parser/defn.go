package parser

import (
	"bondrewd/internal/ast"
	"bondrewd/internal/token"
)

// defn: xtime_flag raw_defn
func (p *Parser) defn() (ast.Handle[ast.Defn], bool) {
	return memoized(p, ruleDefn, func() (ast.Handle[ast.Defn], bool) {
		at := p.try()
		xt := ast.XTimeDefault
		switch {
		case p.keyword(token.KwCtime):
			xt = ast.XTimeCtime
		case p.keyword(token.KwRtime):
			xt = ast.XTimeRtime
		}
		d, ok := choice(
			func() (ast.Handle[ast.Defn], bool) { return p.varDef(at, xt) },
			func() (ast.Handle[ast.Defn], bool) { return p.funcDef(at, xt) },
			func() (ast.Handle[ast.Defn], bool) { return p.structDef(at, xt) },
			func() (ast.Handle[ast.Defn], bool) { return p.implDef(at, xt) },
			func() (ast.Handle[ast.Defn], bool) { return p.nsDef(at, xt) },
		)
		if !ok {
			return d, at.fail()
		}
		return d, true
	})
}

// var_def: 'var' name type_annotation? ['=' expr] &';'
//
// The terminating ';' is left for the enclosing statement.
func (p *Parser) varDef(outer *attempt, xt ast.XTime) (ast.Handle[ast.Defn], bool) {
	at := p.try()
	if !p.keyword(token.KwVar) {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	name, ok := p.name()
	if !ok {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	typ, _ := p.typeAnnotation()
	at.own(&typ)

	var value ast.Handle[ast.Expr]
	if p.punct(token.Equal) {
		if value, ok = p.expr(); !ok {
			return ast.Handle[ast.Defn]{}, at.fail()
		}
		at.own(&value)
	}
	if !p.lx.Lookahead(true, func() bool { return p.punct(token.Semi) }) {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	return p.okDefn(&ast.VarDef{Pos: outer.pos(), Time: xt, Name: name, Type: typ, Value: value})
}

// func_def: 'func' name? '(' args_spec ')' type_annotation? func_body
// func_body: '=>' expr | block_expr
func (p *Parser) funcDef(outer *attempt, xt ast.XTime) (ast.Handle[ast.Defn], bool) {
	at := p.try()
	if !p.keyword(token.KwFunc) {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	name, _ := p.name()
	if !p.punct(token.LPar) {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	args := p.argsSpec()
	at.own(&args)
	if !p.punct(token.RPar) {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	result, _ := p.typeAnnotation()
	at.own(&result)

	var body ast.Handle[ast.Expr]
	ok := false
	if p.punct(token.RArrow2) {
		body, ok = p.expr()
	} else {
		body, ok = p.blockExpr()
	}
	if !ok {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	return p.okDefn(&ast.FuncDef{Pos: outer.pos(), Time: xt, Name: name, Args: args, Result: result, Body: body})
}

// struct_def: ('class' | 'struct') name? '(' args_spec ')'
func (p *Parser) structDef(outer *attempt, xt ast.XTime) (ast.Handle[ast.Defn], bool) {
	at := p.try()
	isClass := false
	switch {
	case p.keyword(token.KwClass):
		isClass = true
	case p.keyword(token.KwStruct):
	default:
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	name, _ := p.name()
	if !p.punct(token.LPar) {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	args := p.argsSpec()
	at.own(&args)
	if !p.punct(token.RPar) {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	return p.okDefn(&ast.StructDef{Pos: outer.pos(), Time: xt, IsClass: isClass, Name: name, Args: args})
}

// impl_def: 'impl' expr defn_block | 'impl' expr 'for' expr defn_block
// defn_block: '{' stmt* '}'
func (p *Parser) implDef(outer *attempt, xt ast.XTime) (ast.Handle[ast.Defn], bool) {
	at := p.try()
	if !p.keyword(token.KwImpl) {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	first, ok := p.expr()
	if !ok {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	at.own(&first)

	var trait, target ast.Handle[ast.Expr]
	if p.keyword(token.KwFor) {
		if target, ok = p.expr(); !ok {
			return ast.Handle[ast.Defn]{}, at.fail()
		}
		at.own(&target)
		trait = first
	} else {
		target = first
	}

	if !p.punct(token.LBrace) {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	body := p.stmts()
	at.own(&body)
	if !p.punct(token.RBrace) {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	return p.okDefn(&ast.ImplDef{Pos: outer.pos(), Time: xt, Trait: trait, Target: target, Body: body})
}

// ns_def: 'namespace' ['cartridge' '::'] '::'.name+
func (p *Parser) nsDef(outer *attempt, xt ast.XTime) (ast.Handle[ast.Defn], bool) {
	at := p.try()
	if !p.keyword(token.KwNamespace) {
		return ast.Handle[ast.Defn]{}, at.fail()
	}
	cartridge := false
	if p.lx.Lookahead(true, func() bool { return p.keyword(token.KwCartridge) && p.punct(token.DoubleColon) }) {
		p.lx.Advance()
		p.lx.Advance()
		cartridge = true
	}

	var path []string
	for {
		name, ok := p.name()
		if !ok {
			return ast.Handle[ast.Defn]{}, at.fail()
		}
		path = append(path, name)
		if !p.lx.Lookahead(true, func() bool {
			_, ok := p.lx.ExpectPunct(token.DoubleColon)
			return ok && p.lx.Current().Kind == token.Name
		}) {
			break
		}
		p.lx.Advance()
	}
	return p.okDefn(&ast.NamespaceDef{Pos: outer.pos(), Time: xt, Cartridge: cartridge, Path: path})
}

// type_annotation: ':' expr
func (p *Parser) typeAnnotation() (ast.Handle[ast.Expr], bool) {
	at := p.try()
	if !p.punct(token.Colon) {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	typ, ok := p.expr()
	if !ok {
		return ast.Handle[ast.Expr]{}, at.fail()
	}
	return typ, true
}

// args_spec: ["self" (',' arg_spec)* | ','.arg_spec+] ','?
//
// The list may be empty; the rule never fails.
func (p *Parser) argsSpec() ast.Handle[*ast.ArgsSpec] {
	loc := p.lx.Current().Loc
	spec := &ast.ArgsSpec{Pos: ast.At(loc)}

	// `self` без аннотации типа - это получатель, а не обычный аргумент
	selfFirst := p.lx.Lookahead(true, func() bool {
		_, ok := p.lx.ExpectSoft("self")
		return ok && !p.lx.Current().IsPunct(token.Colon)
	})
	if selfFirst {
		p.lx.Advance()
		spec.HasSelf = true
	}

	for {
		if spec.HasSelf || len(spec.Args) > 0 {
			save := p.lx.Tell()
			if !p.punct(token.Comma) {
				break
			}
			arg, ok := p.argSpec()
			if !ok {
				// запятая в конце списка
				p.lx.Seek(save)
				break
			}
			spec.Args = append(spec.Args, arg)
			continue
		}
		arg, ok := p.argSpec()
		if !ok {
			break
		}
		spec.Args = append(spec.Args, arg)
	}
	if spec.HasSelf || len(spec.Args) > 0 {
		p.punct(token.Comma)
	}
	return newNode(p, spec)
}

// arg_spec: name type_annotation ['=' expr]
func (p *Parser) argSpec() (ast.Handle[*ast.ArgSpec], bool) {
	at := p.try()
	name, ok := p.name()
	if !ok {
		return ast.Handle[*ast.ArgSpec]{}, at.fail()
	}
	typ, ok := p.typeAnnotation()
	if !ok {
		return ast.Handle[*ast.ArgSpec]{}, at.fail()
	}
	at.own(&typ)

	var def ast.Handle[ast.Expr]
	if p.punct(token.Equal) {
		if def, ok = p.expr(); !ok {
			return ast.Handle[*ast.ArgSpec]{}, at.fail()
		}
	}
	return newNode(p, &ast.ArgSpec{Pos: at.pos(), Name: name, Type: typ, Default: def}), true
}
