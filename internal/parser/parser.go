package parser

import (
	"fmt"

	"github.com/tliron/commonlog"

	"bondrewd/internal/ast"
	"bondrewd/internal/diag"
	"bondrewd/internal/lexer"
	"bondrewd/internal/logging"
	"bondrewd/internal/source"
	"bondrewd/internal/token"
	"bondrewd/internal/trace"
)

// DefaultMaxDepth bounds rule nesting.
const DefaultMaxDepth = 6000

type Options struct {
	MaxDepth int        // 0 means DefaultMaxDepth
	NoMemo   bool       // disable packrat caching (left recursion still uses it)
	Arena    *ast.Arena // nil means ast.Default
	Tracer   trace.Tracer
}

// Stats are counters collected during one Parse.
type Stats struct {
	MemoHits    int
	MemoMisses  int
	SeedGrowths int
	MaxDepth    int
}

// Parser - состояние PEG-парсера на один файл
type Parser struct {
	lx    *lexer.Lexer
	arena *ast.Arena
	opts  Options
	memo  map[memoKey]memoEntry
	depth int
	stats Stats
	log   commonlog.Logger
	debug bool
	tr    trace.Tracer
}

func New(lx *lexer.Lexer, opts Options) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Arena == nil {
		opts.Arena = ast.Default
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &Parser{
		lx:    lx,
		arena: opts.Arena,
		opts:  opts,
		memo:  make(map[memoKey]memoEntry, 256),
		log:   logging.Get("parser"),
		debug: logging.Debugging(),
		tr:    opts.Tracer,
	}
}

// Parse parses the whole input as `file: stmt* $`.
//
// The error, if any, is a *lexer.Error or a *SyntaxError. On error every
// node allocated by this call is rolled back out of the arena.
func (p *Parser) Parse() (root ast.Handle[*ast.File], err error) {
	mark := p.arena.Mark()
	defer func() {
		r := recover()
		if r == nil {
			p.dropMemo()
			return
		}
		switch e := r.(type) {
		case *lexer.Error:
			err = e
		case *SyntaxError:
			err = e
		default:
			panic(r)
		}
		clear(p.memo)
		n := p.arena.Rollback(mark)
		if p.debug {
			p.log.Debugf("parse of %s aborted, %d nodes discarded", p.lx.Scanner().Name(), n)
		}
		root = ast.Handle[*ast.File]{}
	}()
	return p.file(), nil
}

// Stats returns the counters of the last Parse.
func (p *Parser) Stats() Stats { return p.stats }

// Tokens returns every token the parser pulled.
func (p *Parser) Tokens() []token.Token { return p.lx.Buffered() }

// ParseScanner is New(lexer.New(sc), opts).Parse().
func ParseScanner(sc *source.Scanner, opts Options) (ast.Handle[*ast.File], error) {
	return New(lexer.New(sc), opts).Parse()
}

// ParseString parses src labelled with name.
func ParseString(name, src string, opts Options) (ast.Handle[*ast.File], error) {
	return ParseScanner(source.NewScanner(name, src), opts)
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > p.stats.MaxDepth {
		p.stats.MaxDepth = p.depth
	}
	if p.depth > p.opts.MaxDepth {
		p.raiseLimit()
	}
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) raiseLimit() {
	loc := p.lx.Current().Loc
	if p.debug {
		p.log.Debugf("recursion limit %d hit at %s", p.opts.MaxDepth, loc)
	}
	p.raise(diag.SynRecursionLimit, loc, fmt.Sprintf("Maximum recursion depth %d exceeded", p.opts.MaxDepth))
}

// attempt is one alternative in progress: the cursor to rewind to and the
// handles built so far.
type attempt struct {
	p     *Parser
	start int
	loc   source.Location
	owned []interface{ Drop() }
}

func (p *Parser) try() *attempt {
	return &attempt{p: p, start: p.lx.Tell(), loc: p.lx.Current().Loc}
}

func (a *attempt) own(h interface{ Drop() }) { a.owned = append(a.owned, h) }

func (a *attempt) pos() ast.Pos { return ast.At(a.loc) }

// fail drops what the alternative built, rewinds and returns false.
func (a *attempt) fail() bool {
	for i := len(a.owned) - 1; i >= 0; i-- {
		a.owned[i].Drop()
	}
	a.owned = nil
	a.p.lx.Seek(a.start)
	return false
}

// choice returns the first alternative that matches. Failed alternatives
// leave the cursor where they found it.
func choice[R any](alts ...func() (R, bool)) (R, bool) {
	for _, alt := range alts {
		if r, ok := alt(); ok {
			return r, true
		}
	}
	var zero R
	return zero, false
}

func newNode[T ast.Node](p *Parser, n T) ast.Handle[T] {
	return ast.Allocate(p.arena, n)
}

func (p *Parser) okExpr(n ast.Expr) (ast.Handle[ast.Expr], bool) {
	return ast.Allocate(p.arena, n), true
}

func (p *Parser) okStmt(n ast.Stmt) (ast.Handle[ast.Stmt], bool) {
	return ast.Allocate(p.arena, n), true
}

func (p *Parser) okDefn(n ast.Defn) (ast.Handle[ast.Defn], bool) {
	return ast.Allocate(p.arena, n), true
}

func (p *Parser) okFlow(n ast.Flow) (ast.Handle[ast.Flow], bool) {
	return ast.Allocate(p.arena, n), true
}

func (p *Parser) file() ast.Handle[*ast.File] {
	name := p.lx.Scanner().Name()
	stmts := p.stmts()
	if !p.lx.Current().IsEnd() {
		p.raise(diag.SynTrailingInput, p.lx.LastLocation(), "Syntax error")
	}
	return newNode(p, &ast.File{Pos: ast.At(source.StartOf(name)), Name: name, Stmts: stmts})
}
