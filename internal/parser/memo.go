package parser

import (
	"fmt"

	"bondrewd/internal/trace"
)

// rule names the memoized rules.
type rule uint8

const (
	ruleStmt rule = iota
	ruleDefn
	ruleFlow
	ruleExpr
	ruleExpr0
	ruleExpr4
	ruleExpr5
	ruleSum
	ruleProduct
	ruleShift
	ruleBitand
	ruleBitor
	ruleBitxor
	ruleBlockExpr
	ruleCallArgs
	ruleStrings
)

var ruleNames = [...]string{
	ruleStmt:      "stmt",
	ruleDefn:      "defn",
	ruleFlow:      "flow",
	ruleExpr:      "expr",
	ruleExpr0:     "expr_0",
	ruleExpr4:     "expr_4",
	ruleExpr5:     "expr_5",
	ruleSum:       "sum",
	ruleProduct:   "product",
	ruleShift:     "shift",
	ruleBitand:    "bitand",
	ruleBitor:     "bitor",
	ruleBitxor:    "bitxor",
	ruleBlockExpr: "block_expr",
	ruleCallArgs:  "call_args",
	ruleStrings:   "strings",
}

func (r rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("rule(%d)", r)
}

type memoKey struct {
	rule rule
	pos  int
}

// memoEntry is a cached rule outcome. held owns one reference to the
// result (a *ast.Handle or *ast.Seq); it is nil for failures.
type memoEntry struct {
	held interface{ Drop() }
	end  int
	ok   bool
}

// owner is a rule result that can hand out extra references.
type owner[R any] interface {
	Copy() R
}

// holder is *R for a result type R.
type holder[R any] interface {
	*R
	Drop()
}

func (p *Parser) lookup(key memoKey) (memoEntry, bool) {
	e, hit := p.memo[key]
	if !hit {
		p.stats.MemoMisses++
		return e, false
	}
	p.stats.MemoHits++
	p.lx.Seek(e.end)
	return e, true
}

func (p *Parser) store(key memoKey, e memoEntry) {
	if old, ok := p.memo[key]; ok && old.held != nil {
		old.held.Drop()
	}
	p.memo[key] = e
}

func entryFor[R owner[R], PR holder[R]](r R, ok bool, end int) memoEntry {
	if !ok {
		return memoEntry{end: end}
	}
	c := r.Copy()
	return memoEntry{held: PR(&c), end: end, ok: true}
}

func hit[R owner[R], PR holder[R]](e memoEntry) (R, bool) {
	if !e.ok {
		var zero R
		return zero, false
	}
	return (*e.held.(PR)).Copy(), true
}

// memoized runs body at most once per position. The cache keeps its own
// reference to every successful result; callers always get a fresh one.
func memoized[R owner[R], PR holder[R]](p *Parser, r rule, body func() (R, bool)) (R, bool) {
	p.enter()
	defer p.leave()

	if p.opts.NoMemo {
		return body()
	}
	key := memoKey{rule: r, pos: p.lx.Tell()}
	if e, ok := p.lookup(key); ok {
		if p.debug {
			p.log.Debugf("memo hit %s@%d ok=%t", r, key.pos, e.ok)
		}
		return hit[R, PR](e)
	}
	res, ok := body()
	p.store(key, entryFor[R, PR](res, ok, p.lx.Tell()))
	return res, ok
}

// leftRec grows a seed for a directly left-recursive rule: a failing
// placeholder goes into the cache first, then body is re-run while every
// iteration ends strictly further than the previous one.
func leftRec[R owner[R], PR holder[R]](p *Parser, r rule, body func() (R, bool)) (R, bool) {
	p.enter()
	defer p.leave()

	start := p.lx.Tell()
	key := memoKey{rule: r, pos: start}
	if e, ok := p.lookup(key); ok {
		return hit[R, PR](e)
	}

	var span *trace.Span
	if p.tr.Enabled() {
		span = trace.Begin(p.tr, trace.ScopeRule, "grow:"+r.String(), 0)
	}

	p.store(key, memoEntry{end: start})

	var seed R
	seedOK := false
	lastEnd := start
	iterations := 0
	for {
		p.lx.Seek(start)
		res, ok := body()
		end := p.lx.Tell()
		if !ok {
			break
		}
		if end <= lastEnd {
			PR(&res).Drop()
			break
		}
		if seedOK {
			PR(&seed).Drop()
		}
		seed, seedOK, lastEnd = res, true, end
		p.store(key, entryFor[R, PR](seed, true, end))
		iterations++
		p.stats.SeedGrowths++
	}
	p.lx.Seek(lastEnd)

	if p.debug {
		p.log.Debugf("left recursion %s@%d: %d growth steps, end %d", r, start, iterations, lastEnd)
	}
	if span != nil {
		span.End(fmt.Sprintf("%d steps", iterations))
	}

	if p.opts.NoMemo {
		// вне роста кэш не нужен
		if e := p.memo[key]; e.held != nil {
			e.held.Drop()
		}
		delete(p.memo, key)
	}
	return seed, seedOK
}

// dropMemo releases every reference the cache holds.
func (p *Parser) dropMemo() {
	for _, e := range p.memo {
		if e.held != nil {
			e.held.Drop()
		}
	}
	clear(p.memo)
}
