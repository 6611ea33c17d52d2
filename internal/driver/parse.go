package driver

import (
	"strconv"
	"sync"

	"bondrewd/internal/ast"
	"bondrewd/internal/diag"
	"bondrewd/internal/lexer"
	"bondrewd/internal/logging"
	"bondrewd/internal/parser"
	"bondrewd/internal/source"
	"bondrewd/internal/token"
	"bondrewd/internal/trace"
)

// ParseResult owns one parsed file. Call Close when done with the tree.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	FileID  source.FileID
	// Root is nil when the parse failed; Bag then holds the reason.
	Root   ast.Handle[*ast.File]
	Arena  *ast.Arena
	Tokens []token.Token
	Stats  parser.Stats
	Bag    *diag.Bag
}

// Close drops the tree and closes the arena. It returns the number of
// records that were still alive, which is zero unless something kept a
// reference into the tree.
func (r *ParseResult) Close() int {
	if r == nil || r.Arena == nil {
		return 0
	}
	r.Root.Drop()
	return r.Arena.Close()
}

func Parse(path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	done := opts.track("load")
	fileID, err := fs.Load(path)
	done("")
	if err != nil {
		return nil, err
	}
	return parseFile(fs, fileID, &opts, 0), nil
}

// ParseSource parses in-memory input labelled name (REPL lines, editor
// buffers).
func ParseSource(name string, src []byte, opts Options) *ParseResult {
	fs := source.NewFileSet()
	return parseFile(fs, fs.AddVirtual(name, src), &opts, 0)
}

// parseFile parses one file into a fresh arena. parent is the enclosing
// trace span.
func parseFile(fs *source.FileSet, fileID source.FileID, opts *Options, parent uint64) *ParseResult {
	file := fs.Get(fileID)
	res := &ParseResult{
		FileSet: fs,
		File:    file,
		FileID:  fileID,
		Arena:   ast.NewArena(file.Path, 256),
		Bag:     diag.NewBag(opts.maxDiagnostics()),
	}
	tr := opts.tracer()
	span := trace.Begin(tr, trace.ScopeFile, "file:"+file.Path, parent)

	lx := lexer.New(source.FileScanner(file))
	p := parser.New(lx, parser.Options{
		MaxDepth: opts.MaxDepth,
		NoMemo:   opts.NoMemo,
		Arena:    res.Arena,
		Tracer:   tr,
	})

	done := opts.track("parse")
	root, err := p.Parse()
	res.Root = root
	res.Tokens = p.Tokens()
	res.Stats = p.Stats()
	done(file.Path)

	span.WithExtra("tokens", strconv.Itoa(len(res.Tokens)))
	if err != nil {
		if d, ok := parser.AsDiagnostic(err, fileID); ok {
			res.Bag.Add(d)
		}
		span.WithExtra("error", err.Error()).End("failed")
		dumpRing(opts, file.Path)
		return res
	}
	span.WithExtra("nodes", strconv.Itoa(res.Arena.Len())).End("")

	log := logging.Get("driver")
	if logging.Verbosity() >= 1 {
		log.Infof("parsed %s: %d tokens, %d nodes, %d memo hits", file.Path, len(res.Tokens), res.Arena.Len(), res.Stats.MemoHits)
	}
	return res
}

var dumpMu sync.Mutex

// dumpRing writes the recent trace history after a failed file.
func dumpRing(opts *Options, path string) {
	if opts.CrashDump == nil {
		return
	}
	ring, ok := trace.Ring(opts.tracer())
	if !ok {
		return
	}
	dumpMu.Lock()
	defer dumpMu.Unlock()
	if err := ring.Dump(opts.CrashDump, trace.FormatText); err != nil {
		logging.Get("driver").Errorf("trace dump for %s: %s", path, err)
	}
}
