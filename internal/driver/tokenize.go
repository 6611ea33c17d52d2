package driver

import (
	"fmt"

	"bondrewd/internal/diag"
	"bondrewd/internal/lexer"
	"bondrewd/internal/logging"
	"bondrewd/internal/parser"
	"bondrewd/internal/source"
	"bondrewd/internal/token"
	"bondrewd/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	// Tokens ends with the end marker unless tokenization failed; then it
	// holds the tokens read before the error.
	Tokens []token.Token
	Bag    *diag.Bag
	Cached bool
}

// Tokenize loads path and runs the tokenizer over it.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	done := opts.track("load")
	fileID, err := fs.Load(path)
	done("")
	if err != nil {
		return nil, err
	}
	return tokenizeFile(fs, fileID, &opts), nil
}

// TokenizeSource is Tokenize for in-memory input labelled name.
func TokenizeSource(name string, src []byte, opts Options) *TokenizeResult {
	fs := source.NewFileSet()
	return tokenizeFile(fs, fs.AddVirtual(name, src), &opts)
}

func tokenizeFile(fs *source.FileSet, fileID source.FileID, opts *Options) *TokenizeResult {
	file := fs.Get(fileID)
	res := &TokenizeResult{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.maxDiagnostics()),
	}
	log := logging.Get("driver")
	// read and write failures of a broken cache dir usually read the same
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	toks, ok, err := opts.Cache.Get(file)
	if err != nil {
		diag.ReportWarning(rep, diag.IOCacheError, source.Span{File: fileID}, err.Error()).Emit()
	}
	if ok {
		log.Debugf("%s: %d tokens from cache", file.Path, len(toks))
		res.Tokens, res.Cached = toks, true
		return res
	}

	span := trace.Begin(opts.tracer(), trace.ScopeFile, "tokenize:"+file.Path, 0)
	done := opts.track("tokenize")
	toks, err = lexer.Tokenize(source.FileScanner(file))
	done(fmt.Sprintf("%d tokens", len(toks)))
	res.Tokens = toks
	if err != nil {
		if d, ok := parser.AsDiagnostic(err, fileID); ok {
			res.Bag.Add(d)
		}
		span.WithExtra("error", err.Error()).End("failed")
		return res
	}
	span.WithExtra("tokens", fmt.Sprint(len(toks))).End("")

	if err := opts.Cache.Put(file, toks); err != nil {
		log.Warningf("token cache: %s", err)
		diag.ReportWarning(rep, diag.IOCacheError, source.Span{File: fileID}, err.Error()).Emit()
	}
	return res
}
