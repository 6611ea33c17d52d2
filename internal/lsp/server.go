// Package lsp is a Language Server Protocol front end for the parser.
//
// Every open document is re-parsed on change. The server publishes lexical
// and syntax diagnostics and answers document symbol, folding range and
// quick fix requests from the last parse.
package lsp

import (
	"sync"

	"fortio.org/safecast"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"bondrewd/internal/driver"
	"bondrewd/internal/logging"
	"bondrewd/internal/version"
)

const serverName = "bondrewd"

type Server struct {
	opts    driver.Options
	handler protocol.Handler
	log     commonlog.Logger

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*document
}

type document struct {
	text    string
	version protocol.Integer
	result  *analysis
}

// NewServer returns a server that parses documents with opts.
func NewServer(opts driver.Options) *Server {
	s := &Server{
		opts: opts,
		log:  logging.Get("lsp"),
		docs: make(map[protocol.DocumentUri]*document),
	}
	s.handler = protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.didOpen,
		TextDocumentDidChange:      s.didChange,
		TextDocumentDidClose:       s.didClose,
		TextDocumentDidSave:        s.didSave,
		TextDocumentDocumentSymbol: s.documentSymbol,
		TextDocumentFoldingRange:   s.foldingRange,
		TextDocumentCodeAction:     s.codeAction,
	}
	return s
}

// RunStdio serves one client on stdin/stdout until it exits.
func (s *Server) RunStdio() error {
	return server.NewServer(&s.handler, serverName, false).RunStdio()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.ClientInfo != nil {
		s.log.Infof("client %s connected", params.ClientInfo.Name)
	}
	capabilities := s.handler.CreateServerCapabilities()
	openClose := true
	change := protocol.TextDocumentSyncKindIncremental
	includeText := true
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
		Save:      &protocol.SaveOptions{IncludeText: &includeText},
	}
	ver := version.Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &ver,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	s.mu.Lock()
	s.docs = make(map[protocol.DocumentUri]*document)
	s.mu.Unlock()
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	s.update(ctx, doc.URI, doc.Text, doc.Version)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	var text string
	if doc, ok := s.docs[uri]; ok {
		text = doc.text
	}
	s.mu.Unlock()
	s.update(ctx, uri, applyChanges(text, params.ContentChanges), params.TextDocument.Version)
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
	// закрытый документ не должен висеть в списке проблем
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	var ver protocol.Integer
	if doc, ok := s.docs[uri]; ok {
		ver = doc.version
	}
	s.mu.Unlock()
	s.update(ctx, uri, *params.Text, ver)
	return nil
}

// update re-parses uri and publishes its diagnostics.
func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string, ver protocol.Integer) {
	result := analyze(uri, text, s.opts)

	s.mu.Lock()
	if doc, ok := s.docs[uri]; ok && doc.version > ver {
		// пришёл устаревший результат
		s.mu.Unlock()
		return
	}
	s.docs[uri] = &document{text: text, version: ver, result: result}
	s.mu.Unlock()

	if logging.Debugging() {
		s.log.Debugf("%s v%d: %d diagnostics", uri, ver, len(result.diagnostics))
	}
	params := protocol.PublishDiagnosticsParams{URI: uri, Diagnostics: result.diagnostics}
	if v, err := safecast.Conv[protocol.UInteger](ver); err == nil {
		params.Version = &v
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

func (s *Server) result(uri protocol.DocumentUri) *analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[uri]; ok {
		return doc.result
	}
	return nil
}

func (s *Server) documentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	if a := s.result(params.TextDocument.URI); a != nil {
		return a.symbols, nil
	}
	return []protocol.DocumentSymbol{}, nil
}

func (s *Server) foldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	if a := s.result(params.TextDocument.URI); a != nil {
		return a.folds, nil
	}
	return []protocol.FoldingRange{}, nil
}

func (s *Server) codeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI
	actions := []protocol.CodeAction{}
	a := s.result(uri)
	if a == nil {
		return actions, nil
	}
	kind := protocol.CodeActionKind(protocol.CodeActionKindQuickFix)
	preferred := true
	for _, fix := range a.fixes {
		if !rangesOverlap(fix.diag.Range, params.Range) {
			continue
		}
		actions = append(actions, protocol.CodeAction{
			Title:       fix.title,
			Kind:        &kind,
			Diagnostics: []protocol.Diagnostic{fix.diag},
			IsPreferred: &preferred,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: fix.edits},
			},
		})
	}
	return actions, nil
}

func positionLess(a, b protocol.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}

// rangesOverlap treats both ranges as closed so that a cursor sitting on
// the edge of an empty diagnostic range still matches.
func rangesOverlap(a, b protocol.Range) bool {
	return !positionLess(a.End, b.Start) && !positionLess(b.End, a.Start)
}
