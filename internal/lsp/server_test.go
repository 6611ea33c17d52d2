package lsp

import (
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bondrewd/internal/driver"
)

const docURI = "file:///work/main.bd"

const symbolSource = "cartridge foo;\n" +
	"func main(): int32 => { 0 };\n" +
	"ctime var x = 1;\n" +
	"impl Point {\n" +
	"    var n = 1;\n" +
	"};\n"

type recorder struct {
	published []protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		if method == protocol.ServerTextDocumentPublishDiagnostics {
			r.published = append(r.published, params.(protocol.PublishDiagnosticsParams))
		}
	}}
}

func (r *recorder) last(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	if len(r.published) == 0 {
		t.Fatal("nothing published")
	}
	return r.published[len(r.published)-1]
}

func rng(l1, c1, l2, c2 uint32) protocol.Range {
	return protocol.Range{Start: pos(l1, c1), End: pos(l2, c2)}
}

func TestAnalyzeSyntaxError(t *testing.T) {
	a := analyze(docURI, "cartridge foo", driver.Options{})
	if len(a.diagnostics) != 1 || len(a.symbols) != 0 {
		t.Fatalf("diagnostics %+v symbols %+v", a.diagnostics, a.symbols)
	}
	d := a.diagnostics[0]
	if d.Code == nil || d.Code.Value != "SYN2002" || *d.Severity != protocol.DiagnosticSeverityError || *d.Source != "bondrewd" {
		t.Fatalf("diagnostic %+v", d)
	}
	if d.Range.Start.Line != 0 || d.Range.Start.Character == 0 {
		t.Fatalf("range %+v", d.Range)
	}
	if len(a.fixes) != 1 || len(a.fixes[0].edits) != 1 {
		t.Fatalf("fixes %+v", a.fixes)
	}
	edit := a.fixes[0].edits[0]
	if edit.NewText != ";" || edit.Range.Start != d.Range.Start || edit.Range.End != edit.Range.Start {
		t.Fatalf("edit %+v", edit)
	}
}

func TestAnalyzeLexicalError(t *testing.T) {
	a := analyze(docURI, "x = 'abc", driver.Options{})
	if len(a.diagnostics) != 1 || a.diagnostics[0].Code.Value != "LEX1002" {
		t.Fatalf("diagnostics %+v", a.diagnostics)
	}
}

func TestDocumentSymbols(t *testing.T) {
	a := analyze(docURI, symbolSource, driver.Options{})
	if len(a.diagnostics) != 0 {
		t.Fatalf("diagnostics %+v", a.diagnostics)
	}
	type want struct {
		name   string
		kind   protocol.SymbolKind
		detail string
		rng    protocol.Range
		sel    protocol.Range
	}
	wants := []want{
		{"foo", protocol.SymbolKindModule, "cartridge", rng(0, 0, 0, 14), rng(0, 10, 0, 13)},
		{"main", protocol.SymbolKindFunction, "func", rng(1, 0, 1, 28), rng(1, 5, 1, 9)},
		{"x", protocol.SymbolKindVariable, "ctime var", rng(2, 0, 2, 16), rng(2, 10, 2, 11)},
		{"impl Point", protocol.SymbolKindObject, "", rng(3, 0, 5, 2), rng(3, 0, 3, 0)},
	}
	if len(a.symbols) != len(wants) {
		t.Fatalf("got %d symbols: %+v", len(a.symbols), a.symbols)
	}
	for i, w := range wants {
		got := a.symbols[i]
		detail := ""
		if got.Detail != nil {
			detail = *got.Detail
		}
		if got.Name != w.name || got.Kind != w.kind || detail != w.detail || got.Range != w.rng || got.SelectionRange != w.sel {
			t.Errorf("symbol %d = %+v (detail %q)", i, got, detail)
		}
	}

	children := a.symbols[3].Children
	if len(children) != 1 {
		t.Fatalf("impl children %+v", children)
	}
	if n := children[0]; n.Name != "n" || n.Range != rng(4, 4, 4, 14) || n.SelectionRange != rng(4, 8, 4, 9) {
		t.Fatalf("child %+v", n)
	}

	if len(a.folds) != 1 || a.folds[0].StartLine != 3 || a.folds[0].EndLine != 5 {
		t.Fatalf("folds %+v", a.folds)
	}
}

func TestServerDocumentLifecycle(t *testing.T) {
	s := NewServer(driver.Options{})
	rec := &recorder{}
	ctx := rec.context()

	err := s.didOpen(ctx, &protocol.DidOpenTextDocumentParams{TextDocument: protocol.TextDocumentItem{
		URI: docURI, LanguageID: "bondrewd", Version: 1, Text: "cartridge foo",
	}})
	if err != nil {
		t.Fatal(err)
	}
	pub := rec.last(t)
	if pub.URI != docURI || len(pub.Diagnostics) != 1 || pub.Version == nil || *pub.Version != 1 {
		t.Fatalf("published %+v", pub)
	}

	actions, err := s.codeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		Range:        rng(0, 0, 0, 20),
	})
	if err != nil {
		t.Fatal(err)
	}
	list := actions.([]protocol.CodeAction)
	if len(list) != 1 || list[0].Title != "insert `;`" || len(list[0].Edit.Changes[docURI]) != 1 {
		t.Fatalf("actions %+v", list)
	}
	outside, _ := s.codeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		Range:        rng(3, 0, 3, 1),
	})
	if len(outside.([]protocol.CodeAction)) != 0 {
		t.Fatal("action offered away from the diagnostic")
	}

	// apply the quick fix as an editor would
	edit := list[0].Edit.Changes[docURI][0]
	err = s.didChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: docURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{Range: &edit.Range, Text: edit.NewText}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if pub := rec.last(t); len(pub.Diagnostics) != 0 || *pub.Version != 2 {
		t.Fatalf("after fix %+v", pub)
	}
	syms, _ := s.documentSymbol(ctx, &protocol.DocumentSymbolParams{TextDocument: protocol.TextDocumentIdentifier{URI: docURI}})
	if list := syms.([]protocol.DocumentSymbol); len(list) != 1 || list[0].Name != "foo" {
		t.Fatalf("symbols %+v", list)
	}

	// результат старой версии не должен перетирать новый
	count := len(rec.published)
	s.update(ctx, docURI, "((", 1)
	if len(rec.published) != count {
		t.Fatal("stale version was published")
	}

	if err := s.didClose(ctx, &protocol.DidCloseTextDocumentParams{TextDocument: protocol.TextDocumentIdentifier{URI: docURI}}); err != nil {
		t.Fatal(err)
	}
	if pub := rec.last(t); len(pub.Diagnostics) != 0 || pub.Diagnostics == nil {
		t.Fatalf("close should clear diagnostics, got %+v", pub)
	}
	if s.result(docURI) != nil {
		t.Fatal("closed document still tracked")
	}
	folds, _ := s.foldingRange(ctx, &protocol.FoldingRangeParams{TextDocument: protocol.TextDocumentIdentifier{URI: docURI}})
	if len(folds) != 0 {
		t.Fatalf("folds for a closed document: %+v", folds)
	}
}

func TestDidSaveUsesIncludedText(t *testing.T) {
	s := NewServer(driver.Options{})
	rec := &recorder{}
	ctx := rec.context()
	text := "cartridge ;"
	err := s.didSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		Text:         &text,
	})
	if err != nil {
		t.Fatal(err)
	}
	if pub := rec.last(t); len(pub.Diagnostics) != 1 {
		t.Fatalf("published %+v", pub)
	}
	if err := s.didSave(ctx, &protocol.DidSaveTextDocumentParams{TextDocument: protocol.TextDocumentIdentifier{URI: docURI}}); err != nil || len(rec.published) != 1 {
		t.Fatal("save without text should be a no-op")
	}
}

func TestInitializeAdvertisesSync(t *testing.T) {
	s := NewServer(driver.Options{})
	res, err := s.initialize(&glsp.Context{}, &protocol.InitializeParams{})
	if err != nil {
		t.Fatal(err)
	}
	result := res.(protocol.InitializeResult)
	syncOpts, ok := result.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	if !ok || *syncOpts.Change != protocol.TextDocumentSyncKindIncremental {
		t.Fatalf("sync %+v", result.Capabilities.TextDocumentSync)
	}
	if result.ServerInfo == nil || result.ServerInfo.Name != "bondrewd" {
		t.Fatalf("server info %+v", result.ServerInfo)
	}
	if result.Capabilities.DocumentSymbolProvider == nil || result.Capabilities.FoldingRangeProvider == nil {
		t.Fatal("providers not advertised")
	}
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		a, b protocol.Range
		want bool
	}{
		{rng(0, 0, 0, 5), rng(0, 3, 0, 9), true},
		{rng(0, 5, 0, 5), rng(0, 5, 0, 5), true},
		{rng(0, 0, 0, 2), rng(0, 3, 0, 4), false},
		{rng(1, 0, 2, 0), rng(0, 0, 0, 9), false},
	}
	for _, tt := range tests {
		if got := rangesOverlap(tt.a, tt.b); got != tt.want {
			t.Errorf("rangesOverlap(%+v, %+v) = %t", tt.a, tt.b, got)
		}
	}
}
