package lsp

import (
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bondrewd/internal/ast"
	"bondrewd/internal/diag"
	"bondrewd/internal/driver"
	"bondrewd/internal/source"
	"bondrewd/internal/token"
)

const diagnosticSource = "bondrewd"

// analysis is what the server derives from one version of a document.
type analysis struct {
	diagnostics []protocol.Diagnostic
	symbols     []protocol.DocumentSymbol
	folds       []protocol.FoldingRange
	fixes       []fixAction
}

// fixAction is a quick fix offered for one published diagnostic.
type fixAction struct {
	title string
	diag  protocol.Diagnostic
	edits []protocol.TextEdit
}

func analyze(uri protocol.DocumentUri, text string, opts driver.Options) *analysis {
	res := driver.ParseSource(documentName(uri), []byte(text), opts)
	defer res.Close()

	a := &analysis{
		diagnostics: []protocol.Diagnostic{},
		symbols:     []protocol.DocumentSymbol{},
	}
	file := res.File
	res.Bag.Sort()
	for _, d := range res.Bag.Items() {
		pd := toProtocolDiagnostic(uri, file, d)
		a.diagnostics = append(a.diagnostics, pd)
		for _, fix := range d.Fixes {
			act := fixAction{title: fix.Title, diag: pd}
			for _, edit := range fix.Edits {
				act.edits = append(act.edits, protocol.TextEdit{Range: rangeForSpan(file, edit.Span), NewText: edit.NewText})
			}
			a.fixes = append(a.fixes, act)
		}
	}
	a.folds = foldingRanges(file, res.Tokens)
	if !res.Root.IsNil() {
		a.symbols = documentSymbols(file, res.Root.Get(), res.Tokens)
	}
	return a
}

func protocolSeverity(sev diag.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case diag.SevError:
		return protocol.DiagnosticSeverityError
	case diag.SevWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func toProtocolDiagnostic(uri protocol.DocumentUri, file *source.File, d diag.Diagnostic) protocol.Diagnostic {
	severity := protocolSeverity(d.Severity)
	src := diagnosticSource
	out := protocol.Diagnostic{
		Range:    rangeForSpan(file, d.Primary),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Code.ID()},
		Source:   &src,
		Message:  d.Message,
	}
	for _, note := range d.Notes {
		out.RelatedInformation = append(out.RelatedInformation, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{URI: uri, Range: rangeForSpan(file, note.Span)},
			Message:  note.Msg,
		})
	}
	return out
}

// foldingRanges folds every brace pair that spans more than one line.
// Unbalanced braces are ignored.
func foldingRanges(file *source.File, tokens []token.Token) []protocol.FoldingRange {
	ranges := []protocol.FoldingRange{}
	var open []uint32
	for _, tok := range tokens {
		switch {
		case tok.IsPunct(token.LBrace):
			open = append(open, positionForOffset(file, tok.Loc.Offset).Line)
		case tok.IsPunct(token.RBrace):
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			end := positionForOffset(file, tok.Loc.Offset).Line
			if end > start {
				ranges = append(ranges, protocol.FoldingRange{StartLine: start, EndLine: end})
			}
		}
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].StartLine == ranges[j].StartLine {
			return ranges[i].EndLine < ranges[j].EndLine
		}
		return ranges[i].StartLine < ranges[j].StartLine
	})
	return ranges
}

// documentSymbols lists the top-level definitions of root. A statement's
// range runs up to the start of the next one, minus trailing blanks.
func documentSymbols(file *source.File, root *ast.File, tokens []token.Token) []protocol.DocumentSymbol {
	return stmtSymbols(file, root.Stmts.Nodes(), safeUint32(len(file.Content)), tokens)
}

func stmtSymbols(file *source.File, stmts []ast.Stmt, limit uint32, tokens []token.Token) []protocol.DocumentSymbol {
	out := []protocol.DocumentSymbol{}
	for i, stmt := range stmts {
		end := limit
		if i+1 < len(stmts) {
			end = stmts[i+1].Location().Offset
		}
		sb := symbolBounds{file: file, tokens: tokens, start: stmt.Location().Offset, end: trimEnd(file.Content, stmt.Location().Offset, end)}
		if sym, ok := sb.forStmt(stmt); ok {
			out = append(out, sym)
		}
	}
	return out
}

type symbolBounds struct {
	file       *source.File
	tokens     []token.Token
	start, end uint32
}

func (sb symbolBounds) forStmt(stmt ast.Stmt) (protocol.DocumentSymbol, bool) {
	switch n := stmt.(type) {
	case *ast.CartridgeHeaderStmt:
		return sb.symbol(n.Name, protocol.SymbolKindModule, "cartridge"), n.Name != ""
	case *ast.AssignStmt:
		if ref, ok := n.Target.Get().(*ast.VarRefExpr); ok {
			return sb.symbol(ref.Name, protocol.SymbolKindVariable, ""), true
		}
	case *ast.ExprStmt:
		if de, ok := n.Value.Get().(*ast.DefnExpr); ok {
			return sb.forDefn(de.Defn.Get())
		}
	}
	return protocol.DocumentSymbol{}, false
}

func (sb symbolBounds) forDefn(defn ast.Defn) (protocol.DocumentSymbol, bool) {
	switch d := defn.(type) {
	case *ast.FuncDef:
		return sb.symbol(d.Name, protocol.SymbolKindFunction, xtimeDetail(d.Time, "func")), d.Name != ""
	case *ast.StructDef:
		if d.IsClass {
			return sb.symbol(d.Name, protocol.SymbolKindClass, xtimeDetail(d.Time, "class")), true
		}
		return sb.symbol(d.Name, protocol.SymbolKindStruct, xtimeDetail(d.Time, "struct")), true
	case *ast.VarDef:
		return sb.symbol(d.Name, protocol.SymbolKindVariable, xtimeDetail(d.Time, "var")), true
	case *ast.NamespaceDef:
		return sb.symbol(strings.Join(d.Path, "::"), protocol.SymbolKindNamespace, "namespace"), len(d.Path) > 0
	case *ast.ImplDef:
		name := "impl " + exprName(d.Target.Get())
		if !d.Trait.IsNil() {
			name = "impl " + exprName(d.Trait.Get()) + " for " + exprName(d.Target.Get())
		}
		sym := sb.symbol(name, protocol.SymbolKindObject, "")
		sym.SelectionRange = rangeForSpan(sb.file, source.Span{Start: sb.start, End: sb.start})
		sym.Children = stmtSymbols(sb.file, d.Body.Nodes(), sb.lastPunct(token.RBrace), sb.tokens)
		return sym, true
	}
	return protocol.DocumentSymbol{}, false
}

func (sb symbolBounds) symbol(name string, kind protocol.SymbolKind, detail string) protocol.DocumentSymbol {
	sym := protocol.DocumentSymbol{
		Name:           name,
		Kind:           kind,
		Range:          rangeForSpan(sb.file, source.Span{Start: sb.start, End: sb.end}),
		SelectionRange: rangeForSpan(sb.file, sb.nameSpan(name)),
	}
	if detail != "" {
		sym.Detail = &detail
	}
	return sym
}

// nameSpan finds the first NAME token spelling name inside the statement.
func (sb symbolBounds) nameSpan(name string) source.Span {
	i := sort.Search(len(sb.tokens), func(i int) bool { return sb.tokens[i].Loc.Offset >= sb.start })
	for ; i < len(sb.tokens) && sb.tokens[i].Loc.Offset < sb.end; i++ {
		if tok := sb.tokens[i]; tok.Kind == token.Name && tok.Text == name {
			return source.Span{Start: tok.Loc.Offset, End: tok.Loc.Offset + safeUint32(len(tok.Text))}
		}
	}
	return source.Span{Start: sb.start, End: sb.start}
}

func (sb symbolBounds) lastPunct(p token.PunctID) uint32 {
	for i := len(sb.tokens) - 1; i >= 0; i-- {
		off := sb.tokens[i].Loc.Offset
		if off >= sb.start && off < sb.end && sb.tokens[i].IsPunct(p) {
			return off
		}
	}
	return sb.end
}

func xtimeDetail(xt ast.XTime, word string) string {
	if xt == ast.XTimeDefault {
		return word
	}
	return xt.String() + " " + word
}

func exprName(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.VarRefExpr:
		return n.Name
	case *ast.AttrExpr:
		sep := "."
		if n.Colon {
			sep = "::"
		}
		return exprName(n.Value.Get()) + sep + n.Name
	case nil:
		return "?"
	}
	return e.Kind().String()
}

func trimEnd(content []byte, start, end uint32) uint32 {
	end = min(end, safeUint32(len(content)))
	for end > start {
		switch content[end-1] {
		case ' ', '\t', '\r', '\n':
			end--
		default:
			return end
		}
	}
	return end
}
