package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bondrewd/internal/diag"
	"bondrewd/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note, fix *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		note:   mk(color.FgCyan),
		fix:    mk(color.FgMagenta),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид, в порядке
// bag.Items() (ожидается bag.Sort() заранее). Для каждой печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строки исходника с подчёркиванием ^~~~ по Span, заметки и
// исправления, если они включены.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(fs, d.Primary, opts.PathMode),
		pal.severity(d.Severity).Sprint(d.Severity),
		pal.code.Sprint(d.Code.ID()),
		d.Message,
	)
	writeSnippet(w, fs, d.Primary, opts, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if !opts.ShowFixes {
		return
	}
	for i, f := range d.Fixes {
		fmt.Fprintf(w, "  %s\n", pal.fix.Sprintf("fix #%d: %s", i+1, f.Title))
		for _, e := range f.Edits {
			start, _ := fs.Resolve(e.Span)
			fmt.Fprintf(w, "    at %d:%d apply=%q\n", start.Line, start.Col, e.NewText)
			if !opts.ShowPreview {
				continue
			}
			pv, err := buildFixEditPreview(fs, e)
			if err != nil {
				fmt.Fprintf(w, "    preview unavailable: %v\n", err)
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, l := range pv.before {
				fmt.Fprintf(w, "      - %s\n", l)
			}
			for _, l := range pv.after {
				fmt.Fprintf(w, "      + %s\n", l)
			}
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	if f == nil {
		return fmt.Sprintf("<file %d>", sp.File)
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath(mode.name(), fs.BaseDir()), start.Line, start.Col)
}

// writeSnippet prints the primary line, Context lines above it, and a caret
// line under the span. The span is cut at the end of its first line.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, pal palette) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	size, err := contentLen(f)
	if err != nil {
		return
	}
	start, _ := fs.Resolve(sp)
	gutterWidth := len(fmt.Sprint(start.Line))

	first := start.Line
	if opts.Context > 0 && uint32(opts.Context) < first {
		first -= uint32(opts.Context)
	} else if opts.Context > 0 {
		first = 1
	}
	for ln := first; ln <= start.Line; ln++ {
		text := expandTabs(f.GetLine(ln))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), text)
	}

	line := f.GetLine(start.Line)
	lineStart := lineStartOffset(f, start.Line, size)
	from := min(int(sp.Start-lineStart), len(line))
	to := min(max(int(sp.End)-int(lineStart), from), len(line))

	pad := runewidth.StringWidth(expandTabs(line[:from]))
	width := max(runewidth.StringWidth(expandTabs(line[from:to])), 1)
	if opts.Width > 0 && pad >= int(opts.Width) {
		return
	}
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n",
		pal.gutter.Sprintf("%*s |", gutterWidth, ""),
		strings.Repeat(" ", pad),
		pal.caret.Sprint(underline),
	)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", source.TabWidth))
}
