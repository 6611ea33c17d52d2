package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bondrewd/internal/driver"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--color", "off"))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTokenizeCommand(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.bd", "x = 1;\n")

	out, _, err := run(t, "tokenize", path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 || !strings.Contains(lines[0], "NAME") || !strings.Contains(lines[4], "ENDMARKER") {
		t.Fatalf("pretty output:\n%s", out)
	}

	out, _, err = run(t, "tokenize", "--format", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid([]byte(out)) {
		t.Fatalf("json output:\n%s", out)
	}

	if _, _, err := run(t, "tokenize", "--format", "xml", path); err == nil || errors.Is(err, errDiagnostics) {
		t.Fatalf("unknown format: %v", err)
	}
}

func TestTokenizeReportsLexicalErrors(t *testing.T) {
	path := writeSource(t, t.TempDir(), "bad.bd", "x = 'abc")

	_, stderr, err := run(t, "tokenize", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "LEX1002") {
		t.Fatalf("stderr:\n%s", stderr)
	}

	_, stderr, _ = run(t, "tokenize", "--diag-format", "json", path)
	if !json.Valid([]byte(stderr)) || !strings.Contains(stderr, "LEX1002") {
		t.Fatalf("json diagnostics:\n%s", stderr)
	}
}

func TestParseFileFormats(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.bd", "1 + 2;\n")
	tests := []struct {
		format string
		want   string
	}{
		{"sexpr", "(ExprStmt (BinaryExpr 1 op=+ 2))"},
		{"tree", "ExprStmt {"},
		{"json", `"type": "BinaryExpr"`},
		{"diagram", "BinaryExpr"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, stderr, err := run(t, "parse", "--format", tt.format, path)
			if err != nil {
				t.Fatalf("%v\n%s", err, stderr)
			}
			if !strings.Contains(out, tt.want) {
				t.Fatalf("output lacks %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestParseUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeSource(t, dir, "bondrewd.toml", "[parser]\nmax_depth = 10\n")
	path := writeSource(t, dir, "deep.bd", strings.Repeat("(", 30)+"1"+strings.Repeat(")", 30)+";\n")

	_, stderr, err := run(t, "parse", "--config", cfg, path)
	if !errors.Is(err, errDiagnostics) || !strings.Contains(stderr, "SYN2004") {
		t.Fatalf("err %v, stderr:\n%s", err, stderr)
	}
	// флаг перекрывает значение из файла
	if _, stderr, err := run(t, "parse", "--config", cfg, "--max-depth", "5000", path); err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.bd", "cartridge a;\n")
	writeSource(t, dir, "b.bd", "cartridge ;\n")

	out, stderr, err := run(t, "parse", "--format", "sexpr", dir)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out, "== a.bd ==") || strings.Contains(out, "b.bd") {
		t.Fatalf("stdout:\n%s", out)
	}
	if !strings.Contains(stderr, "b.bd") {
		t.Fatalf("stderr:\n%s", stderr)
	}

	out, _, _ = run(t, "parse", "--format", "json", dir)
	var trees map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &trees); err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if len(trees) != 2 || string(trees["b.bd"]) != "null" || string(trees["a.bd"]) == "null" {
		t.Fatalf("trees %v", trees)
	}
}

func TestTimingsFlag(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.bd", "x;\n")
	_, stderr, err := run(t, "parse", "--quiet", "--timings", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "timings:") || !strings.Contains(stderr, "parse") {
		t.Fatalf("stderr:\n%s", stderr)
	}
}

func TestFixCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "a.bd", "cartridge foo")

	out, stderr, err := run(t, "fix", "--dry-run", path)
	if err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}
	if out != "cartridge foo;" || !strings.Contains(stderr, "applied: insert `;` (SYN2002)") {
		t.Fatalf("stdout %q stderr:\n%s", out, stderr)
	}
	if got, _ := os.ReadFile(path); string(got) != "cartridge foo" {
		t.Fatalf("dry run wrote %q", got)
	}

	if _, stderr, err := run(t, "fix", path); err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}
	if got, _ := os.ReadFile(path); string(got) != "cartridge foo;" {
		t.Fatalf("file %q", got)
	}

	bad := writeSource(t, dir, "b.bd", "x = 'abc")
	_, stderr, err = run(t, "fix", bad)
	if !errors.Is(err, errDiagnostics) || !strings.Contains(stderr, "no applicable fixes found") {
		t.Fatalf("err %v stderr:\n%s", err, stderr)
	}
}

func TestShortDiagnostics(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.bd", "cartridge foo")
	_, stderr, err := run(t, "parse", "--diag-format", "short", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(stderr, "error SYN2002 ") || strings.Count(stderr, "\n") != 1 {
		t.Fatalf("stderr %q", stderr)
	}
}

func TestProfileFlags(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "a.bd", "x;\n")
	cpu := filepath.Join(dir, "cpu.out")
	mem := filepath.Join(dir, "mem.out")
	if _, stderr, err := run(t, "parse", "--quiet", "--cpu-profile", cpu, "--mem-profile", mem, path); err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}
	for _, p := range []string{cpu, mem} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Fatalf("%s: %v", p, err)
		}
	}
}

func TestGrammarCommand(t *testing.T) {
	out, _, err := run(t, "grammar")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "File = { Stmt } .") {
		t.Fatalf("grammar:\n%s", out)
	}
	out, _, err = run(t, "grammar", "--productions")
	if err != nil {
		t.Fatal(err)
	}
	names := strings.Fields(out)
	if len(names) == 0 || names[len(names)-1][0] < 'a' {
		t.Fatalf("productions %v", names)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil || payload.Tool != "bondrewd" || payload.Version == "" {
		t.Fatalf("payload %+v (%v)", payload, err)
	}
	out, _, _ = run(t, "version")
	if !strings.HasPrefix(out, "bondrewd ") {
		t.Fatalf("pretty version %q", out)
	}
}

func TestInvalidGlobalFlags(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.bd", "x;\n")
	for _, args := range [][]string{
		{"parse", path, "--diag-format", "yaml"},
		{"parse", path, "--path-mode", "sideways"},
		{"parse", path, "--trace-level", "loud"},
	} {
		if _, _, err := run(t, args...); err == nil || errors.Is(err, errDiagnostics) {
			t.Errorf("%v: err = %v", args, err)
		}
	}
}

func TestProbe(t *testing.T) {
	tests := []struct {
		src      string
		more     bool
		complete bool
	}{
		{"x;", false, true},
		{"cartridge foo", true, false},
		{"func f() => {", true, false},
		{"/* open", true, false},
		{"cartridge ;", false, false},
		{"x = 'abc", false, false},
		{"f(1));", false, false},
	}
	for _, tt := range tests {
		res, more := probe(tt.src, driver.Options{})
		if more != tt.more {
			t.Errorf("probe(%q) more = %t", tt.src, more)
		}
		if more {
			if res != nil {
				t.Errorf("probe(%q) returned a result while asking for more", tt.src)
			}
			continue
		}
		if complete := !res.Root.IsNil(); complete != tt.complete {
			t.Errorf("probe(%q) complete = %t", tt.src, complete)
		}
		res.Close()
	}
}
