package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"bondrewd/internal/diag"
	"bondrewd/internal/observ"
	"bondrewd/internal/project"
	"bondrewd/internal/trace"
)

const sample = "cartridge foo;\nfunc main(): int32 => { 0 };\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestParseSource(t *testing.T) {
	res := ParseSource("t.bd", []byte(sample), Options{})
	if res.Root.IsNil() || res.Bag.Len() != 0 {
		t.Fatalf("root nil=%t, %d diagnostics", res.Root.IsNil(), res.Bag.Len())
	}
	if len(res.Root.Get().Stmts) != 2 || len(res.Tokens) == 0 {
		t.Fatalf("stmts %d tokens %d", len(res.Root.Get().Stmts), len(res.Tokens))
	}
	if res.Stats.MemoMisses == 0 {
		t.Fatal("no memo activity recorded")
	}
	if leaks := res.Close(); leaks != 0 {
		t.Fatalf("%d leaked records", leaks)
	}
}

func TestParseSourceSyntaxError(t *testing.T) {
	res := ParseSource("t.bd", []byte("cartridge foo"), Options{})
	defer res.Close()
	if !res.Root.IsNil() || res.Arena.Len() != 0 {
		t.Fatal("failed parse left a tree behind")
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynForcedRule || len(items[0].Fixes) != 1 {
		t.Fatalf("diagnostics %+v", items)
	}
}

func TestParseRecursionLimitFromOptions(t *testing.T) {
	src := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50) + ";"
	res := ParseSource("deep.bd", []byte(src), Options{MaxDepth: 20})
	defer res.Close()
	if items := res.Bag.Items(); len(items) != 1 || items[0].Code != diag.SynRecursionLimit {
		t.Fatalf("diagnostics %+v", items)
	}
}

func TestParseFileWithTimer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.bd")
	writeFile(t, path, sample)

	timer := observ.NewTimer()
	res, err := Parse(path, Options{Timer: timer})
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
	if res.Root.IsNil() {
		t.Fatalf("diagnostics %+v", res.Bag.Items())
	}
	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	if strings.Join(names, ",") != "load,parse" {
		t.Fatalf("phases %v", names)
	}

	if _, err := Parse(filepath.Join(t.TempDir(), "missing.bd"), Options{}); err == nil {
		t.Fatal("expected a load error")
	}
}

func TestTokenizeLexicalError(t *testing.T) {
	res := TokenizeSource("t.bd", []byte("x = 'abc"), Options{})
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.LexUnterminatedString {
		t.Fatalf("diagnostics %+v", items)
	}
	if len(res.Tokens) != 2 {
		t.Fatalf("tokens before the error: %v", res.Tokens)
	}
}

func TestTokenizeUsesCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.bd")
	writeFile(t, path, sample)
	cacheDir := t.TempDir()

	cache, err := OpenTokenCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	first, err := Tokenize(path, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || first.Bag.Len() != 0 {
		t.Fatalf("first run cached=%t diags=%+v", first.Cached, first.Bag.Items())
	}
	second, err := Tokenize(path, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second run missed the memory layer")
	}

	reopened, err := OpenTokenCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	third, err := Tokenize(path, Options{Cache: reopened})
	if err != nil {
		t.Fatal(err)
	}
	if !third.Cached || !reflect.DeepEqual(third.Tokens, first.Tokens) {
		t.Fatalf("disk round trip: cached=%t\n got %v\nwant %v", third.Cached, third.Tokens, first.Tokens)
	}
	if hits, misses := reopened.Stats(); hits != 1 || misses != 0 {
		t.Fatalf("stats %d/%d", hits, misses)
	}

	writeFile(t, path, sample+"x;\n")
	changed, err := Tokenize(path, Options{Cache: reopened})
	if err != nil {
		t.Fatal(err)
	}
	if changed.Cached {
		t.Fatal("stale entry served after the file changed")
	}

	if err := reopened.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := reopened.Get(changed.File); ok {
		t.Fatal("entry survived DropAll")
	}
}

func TestNilTokenCacheIsInert(t *testing.T) {
	var c *TokenCache
	res := TokenizeSource("t.bd", []byte("a;"), Options{Cache: c})
	if res.Cached || res.Bag.Len() != 0 {
		t.Fatal("nil cache had an effect")
	}
	if h, m := c.Stats(); h != 0 || m != 0 {
		t.Fatal("nil cache stats")
	}
}

func collect(events <-chan Event) <-chan []Event {
	out := make(chan []Event, 1)
	go func() {
		var all []Event
		for ev := range events {
			all = append(all, ev)
		}
		out <- all
	}()
	return out
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.bd"), sample)
	writeFile(t, filepath.Join(dir, "sub", "b.bd"), "cartridge ;\n")
	writeFile(t, filepath.Join(dir, "gen", "skip.bd"), "((((\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not source")

	events := make(chan Event)
	got := collect(events)
	opts := Options{Jobs: 2, Sources: project.SourcesConfig{Extension: ".bd", Exclude: []string{"gen"}}}
	fs, results, err := ParseDir(context.Background(), dir, opts, events)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		for _, r := range results {
			r.Close()
		}
	}()
	evs := <-got

	if len(results) != 2 || fs.Len() != 2 {
		t.Fatalf("results %d files %d", len(results), fs.Len())
	}
	if filepath.Base(results[0].File.Path) != "a.bd" || results[0].Root.IsNil() {
		t.Fatalf("a.bd: %+v", results[0].Bag.Items())
	}
	if !results[1].Root.IsNil() || !results[1].Bag.HasErrors() {
		t.Fatal("sub/b.bd should fail")
	}

	status := map[string]Status{}
	for _, ev := range evs {
		status[filepath.Base(ev.File)] = ev.Status
	}
	if status["a.bd"] != StatusDone || status["b.bd"] != StatusError || len(status) != 2 {
		t.Fatalf("final statuses %v", status)
	}
	if len(evs) != 6 {
		t.Fatalf("got %d events: %+v", len(evs), evs)
	}
}

func TestParseDirEmpty(t *testing.T) {
	fs, results, err := ParseDir(context.Background(), t.TempDir(), Options{}, nil)
	if err != nil || results != nil || fs == nil {
		t.Fatalf("empty dir: %v %v", results, err)
	}
}

func TestParseDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.bd"), sample)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := ParseDir(ctx, dir, Options{}, nil); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestParseDirDumpsTraceOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.bd"), "cartridge ;\n")

	tr, err := trace.New(trace.Config{Level: trace.LevelError, Mode: trace.ModeRing})
	if err != nil {
		t.Fatal(err)
	}
	var dump bytes.Buffer
	_, results, err := ParseDir(context.Background(), dir, Options{Tracer: tr, CrashDump: &dump}, nil)
	if err != nil {
		t.Fatal(err)
	}
	results[0].Close()
	if !strings.Contains(dump.String(), "bad.bd") {
		t.Fatalf("dump:\n%s", dump.String())
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := project.Default()
	cfg.Parser.MaxDepth = 123
	cfg.Diagnostics.Max = 7
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = t.TempDir()

	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.MaxDepth != 123 || opts.MaxDiagnostics != 7 || opts.Cache == nil || opts.Cache.Dir() != cfg.Cache.Dir {
		t.Fatalf("opts %+v", opts)
	}
	cfg.Cache.Enabled = false
	if opts, _ := OptionsFromConfig(cfg); opts.Cache != nil {
		t.Fatal("cache opened while disabled")
	}
}

func TestWriteTimings(t *testing.T) {
	timer := observ.NewTimer()
	timer.Track("parse")("x.bd")

	var text bytes.Buffer
	if err := WriteTimings(&text, "parse", "x.bd", timer, false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text.String(), "parse x.bd\ntimings:\n") {
		t.Fatalf("text %q", text.String())
	}

	var js bytes.Buffer
	if err := WriteTimings(&js, "", "", timer, true); err != nil {
		t.Fatal(err)
	}
	var payload timingPayload
	if err := json.Unmarshal(js.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Kind != "pipeline" || len(payload.Phases) != 1 || payload.Phases[0].Note != "x.bd" {
		t.Fatalf("payload %+v", payload)
	}
	if WriteTimings(&js, "k", "", nil, true) != nil {
		t.Fatal("nil timer")
	}
}
