package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[parser]\nmax_depth = 300\n\n[log]\nverbosity = 2\nfile = \"logs/bd.log\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parser.MaxDepth != 300 || cfg.Log.Verbosity != 2 {
		t.Fatalf("cfg %+v", cfg)
	}
	if cfg.Sources.Extension != DefaultExtension || cfg.Diagnostics.Max != DefaultMaxDiagnostics {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Log.File != filepath.Join(dir, "logs", "bd.log") {
		t.Fatalf("log file %q", cfg.Log.File)
	}
	if cfg.Cache.Dir != filepath.Join(dir, DefaultCacheDir) {
		t.Fatalf("cache dir %q", cfg.Cache.Dir)
	}
	if !cfg.Defined("parser", "max_depth") || cfg.Defined("diagnostics", "max") {
		t.Fatal("Defined does not follow the file")
	}
}

func TestLoadConfigZeroIsDefined(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[diagnostics]\nmax = 0\n\n[cache]\nenabled = true\ndir = \"/var/cache/bd\"\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Diagnostics.Max != 0 || !cfg.Defined("diagnostics", "max") {
		t.Fatalf("max %d defined %t", cfg.Diagnostics.Max, cfg.Defined("diagnostics", "max"))
	}
	if !cfg.Cache.Enabled || cfg.Cache.Dir != "/var/cache/bd" {
		t.Fatalf("cache %+v", cfg.Cache)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"syntax", "[parser\n", "failed to parse TOML"},
		{"depth", "[parser]\nmax_depth = 0\n", "max_depth must be positive"},
		{"negative max", "[diagnostics]\nmax = -1\n", "must not be negative"},
		{"extension", "[sources]\nextension = \"bd\"\n", "extension must look like"},
		{"pattern", "[sources]\nexclude = [\"[\"]\n", "bad pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigUnknownKeys(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[parser]\nspeed = 11\n\n[extra]\nx = 1\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(cfg.Unknown, ",") != "extra.x,parser.speed" {
		t.Fatalf("unknown %v", cfg.Unknown)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[sources]\nexclude = [\"gen\"]\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("Discover: ok=%t err=%v", ok, err)
	}
	if cfg.Root != root {
		t.Fatalf("root %q, want %q", cfg.Root, root)
	}
	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || got != root {
		t.Fatalf("FindProjectRoot = %q %t %v", got, ok, err)
	}
}

func TestSourcesFilters(t *testing.T) {
	s := SourcesConfig{Extension: ".bd", Exclude: []string{"gen", "*_old.bd", "vendor/*"}}
	tests := []struct {
		rel      string
		excluded bool
	}{
		{"main.bd", false},
		{"gen/a.bd", true},
		{"x/gen/a.bd", true},
		{"lib/a_old.bd", true},
		{"vendor/a.bd", true},
		{"vendored/a.bd", false},
	}
	for _, tt := range tests {
		if got := s.Excluded(tt.rel); got != tt.excluded {
			t.Errorf("Excluded(%q) = %t", tt.rel, got)
		}
	}
	if !s.IsSource("a.bd") || s.IsSource("a.go") || !(SourcesConfig{}).IsSource("b.bd") {
		t.Fatal("IsSource")
	}
}

func TestCombine(t *testing.T) {
	var d Digest
	a := Combine(d, []byte("v1"))
	b := Combine(d, []byte("v2"))
	if a == b || a != Combine(d, []byte("v1")) || len(a.Hex()) != 64 {
		t.Fatal("Combine is not a keyed hash")
	}
}
