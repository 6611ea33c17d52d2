package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is bondrewd.toml after defaults are applied. Keys missing from the
// file keep the values from Default.
type Config struct {
	Parser      ParserConfig      `toml:"parser"`
	Log         LogConfig         `toml:"log"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Sources     SourcesConfig     `toml:"sources"`
	Cache       CacheConfig       `toml:"cache"`

	// Path is the manifest the config came from, "" for Default.
	Path string `toml:"-"`
	// Root is the manifest directory; relative paths in the file resolve
	// against it.
	Root string `toml:"-"`
	// Unknown lists keys the file sets that Config does not know.
	Unknown []string `toml:"-"`

	defined map[string]bool
}

type ParserConfig struct {
	MaxDepth int  `toml:"max_depth"`
	NoMemo   bool `toml:"no_memo"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

type DiagnosticsConfig struct {
	Max int `toml:"max"`
}

type SourcesConfig struct {
	Extension string   `toml:"extension"`
	Exclude   []string `toml:"exclude"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

const (
	DefaultExtension      = ".bd"
	DefaultMaxDiagnostics = 100
	DefaultCacheDir       = ".bondrewd-cache"
)

// Default is the configuration used when no manifest is found.
func Default() Config {
	return Config{
		Diagnostics: DiagnosticsConfig{Max: DefaultMaxDiagnostics},
		Sources:     SourcesConfig{Extension: DefaultExtension},
		Cache:       CacheConfig{Dir: DefaultCacheDir},
	}
}

// Defined reports whether the manifest set key, e.g. Defined("parser",
// "max_depth"). CLI code uses it to tell "absent" from "set to zero".
func (c *Config) Defined(key ...string) bool {
	return c.defined[strings.Join(key, ".")]
}

// LoadConfig decodes the manifest at path on top of Default.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	cfg.defined = make(map[string]bool)
	for _, k := range meta.Keys() {
		cfg.defined[k.String()] = true
	}
	for _, k := range meta.Undecoded() {
		if meta.Type(k...) == "Hash" {
			continue
		}
		cfg.Unknown = append(cfg.Unknown, k.String())
	}
	slices.Sort(cfg.Unknown)

	if meta.IsDefined("parser", "max_depth") && cfg.Parser.MaxDepth <= 0 {
		return Config{}, fmt.Errorf("%s: [parser].max_depth must be positive, got %d", path, cfg.Parser.MaxDepth)
	}
	if meta.IsDefined("diagnostics", "max") && cfg.Diagnostics.Max < 0 {
		return Config{}, fmt.Errorf("%s: [diagnostics].max must not be negative", path)
	}
	if meta.IsDefined("sources", "extension") {
		ext := strings.TrimSpace(cfg.Sources.Extension)
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return Config{}, fmt.Errorf("%s: [sources].extension must look like \".bd\", got %q", path, cfg.Sources.Extension)
		}
		cfg.Sources.Extension = ext
	}
	for _, pattern := range cfg.Sources.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return Config{}, fmt.Errorf("%s: [sources].exclude: bad pattern %q: %w", path, pattern, err)
		}
	}
	if cfg.Log.File != "" && !filepath.IsAbs(cfg.Log.File) {
		cfg.Log.File = filepath.Join(cfg.Root, cfg.Log.File)
	}
	if !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(cfg.Root, cfg.Cache.Dir)
	}
	return cfg, nil
}

// Discover finds bondrewd.toml above startDir and loads it. Without a
// manifest it returns Default and ok=false.
func Discover(startDir string) (cfg Config, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return Config{}, false, err
	}
	if !ok {
		return Default(), false, nil
	}
	cfg, err = LoadConfig(path)
	return cfg, err == nil, err
}

// Excluded reports whether rel (slash separated, relative to the walked
// directory) matches one of the exclude patterns. A pattern matches either
// the whole path or any single path element.
func (s SourcesConfig) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	parts := strings.Split(rel, "/")
	for _, pattern := range s.Exclude {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		for _, part := range parts {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}

// IsSource reports whether name carries the configured extension.
func (s SourcesConfig) IsSource(name string) bool {
	ext := s.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	return filepath.Ext(name) == ext
}
