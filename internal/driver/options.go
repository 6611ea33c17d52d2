// Package driver runs the front end over files and directories: it loads
// sources into a FileSet, tokenizes or parses them and turns failures into
// diagnostics.
package driver

import (
	"io"
	"time"

	"bondrewd/internal/observ"
	"bondrewd/internal/project"
	"bondrewd/internal/trace"
)

// Options control one driver run. The zero value is usable.
type Options struct {
	MaxDiagnostics int
	MaxDepth       int  // parser recursion limit, 0 for the parser default
	NoMemo         bool // disable packrat caching
	Jobs           int  // ParseDir workers, 0 for GOMAXPROCS

	Sources project.SourcesConfig

	// Cache, when set, serves and stores token streams.
	Cache *TokenCache
	// Timer receives load/tokenize/parse phases; nil skips timing.
	Timer  *observ.Timer
	Tracer trace.Tracer
	// Heartbeat is the ParseDir heartbeat interval, 0 disables it.
	Heartbeat time.Duration
	// CrashDump receives the trace ring after a failed file, when the
	// tracer keeps one.
	CrashDump io.Writer
}

// OptionsFromConfig maps bondrewd.toml onto Options. The cache is opened
// only when [cache].enabled is set.
func OptionsFromConfig(cfg project.Config) (Options, error) {
	opts := Options{
		MaxDiagnostics: cfg.Diagnostics.Max,
		MaxDepth:       cfg.Parser.MaxDepth,
		NoMemo:         cfg.Parser.NoMemo,
		Sources:        cfg.Sources,
	}
	if cfg.Cache.Enabled {
		c, err := OpenTokenCache(cfg.Cache.Dir)
		if err != nil {
			return Options{}, err
		}
		opts.Cache = c
	}
	return opts, nil
}

func (o *Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return trace.Nop
	}
	return o.Tracer
}

func (o *Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return project.DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// track starts a timer phase; the returned func is a no-op without a Timer.
func (o *Options) track(name string) func(note string) {
	if o.Timer == nil {
		return func(string) {}
	}
	return o.Timer.Track(name)
}
