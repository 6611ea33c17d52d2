package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bondrewd/internal/diag"
	"bondrewd/internal/diagfmt"
	"bondrewd/internal/driver"
	"bondrewd/internal/logging"
	"bondrewd/internal/observ"
	"bondrewd/internal/prof"
	"bondrewd/internal/project"
	"bondrewd/internal/source"
	"bondrewd/internal/trace"
)

// session is the state every command shares: the merged configuration,
// driver options and output settings. Close flushes the tracer.
type session struct {
	cfg       project.Config
	opts      driver.Options
	color     bool
	pathMode  diagfmt.PathMode
	diagJSON  bool
	diagShort bool
	timings   bool
	tracer    trace.Tracer
	profile   *prof.Session
}

func newSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Flags()
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	verbosity := cfg.Log.Verbosity
	if flags.Changed("verbosity") {
		verbosity, _ = flags.GetInt("verbosity")
	}
	logFile, _ := flags.GetString("log-file")
	if logFile == "" {
		logFile = cfg.Log.File
	}
	logging.Configure(verbosity, logFile)
	if cfg.Path != "" {
		logging.Get("cli").Infof("using %s", cfg.Path)
	}
	for _, key := range cfg.Unknown {
		logging.Get("cli").Warningf("%s: unknown key %q", cfg.Path, key)
	}

	opts, err := driver.OptionsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("token cache: %w", err)
	}
	if flags.Changed("max-diagnostics") {
		opts.MaxDiagnostics, _ = flags.GetInt("max-diagnostics")
	}
	if depth, _ := flags.GetInt("max-depth"); depth > 0 {
		opts.MaxDepth = depth
	}
	if noMemo, _ := flags.GetBool("no-memo"); noMemo {
		opts.NoMemo = true
	}

	s := &session{cfg: cfg, opts: opts, tracer: trace.Nop}

	colorFlag, _ := flags.GetString("color")
	switch colorFlag {
	case "on":
		s.color = true
	case "off":
	case "auto":
		s.color = isTerminal(os.Stderr)
	default:
		return nil, fmt.Errorf("invalid --color %q (expected auto|on|off)", colorFlag)
	}

	pathMode, _ := flags.GetString("path-mode")
	mode, ok := diagfmt.ParsePathMode(pathMode)
	if !ok {
		return nil, fmt.Errorf("invalid --path-mode %q", pathMode)
	}
	s.pathMode = mode

	switch format, _ := flags.GetString("diag-format"); format {
	case "pretty":
	case "json":
		s.diagJSON = true
	case "short":
		s.diagShort = true
	default:
		return nil, fmt.Errorf("invalid --diag-format %q (expected pretty|short|json)", format)
	}

	if s.timings, _ = flags.GetBool("timings"); s.timings {
		s.opts.Timer = observ.NewTimer()
	}

	if err := s.setupTracing(flags, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}
	if err := s.startProfiling(flags); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func loadConfig(flags *pflag.FlagSet) (project.Config, error) {
	if path, _ := flags.GetString("config"); path != "" {
		return project.LoadConfig(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return project.Config{}, err
	}
	cfg, _, err := project.Discover(wd)
	return cfg, err
}

// setupTracing builds the tracer from the trace flags. A ring tracer also
// becomes the crash dump source for failed files.
func (s *session) setupTracing(flags *pflag.FlagSet, stderr io.Writer) error {
	levelStr, _ := flags.GetString("trace-level")
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	output, _ := flags.GetString("trace")
	if level == trace.LevelOff {
		if output == "" {
			return nil
		}
		level = trace.LevelPhase
	}
	modeStr, _ := flags.GetString("trace-mode")
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return err
	}
	formatStr, _ := flags.GetString("trace-format")
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	ringSize, _ := flags.GetInt("trace-ring-size")
	heartbeat, _ := flags.GetDuration("trace-heartbeat")

	tr, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
		Heartbeat:  heartbeat,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	s.tracer = tr
	s.opts.Tracer = tr
	s.opts.Heartbeat = heartbeat
	if _, ok := trace.Ring(tr); ok {
		s.opts.CrashDump = stderr
	}
	return nil
}

func (s *session) startProfiling(flags *pflag.FlagSet) error {
	var cfg prof.Config
	cfg.CPU, _ = flags.GetString("cpu-profile")
	cfg.Mem, _ = flags.GetString("mem-profile")
	cfg.Trace, _ = flags.GetString("runtime-trace")
	if !cfg.Enabled() {
		return nil
	}
	p, err := prof.Start(cfg)
	if err != nil {
		return err
	}
	s.profile = p
	return nil
}

// useCache applies a command's --cache flag on top of [cache].enabled.
func (s *session) useCache(cmd *cobra.Command) error {
	if !cmd.Flags().Changed("cache") {
		return nil
	}
	enabled, _ := cmd.Flags().GetBool("cache")
	if !enabled {
		s.opts.Cache = nil
		return nil
	}
	if s.opts.Cache != nil {
		return nil
	}
	dir := s.cfg.Cache.Dir
	if s.cfg.Root == "" {
		// вне проекта кэш живёт в пользовательском каталоге
		var err error
		if dir, err = driver.DefaultTokenCacheDir(); err != nil {
			return err
		}
	}
	c, err := driver.OpenTokenCache(dir)
	if err != nil {
		return fmt.Errorf("token cache: %w", err)
	}
	s.opts.Cache = c
	return nil
}

// report prints bag to w and returns errDiagnostics when it holds errors.
func (s *session) report(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	switch {
	case s.diagShort:
		if _, err := io.WriteString(w, diag.FormatShortDiagnostics(bag.Items(), fs, true)+"\n"); err != nil {
			return err
		}
	case s.diagJSON:
		err := diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
		if err != nil {
			return err
		}
	default:
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     s.color,
			Context:   1,
			PathMode:  s.pathMode,
			ShowNotes: true,
			ShowFixes: true,
		})
	}
	if bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func (s *session) writeTimings(w io.Writer, kind, path string) error {
	if !s.timings {
		return nil
	}
	return driver.WriteTimings(w, kind, path, s.opts.Timer, s.diagJSON)
}

func (s *session) Close() {
	if err := s.profile.Stop(); err != nil {
		logging.Get("cli").Errorf("profile: %s", err)
	}
	if err := s.tracer.Flush(); err != nil {
		logging.Get("cli").Errorf("trace: flush error: %s", err)
	}
	if err := s.tracer.Close(); err != nil {
		logging.Get("cli").Errorf("trace: close error: %s", err)
	}
}
