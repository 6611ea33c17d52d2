// Package logging is the process-wide leveled log hook.
//
// Configure is called once by the CLI before any parsing starts; after that
// the verbosity is read-only. Packages obtain named loggers with Get.
package logging

import (
	"sync/atomic"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Root is the prefix of every logger name.
const Root = "bondrewd"

var verbosity atomic.Int32

// Configure sets the global verbosity and the log destination. An empty path
// logs to stderr. 0 shows notices, 1 info, 2 debug; negative values are quieter.
func Configure(level int, path string) {
	verbosity.Store(int32(level))
	if path == "" {
		commonlog.Configure(level, nil)
		return
	}
	commonlog.Configure(level, &path)
}

// Verbosity returns the value passed to Configure (0 by default).
func Verbosity() int {
	return int(verbosity.Load())
}

// Get returns the logger bondrewd.<name>.
func Get(name string) commonlog.Logger {
	if name == "" {
		return commonlog.GetLogger(Root)
	}
	return commonlog.GetLogger(Root + "." + name)
}

// Debugging reports whether debug lines would be emitted at the current
// verbosity. Callers use it to skip formatting work on hot paths.
func Debugging() bool {
	return Verbosity() >= 2
}
