package augstream

/*------------------------------------------------------------------------------
* trace.go : leveled tracing, modeled on gnssgo/src/common.go's Trace/Tracet
*
* The teacher keeps a single package-global trace file and level, swapped
* with log.SetOutput(). augstream keeps that same shape (one process-wide
* sink, a verbosity level, printf-style calls named Trace/Tracef so callers
* read the same way they would in the teacher) but backs the sink with a
* rotating writer (gopkg.in/natefinch/lumberjack.v2) instead of a bare
* os.File, grounded on 90karatinsa-ch10gate/cmd/ch10d/main.go's logConfig.
 */

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	traceLevel  = 0
	traceLogger = log.New(os.Stderr, "", log.LstdFlags)
	traceRunID  string
)

// SetRunID tags every subsequent Trace line with id (a github.com/google/uuid
// value minted once per process by the CLI), so log lines from concurrent
// corrstream invocations against the same rotating file stay distinguishable.
func SetRunID(id string) { traceRunID = id }

// TraceConfig mirrors logConfig in ch10gate's main.go.
type TraceConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

// TraceOpen redirects tracing to a rotating file; TraceOpen(TraceConfig{})
// (zero value) leaves tracing on stderr.
func TraceOpen(cfg TraceConfig) {
	if cfg.Path == "" {
		traceLogger = log.New(os.Stderr, "", log.LstdFlags)
		return
	}
	w := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
	traceLogger = log.New(w, "", log.LstdFlags|log.Lmicroseconds)
}

// TraceLevel sets the verbosity threshold; Trace calls at a level above
// this are dropped (mirrors gnssgo's TraceLevel()).
func TraceLevel(level int) { traceLevel = level }

// Trace logs format at the given level if it does not exceed the current
// verbosity.
func Trace(level int, format string, v ...interface{}) {
	if level > traceLevel {
		return
	}
	msg := fmt.Sprintf(format, v...)
	if traceRunID != "" {
		msg = "[run=" + traceRunID + "] " + msg
	}
	traceLogger.Output(2, msg)
}

// Tracef is an alias kept for readability at call sites that always log
// (level 0), matching how the teacher's diagnostic-emitting call sites read.
func Tracef(format string, v ...interface{}) { Trace(0, format, v...) }
