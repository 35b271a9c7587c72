// Package logger provides leveled, printf-style logging for vespactl.
//
// The package wraps a zap SugaredLogger behind a small package-level API
// so that call sites stay terse (logger.Info("started %s", name)) while
// still getting structured, leveled output on stderr. Diagnostic logging
// is separate from the user-facing step reporting in internal/ui: the
// former is for operators debugging the tool, the latter is the primary
// CLI output.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// log is the active sugared logger. It defaults to a no-op logger so that
// packages can log safely before Init is called (e.g. from tests).
var log = zap.NewNop().Sugar()

// Init configures the global logger.
//
// With verbose=false only warnings and errors are emitted, keeping normal
// CLI output clean. With verbose=true the level drops to debug and each
// line carries a timestamp and caller reference.
//
// Init is safe to call more than once; the last call wins.
func Init(verbose bool) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		// Non-verbose output is for end users; drop the caller reference.
		cfg.DisableCaller = true
		cfg.DisableStacktrace = true
	}

	l, err := cfg.Build()
	if err != nil {
		// Building a development config only fails on invalid user input,
		// which cannot happen here; fall back to a no-op logger anyway.
		log = zap.NewNop().Sugar()
		return
	}

	log = l.Sugar()
}

// Debug logs a debug-level message with printf-style formatting.
func Debug(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Info logs an info-level message with printf-style formatting.
func Info(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warn logs a warning-level message with printf-style formatting.
func Warn(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Error logs an error-level message with printf-style formatting.
func Error(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Sync flushes any buffered log entries. Called before process exit.
func Sync() {
	_ = log.Sync()
}
