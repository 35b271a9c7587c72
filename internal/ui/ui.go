// Package ui renders the user-facing, per-step status lines of the CLI.
//
// Every deployment operation reports its progress through this package so
// that failures are visible inline, not only via the exit code. Output is
// colored and iconographic:
//
//	▸ building CPU image...
//	✓ image built: vespa-search:latest
//	⚠ permission alignment failed (continuing)
//	✗ container runtime unavailable
//
// Colors degrade gracefully: fatih/color disables ANSI sequences when
// stdout is not a terminal or NO_COLOR is set.
package ui

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	stepColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

// Step prints an in-progress step line.
func Step(format string, args ...interface{}) {
	stepColor.Printf("▸ "+format+"\n", args...)
}

// Success prints a completed step line.
func Success(format string, args ...interface{}) {
	successColor.Printf("✓ "+format+"\n", args...)
}

// Warn prints a non-fatal problem. The operation continues.
func Warn(format string, args ...interface{}) {
	warnColor.Printf("⚠ "+format+"\n", args...)
}

// Fail prints a fatal problem. The caller is expected to abort.
func Fail(format string, args ...interface{}) {
	failColor.Printf("✗ "+format+"\n", args...)
}

// Info prints a plain informational line.
func Info(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// Hint prints a dimmed suggestion line, e.g. the next command to run.
func Hint(format string, args ...interface{}) {
	dimColor.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// Blank prints an empty line for visual grouping.
func Blank() {
	fmt.Println()
}
