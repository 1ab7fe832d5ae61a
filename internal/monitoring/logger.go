package monitoring

import (
	"fmt"
	"log"
)

// Logf is the package-level diagnostic logger for the cross-match engine. It
// defaults to log.Printf but may be replaced by SetLogger. Reconciliation
// warnings, chunk progress and run summaries all route through it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger,
// muting all engine diagnostics.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Capture redirects the package logger into the returned slice and hands back
// a restore function. Intended for tests that assert on warning text.
func Capture() (*[]string, func()) {
	prev := Logf
	lines := &[]string{}
	Logf = func(format string, v ...interface{}) {
		*lines = append(*lines, fmt.Sprintf(format, v...))
	}
	return lines, func() { Logf = prev }
}
