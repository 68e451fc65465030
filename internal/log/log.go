// Package log gives the two cmd/ entry points a one-line failure report,
// matching the teacher's own habit of a bare log.Println/fmt.Println at the
// top level rather than a structured logging framework threaded through the
// engine.
package log

import (
	"log"
	"os"
)

var std = log.New(os.Stderr, "", 0)

// Fatalf reports err-shaped context and exits non-zero, per §6's "non-zero
// on malformed input, missing files, type mismatch, or unsupported query
// structure."
func Fatalf(format string, args ...any) {
	std.Printf(format, args...)
	os.Exit(1)
}
