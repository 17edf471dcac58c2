// Package logger provides a small leveled logging facade over the
// standard log package.
//
// Verbosity levels, in increasing order:
//
//	Error < Info < Debug < Trace
//
// Typical use:
//
//	logger.SetVerbosity(2) // Debug
//	logger.Infof("pricing %s strike=%.2f", underlying, strike)
//	logger.Debugf("d1=%f vega=%f", d1, vega)
package logger

import (
	"log"
	"os"
)

// Level is a logging verbosity level; higher is chattier.
type Level int

const (
	Error Level = iota // critical failures only
	Info               // high-level job progress
	Debug              // diagnostic detail (iteration traces, quotes)
	Trace              // very fine-grained execution detail
)

// current holds the active verbosity. Messages with level <= current are
// emitted.
var current Level = Info

func init() {
	// Logs go to stderr so CLI output stays clean on stdout.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

// SetVerbosity sets the global verbosity; typically called once after the
// job config is loaded.
func SetVerbosity(v int) {
	current = Level(v)
}

func logf(l Level, prefix, format string, args ...any) {
	if current >= l {
		log.Printf(prefix+format, args...)
	}
}

// Errorf logs a failure that requires attention.
func Errorf(format string, args ...any) {
	logf(Error, "[ERROR] ", format, args...)
}

// Infof logs a major lifecycle event.
func Infof(format string, args ...any) {
	logf(Info, "[INFO]  ", format, args...)
}

// Debugf logs diagnostic output useful during development.
func Debugf(format string, args ...any) {
	logf(Debug, "[DEBUG] ", format, args...)
}

// Tracef logs high-volume execution traces.
func Tracef(format string, args ...any) {
	logf(Trace, "[TRACE] ", format, args...)
}
