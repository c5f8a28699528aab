// Package logx wires tgrep's ambient logging. Every process needs
// somewhere to put its debug/info/warn traces — this package is that
// somewhere, built on github.com/opencoff/go-logger and configured
// once at startup with a "[program-version] " prefix.
package logx

import (
	"fmt"
	"io"
	"os"

	logger "github.com/opencoff/go-logger"
	"golang.org/x/term"
)

// Logger is the subset of github.com/opencoff/go-logger's Logger
// interface tgrep's packages actually call. Sampler, locator and cmd
// depend on this narrow interface rather than the concrete
// type, so tests can supply a no-op implementation.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// New builds the process-wide logger, writing to w (normally
// os.Stderr, for informational and debug text) at the given priority.
// When w is a terminal,
// golang.org/x/term lets us use relative timestamps (Lreltime) in
// place of the date/time flags for interactive runs; piped/redirected
// output gets plain
// absolute timestamps instead, since Lreltime without a terminal to
// watch it in is just confusing.
func New(w io.Writer, prio logger.Priority, program, version string) (Logger, error) {
	flags := logger.Ldate | logger.Ltime
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		flags = logger.Lreltime
	}
	prefix := fmt.Sprintf("[%s-%s] ", program, version)
	return logger.New(w, prio, prefix, flags)
}

// Noop discards everything; used by tests and by library-style callers
// that do not want tgrep's logging.
func Noop() Logger {
	return noop{}
}

type noop struct{}

func (noop) Debug(string, ...interface{}) {}
func (noop) Info(string, ...interface{})  {}
func (noop) Warn(string, ...interface{})  {}
func (noop) Error(string, ...interface{}) {}
