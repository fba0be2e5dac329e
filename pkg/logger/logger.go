
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options controls how a Logger writes.
type Options struct {
	Level  string // debug, info (default), warn, error
	JSON   bool
	Writer io.Writer // defaults to os.Stderr
}

type Logger struct {
	l *log.Logger
}

func New() *Logger { return NewWithOptions(Options{}) }

func NewWithOptions(opts Options) *Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	lo := log.Options{
		Level:           parseLevel(opts.Level),
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	}
	if opts.JSON {
		lo.Formatter = log.JSONFormatter
	}
	return &Logger{l: log.NewWithOptions(w, lo)}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{l: log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})}
}

func parseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// With returns a child logger that prefixes every entry with keyvals.
func (l *Logger) With(keyvals ...any) *Logger {
	return &Logger{l: l.l.With(keyvals...)}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.l.Debugf(format, args...)
}
func (l *Logger) Infof(format string, args ...any) {
	l.l.Infof(format, args...)
}
func (l *Logger) Warnf(format string, args ...any) {
	l.l.Warnf(format, args...)
}
func (l *Logger) Errorf(format string, args ...any) {
	l.l.Errorf(format, args...)
}
