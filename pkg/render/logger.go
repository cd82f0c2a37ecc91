package render

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Logger is the driver's logging sink (spec §9 "Thread-local
// singletons": the reference's process-wide logger is promoted to a
// configured handle passed to the driver rather than a global). Mirrors
// the teacher's core.Logger/renderer.DefaultLogger shape.
type Logger interface {
	Printf(format string, args ...any)
}

// DefaultLogger writes to stdout, matching the teacher's
// renderer.DefaultLogger.
type DefaultLogger struct{}

func (DefaultLogger) Printf(format string, args ...any) { fmt.Printf(format, args...) }

// NewDefaultLogger returns the stdout logger used when no file logger is
// configured.
func NewDefaultLogger() Logger { return DefaultLogger{} }

// FileLogger writes tab-separated `[level time_seconds] message` lines
// to an open file (spec §6 "Persisted state": "an optional plain-text
// log file"). Safe for concurrent use by multiple render threads.
type FileLogger struct {
	mu    sync.Mutex
	w     io.Writer
	start time.Time
}

// NewFileLogger wraps w, stamping every line with elapsed seconds since
// NewFileLogger was called.
func NewFileLogger(w io.Writer) *FileLogger {
	return &FileLogger{w: w, start: time.Now()}
}

// Printf writes an INFO-level line. Use Warnf for category-5 numeric
// warnings (spec §7) so the level column distinguishes them in the log.
func (l *FileLogger) Printf(format string, args ...any) { l.writeLevel("INFO", format, args...) }

// Warnf writes a WARN-level line for a category-5 numeric warning (spec
// §7): the sample is dropped and rendering continues, but the event is
// recorded for post-render diagnosis.
func (l *FileLogger) Warnf(format string, args ...any) { l.writeLevel("WARN", format, args...) }

func (l *FileLogger) writeLevel(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	elapsed := time.Since(l.start).Seconds()
	fmt.Fprintf(l.w, "[%s\t%.3f]\t%s\n", level, elapsed, fmt.Sprintf(format, args...))
}
