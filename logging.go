package vic3d

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger receives the diagnostics of the scene: rejected input, degenerate
// geometry found while generating buffers, and timing lines in debug mode.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// logSink is shared by a logger and all loggers Named from it, so SetDebug
// on any of them affects the whole tree.
type logSink struct {
	mu    sync.Mutex
	debug bool
	out   *log.Logger
	err   *log.Logger
}

// DefaultLogger writes "[component] LEVEL: message" lines. Debug and info go
// to one writer, warnings and errors to the other.
type DefaultLogger struct {
	sink      *logSink
	component string
}

func NewDefaultLogger(component string, debug bool) *DefaultLogger {
	return NewDefaultLoggerTo(os.Stdout, os.Stderr, component, debug)
}

func NewDefaultLoggerTo(out, errOut io.Writer, component string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		sink: &logSink{
			debug: debug,
			out:   log.New(out, "", flags),
			err:   log.New(errOut, "", flags),
		},
		component: component,
	}
}

// Named returns a logger for a sub-component, e.g. "vic3dview/scene".
func (l *DefaultLogger) Named(sub string) *DefaultLogger {
	c := sub
	if l.component != "" {
		c = l.component + "/" + sub
	}
	return &DefaultLogger{sink: l.sink, component: c}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.sink.mu.Lock()
	l.sink.debug = enabled
	l.sink.mu.Unlock()
}

func (l *DefaultLogger) Log(level Level, format string, args ...any) {
	if level == LevelDebug && !l.DebugEnabled() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.component != "" {
		msg = fmt.Sprintf("[%s] %s: %s", l.component, level, msg)
	} else {
		msg = fmt.Sprintf("%s: %s", level, msg)
	}
	w := l.sink.out
	if level >= LevelWarn {
		w = l.sink.err
	}
	w.Print(msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.Log(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.Log(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.Log(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.Log(LevelError, format, args...) }

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool    { return false }
func (nopLogger) SetDebug(bool)         {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// passLogger wraps the scene logger for one buffer regeneration: a warning
// format is reported once per pass however many objects trigger it. Reset
// ends the pass and notes in debug output how many repeats were dropped.
type passLogger struct {
	Logger
	seen       map[string]int
	suppressed int
}

func newPassLogger(l Logger) *passLogger {
	return &passLogger{Logger: l, seen: make(map[string]int)}
}

func (o *passLogger) Warnf(format string, args ...any) {
	o.seen[format]++
	if o.seen[format] > 1 {
		o.suppressed++
		return
	}
	o.Logger.Warnf(format, args...)
}

func (o *passLogger) Reset() {
	if o.suppressed > 0 {
		o.Logger.Debugf("suppressed %d repeated warnings (%d formats)", o.suppressed, o.repeatedKinds())
	}
	clear(o.seen)
	o.suppressed = 0
}

func (o *passLogger) repeatedKinds() int {
	n := 0
	for _, c := range o.seen {
		if c > 1 {
			n++
		}
	}
	return n
}
