package logtap

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trviph/collection"
)

const defaultMaxFiles = 5

// Logger filters by severity, formats accepted records, and forwards
// the resulting line to its active sink. Instances are built with New
// and passed around explicitly; the package keeps no process-wide
// default. All methods are safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	label     string
	level     Level
	sink      Sink
	formatter Formatter
	handler   ErrorHandler

	seq uint64 // accepted-message counter, read with atomic

	withCaller bool
	historyCap int
	history    *collection.List[string]

	fileDir  string
	fileMax  int
	fileOpts []FileOption
}

// New constructs a Logger with the given label. The label must contain
// at least one non-whitespace character; it names the logger in output
// and, under SetFileOutput, names the log files.
func New(label string, opts ...Option) (*Logger, error) {
	if !validLabel(label) {
		return nil, &ConfigError{Field: "label", Value: label}
	}

	l := &Logger{
		label:     label,
		level:     LevelInfo,
		formatter: &TextFormatter{},
		handler:   StderrErrorHandler,
		fileMax:   defaultMaxFiles,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	if l.sink == nil {
		stream := NewStreamSink(os.Stderr)
		stream.SetErrorHandler(l.handler)
		l.sink = stream
	}
	if l.historyCap > 0 {
		l.history = collection.NewList[string]()
	}
	return l, nil
}

func validLabel(label string) bool {
	return strings.TrimSpace(label) != ""
}

// Label returns the current label.
func (l *Logger) Label() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.label
}

// SetLabel replaces the label, rejecting empty or whitespace-only
// values with a ConfigError.
func (l *Logger) SetLabel(label string) error {
	if !validLabel(label) {
		return &ConfigError{Field: "label", Value: label}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.label = label
	return nil
}

// Level returns the current severity threshold.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetLevel replaces the severity threshold.
func (l *Logger) SetLevel(level Level) error {
	if !level.valid() {
		return &ConfigError{Field: "level", Value: int(level)}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	return nil
}

// Sequence returns how many messages have been accepted so far. The
// first accepted message carries sequence number 0 and moves this
// counter to 1.
func (l *Logger) Sequence() uint64 {
	return atomic.LoadUint64(&l.seq)
}

// SetSink replaces the active sink wholesale. The previous sink is not
// closed; the caller owns both.
func (l *Logger) SetSink(sink Sink) error {
	if sink == nil {
		return &ConfigError{Field: "sink", Value: nil}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
	return nil
}

// SetFileOutput switches between file and stream output. With true, a
// FileSink named after the label is constructed under the configured
// log directory (DefaultLogDir by default) and installed wholesale.
// With false, output reverts to a stderr StreamSink and a previously
// constructed FileSink is closed.
//
// If the file sink cannot be constructed the failure is reported to
// the error handler and the previous sink stays in place, so the
// logger is never left without a destination.
func (l *Logger) SetFileOutput(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !enable {
		if fs, ok := l.sink.(*FileSink); ok {
			if err := fs.Close(); err != nil {
				report(l.handler, "close", fs.ActivePath(), err)
			}
		}
		stream := NewStreamSink(os.Stderr)
		stream.SetErrorHandler(l.handler)
		l.sink = stream
		return
	}

	if _, ok := l.sink.(*FileSink); ok {
		return
	}

	dir := l.fileDir
	if dir == "" {
		resolved, err := DefaultLogDir(l.label)
		if err != nil {
			report(l.handler, "logdir", l.label, err)
			return
		}
		dir = resolved
	}

	sink, err := NewFileSink(dir, l.label, l.fileMax, l.fileOpts...)
	if err != nil {
		report(l.handler, "open", dir, err)
		return
	}
	sink.SetErrorHandler(l.handler)
	l.sink = sink
}

// History returns the retained formatted lines, oldest first. Empty
// unless the logger was built with WithHistory.
func (l *Logger) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.history == nil {
		return nil
	}
	n := l.history.Length()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		line, err := l.history.Dequeue()
		if err != nil {
			break
		}
		out = append(out, line)
		l.history.Append(line)
	}
	return out
}

// Log passes a message through the severity filter and, if accepted,
// formats and dispatches it. Below-threshold calls return before the
// formatter runs and leave the sequence counter untouched.
func (l *Logger) Log(level Level, msg string, fields ...Field) {
	l.log(level, msg, fields, 2)
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields, 2) }

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, fields ...Field) { l.log(LevelInfo, msg, fields, 2) }

// Notice logs at LevelNotice.
func (l *Logger) Notice(msg string, fields ...Field) { l.log(LevelNotice, msg, fields, 2) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, fields ...Field) { l.log(LevelWarn, msg, fields, 2) }

// Error logs at LevelError.
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields, 2) }

// Debugf logs a fmt-formatted message at LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(LevelDebug, format, args)
}

// Infof logs a fmt-formatted message at LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(LevelInfo, format, args)
}

// Noticef logs a fmt-formatted message at LevelNotice.
func (l *Logger) Noticef(format string, args ...interface{}) {
	l.logf(LevelNotice, format, args)
}

// Warnf logs a fmt-formatted message at LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(LevelWarn, format, args)
}

// Errorf logs a fmt-formatted message at LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(LevelError, format, args)
}

func (l *Logger) logf(level Level, format string, args []interface{}) {
	// Cheap threshold peek before paying for Sprintf; the authoritative
	// check happens again under the mutex in log.
	l.mu.Lock()
	below := level < l.level
	l.mu.Unlock()
	if below {
		return
	}
	l.log(level, fmt.Sprintf(format, args...), nil, 3)
}

// log is the single dispatch path. calldepth is the runtime.Caller
// skip count that lands on the user's call site.
func (l *Logger) log(level Level, msg string, fields []Field, calldepth int) {
	l.mu.Lock()

	if level < l.level {
		l.mu.Unlock()
		return
	}

	rec := Record{
		Time:    time.Now(),
		Level:   level,
		Label:   l.label,
		Seq:     atomic.LoadUint64(&l.seq),
		Message: msg,
		Fields:  fields,
	}
	if l.withCaller {
		if _, file, line, ok := runtime.Caller(calldepth); ok {
			rec.File = file
			rec.Line = line
		}
	}

	line := l.formatter.Format(rec)
	atomic.AddUint64(&l.seq, 1)

	if l.history != nil {
		l.history.Append(line)
		for l.history.Length() > l.historyCap {
			if _, err := l.history.Dequeue(); err != nil {
				break
			}
		}
	}

	sink := l.sink
	l.mu.Unlock()

	sink.Write(line)
}
