package logtap

import (
	"fmt"
	"os"
	"time"
)

// LogError describes a failure inside a sink or the logger façade.
// Sinks never surface I/O errors to the logging call site; they build
// a LogError and hand it to the configured ErrorHandler instead.
type LogError struct {
	Time time.Time
	Op   string // "write", "rotate", "open", "compress", ...
	Path string // file or stream involved, may be empty
	Err  error
}

// Error implements the error interface.
func (e LogError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] logtap: %s on %s: %v",
			e.Time.Format("2006-01-02 15:04:05"), e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] logtap: %s: %v",
		e.Time.Format("2006-01-02 15:04:05"), e.Op, e.Err)
}

// ErrorHandler receives sink and logger failures out of band.
type ErrorHandler func(LogError)

// StderrErrorHandler writes the error to stderr. This is the default.
func StderrErrorHandler(err LogError) {
	fmt.Fprintf(os.Stderr, "%s\n", err.Error())
}

// SilentErrorHandler discards all errors.
func SilentErrorHandler(LogError) {}

// MultiErrorHandler fans an error out to several handlers.
func MultiErrorHandler(handlers ...ErrorHandler) ErrorHandler {
	return func(err LogError) {
		for _, h := range handlers {
			if h != nil {
				h(err)
			}
		}
	}
}

// ChannelErrorHandler sends errors to ch without blocking; when the
// channel is full the error falls back to stderr.
func ChannelErrorHandler(ch chan<- LogError) ErrorHandler {
	return func(err LogError) {
		select {
		case ch <- err:
		default:
			StderrErrorHandler(err)
		}
	}
}

// report invokes h with a timestamped LogError, tolerating a nil handler.
func report(h ErrorHandler, op, path string, err error) {
	if h == nil {
		h = StderrErrorHandler
	}
	h(LogError{Time: time.Now(), Op: op, Path: path, Err: err})
}
