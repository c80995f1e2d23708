package logtap

// Sink is a destination that durably records a formatted log message.
// Write never returns an error: sinks swallow their own I/O failures
// and report them through their ErrorHandler, so logging calls are
// non-failing from the caller's perspective. Messages are written as
// complete lines; a sink appends the trailing newline if the message
// lacks one.
type Sink interface {
	Write(message string)
}

// NullSink discards every message. It stands in for destinations that
// are handled entirely outside this package, such as the platform's
// native log facility.
type NullSink struct{}

// Write implements Sink.
func (NullSink) Write(string) {}
