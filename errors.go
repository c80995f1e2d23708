package logtap

import "fmt"

// ConfigError reports an invalid configuration value. These are
// precondition violations (programmer error) and are returned to the
// caller rather than routed through the error side channel.
type ConfigError struct {
	Field string      // configuration field that failed
	Value interface{} // the offending value
	Err   error       // underlying error, may be nil
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("logtap: invalid %s %q: %v", e.Field, fmt.Sprint(e.Value), e.Err)
	}
	return fmt.Sprintf("logtap: invalid %s %q", e.Field, fmt.Sprint(e.Value))
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SinkError reports a failed I/O operation inside a sink.
type SinkError struct {
	Op   string // operation that failed: "open", "write", "rename", "remove", ...
	Path string // file or stream the operation targeted
	Err  error  // underlying error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("logtap: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// sinkErr builds a SinkError; kept as a helper so call sites stay short.
func sinkErr(op, path string, err error) *SinkError {
	return &SinkError{Op: op, Path: path, Err: err}
}
