package logtap

// Option configures a Logger at construction time. Options validate
// eagerly; New fails on the first invalid one.
type Option func(*Logger) error

// WithLevel sets the minimum severity that reaches the sink. The
// default is LevelInfo.
func WithLevel(level Level) Option {
	return func(l *Logger) error {
		if !level.valid() {
			return &ConfigError{Field: "level", Value: int(level)}
		}
		l.level = level
		return nil
	}
}

// WithSink sets the initial sink. The default is a StreamSink on
// os.Stderr.
func WithSink(sink Sink) Option {
	return func(l *Logger) error {
		if sink == nil {
			return &ConfigError{Field: "sink", Value: nil}
		}
		l.sink = sink
		return nil
	}
}

// WithFormatter sets the formatter collaborator. The default is a
// plain TextFormatter.
func WithFormatter(f Formatter) Option {
	return func(l *Logger) error {
		if f == nil {
			return &ConfigError{Field: "formatter", Value: nil}
		}
		l.formatter = f
		return nil
	}
}

// WithErrorHandler routes the logger's and its constructed sinks'
// internal failures to h. The default writes to stderr.
func WithErrorHandler(h ErrorHandler) Option {
	return func(l *Logger) error {
		if h == nil {
			return &ConfigError{Field: "errorHandler", Value: nil}
		}
		l.handler = h
		return nil
	}
}

// WithHistory keeps the last capacity formatted lines in memory,
// retrievable with History. Off by default.
func WithHistory(capacity int) Option {
	return func(l *Logger) error {
		if capacity <= 0 {
			return &ConfigError{Field: "historyCapacity", Value: capacity}
		}
		l.historyCap = capacity
		return nil
	}
}

// WithCaller records the call site (file and line) on each record.
func WithCaller() Option {
	return func(l *Logger) error {
		l.withCaller = true
		return nil
	}
}

// WithLogDir overrides the directory used when SetFileOutput switches
// to file output. The default is DefaultLogDir(label).
func WithLogDir(dir string) Option {
	return func(l *Logger) error {
		if dir == "" {
			return &ConfigError{Field: "logDir", Value: dir}
		}
		l.fileDir = dir
		return nil
	}
}

// WithMaxFiles bounds the rotated generations kept by a file sink
// constructed through SetFileOutput. The default is 5.
func WithMaxFiles(count int) Option {
	return func(l *Logger) error {
		if count < 1 {
			return &ConfigError{Field: "maxFiles", Value: count}
		}
		l.fileMax = count
		return nil
	}
}

// WithFileOptions forwards sink options (size trigger, compression,
// schedule) to file sinks constructed through SetFileOutput.
func WithFileOptions(opts ...FileOption) Option {
	return func(l *Logger) error {
		l.fileOpts = append(l.fileOpts, opts...)
		return nil
	}
}
