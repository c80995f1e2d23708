package logtap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// FileSink appends log messages to a bounded, age-ordered set of files
// under one directory. Files are named <name>.<index>.log where index
// 0 is the active file and higher indexes are older generations; after
// any rotation at most maxFiles+1 files exist.
//
// Every write is a fresh open/append/close cycle, so no descriptor is
// held between calls and the active file may be rotated or deleted
// externally without breaking the sink. Writes and rotations on one
// instance serialize on an internal mutex; a flock on <name>.lock
// additionally guards the cycle against sibling processes using the
// same directory.
type FileSink struct {
	mu       sync.Mutex
	dir      string
	name     string
	maxFiles int
	maxSize  int64 // 0 disables size-triggered rotation
	compress bool
	handler  ErrorHandler
	fl       *flock.Flock
	cr       *cron.Cron

	schedule string // cron spec, applied once in NewFileSink
}

var _ Sink = (*FileSink)(nil)

// FileOption configures a FileSink at construction time.
type FileOption func(*FileSink) error

// WithMaxSize rotates before any write that would push the active file
// past size bytes. Zero (the default) disables the trigger; rotation
// then happens only through Rotate or a schedule.
func WithMaxSize(size int64) FileOption {
	return func(s *FileSink) error {
		if size < 0 {
			return &ConfigError{Field: "maxSize", Value: size}
		}
		s.maxSize = size
		return nil
	}
}

// WithCompression gzips each file as it leaves the active slot, so
// archives are stored as <name>.<index>.log.gz.
func WithCompression() FileOption {
	return func(s *FileSink) error {
		s.compress = true
		return nil
	}
}

// WithRotateSchedule rotates on a cron schedule (robfig/cron syntax,
// for example "0 0 * * *" for midnight). The schedule runs on a
// background goroutine owned by the sink; Close stops it.
func WithRotateSchedule(spec string) FileOption {
	return func(s *FileSink) error {
		if _, err := cron.ParseStandard(spec); err != nil {
			return &ConfigError{Field: "schedule", Value: spec, Err: err}
		}
		s.schedule = spec
		return nil
	}
}

// WithFileErrorHandler routes the sink's I/O failures to h.
func WithFileErrorHandler(h ErrorHandler) FileOption {
	return func(s *FileSink) error {
		if h == nil {
			return &ConfigError{Field: "errorHandler", Value: nil}
		}
		s.handler = h
		return nil
	}
}

// NewFileSink creates a sink rooted at dir. The directory is created
// if absent and an empty active file is created on first use of a new
// name. maxFiles bounds the retained rotated generations; it must be
// at least 1. Construction fails fast, leaving no partial state, when
// the directory or the active file cannot be created.
func NewFileSink(dir, name string, maxFiles int, opts ...FileOption) (*FileSink, error) {
	if strings.TrimSpace(name) == "" || strings.ContainsRune(name, os.PathSeparator) {
		return nil, &ConfigError{Field: "name", Value: name}
	}
	if maxFiles < 1 {
		return nil, &ConfigError{Field: "maxFiles", Value: maxFiles}
	}

	s := &FileSink{
		dir:      dir,
		name:     name,
		maxFiles: maxFiles,
		handler:  StderrErrorHandler,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating log directory %s", dir)
	}

	active := s.indexPath(0, false)
	if _, err := os.Stat(active); os.IsNotExist(err) {
		f, cerr := os.OpenFile(active, os.O_CREATE|os.O_WRONLY, 0o644)
		if cerr != nil {
			return nil, errors.Wrapf(cerr, "creating active log file %s", active)
		}
		if cerr := f.Close(); cerr != nil {
			return nil, errors.Wrapf(cerr, "closing active log file %s", active)
		}
	} else if err != nil {
		return nil, errors.Wrapf(err, "checking active log file %s", active)
	}

	s.fl = flock.New(filepath.Join(dir, name+".lock"))

	if s.schedule != "" {
		s.cr = cron.New()
		if _, err := s.cr.AddFunc(s.schedule, s.Rotate); err != nil {
			return nil, &ConfigError{Field: "schedule", Value: s.schedule, Err: err}
		}
		s.cr.Start()
	}

	return s, nil
}

// ActivePath returns the path of the active (index 0) file.
func (s *FileSink) ActivePath() string {
	return s.indexPath(0, false)
}

// indexPath builds the path for a given index, optionally the
// compressed variant.
func (s *FileSink) indexPath(index int, gz bool) string {
	p := filepath.Join(s.dir, fmt.Sprintf("%s.%d.log", s.name, index))
	if gz {
		p += ".gz"
	}
	return p
}

// SetErrorHandler routes I/O failures to h instead of stderr.
func (s *FileSink) SetErrorHandler(h ErrorHandler) {
	if h == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// Write implements Sink. The message is appended to the active file,
// creating it if a rotation or an external cleanup removed it. On
// failure the message is dropped and the error goes to the handler.
func (s *FileSink) Write(message string) {
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fl.Lock(); err != nil {
		report(s.handler, "lock", s.fl.Path(), err)
		return
	}
	defer s.fl.Unlock()

	if serr := s.writeLocked(message); serr != nil {
		report(s.handler, serr.Op, serr.Path, serr.Err)
	}
}

// writeLocked appends under both locks.
func (s *FileSink) writeLocked(message string) *SinkError {
	active := s.indexPath(0, false)

	if s.maxSize > 0 {
		if info, err := os.Stat(active); err == nil &&
			info.Size() > 0 && info.Size()+int64(len(message)) > s.maxSize {
			if serr := s.rotateLocked(); serr != nil {
				// A failed rotation must not cost the message; report
				// and fall through to the append.
				report(s.handler, serr.Op, serr.Path, serr.Err)
			}
		}
	}

	f, err := os.OpenFile(active, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return sinkErr("open", active, err)
	}
	if _, err := f.WriteString(message); err != nil {
		f.Close()
		return sinkErr("write", active, err)
	}
	if err := f.Close(); err != nil {
		return sinkErr("close", active, err)
	}
	return nil
}

// Close stops the rotation schedule, if any. The sink holds no other
// resources between calls.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cr != nil {
		s.cr.Stop()
		s.cr = nil
	}
	return nil
}
