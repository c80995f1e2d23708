package logtap

import (
	"os"
	"strings"
	"sync"
)

// Shared per-fd mutexes so two StreamSinks wrapping the same OS handle
// (for example two loggers on os.Stderr) still serialize their writes.
var (
	streamMuMu  sync.Mutex
	streamMutex = make(map[uintptr]*sync.Mutex)
)

func mutexForFd(fd uintptr) *sync.Mutex {
	streamMuMu.Lock()
	defer streamMuMu.Unlock()
	mu, ok := streamMutex[fd]
	if !ok {
		mu = &sync.Mutex{}
		streamMutex[fd] = mu
	}
	return mu
}

// StreamSink writes messages to a shared OS stream such as os.Stdout
// or os.Stderr. Each write holds an exclusive lock scoped to the
// underlying handle: a process-local mutex keyed by file descriptor,
// plus an advisory flock on the descriptor itself where the platform
// supports it. The stream is written unbuffered, so every message is
// flushed by the time Write returns.
//
// The sink does not own the handle and never closes it.
type StreamSink struct {
	out     *os.File
	mu      *sync.Mutex
	handler ErrorHandler
}

var _ Sink = (*StreamSink)(nil)

// NewStreamSink wraps out, which must be non-nil and open for the
// lifetime of the sink.
func NewStreamSink(out *os.File) *StreamSink {
	return &StreamSink{
		out:     out,
		mu:      mutexForFd(out.Fd()),
		handler: StderrErrorHandler,
	}
}

// SetErrorHandler routes write failures to h instead of stderr.
func (s *StreamSink) SetErrorHandler(h ErrorHandler) {
	if h != nil {
		s.handler = h
	}
}

// Write implements Sink. A failed OS write is reported through the
// error handler and the message is dropped; the lock is released on
// every exit path.
func (s *StreamSink) Write(message string) {
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Advisory lock on the handle guards against other writers of the
	// same stream outside this process. Streams that refuse flock
	// (ttys, pipes on some platforms) are tolerated.
	if lockStream(s.out) {
		defer unlockStream(s.out)
	}

	if _, err := s.out.WriteString(message); err != nil {
		report(s.handler, "write", s.out.Name(), err)
	}
}
