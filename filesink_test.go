package logtap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// collectErrors returns a handler that records every LogError.
func collectErrors(t *testing.T) (ErrorHandler, func() []LogError) {
	t.Helper()
	var mu sync.Mutex
	var got []LogError
	handler := func(e LogError) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
	}
	return handler, func() []LogError {
		mu.Lock()
		defer mu.Unlock()
		return append([]LogError(nil), got...)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func mustFileSink(t *testing.T, dir, name string, maxFiles int, opts ...FileOption) *FileSink {
	t.Helper()
	sink, err := NewFileSink(dir, name, maxFiles, opts...)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	t.Cleanup(func() { sink.Close() })
	return sink
}

func TestNewFileSinkCreatesActiveFile(t *testing.T) {
	dir := t.TempDir()
	sink := mustFileSink(t, dir, "svc", 2)

	info, err := os.Stat(sink.ActivePath())
	if err != nil {
		t.Fatalf("active file missing: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("fresh active file has size %d, want 0", info.Size())
	}
}

func TestNewFileSinkCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	sink := mustFileSink(t, dir, "svc", 2)
	if _, err := os.Stat(sink.ActivePath()); err != nil {
		t.Fatalf("active file missing: %v", err)
	}
}

func TestNewFileSinkFailsFast(t *testing.T) {
	// A regular file where the directory should go.
	blocked := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileSink(blocked, "svc", 2); err == nil {
		t.Fatal("expected error when log directory cannot be created")
	}
}

func TestNewFileSinkValidation(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name     string
		maxFiles int
	}{
		{"", 2},
		{"   ", 2},
		{"has" + string(os.PathSeparator) + "sep", 2},
		{"svc", 0},
		{"svc", -1},
	}
	for _, tc := range cases {
		_, err := NewFileSink(dir, tc.name, tc.maxFiles)
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("NewFileSink(%q, %d): expected ConfigError, got %v", tc.name, tc.maxFiles, err)
		}
	}
}

func TestBadRotateScheduleRejected(t *testing.T) {
	_, err := NewFileSink(t.TempDir(), "svc", 2, WithRotateSchedule("not a cron spec"))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for bad schedule, got %v", err)
	}
}

func TestWriteAppendsLines(t *testing.T) {
	sink := mustFileSink(t, t.TempDir(), "svc", 2)

	sink.Write("first")
	sink.Write("second\n")

	got := readFile(t, sink.ActivePath())
	if got != "first\nsecond\n" {
		t.Errorf("active file = %q, want %q", got, "first\nsecond\n")
	}
}

func TestWriteRecreatesActiveFile(t *testing.T) {
	sink := mustFileSink(t, t.TempDir(), "svc", 2)

	if err := os.Remove(sink.ActivePath()); err != nil {
		t.Fatal(err)
	}
	sink.Write("back")
	if got := readFile(t, sink.ActivePath()); got != "back\n" {
		t.Errorf("active file = %q, want %q", got, "back\n")
	}
}

func TestRotateEmptyActiveIsNoop(t *testing.T) {
	dir := t.TempDir()
	sink := mustFileSink(t, dir, "svc", 2)

	sink.Rotate()

	if _, err := os.Stat(filepath.Join(dir, "svc.1.log")); !os.IsNotExist(err) {
		t.Error("rotating an empty active file should not create archives")
	}
	info, err := os.Stat(sink.ActivePath())
	if err != nil {
		t.Fatalf("active file missing after no-op rotate: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("active file size = %d, want 0", info.Size())
	}
}

func TestRotateMissingActiveIsNoop(t *testing.T) {
	dir := t.TempDir()
	sink := mustFileSink(t, dir, "svc", 2)
	if err := os.Remove(sink.ActivePath()); err != nil {
		t.Fatal(err)
	}

	sink.Rotate()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".log") {
			t.Errorf("unexpected file after rotating missing active: %s", e.Name())
		}
	}
}

// The canonical shift scenario: with maxFiles=2, three write+rotate
// cycles must leave an empty active file, the two newest generations,
// and nothing past index 2.
func TestRotateShiftsAndPrunes(t *testing.T) {
	dir := t.TempDir()
	sink := mustFileSink(t, dir, "svc", 2)

	for _, msg := range []string{"A", "B", "C"} {
		sink.Write(msg)
		sink.Rotate()
	}

	if got := readFile(t, filepath.Join(dir, "svc.0.log")); got != "" {
		t.Errorf("svc.0.log = %q, want empty", got)
	}
	if got := readFile(t, filepath.Join(dir, "svc.1.log")); got != "C\n" {
		t.Errorf("svc.1.log = %q, want %q", got, "C\n")
	}
	if got := readFile(t, filepath.Join(dir, "svc.2.log")); got != "B\n" {
		t.Errorf("svc.2.log = %q, want %q", got, "B\n")
	}
	if _, err := os.Stat(filepath.Join(dir, "svc.3.log")); !os.IsNotExist(err) {
		t.Error("svc.3.log should have been deleted")
	}
}

func TestRotationBoundInvariant(t *testing.T) {
	dir := t.TempDir()
	const maxFiles = 3
	sink := mustFileSink(t, dir, "svc", maxFiles)

	generations := []string{"g0", "g1", "g2", "g3", "g4", "g5"}
	for _, g := range generations {
		sink.Write(g)
		sink.Rotate()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var logs []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".log") {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) > maxFiles+1 {
		t.Errorf("found %d log files %v, want at most %d", len(logs), logs, maxFiles+1)
	}

	// Index i holds generation N-i; older generations are gone.
	for i := 1; i <= maxFiles; i++ {
		want := generations[len(generations)-i] + "\n"
		got := readFile(t, filepath.Join(dir, fmt.Sprintf("svc.%d.log", i)))
		if got != want {
			t.Errorf("svc.%d.log = %q, want %q", i, got, want)
		}
	}
}

func TestMaxSizeTriggersRotation(t *testing.T) {
	dir := t.TempDir()
	sink := mustFileSink(t, dir, "svc", 2, WithMaxSize(10))

	sink.Write("1234567") // 8 bytes with newline, under the bound
	sink.Write("abcdefg") // would exceed 10, rotates first

	if got := readFile(t, filepath.Join(dir, "svc.1.log")); got != "1234567\n" {
		t.Errorf("svc.1.log = %q, want %q", got, "1234567\n")
	}
	if got := readFile(t, sink.ActivePath()); got != "abcdefg\n" {
		t.Errorf("svc.0.log = %q, want %q", got, "abcdefg\n")
	}
}

func TestCompressionOnRotate(t *testing.T) {
	dir := t.TempDir()
	sink := mustFileSink(t, dir, "svc", 3, WithCompression())

	sink.Write("hello")
	sink.Rotate()
	sink.Write("world")
	sink.Rotate()

	if _, err := os.Stat(filepath.Join(dir, "svc.1.log")); !os.IsNotExist(err) {
		t.Error("plain svc.1.log should have been replaced by the gzip archive")
	}

	checkGz := func(path, want string) {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("opening %s: %v", path, err)
		}
		defer f.Close()
		gr, err := gzip.NewReader(f)
		if err != nil {
			t.Fatalf("gzip reader for %s: %v", path, err)
		}
		defer gr.Close()
		var sb strings.Builder
		buf := make([]byte, 256)
		for {
			n, rerr := gr.Read(buf)
			sb.Write(buf[:n])
			if rerr != nil {
				break
			}
		}
		if sb.String() != want {
			t.Errorf("%s contents = %q, want %q", path, sb.String(), want)
		}
	}
	checkGz(filepath.Join(dir, "svc.1.log.gz"), "world\n")
	checkGz(filepath.Join(dir, "svc.2.log.gz"), "hello\n")
}

func TestRemoveAllDeletesManagedFiles(t *testing.T) {
	dir := t.TempDir()
	sink := mustFileSink(t, dir, "svc", 2, WithCompression())

	sink.Write("a")
	sink.Rotate()
	sink.Write("b")

	if err := sink.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("leftover file after RemoveAll: %s", e.Name())
	}
}

func TestWriteFailureGoesToHandler(t *testing.T) {
	dir := t.TempDir()
	handler, errs := collectErrors(t)
	sink := mustFileSink(t, dir, "svc", 2, WithFileErrorHandler(handler))

	// Pull the directory out from under the sink; both the lock file
	// and the active file become uncreatable.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	sink.Write("lost") // must not panic and must not return an error

	if len(errs()) == 0 {
		t.Error("expected at least one error on the side channel")
	}
}

func TestConcurrentWritesAndRotations(t *testing.T) {
	dir := t.TempDir()
	sink := mustFileSink(t, dir, "svc", 4)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				sink.Write(strings.Repeat("x", 20))
				if i%10 == 0 {
					sink.Rotate()
				}
			}
		}(w)
	}
	wg.Wait()

	// Every surviving line must be intact; rotation must never tear a
	// message in half.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		content := readFile(t, filepath.Join(dir, e.Name()))
		for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
			if line == "" {
				continue
			}
			if line != strings.Repeat("x", 20) {
				t.Errorf("%s contains torn line %q", e.Name(), line)
			}
		}
	}
}
