package logtap

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefaultLogDir(t *testing.T) {
	dir, err := DefaultLogDir("myapp")
	if err != nil {
		t.Fatalf("DefaultLogDir: %v", err)
	}
	if dir == "" || !strings.Contains(dir, "myapp") {
		t.Errorf("DefaultLogDir = %q, want a path containing the app name", dir)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("DefaultLogDir = %q, want an absolute path", dir)
	}
}

func TestDefaultLogDirEmptyName(t *testing.T) {
	if _, err := DefaultLogDir(""); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestDefaultLogDirXDGStateHome(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG layout only applies to unix-like platforms")
	}
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	dir, err := DefaultLogDir("myapp")
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/state", "myapp", "log") {
		t.Errorf("DefaultLogDir = %q", dir)
	}
}
