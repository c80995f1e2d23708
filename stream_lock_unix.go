//go:build unix

package logtap

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockStream takes an exclusive advisory flock on the stream's
// descriptor. It reports whether the lock was actually acquired;
// descriptors that don't support flock are treated as unlockable.
func lockStream(f *os.File) bool {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX) == nil
}

func unlockStream(f *os.File) {
	// Release failures leave nothing actionable; the fd is still ours.
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
