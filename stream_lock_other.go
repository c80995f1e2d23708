//go:build !unix

package logtap

import "os"

// Advisory stream locking is unix-only; elsewhere the per-fd mutex in
// stream.go is the whole story.
func lockStream(*os.File) bool { return false }

func unlockStream(*os.File) {}
