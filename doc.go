// Package logtap is a small leveled logging facility with pluggable
// output sinks. Formatted records are dispatched to one of several
// interchangeable destinations: a shared console stream serialized by
// advisory locks, a count-bounded rotating log file, or a discard sink
// standing in for an external OS logging facility.
//
// Logging calls never fail from the caller's perspective. Every sink
// swallows its own I/O errors and reports them through an ErrorHandler
// side channel, so a broken disk or a closed stream degrades to dropped
// messages and a diagnostic line, never a crash in the host program.
//
// Basic Usage:
//
//	logger, err := logtap.New("svc",
//		logtap.WithLevel(logtap.LevelDebug),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	logger.Info("listening", logtap.String("addr", ":8080"))
//	logger.Error("connect failed", logtap.Err(err))
//
// File Output:
//
//	// Switch the active sink to a rotating file under the
//	// platform-conventional user log directory.
//	logger.SetFileOutput(true)
//
// Rotating files are named <name>.<index>.log with index 0 the active
// file; rotation shifts every index up by one and deletes whatever
// falls past the retention bound. See FileSink for details.
package logtap
