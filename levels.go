package logtap

import "strings"

// Level classifies log messages by severity. Levels form a total
// order: LevelDebug < LevelInfo < LevelNotice < LevelWarn < LevelError.
type Level int

const (
	// LevelDebug is for verbose diagnostic output.
	LevelDebug Level = iota
	// LevelInfo is for routine operational messages.
	LevelInfo
	// LevelNotice is for normal but significant events.
	LevelNotice
	// LevelWarn is for conditions that may need attention.
	LevelWarn
	// LevelError is for failures.
	LevelError
)

// String returns the canonical upper-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelNotice:
		return "NOTICE"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// valid reports whether l is one of the defined levels.
func (l Level) valid() bool {
	return l >= LevelDebug && l <= LevelError
}

// ParseLevel converts a level name to a Level. Matching is
// case-insensitive and accepts the common aliases "warning" and "err".
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "notice":
		return LevelNotice, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error", "err":
		return LevelError, nil
	default:
		return LevelInfo, &ConfigError{Field: "level", Value: name}
	}
}
