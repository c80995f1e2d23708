package logtap

import (
	"fmt"
	"strconv"
	"time"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt64
	kindUint64
	kindFloat64
	kindBool
	kindDuration
	kindTime
	kindError
	kindStringer
)

// Field is a typed key-value pair attached to a log record. Each
// constructor fixes the value's kind up front so rendering never goes
// through reflection or a bare interface{} payload.
type Field struct {
	Key string

	kind     fieldKind
	str      string
	num      int64
	unum     uint64
	fnum     float64
	yes      bool
	stamp    time.Time
	err      error
	stringer fmt.Stringer
}

// String constructs a string-valued field.
func String(key, value string) Field {
	return Field{Key: key, kind: kindString, str: value}
}

// Int constructs an integer-valued field.
func Int(key string, value int) Field {
	return Int64(key, int64(value))
}

// Int64 constructs an int64-valued field.
func Int64(key string, value int64) Field {
	return Field{Key: key, kind: kindInt64, num: value}
}

// Uint64 constructs a uint64-valued field.
func Uint64(key string, value uint64) Field {
	return Field{Key: key, kind: kindUint64, unum: value}
}

// Float64 constructs a float64-valued field.
func Float64(key string, value float64) Field {
	return Field{Key: key, kind: kindFloat64, fnum: value}
}

// Bool constructs a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, kind: kindBool, yes: value}
}

// Duration constructs a duration field rendered via time.Duration.String.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, kind: kindDuration, num: int64(value)}
}

// Time constructs a timestamp field rendered in RFC 3339 form.
func Time(key string, value time.Time) Field {
	return Field{Key: key, kind: kindTime, stamp: value}
}

// Err constructs a field holding an error under the key "error".
// A nil error renders as "<nil>".
func Err(err error) Field {
	return Field{Key: "error", kind: kindError, err: err}
}

// Stringer constructs a field whose value is rendered lazily through
// the value's own String method.
func Stringer(key string, value fmt.Stringer) Field {
	return Field{Key: key, kind: kindStringer, stringer: value}
}

// render converts the field value to its string form.
func (f Field) render() string {
	switch f.kind {
	case kindString:
		return f.str
	case kindInt64:
		return strconv.FormatInt(f.num, 10)
	case kindUint64:
		return strconv.FormatUint(f.unum, 10)
	case kindFloat64:
		return strconv.FormatFloat(f.fnum, 'g', -1, 64)
	case kindBool:
		return strconv.FormatBool(f.yes)
	case kindDuration:
		return time.Duration(f.num).String()
	case kindTime:
		return f.stamp.Format(time.RFC3339)
	case kindError:
		if f.err == nil {
			return "<nil>"
		}
		return f.err.Error()
	case kindStringer:
		if f.stringer == nil {
			return "<nil>"
		}
		return f.stringer.String()
	default:
		return ""
	}
}
