package logtap

import "time"

// Record is the ephemeral unit handed to a Formatter. It is built per
// accepted log call, consumed immediately, and never stored beyond the
// logger's optional in-memory history (which keeps the formatted line,
// not the record).
type Record struct {
	Time    time.Time
	Level   Level
	Label   string // logger label, never empty
	Seq     uint64 // per-logger sequence number, first accepted call is 0
	File    string // caller file, empty unless WithCaller is set
	Line    int
	Message string
	Fields  []Field
}
