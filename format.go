package logtap

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimestampFormat is the timestamp layout used by the built-in
// formatters when none is configured.
const DefaultTimestampFormat = "2006-01-02 15:04:05.000"

// Formatter renders a Record into a single output line. The logger
// treats it as an opaque collaborator; anything implementing this
// interface can be plugged in with WithFormatter.
type Formatter interface {
	Format(rec Record) string
}

// TextFormatter renders records as plain text:
//
//	2024-03-01 10:15:42.123 INFO  [svc#7] listening addr=:8080
//
// The zero value is ready to use.
type TextFormatter struct {
	// TimestampFormat is a Go time layout. Empty means
	// DefaultTimestampFormat.
	TimestampFormat string
	// TimeZone overrides the record's own location. Nil keeps it.
	TimeZone *time.Location
}

// Format implements Formatter.
func (f *TextFormatter) Format(rec Record) string {
	layout := f.TimestampFormat
	if layout == "" {
		layout = DefaultTimestampFormat
	}
	ts := rec.Time
	if f.TimeZone != nil {
		ts = ts.In(f.TimeZone)
	}

	var b strings.Builder
	b.WriteString(ts.Format(layout))
	b.WriteByte(' ')
	// Pad to the widest level name so columns line up.
	b.WriteString(fmt.Sprintf("%-6s", rec.Level.String()))
	b.WriteString(fmt.Sprintf("[%s#%d] ", rec.Label, rec.Seq))
	if rec.File != "" {
		b.WriteString(fmt.Sprintf("%s:%d ", filepath.Base(rec.File), rec.Line))
	}
	b.WriteString(rec.Message)
	for _, fld := range rec.Fields {
		b.WriteByte(' ')
		b.WriteString(fld.Key)
		b.WriteByte('=')
		b.WriteString(fld.render())
	}
	return b.String()
}

// JSONFormatter renders records as single-line JSON objects. Field
// values are rendered to strings first, so output never depends on the
// JSON encoding of arbitrary types.
type JSONFormatter struct {
	TimestampFormat string
}

type jsonEntry struct {
	Timestamp string            `json:"timestamp"`
	Level     string            `json:"level"`
	Label     string            `json:"label"`
	Seq       uint64            `json:"seq"`
	File      string            `json:"file,omitempty"`
	Line      int               `json:"line,omitempty"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// Format implements Formatter.
func (f *JSONFormatter) Format(rec Record) string {
	layout := f.TimestampFormat
	if layout == "" {
		layout = DefaultTimestampFormat
	}
	entry := jsonEntry{
		Timestamp: rec.Time.Format(layout),
		Level:     rec.Level.String(),
		Label:     rec.Label,
		Seq:       rec.Seq,
		File:      rec.File,
		Line:      rec.Line,
		Message:   rec.Message,
	}
	if len(rec.Fields) > 0 {
		entry.Fields = make(map[string]string, len(rec.Fields))
		for _, fld := range rec.Fields {
			entry.Fields[fld.Key] = fld.render()
		}
	}
	out, err := json.Marshal(entry)
	if err != nil {
		// Marshal of a map[string]string cannot realistically fail;
		// degrade to text rather than drop the message.
		return (&TextFormatter{TimestampFormat: layout}).Format(rec)
	}
	return string(out)
}
