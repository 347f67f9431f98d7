package logviewer

import (
	"bytes"
	"encoding/json"
)

type LogLevel string // @Name LogLevel

const (
	Info    LogLevel = "info"
	Warning LogLevel = "warning"
	Error   LogLevel = "error"
	Debug   LogLevel = "debug"
)

// LogLevels lists the accepted levels in the order they are reported to clients.
var LogLevels = []LogLevel{Info, Warning, Error, Debug}

// LogEntry is one persisted log record. Timestamp keeps the exact ISO-8601 string the client sent.
type LogEntry struct {
	ID         string                 `json:"id"`         // Server generated identifier
	Level      LogLevel               `json:"level"`      // The log level
	Message    string                 `json:"message"`    // The log message
	ResourceID string                 `json:"resourceId"` // The emitting resource
	Timestamp  string                 `json:"timestamp"`  // ISO-8601 date-time
	TraceID    string                 `json:"traceId"`    // Trace correlation ID
	SpanID     string                 `json:"spanId"`     // Span correlation ID
	Commit     string                 `json:"commit"`     // Commit of the emitting build
	Metadata   map[string]interface{} `json:"metadata"`   // Optional, an empty object is kept as given
} // @Name LogEntry

// LogEntryDraft is a validated create payload. It only becomes a LogEntry once the repository assigns an ID.
type LogEntryDraft struct {
	Level      LogLevel               `json:"level"`
	Message    string                 `json:"message"`
	ResourceID string                 `json:"resourceId"`
	Timestamp  string                 `json:"timestamp"`
	TraceID    string                 `json:"traceId"`
	SpanID     string                 `json:"spanId"`
	Commit     string                 `json:"commit"`
	Metadata   map[string]interface{} `json:"metadata"`
}

func (d LogEntryDraft) toLogEntry(id string) LogEntry {
	return LogEntry{
		ID:         id,
		Level:      d.Level,
		Message:    d.Message,
		ResourceID: d.ResourceID,
		Timestamp:  d.Timestamp,
		TraceID:    d.TraceID,
		SpanID:     d.SpanID,
		Commit:     d.Commit,
		Metadata:   d.Metadata,
	}
}

// LogFilter holds the optional listing criteria. Empty fields do not constrain the result.
type LogFilter struct {
	Levels         []LogLevel
	Message        string
	ResourceID     string
	TraceID        string
	SpanID         string
	Commit         string
	TimestampStart string
	TimestampEnd   string
}

type logEntryJSON LogEntry

type logEntryDraftJSON LogEntryDraft

// MarshalJSON omits metadata only when it is absent. An empty object survives.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	if e.Metadata != nil {
		return marshalUnescaped(logEntryJSON(e))
	}
	return marshalUnescaped(struct {
		logEntryJSON
		Metadata *struct{} `json:"metadata,omitempty"`
	}{logEntryJSON: logEntryJSON(e)})
}

func (d LogEntryDraft) MarshalJSON() ([]byte, error) {
	if d.Metadata != nil {
		return marshalUnescaped(logEntryDraftJSON(d))
	}
	return marshalUnescaped(struct {
		logEntryDraftJSON
		Metadata *struct{} `json:"metadata,omitempty"`
	}{logEntryDraftJSON: logEntryDraftJSON(d)})
}

// marshalUnescaped keeps <, > and & as written.
func marshalUnescaped(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
