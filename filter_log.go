package logviewer

import (
	"sort"
	"strings"
	"time"

	"github.com/blutspende/logviewer/utils"
)

type timestampBound struct {
	set   bool
	valid bool
	value time.Time
}

func parseTimestampBound(in string) timestampBound {
	if in == "" {
		return timestampBound{}
	}
	parsed, err := utils.ParseISO8601(in)
	return timestampBound{set: true, valid: err == nil, value: parsed}
}

// ApplyLogFilter returns the entries matching every supplied criterion, most recent first.
// Entries with equal timestamps keep their input order. The input slice is not modified.
func ApplyLogFilter(logs []LogEntry, filter LogFilter) []LogEntry {
	start := parseTimestampBound(filter.TimestampStart)
	end := parseTimestampBound(filter.TimestampEnd)
	message := strings.ToLower(filter.Message)

	type candidate struct {
		entry     LogEntry
		timestamp time.Time
		parsed    bool
	}

	matches := make([]candidate, 0, len(logs))
	for _, entry := range logs {
		if len(filter.Levels) > 0 && !utils.SliceContains(entry.Level, filter.Levels) {
			continue
		}
		if message != "" && !strings.Contains(strings.ToLower(entry.Message), message) {
			continue
		}
		if filter.ResourceID != "" && entry.ResourceID != filter.ResourceID {
			continue
		}
		if filter.TraceID != "" && entry.TraceID != filter.TraceID {
			continue
		}
		if filter.SpanID != "" && entry.SpanID != filter.SpanID {
			continue
		}
		if filter.Commit != "" && entry.Commit != filter.Commit {
			continue
		}

		timestamp, err := utils.ParseISO8601(entry.Timestamp)
		parsed := err == nil
		if start.set && (!start.valid || !parsed || timestamp.Before(start.value)) {
			continue
		}
		if end.set && (!end.valid || !parsed || timestamp.After(end.value)) {
			continue
		}

		matches = append(matches, candidate{entry: entry, timestamp: timestamp, parsed: parsed})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].parsed != matches[j].parsed {
			return matches[i].parsed
		}
		return matches[i].timestamp.After(matches[j].timestamp)
	})

	result := make([]LogEntry, len(matches))
	for i := range matches {
		result[i] = matches[i].entry
	}
	return result
}
