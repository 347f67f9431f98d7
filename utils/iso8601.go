package utils

import (
	"errors"
	"time"
)

var ErrInvalidISO8601 = errors.New("invalid time format of string. This string should be in format of ISO8601")

// Accepted ISO-8601 layouts: date and time joined by T or a space, minutes or seconds precision, and an
// offset written as Z, ±hh:mm, ±hhmm, ±hh or left out. Fractional seconds are accepted after the seconds field.
var iso8601Layouts = buildISO8601Layouts()

func buildISO8601Layouts() []string {
	layouts := make([]string, 0, 17)
	for _, separator := range []string{"T", " "} {
		for _, clock := range []string{"15:04:05", "15:04"} {
			for _, zone := range []string{"Z07:00", "Z0700", "Z07", ""} {
				layouts = append(layouts, "2006-01-02"+separator+clock+zone)
			}
		}
	}
	return append(layouts, "2006-01-02")
}

// ParseISO8601 parses an ISO-8601 date or date-time. Values without a zone offset are read as UTC.
func ParseISO8601(timeString string) (time.Time, error) {
	for _, layout := range iso8601Layouts {
		if parsed, err := time.ParseInLocation(layout, timeString, time.UTC); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, ErrInvalidISO8601
}
