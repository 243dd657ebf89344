package screener

import (
	"time"
)

// naiveLayouts cover close-time strings without timezone information, which
// the exchange occasionally emits. They are interpreted as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseCloseTime parses an ISO-8601 close-time string into epoch seconds.
// A "Z" suffix is UTC; a timestamp without timezone info is assumed UTC.
// The boolean is false for empty or unparseable input; failures are never
// coerced into a sentinel timestamp.
func ParseCloseTime(value string) (int64, bool) {
	if value == "" {
		return 0, false
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Unix(), true
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.Unix(), true
		}
	}
	return 0, false
}
