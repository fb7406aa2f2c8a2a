package dataset

import (
	"encoding/json"
	"strings"
	"time"
)

// timeLayouts lists the timestamp formats the upstream backend emits,
// tried in order. Layouts without a zone parse as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time is a nullable timestamp. Unparseable or missing values decode to an
// invalid Time rather than an error; derivations must skip invalid rows
// instead of treating the zero time as a real instant.
type Time struct {
	time.Time
	Valid bool
}

// NewTime returns a valid Time at t.
func NewTime(t time.Time) Time {
	return Time{Time: t, Valid: true}
}

// ParseTime parses s against the known layouts. The second return value
// reports whether parsing succeeded.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UnmarshalJSON decodes a JSON string (or null) into a Time. Any value that
// is not a parseable timestamp string yields an invalid Time.
func (t *Time) UnmarshalJSON(data []byte) error {
	*t = Time{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if parsed, ok := ParseTime(s); ok {
		// Normalize zone-carrying timestamps so day bucketing is
		// deterministic regardless of the offset the backend sent.
		*t = Time{Time: parsed.UTC(), Valid: true}
	}
	return nil
}

// MarshalJSON encodes a valid Time as RFC 3339, and an invalid one as null.
func (t Time) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
