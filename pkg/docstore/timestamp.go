package docstore

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TimestampLayout is the ISO-8601 form written to storage: microsecond precision with
// an explicit UTC offset.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// layouts accepted on read, tried in order. Naive layouts (no offset) are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp converts a stored timestamp to a UTC time. Strings in ISO-8601 form
// (with or without offset or fractional seconds), BSON datetimes and time values are
// accepted.
func ParseTimestamp(v any) (time.Time, error) {
	switch ts := v.(type) {
	case time.Time:
		return ts.UTC(), nil
	case bson.DateTime:
		return ts.Time().UTC(), nil
	case string:
		return parseTimestampString(ts)
	case nil:
		return time.Time{}, fmt.Errorf("timestamp is missing")
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseTimestampString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
