package models

import "time"

// StoredTime is t in UTC at the microsecond precision both document stores keep.
func StoredTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// String returns a pointer to s, for building request bodies.
func String(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
