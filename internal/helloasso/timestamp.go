package helloasso

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// offsetPattern matches a trailing numeric UTC offset, with or without the colon
// and with a one or two digit hour: +01:00, +0100, +1:00, +100, +01, +1.
var offsetPattern = regexp.MustCompile(`([+-])(\d{1,2})(?::?(\d{2}))?$`)

// NormalizeOffset rewrites the UTC offset of an ISO-8601 timestamp into the
// ±HH:MM form. Timestamps ending with Z or without a recognizable offset are
// returned unchanged.
func NormalizeOffset(s string) string {
	t := strings.IndexByte(s, 'T')
	if t < 0 {
		return s
	}
	date, clock := s[:t+1], s[t+1:]

	m := offsetPattern.FindStringSubmatchIndex(clock)
	if m == nil {
		return s
	}

	sign := clock[m[2]:m[3]]
	hours := clock[m[4]:m[5]]
	minutes := "00"
	if m[6] >= 0 {
		minutes = clock[m[6]:m[7]]
	}
	if len(hours) == 1 {
		hours = "0" + hours
	}

	return date + clock[:m[0]] + sign + hours + ":" + minutes
}

// ParseTimestamp parses an ISO-8601 timestamp with optional fractional seconds
// and a numeric offset, normalizing the offset first.
func ParseTimestamp(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339Nano, NormalizeOffset(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// Timestamp is a time decoded with ParseTimestamp
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedTimestamp, data)
	}

	t, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	ts.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339Nano))
}
