package model

import (
	"fmt"
	"time"
)

// TimeLayout is the wire format for every timestamp: UTC with
// millisecond precision and a literal Z suffix.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// SentinelTime marks "no submission" slots in ranklists.
const SentinelTime = "9999-12-31T23:59:59.999Z"

// Timestamp is a UTC instant with millisecond precision that
// round-trips through JSON in the fixed wire layout.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to the wire precision
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Millisecond)}
}

// Now returns the current instant as a Timestamp
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// ParseTimestamp parses a wire-format timestamp
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return Timestamp{t}, nil
}

// Sentinel returns the sentinel timestamp
func Sentinel() Timestamp {
	t, _ := ParseTimestamp(SentinelTime)
	return t
}

// IsSentinel reports whether ts is the sentinel timestamp
func (ts Timestamp) IsSentinel() bool {
	return ts.String() == SentinelTime
}

// String renders the wire format
func (ts Timestamp) String() string {
	return ts.UTC().Format(TimeLayout)
}

// MarshalJSON implements json.Marshaler
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid timestamp literal %s", string(data))
	}
	parsed, err := ParseTimestamp(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
