package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampParseFormatFixedPoint(t *testing.T) {
	inputs := []string{
		"2022-08-27T02:05:29.000Z",
		"0001-01-01T02:00:00.001Z",
		"9999-12-31T23:59:59.999Z",
	}
	for _, in := range inputs {
		ts, err := ParseTimestamp(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if ts.String() != in {
			t.Fatalf("round trip %q -> %q", in, ts.String())
		}
	}
}

func TestTimestampRejectsOtherLayouts(t *testing.T) {
	bad := []string{
		"2022-08-27T02:05:29Z",
		"2022-08-27 02:05:29.000",
		"not a time",
	}
	for _, in := range bad {
		if _, err := ParseTimestamp(in); err == nil {
			t.Fatalf("expected parse failure for %q", in)
		}
	}
}

func TestTimestampTruncatesToMilliseconds(t *testing.T) {
	ts := NewTimestamp(time.Date(2026, 8, 24, 10, 0, 0, 123456789, time.UTC))
	if ts.String() != "2026-08-24T10:00:00.123Z" {
		t.Fatalf("got %q", ts.String())
	}
}

func TestTimestampSentinel(t *testing.T) {
	if !Sentinel().IsSentinel() {
		t.Fatalf("sentinel must report itself")
	}
	ts, _ := ParseTimestamp("2026-01-01T00:00:00.000Z")
	if ts.IsSentinel() {
		t.Fatalf("ordinary time must not be the sentinel")
	}
}

func TestTimestampJSON(t *testing.T) {
	ts, _ := ParseTimestamp("2022-08-27T02:05:29.000Z")
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2022-08-27T02:05:29.000Z"` {
		t.Fatalf("marshal = %s", data)
	}

	var back Timestamp
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(ts.Time) {
		t.Fatalf("round trip mismatch")
	}

	if err := json.Unmarshal([]byte(`"2022-08-27"`), &back); err == nil {
		t.Fatalf("expected unmarshal failure")
	}
}

func TestJobJSONFixedPoint(t *testing.T) {
	created, _ := ParseTimestamp("2022-08-27T02:05:29.000Z")
	job := Job{
		ID:          3,
		CreatedTime: created,
		UpdatedTime: created,
		Submission: JobRequest{
			SourceCode: "fn main() {}",
			Language:   "Rust",
		},
		State:  StateFinished,
		Result: ResultCompilationError,
		Cases: []Case{
			{ID: 0, Result: ResultCompilationError, Time: 2043},
			{ID: 1, Result: ResultWaiting},
		},
	}

	first, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Job
	if err := json.Unmarshal(first, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	second, err := json.Marshal(back)
	if err != nil {
		t.Fatalf("marshal again: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("serialize round trip is not a fixed point:\n%s\n%s", first, second)
	}
}
