package model

import (
	"encoding/json"
	"testing"

	"minoj/pkg/errors"
)

func TestParseResultWireNames(t *testing.T) {
	valid := map[string]Result{
		"Waiting":               ResultWaiting,
		"Accepted":              ResultAccepted,
		"Compilation Error":     ResultCompilationError,
		"Compilation Success":   ResultCompilationSuccess,
		"Wrong Answer":          ResultWrongAnswer,
		"Runtime Error":         ResultRuntimeError,
		"Time Limit Exceeded":   ResultTimeLimitExceeded,
		"Memory Limit Exceeded": ResultMemoryLimitExceeded,
		"System Error":          ResultSystemError,
		"SPJ Error":             ResultSPJError,
		"Skipped":               ResultSkipped,
	}
	for s, want := range valid {
		got, err := ParseResult(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got != want {
			t.Fatalf("parse %q = %v", s, got)
		}
	}

	_, err := ParseResult("WrongAnswer")
	if !errors.Is(err, errors.InvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestParseState(t *testing.T) {
	for _, s := range []string{"Queueing", "Running", "Finished", "Canceled"} {
		if _, err := ParseState(s); err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
	}
	if _, err := ParseState("Done"); !errors.Is(err, errors.InvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestResultUnmarshalRejectsUnknown(t *testing.T) {
	var r Result
	if err := json.Unmarshal([]byte(`"Accepted"`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := json.Unmarshal([]byte(`"Nope"`), &r); err == nil {
		t.Fatalf("expected unmarshal failure")
	}
}

func TestParseScoringRuleAndTieBreaker(t *testing.T) {
	if _, err := ParseScoringRule("latest"); err != nil {
		t.Fatalf("latest: %v", err)
	}
	if _, err := ParseScoringRule("highest"); err != nil {
		t.Fatalf("highest: %v", err)
	}
	if _, err := ParseScoringRule("best"); err == nil {
		t.Fatalf("expected failure")
	}

	for _, s := range []string{"submission_time", "submission_count", "user_id"} {
		if _, err := ParseTieBreaker(s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
	if _, err := ParseTieBreaker("coin_flip"); err == nil {
		t.Fatalf("expected failure")
	}
}
