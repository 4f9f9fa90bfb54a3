package model

import (
	"encoding/json"

	"minoj/pkg/errors"
)

// State describes where a job is in its lifecycle
type State string

const (
	StateQueueing State = "Queueing"
	StateRunning  State = "Running"
	StateFinished State = "Finished"
	StateCanceled State = "Canceled"
)

// ParseState converts a string into a State
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateQueueing, StateRunning, StateFinished, StateCanceled:
		return State(s), nil
	}
	return "", errors.Newf(errors.InvalidArgument, "invalid state %q", s)
}

// UnmarshalJSON implements json.Unmarshaler with validation
func (s *State) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseState(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Result is the verdict of a judge run, either for a whole job or a
// single case. The wire names with embedded spaces are part of the
// public contract.
type Result string

const (
	ResultWaiting             Result = "Waiting"
	ResultRunning             Result = "Running"
	ResultAccepted            Result = "Accepted"
	ResultCompilationError    Result = "Compilation Error"
	ResultCompilationSuccess  Result = "Compilation Success"
	ResultWrongAnswer         Result = "Wrong Answer"
	ResultRuntimeError        Result = "Runtime Error"
	ResultTimeLimitExceeded   Result = "Time Limit Exceeded"
	ResultMemoryLimitExceeded Result = "Memory Limit Exceeded"
	ResultSystemError         Result = "System Error"
	ResultSPJError            Result = "SPJ Error"
	ResultSkipped             Result = "Skipped"
)

// ParseResult converts a string into a Result
func ParseResult(s string) (Result, error) {
	switch Result(s) {
	case ResultWaiting, ResultRunning, ResultAccepted,
		ResultCompilationError, ResultCompilationSuccess,
		ResultWrongAnswer, ResultRuntimeError,
		ResultTimeLimitExceeded, ResultMemoryLimitExceeded,
		ResultSystemError, ResultSPJError, ResultSkipped:
		return Result(s), nil
	}
	return "", errors.Newf(errors.InvalidArgument, "invalid result %q", s)
}

// UnmarshalJSON implements json.Unmarshaler with validation
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseResult(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ProblemType selects the comparison strategy for a problem
type ProblemType string

const (
	ProblemStandard       ProblemType = "standard"
	ProblemStrict         ProblemType = "strict"
	ProblemSpj            ProblemType = "spj"
	ProblemDynamicRanking ProblemType = "dynamic_ranking"
)

// ParseProblemType converts a string into a ProblemType
func ParseProblemType(s string) (ProblemType, error) {
	switch ProblemType(s) {
	case ProblemStandard, ProblemStrict, ProblemSpj, ProblemDynamicRanking:
		return ProblemType(s), nil
	}
	return "", errors.Newf(errors.InvalidArgument, "invalid problem type %q", s)
}

// UnmarshalJSON implements json.Unmarshaler with validation
func (p *ProblemType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseProblemType(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ScoringRule selects which job represents a user on a ranklist
type ScoringRule string

const (
	ScoringLatest  ScoringRule = "latest"
	ScoringHighest ScoringRule = "highest"
)

// ParseScoringRule converts a string into a ScoringRule
func ParseScoringRule(s string) (ScoringRule, error) {
	switch ScoringRule(s) {
	case ScoringLatest, ScoringHighest:
		return ScoringRule(s), nil
	}
	return "", errors.Newf(errors.InvalidArgument, "invalid scoring rule %q", s)
}

// TieBreaker orders users that share a total score
type TieBreaker string

const (
	TieBySubmissionTime  TieBreaker = "submission_time"
	TieBySubmissionCount TieBreaker = "submission_count"
	TieByUserID          TieBreaker = "user_id"
)

// ParseTieBreaker converts a string into a TieBreaker
func ParseTieBreaker(s string) (TieBreaker, error) {
	switch TieBreaker(s) {
	case TieBySubmissionTime, TieBySubmissionCount, TieByUserID:
		return TieBreaker(s), nil
	}
	return "", errors.Newf(errors.InvalidArgument, "invalid tie breaker %q", s)
}
