package model

// JobRequest is a submission as posted by the client
type JobRequest struct {
	SourceCode string `json:"source_code"`
	Language   string `json:"language"`
	UserID     uint64 `json:"user_id"`
	ContestID  uint64 `json:"contest_id"`
	ProblemID  uint64 `json:"problem_id"`
}

// Case is the outcome of one judged case. Index 0 is the compile
// pseudo-case; indices 1..N follow the problem's case order.
type Case struct {
	ID     uint64 `json:"id"`
	Result Result `json:"result"`
	Time   uint64 `json:"time"`
	Memory uint64 `json:"memory"`
	Info   string `json:"info"`
}

// Job is a judged submission with its full verdict history
type Job struct {
	ID          uint64     `json:"id"`
	CreatedTime Timestamp  `json:"created_time"`
	UpdatedTime Timestamp  `json:"updated_time"`
	Submission  JobRequest `json:"submission"`
	State       State      `json:"state"`
	Result      Result     `json:"result"`
	Score       float64    `json:"score"`
	Cases       []Case     `json:"cases"`
	Warning     string     `json:"warning,omitempty"`
}

// Clone returns a deep copy of the job
func (j *Job) Clone() *Job {
	cp := *j
	cp.Cases = make([]Case, len(j.Cases))
	copy(cp.Cases, j.Cases)
	return &cp
}
