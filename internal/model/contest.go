package model

// Contest scopes submissions to a problem set, a member list, a time
// window and a per-problem submission quota. ID is a pointer because
// the create/update request leaves it empty for creation.
type Contest struct {
	ID              *uint64   `json:"id"`
	Name            string    `json:"name"`
	From            Timestamp `json:"from"`
	To              Timestamp `json:"to"`
	ProblemIDs      []uint64  `json:"problem_ids"`
	UserIDs         []uint64  `json:"user_ids"`
	SubmissionLimit uint64    `json:"submission_limit"`
	Warning         string    `json:"warning,omitempty"`
}

// HasProblem reports whether the contest includes the problem
func (c *Contest) HasProblem(id uint64) bool {
	for _, pid := range c.ProblemIDs {
		if pid == id {
			return true
		}
	}
	return false
}

// HasUser reports whether the contest includes the user
func (c *Contest) HasUser(id uint64) bool {
	for _, uid := range c.UserIDs {
		if uid == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the contest
func (c *Contest) Clone() *Contest {
	cp := *c
	if c.ID != nil {
		id := *c.ID
		cp.ID = &id
	}
	cp.ProblemIDs = append([]uint64(nil), c.ProblemIDs...)
	cp.UserIDs = append([]uint64(nil), c.UserIDs...)
	return &cp
}
