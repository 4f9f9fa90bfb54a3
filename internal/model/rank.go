package model

// UserRank is one ranklist row: the user, their rank and their
// per-problem scores in the contest's problem order.
type UserRank struct {
	User   User      `json:"user"`
	Rank   uint64    `json:"rank"`
	Scores []float64 `json:"scores"`
}
