package rank

import (
	"sort"

	"minoj/internal/config"
	"minoj/internal/model"
)

// row is one user's aggregated standing before tie-breaking
type row struct {
	userID uint64
	total  float64
	scores []float64
	// time is the user's representative submission instant, the
	// sentinel when they never submitted
	time model.Timestamp
	// count is the user's total matching submissions over the
	// contest's problems
	count int
}

// Compute builds the ranklist for a contest. jobs must be every known
// job in ascending id order: per-problem candidates are deliberately
// not limited to this contest, only the dynamic-ranking minimum times
// are. nameOf resolves user ids for the output rows.
func Compute(cfg *config.Config, contest *model.Contest, jobs []model.Job, rule model.ScoringRule, breaker model.TieBreaker, nameOf func(uint64) string) []model.UserRank {
	rows := make([]row, 0, len(contest.UserIDs))
	for _, uid := range contest.UserIDs {
		rows = append(rows, buildRow(cfg, contest, jobs, rule, uid))
	}

	// order by total score descending; equal totals keep member order
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].total > rows[j].total })

	var ranks []model.UserRank
	start := 0
	for start < len(rows) {
		end := start
		for end < len(rows) && rows[end].total == rows[start].total {
			end++
		}
		ranks = append(ranks, breakTie(rows[start:end], start, breaker, nameOf)...)
		start = end
	}
	return ranks
}

// buildRow aggregates one user's per-problem scores, representative
// time and submission count
func buildRow(cfg *config.Config, contest *model.Contest, jobs []model.Job, rule model.ScoringRule, uid uint64) row {
	r := row{userID: uid, time: model.Sentinel()}
	times := make([]model.Timestamp, 0, len(contest.ProblemIDs))

	for _, pid := range contest.ProblemIDs {
		var possible []model.Job
		for i := range jobs {
			if jobs[i].Submission.UserID == uid && jobs[i].Submission.ProblemID == pid {
				possible = append(possible, jobs[i])
			}
		}
		r.count += len(possible)

		problem := cfg.Problem(pid)
		var when model.Timestamp
		var score float64
		if problem != nil && problem.Type == model.ProblemDynamicRanking && hasAccepted(possible) {
			when, score = dynamicScore(problem, contest, jobs, possible)
		} else {
			when, score = pickByRule(possible, rule)
		}
		times = append(times, when)
		r.scores = append(r.scores, score)
		r.total += score
	}

	for _, t := range times {
		if t.IsSentinel() {
			continue
		}
		if r.time.IsSentinel() || t.After(r.time.Time) {
			r.time = t
		}
	}
	return r
}

func hasAccepted(jobs []model.Job) bool {
	for i := range jobs {
		if jobs[i].Result == model.ResultAccepted {
			return true
		}
	}
	return false
}

// pickByRule selects the representative job under the scoring rule.
// No jobs means score 0 at the sentinel instant.
func pickByRule(possible []model.Job, rule model.ScoringRule) (model.Timestamp, float64) {
	if len(possible) == 0 {
		return model.Sentinel(), 0
	}
	if rule == model.ScoringHighest {
		best := &possible[0]
		for i := range possible {
			if possible[i].Score > best.Score {
				best = &possible[i]
			}
		}
		// among equally high scores, take the earliest
		for i := range possible {
			if possible[i].Score == best.Score && possible[i].CreatedTime.Before(best.CreatedTime.Time) {
				best = &possible[i]
			}
		}
		return best.CreatedTime, best.Score
	}
	latest := &possible[0]
	for i := range possible {
		if possible[i].CreatedTime.After(latest.CreatedTime.Time) {
			latest = &possible[i]
		}
	}
	return latest.CreatedTime, latest.Score
}

// dynamicScore rescores the user's latest Accepted job against the
// fastest accepted time per case observed inside this contest
func dynamicScore(problem *config.Problem, contest *model.Contest, jobs []model.Job, possible []model.Job) (model.Timestamp, float64) {
	var latest *model.Job
	for i := range possible {
		if possible[i].Result != model.ResultAccepted {
			continue
		}
		if latest == nil || possible[i].CreatedTime.After(latest.CreatedTime.Time) {
			latest = &possible[i]
		}
	}

	ratio := problem.Ratio()
	var score float64
	for k := 1; k < len(latest.Cases); k++ {
		min := latest.Cases[k].Time
		for m := range jobs {
			j := &jobs[m]
			if j.Submission.ProblemID != problem.ID ||
				contest.ID == nil || j.Submission.ContestID != *contest.ID ||
				j.Result != model.ResultAccepted ||
				k >= len(j.Cases) {
				continue
			}
			if j.Cases[k].Time < min {
				min = j.Cases[k].Time
			}
		}
		score += problem.Cases[k-1].Score *
			(1 - ratio + ratio*float64(min)/float64(latest.Cases[k].Time))
	}
	return latest.CreatedTime, score
}
