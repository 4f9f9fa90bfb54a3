package rank

import (
	"testing"

	"minoj/internal/config"
	"minoj/internal/model"
)

func ts(t *testing.T, s string) model.Timestamp {
	t.Helper()
	v, err := model.ParseTimestamp(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func standardConfig(problems ...uint64) *config.Config {
	cfg := &config.Config{}
	for _, id := range problems {
		cfg.Problems = append(cfg.Problems, config.Problem{
			ID:    id,
			Type:  model.ProblemStandard,
			Cases: []config.ProblemCase{{Score: 100}},
		})
	}
	return cfg
}

func contestOf(id uint64, problems, users []uint64) *model.Contest {
	return &model.Contest{
		ID:              &id,
		ProblemIDs:      problems,
		UserIDs:         users,
		SubmissionLimit: 100,
	}
}

func scoredJob(t *testing.T, id, user, problem, contest uint64, created string, result model.Result, score float64) model.Job {
	return model.Job{
		ID:          id,
		CreatedTime: ts(t, created),
		UpdatedTime: ts(t, created),
		Submission: model.JobRequest{
			UserID:    user,
			ProblemID: problem,
			ContestID: contest,
		},
		State:  model.StateFinished,
		Result: result,
		Score:  score,
	}
}

func names(uint64) string { return "u" }

func TestComputeLatestRule(t *testing.T) {
	cfg := standardConfig(0)
	contest := contestOf(0, []uint64{0}, []uint64{1})
	jobs := []model.Job{
		scoredJob(t, 0, 1, 0, 0, "2026-01-01T00:00:00.000Z", model.ResultAccepted, 100),
		scoredJob(t, 1, 1, 0, 0, "2026-01-01T01:00:00.000Z", model.ResultWrongAnswer, 40),
	}

	ranks := Compute(cfg, contest, jobs, model.ScoringLatest, "", names)
	if len(ranks) != 1 {
		t.Fatalf("len = %d", len(ranks))
	}
	if ranks[0].Scores[0] != 40 {
		t.Fatalf("latest must win, score = %v", ranks[0].Scores[0])
	}
}

func TestComputeHighestRule(t *testing.T) {
	cfg := standardConfig(0)
	contest := contestOf(0, []uint64{0}, []uint64{1})
	jobs := []model.Job{
		scoredJob(t, 0, 1, 0, 0, "2026-01-01T00:00:00.000Z", model.ResultAccepted, 100),
		scoredJob(t, 1, 1, 0, 0, "2026-01-01T01:00:00.000Z", model.ResultWrongAnswer, 40),
	}

	ranks := Compute(cfg, contest, jobs, model.ScoringHighest, "", names)
	if ranks[0].Scores[0] != 100 {
		t.Fatalf("highest must win, score = %v", ranks[0].Scores[0])
	}
}

func TestComputeNoSubmissions(t *testing.T) {
	cfg := standardConfig(0, 1)
	contest := contestOf(0, []uint64{0, 1}, []uint64{1, 2})
	ranks := Compute(cfg, contest, nil, model.ScoringLatest, "", names)

	if len(ranks) != 2 {
		t.Fatalf("len = %d", len(ranks))
	}
	for _, r := range ranks {
		// the whole group shares rank 1 without a tie breaker
		if r.Rank != 1 {
			t.Fatalf("rank = %d", r.Rank)
		}
		if r.Scores[0] != 0 || r.Scores[1] != 0 {
			t.Fatalf("scores = %v", r.Scores)
		}
	}
	if *ranks[0].User.ID != 1 || *ranks[1].User.ID != 2 {
		t.Fatalf("tied users must be ordered by id")
	}
}

func TestComputeOrdersByTotalDescending(t *testing.T) {
	cfg := standardConfig(0)
	contest := contestOf(0, []uint64{0}, []uint64{1, 2, 3})
	jobs := []model.Job{
		scoredJob(t, 0, 1, 0, 0, "2026-01-01T00:00:00.000Z", model.ResultWrongAnswer, 30),
		scoredJob(t, 1, 2, 0, 0, "2026-01-01T00:10:00.000Z", model.ResultAccepted, 100),
		scoredJob(t, 2, 3, 0, 0, "2026-01-01T00:20:00.000Z", model.ResultWrongAnswer, 60),
	}

	ranks := Compute(cfg, contest, jobs, model.ScoringLatest, "", names)
	if *ranks[0].User.ID != 2 || *ranks[1].User.ID != 3 || *ranks[2].User.ID != 1 {
		t.Fatalf("order = %d, %d, %d", *ranks[0].User.ID, *ranks[1].User.ID, *ranks[2].User.ID)
	}
	if ranks[0].Rank != 1 || ranks[1].Rank != 2 || ranks[2].Rank != 3 {
		t.Fatalf("ranks = %d, %d, %d", ranks[0].Rank, ranks[1].Rank, ranks[2].Rank)
	}
}

func TestTieBySubmissionTime(t *testing.T) {
	cfg := standardConfig(0)
	contest := contestOf(0, []uint64{0}, []uint64{1, 2})
	jobs := []model.Job{
		scoredJob(t, 0, 2, 0, 0, "2026-01-01T00:00:00.000Z", model.ResultAccepted, 100),
		scoredJob(t, 1, 1, 0, 0, "2026-01-01T01:00:00.000Z", model.ResultAccepted, 100),
	}

	ranks := Compute(cfg, contest, jobs, model.ScoringLatest, model.TieBySubmissionTime, names)
	if *ranks[0].User.ID != 2 || ranks[0].Rank != 1 {
		t.Fatalf("earlier submitter must rank first: %+v", ranks[0])
	}
	if *ranks[1].User.ID != 1 || ranks[1].Rank != 2 {
		t.Fatalf("later submitter ranks second: %+v", ranks[1])
	}
}

func TestTieBySubmissionCount(t *testing.T) {
	cfg := standardConfig(0)
	contest := contestOf(0, []uint64{0}, []uint64{1, 2, 3})
	jobs := []model.Job{
		// user 1 needs two tries, users 2 and 3 one each
		scoredJob(t, 0, 1, 0, 0, "2026-01-01T00:00:00.000Z", model.ResultWrongAnswer, 0),
		scoredJob(t, 1, 1, 0, 0, "2026-01-01T01:00:00.000Z", model.ResultAccepted, 100),
		scoredJob(t, 2, 3, 0, 0, "2026-01-01T02:00:00.000Z", model.ResultAccepted, 100),
		scoredJob(t, 3, 2, 0, 0, "2026-01-01T03:00:00.000Z", model.ResultAccepted, 100),
	}

	ranks := Compute(cfg, contest, jobs, model.ScoringLatest, model.TieBySubmissionCount, names)
	// users 2 and 3 share rank 1 ordered by id, user 1 takes rank 3
	if *ranks[0].User.ID != 2 || ranks[0].Rank != 1 {
		t.Fatalf("row 0 = %+v", ranks[0])
	}
	if *ranks[1].User.ID != 3 || ranks[1].Rank != 1 {
		t.Fatalf("row 1 = %+v", ranks[1])
	}
	if *ranks[2].User.ID != 1 || ranks[2].Rank != 3 {
		t.Fatalf("row 2 = %+v", ranks[2])
	}
}

func TestTieByUserID(t *testing.T) {
	cfg := standardConfig(0)
	contest := contestOf(0, []uint64{0}, []uint64{2, 1})
	jobs := []model.Job{
		scoredJob(t, 0, 1, 0, 0, "2026-01-01T00:00:00.000Z", model.ResultAccepted, 100),
		scoredJob(t, 1, 2, 0, 0, "2026-01-01T01:00:00.000Z", model.ResultAccepted, 100),
	}

	ranks := Compute(cfg, contest, jobs, model.ScoringLatest, model.TieByUserID, names)
	if *ranks[0].User.ID != 1 || ranks[0].Rank != 1 {
		t.Fatalf("row 0 = %+v", ranks[0])
	}
	if *ranks[1].User.ID != 2 || ranks[1].Rank != 2 {
		t.Fatalf("row 1 = %+v", ranks[1])
	}
}

func TestRanksDenseAcrossGroups(t *testing.T) {
	cfg := standardConfig(0)
	contest := contestOf(0, []uint64{0}, []uint64{1, 2, 3})
	jobs := []model.Job{
		scoredJob(t, 0, 1, 0, 0, "2026-01-01T00:00:00.000Z", model.ResultAccepted, 100),
		scoredJob(t, 1, 2, 0, 0, "2026-01-01T01:00:00.000Z", model.ResultAccepted, 100),
	}

	ranks := Compute(cfg, contest, jobs, model.ScoringLatest, "", names)
	// users 1 and 2 share rank 1; user 3 sits at position 3
	if ranks[0].Rank != 1 || ranks[1].Rank != 1 {
		t.Fatalf("tied ranks = %d, %d", ranks[0].Rank, ranks[1].Rank)
	}
	if *ranks[2].User.ID != 3 || ranks[2].Rank != 3 {
		t.Fatalf("row 2 = %+v", ranks[2])
	}
}

func TestDynamicRankingScoring(t *testing.T) {
	ratio := 0.5
	cfg := &config.Config{
		Problems: []config.Problem{{
			ID:    0,
			Type:  model.ProblemDynamicRanking,
			Misc:  &config.Misc{DynamicRankingRatio: &ratio},
			Cases: []config.ProblemCase{{Score: 100}},
		}},
	}
	contest := contestOf(1, []uint64{0}, []uint64{1, 2})

	slow := scoredJob(t, 0, 1, 0, 1, "2026-01-01T00:00:00.000Z", model.ResultAccepted, 50)
	slow.Cases = []model.Case{{ID: 0, Result: model.ResultCompilationSuccess}, {ID: 1, Result: model.ResultAccepted, Time: 200}}
	fast := scoredJob(t, 1, 2, 0, 1, "2026-01-01T01:00:00.000Z", model.ResultAccepted, 50)
	fast.Cases = []model.Case{{ID: 0, Result: model.ResultCompilationSuccess}, {ID: 1, Result: model.ResultAccepted, Time: 100}}
	// accepted outside the contest, must not shrink the minimum
	outside := scoredJob(t, 2, 3, 0, 0, "2026-01-01T02:00:00.000Z", model.ResultAccepted, 50)
	outside.Cases = []model.Case{{ID: 0, Result: model.ResultCompilationSuccess}, {ID: 1, Result: model.ResultAccepted, Time: 10}}

	ranks := Compute(cfg, contest, []model.Job{slow, fast, outside}, model.ScoringLatest, "", names)

	var got = map[uint64]float64{}
	for _, r := range ranks {
		got[*r.User.ID] = r.Scores[0]
	}
	// fastest holds the full score, the slower one is scaled by 100/200
	if got[2] != 100 {
		t.Fatalf("fast score = %v", got[2])
	}
	if got[1] != 75 {
		t.Fatalf("slow score = %v", got[1])
	}
	if *ranks[0].User.ID != 2 {
		t.Fatalf("fast user must rank first")
	}
}
