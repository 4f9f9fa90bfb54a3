package service

import (
	"context"
	"testing"

	"minoj/internal/common/cache"
	"minoj/internal/config"
	"minoj/internal/model"
	"minoj/internal/registry"
	"minoj/pkg/errors"

	"github.com/alicebob/miniredis/v2"
)

func ranklistFixture(t *testing.T, rc *cache.RedisCache) (*RanklistService, *registry.Jobs) {
	t.Helper()
	cfg := &config.Config{
		Problems: []config.Problem{{
			ID:    0,
			Type:  model.ProblemStandard,
			Cases: []config.ProblemCase{{Score: 100}},
		}},
	}
	users := registry.NewUsers()
	contests := registry.NewContests(cfg.ProblemIDs())
	jobs := registry.NewJobs()
	return NewRanklistService(cfg, users, contests, jobs, rc), jobs
}

func putAccepted(t *testing.T, jobs *registry.Jobs, id uint64, score float64) {
	t.Helper()
	ts, _ := model.ParseTimestamp("2026-01-01T00:00:00.000Z")
	jobs.Put(&model.Job{
		ID:          id,
		CreatedTime: ts,
		UpdatedTime: ts,
		Submission:  model.JobRequest{UserID: 0, ProblemID: 0, ContestID: 0},
		State:       model.StateFinished,
		Result:      model.ResultAccepted,
		Score:       score,
	})
}

func TestRanklistUnknownContest(t *testing.T) {
	svc, _ := ranklistFixture(t, nil)
	_, err := svc.Ranklist(context.Background(), 42, model.ScoringLatest, "")
	if !errors.Is(err, errors.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "Contest 42 not found." {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestRanklistWithoutCache(t *testing.T) {
	svc, jobs := ranklistFixture(t, nil)
	putAccepted(t, jobs, 0, 100)

	ranks, err := svc.Ranklist(context.Background(), 0, model.ScoringLatest, "")
	if err != nil {
		t.Fatalf("ranklist: %v", err)
	}
	if len(ranks) != 1 || ranks[0].Scores[0] != 100 {
		t.Fatalf("ranks = %+v", ranks)
	}
	// bump without a cache is a no-op
	svc.Bump(context.Background())
}

func TestRanklistCacheVersioning(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisCacheWithConfig(&cache.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("redis cache: %v", err)
	}
	defer rc.Close()

	svc, jobs := ranklistFixture(t, rc)
	ctx := context.Background()

	ranks, err := svc.Ranklist(ctx, 0, model.ScoringLatest, "")
	if err != nil {
		t.Fatalf("ranklist: %v", err)
	}
	if ranks[0].Scores[0] != 0 {
		t.Fatalf("initial score = %v", ranks[0].Scores[0])
	}

	// a mutation that skips the bump keeps serving the cached rows
	putAccepted(t, jobs, 0, 100)
	ranks, err = svc.Ranklist(ctx, 0, model.ScoringLatest, "")
	if err != nil {
		t.Fatalf("ranklist: %v", err)
	}
	if ranks[0].Scores[0] != 0 {
		t.Fatalf("expected stale cached score, got %v", ranks[0].Scores[0])
	}

	svc.Bump(ctx)
	ranks, err = svc.Ranklist(ctx, 0, model.ScoringLatest, "")
	if err != nil {
		t.Fatalf("ranklist: %v", err)
	}
	if ranks[0].Scores[0] != 100 {
		t.Fatalf("expected fresh score after bump, got %v", ranks[0].Scores[0])
	}
}

func TestRanklistCacheDownDegradesSilently(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisCacheWithConfig(&cache.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("redis cache: %v", err)
	}
	defer rc.Close()

	svc, jobs := ranklistFixture(t, rc)
	putAccepted(t, jobs, 0, 100)
	mr.Close()

	ranks, err := svc.Ranklist(context.Background(), 0, model.ScoringLatest, "")
	if err != nil {
		t.Fatalf("ranklist with dead cache: %v", err)
	}
	if ranks[0].Scores[0] != 100 {
		t.Fatalf("score = %v", ranks[0].Scores[0])
	}
}
