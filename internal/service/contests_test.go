package service

import (
	"context"
	"testing"

	"minoj/internal/config"
	"minoj/internal/model"
	"minoj/internal/registry"
	"minoj/internal/repository"
	"minoj/pkg/errors"
)

func contestFixture() *ContestService {
	cfg := &config.Config{
		Problems: []config.Problem{
			{ID: 0, Type: model.ProblemStandard, Cases: []config.ProblemCase{{Score: 100}}},
			{ID: 1, Type: model.ProblemStandard, Cases: []config.ProblemCase{{Score: 100}}},
		},
	}
	users := registry.NewUsers()
	contests := registry.NewContests(cfg.ProblemIDs())
	return NewContestService(cfg, users, contests, repository.NewStore(nil), nil)
}

func validContest() *model.Contest {
	from, _ := model.ParseTimestamp("2026-01-01T00:00:00.000Z")
	to, _ := model.ParseTimestamp("2026-12-31T23:59:59.999Z")
	return &model.Contest{
		Name: "weekly", From: from, To: to,
		ProblemIDs: []uint64{0, 1}, UserIDs: []uint64{0}, SubmissionLimit: 5,
	}
}

func TestContestCreate(t *testing.T) {
	svc := contestFixture()
	created, err := svc.Create(context.Background(), validContest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if *created.ID != 1 {
		t.Fatalf("id = %d", *created.ID)
	}
	if created.Warning != MirrorWarning {
		t.Fatalf("warning = %q", created.Warning)
	}
}

func TestContestCreateUnknownReferences(t *testing.T) {
	svc := contestFixture()

	ct := validContest()
	ct.ProblemIDs = []uint64{0, 99}
	if _, err := svc.Create(context.Background(), ct); !errors.Is(err, errors.NotFound) {
		t.Fatalf("unknown problem: expected not found, got %v", err)
	}

	ct = validContest()
	ct.UserIDs = []uint64{0, 99}
	if _, err := svc.Create(context.Background(), ct); !errors.Is(err, errors.NotFound) {
		t.Fatalf("unknown user: expected not found, got %v", err)
	}
}

func TestContestUpdate(t *testing.T) {
	svc := contestFixture()
	created, err := svc.Create(context.Background(), validContest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	replacement := validContest()
	replacement.ID = created.ID
	replacement.Name = "renamed"
	updated, err := svc.Update(context.Background(), replacement)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "renamed" {
		t.Fatalf("name = %q", updated.Name)
	}

	missing := uint64(9)
	replacement.ID = &missing
	_, err = svc.Update(context.Background(), replacement)
	if !errors.Is(err, errors.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "Contest 9 not found." {
		t.Fatalf("message = %q", err.Error())
	}

	zero := uint64(0)
	replacement.ID = &zero
	if _, err := svc.Update(context.Background(), replacement); !errors.Is(err, errors.NotFound) {
		t.Fatalf("contest 0 must be protected, got %v", err)
	}
}

func TestContestGetAndList(t *testing.T) {
	svc := contestFixture()
	if _, err := svc.Create(context.Background(), validContest()); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "weekly" {
		t.Fatalf("name = %q", got.Name)
	}

	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, errors.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	list := svc.List(context.Background())
	if len(list) != 1 || *list[0].ID != 1 {
		t.Fatalf("list = %+v", list)
	}
}
