package registry

import (
	"testing"

	"minoj/internal/model"
	"minoj/pkg/errors"
)

func newContest(name string, problems, users []uint64) *model.Contest {
	from, _ := model.ParseTimestamp("2026-01-01T00:00:00.000Z")
	to, _ := model.ParseTimestamp("2026-12-31T23:59:59.999Z")
	return &model.Contest{
		Name:            name,
		From:            from,
		To:              to,
		ProblemIDs:      problems,
		UserIDs:         users,
		SubmissionLimit: 3,
	}
}

func TestContestsSeedsContestZero(t *testing.T) {
	contests := NewContests([]uint64{0, 1, 2})
	zero, ok := contests.Get(0)
	if !ok {
		t.Fatalf("expected contest 0")
	}
	if len(zero.ProblemIDs) != 3 {
		t.Fatalf("problem set = %v", zero.ProblemIDs)
	}
	if len(zero.UserIDs) != 1 || zero.UserIDs[0] != 0 {
		t.Fatalf("members = %v", zero.UserIDs)
	}
	if zero.SubmissionLimit != 9999 {
		t.Fatalf("limit = %d", zero.SubmissionLimit)
	}
	if !zero.To.IsSentinel() {
		t.Fatalf("contest 0 should run to the sentinel, got %s", zero.To)
	}
}

func TestContestsCreateAllocatesIDs(t *testing.T) {
	contests := NewContests([]uint64{0})
	a := contests.Create(newContest("a", []uint64{0}, []uint64{0}))
	b := contests.Create(newContest("b", []uint64{0}, []uint64{0}))
	if *a.ID != 1 || *b.ID != 2 {
		t.Fatalf("ids = %d, %d", *a.ID, *b.ID)
	}
}

func TestContestsUpdateProtectsContestZero(t *testing.T) {
	contests := NewContests([]uint64{0})
	zero := uint64(0)
	ct := newContest("evil", []uint64{0}, []uint64{0})
	ct.ID = &zero
	if _, err := contests.Update(ct); !errors.Is(err, errors.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	missing := uint64(7)
	ct.ID = &missing
	_, err := contests.Update(ct)
	if !errors.Is(err, errors.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "Contest 7 not found." {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestContestsUpdateReplaces(t *testing.T) {
	contests := NewContests([]uint64{0})
	created := contests.Create(newContest("old", []uint64{0}, []uint64{0}))

	replacement := newContest("new", []uint64{0}, []uint64{0})
	replacement.ID = created.ID
	updated, err := contests.Update(replacement)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "new" {
		t.Fatalf("name = %q", updated.Name)
	}
}

func TestContestsEnroll(t *testing.T) {
	contests := NewContests([]uint64{0})
	contests.Enroll(0, 1)
	contests.Enroll(0, 1)
	zero, _ := contests.Get(0)
	if len(zero.UserIDs) != 2 {
		t.Fatalf("members = %v, enroll must deduplicate", zero.UserIDs)
	}
}

func TestContestsListExcludesZero(t *testing.T) {
	contests := NewContests([]uint64{0})
	contests.Create(newContest("a", []uint64{0}, []uint64{0}))
	list := contests.List()
	if len(list) != 1 {
		t.Fatalf("len = %d", len(list))
	}
	if *list[0].ID != 1 {
		t.Fatalf("id = %d", *list[0].ID)
	}
}

func TestContestsHydrateKeepsProblemSet(t *testing.T) {
	contests := NewContests([]uint64{0, 1})
	zero := uint64(0)
	persisted := newContest("restored", []uint64{99}, []uint64{0, 3})
	persisted.ID = &zero
	persisted.SubmissionLimit = 5
	contests.Hydrate([]model.Contest{*persisted})

	got, _ := contests.Get(0)
	if got.Name != "restored" || got.SubmissionLimit != 5 {
		t.Fatalf("overrides not applied: %+v", got)
	}
	if len(got.UserIDs) != 2 {
		t.Fatalf("members = %v", got.UserIDs)
	}
	// contest 0's problem set always mirrors the configuration
	if len(got.ProblemIDs) != 2 || got.ProblemIDs[0] != 0 || got.ProblemIDs[1] != 1 {
		t.Fatalf("problem set = %v", got.ProblemIDs)
	}
}

func TestContestsHydrateResumesAllocation(t *testing.T) {
	contests := NewContests([]uint64{0})
	three := uint64(3)
	persisted := newContest("old", []uint64{0}, []uint64{0})
	persisted.ID = &three
	contests.Hydrate([]model.Contest{*persisted})

	created := contests.Create(newContest("next", []uint64{0}, []uint64{0}))
	if *created.ID != 4 {
		t.Fatalf("id = %d, want 4", *created.ID)
	}
}
