package registry

import (
	"sort"
	"sync"

	"minoj/internal/model"
	"minoj/pkg/errors"
)

// Contest 0 defaults: the implicit whole-history contest every user
// joins on registration.
const (
	Contest0From  = "0001-01-01T02:00:00.001Z"
	Contest0To    = model.SentinelTime
	Contest0Limit = 9999
)

// Contests is the in-memory contest registry. Contest 0 always exists
// and cannot be updated through the public surface.
type Contests struct {
	mu       sync.RWMutex
	contests map[uint64]*model.Contest
	next     uint64
}

// NewContests creates a registry seeded with contest 0 spanning the
// given problem set
func NewContests(problemIDs []uint64) *Contests {
	zero := uint64(0)
	from, _ := model.ParseTimestamp(Contest0From)
	to, _ := model.ParseTimestamp(Contest0To)
	contest0 := &model.Contest{
		ID:              &zero,
		Name:            "",
		From:            from,
		To:              to,
		ProblemIDs:      append([]uint64(nil), problemIDs...),
		UserIDs:         []uint64{0},
		SubmissionLimit: Contest0Limit,
	}
	return &Contests{
		contests: map[uint64]*model.Contest{0: contest0},
		next:     1,
	}
}

// Hydrate merges persisted contests into the registry. A persisted
// contest 0 overrides the seeded window, name, members and limit, but
// its problem set is always the full configured problem list.
func (r *Contests) Hydrate(contests []model.Contest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range contests {
		ct := contests[i]
		if ct.ID == nil {
			continue
		}
		id := *ct.ID
		if id == 0 {
			zero := r.contests[0]
			zero.Name = ct.Name
			zero.From = ct.From
			zero.To = ct.To
			zero.UserIDs = append([]uint64(nil), ct.UserIDs...)
			zero.SubmissionLimit = ct.SubmissionLimit
			continue
		}
		r.contests[id] = ct.Clone()
		if id >= r.next {
			r.next = id + 1
		}
	}
}

// Get returns a copy of the contest with the given id
func (r *Contests) Get(id uint64) (*model.Contest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.contests[id]
	if !ok {
		return nil, false
	}
	return ct.Clone(), true
}

// Exists reports whether the contest id is registered
func (r *Contests) Exists(id uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.contests[id]
	return ok
}

// Create registers a new contest with the next free id. The caller
// validates problem and user membership beforehand.
func (r *Contests) Create(ct *model.Contest) *model.Contest {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	stored := ct.Clone()
	stored.ID = &id
	stored.Warning = ""
	r.contests[id] = stored
	return stored.Clone()
}

// Update replaces an existing contest. Contest 0 is protected.
func (r *Contests) Update(ct *model.Contest) (*model.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := *ct.ID
	if id == 0 {
		return nil, errors.Newf(errors.NotFound, "Contest %d not found.", id)
	}
	if _, ok := r.contests[id]; !ok {
		return nil, errors.Newf(errors.NotFound, "Contest %d not found.", id)
	}
	stored := ct.Clone()
	stored.Warning = ""
	r.contests[id] = stored
	return stored.Clone(), nil
}

// Enroll adds a user to a contest's member list, used to keep contest
// 0 in step with user registration
func (r *Contests) Enroll(contestID, userID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ct, ok := r.contests[contestID]
	if !ok || ct.HasUser(userID) {
		return
	}
	ct.UserIDs = append(ct.UserIDs, userID)
}

// List returns all contests except contest 0 in ascending id order
func (r *Contests) List() []model.Contest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contests := make([]model.Contest, 0, len(r.contests))
	for id, ct := range r.contests {
		if id == 0 {
			continue
		}
		contests = append(contests, *ct.Clone())
	}
	sort.Slice(contests, func(i, j int) bool { return *contests[i].ID < *contests[j].ID })
	return contests
}
