package registry

import (
	"sort"
	"sync"

	"minoj/internal/model"
)

// Filter is a conjunction of optional predicates over jobs. Nil fields
// match everything.
type Filter struct {
	UserID    *uint64
	UserName  *string
	ContestID *uint64
	ProblemID *uint64
	Language  *string
	From      *model.Timestamp
	To        *model.Timestamp
	State     *model.State
	Result    *model.Result
}

// Jobs is the in-memory job registry. IDs are allocated monotonically
// and never reused, so a deleted job's id stays dead.
type Jobs struct {
	mu   sync.RWMutex
	jobs map[uint64]*model.Job
	next uint64
}

// NewJobs creates an empty job registry
func NewJobs() *Jobs {
	return &Jobs{jobs: make(map[uint64]*model.Job)}
}

// Hydrate loads persisted jobs into the registry
func (r *Jobs) Hydrate(jobs []model.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range jobs {
		j := jobs[i]
		r.jobs[j.ID] = j.Clone()
		if j.ID >= r.next {
			r.next = j.ID + 1
		}
	}
}

// Alloc reserves the next job id
func (r *Jobs) Alloc() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	return id
}

// Put inserts or replaces the job under its id
func (r *Jobs) Put(job *model.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := job.Clone()
	stored.Warning = ""
	r.jobs[job.ID] = stored
}

// Get returns a copy of the job with the given id
func (r *Jobs) Get(id uint64) (*model.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	return j.Clone(), true
}

// Remove deletes the job, reporting whether it existed
func (r *Jobs) Remove(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return false
	}
	delete(r.jobs, id)
	return true
}

// CountTriple counts jobs sharing the (user, problem, contest) triple,
// the quantity the submission quota is enforced against
func (r *Jobs) CountTriple(userID, problemID, contestID uint64) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count uint64
	for _, j := range r.jobs {
		if j.Submission.UserID == userID &&
			j.Submission.ProblemID == problemID &&
			j.Submission.ContestID == contestID {
			count++
		}
	}
	return count
}

// List returns all jobs in ascending id order
func (r *Jobs) List() []model.Job {
	return r.Query(Filter{}, nil)
}

// Query returns the jobs matching the filter in ascending id order.
// nameOf resolves a user id to its name for the user_name predicate;
// when nil the predicate never matches.
func (r *Jobs) Query(f Filter, nameOf func(uint64) string) []model.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]model.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if matches(j, &f, nameOf) {
			jobs = append(jobs, *j.Clone())
		}
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].ID < jobs[k].ID })
	return jobs
}

func matches(j *model.Job, f *Filter, nameOf func(uint64) string) bool {
	if f.UserID != nil && j.Submission.UserID != *f.UserID {
		return false
	}
	if f.UserName != nil {
		if nameOf == nil || nameOf(j.Submission.UserID) != *f.UserName {
			return false
		}
	}
	if f.ContestID != nil && j.Submission.ContestID != *f.ContestID {
		return false
	}
	if f.ProblemID != nil && j.Submission.ProblemID != *f.ProblemID {
		return false
	}
	if f.Language != nil && j.Submission.Language != *f.Language {
		return false
	}
	if f.From != nil && j.CreatedTime.Before(f.From.Time) {
		return false
	}
	if f.To != nil && j.CreatedTime.After(f.To.Time) {
		return false
	}
	if f.State != nil && j.State != *f.State {
		return false
	}
	if f.Result != nil && j.Result != *f.Result {
		return false
	}
	return true
}
