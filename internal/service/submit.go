package service

import (
	"context"
	"sync"

	"minoj/internal/config"
	"minoj/internal/judge"
	"minoj/internal/model"
	"minoj/internal/registry"
	"minoj/internal/repository"
	"minoj/pkg/errors"
	"minoj/pkg/utils/logger"

	"go.uber.org/zap"
)

// MirrorWarning is stamped on mutation responses when the persistence
// mirror could not be written
const MirrorWarning = "fail to connect to mysql"

// VersionBumper invalidates derived caches after a mutation
type VersionBumper interface {
	Bump(ctx context.Context)
}

// SubmitService owns the submission gate, the judge run and the job
// registry mutations. One mutex serializes gate, judge and append so
// the quota check is atomic with the append and job ids are dense in
// admission order.
type SubmitService struct {
	mu       sync.Mutex
	cfg      *config.Config
	users    *registry.Users
	contests *registry.Contests
	jobs     *registry.Jobs
	executor *judge.Executor
	store    *repository.Store
	bumper   VersionBumper
}

// NewSubmitService creates the service
func NewSubmitService(cfg *config.Config, users *registry.Users, contests *registry.Contests,
	jobs *registry.Jobs, executor *judge.Executor, store *repository.Store, bumper VersionBumper) *SubmitService {
	return &SubmitService{
		cfg:      cfg,
		users:    users,
		contests: contests,
		jobs:     jobs,
		executor: executor,
		store:    store,
		bumper:   bumper,
	}
}

// Submit gates, judges and records one submission. The returned job is
// the full record; a mirror failure is reported via its warning field.
func (s *SubmitService) Submit(ctx context.Context, req *model.JobRequest) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdTime := model.Now()
	if err := s.gate(req, createdTime); err != nil {
		return nil, err
	}

	id := s.jobs.Alloc()
	outcome := s.executor.Judge(ctx, req)
	job := &model.Job{
		ID:          id,
		CreatedTime: createdTime,
		UpdatedTime: model.Now(),
		Submission:  *req,
		State:       model.StateFinished,
		Result:      outcome.Result,
		Score:       outcome.Score,
		Cases:       outcome.Cases,
	}

	s.jobs.Put(job)
	s.mirror(ctx, job, func() error { return s.store.SaveJob(ctx, job) })
	s.bump(ctx)
	return job, nil
}

// gate admits a submission or rejects it with the caller-visible error.
// Existence checks come first, then contest qualification, then quota.
func (s *SubmitService) gate(req *model.JobRequest, now model.Timestamp) error {
	if s.cfg.Language(req.Language) == nil ||
		s.cfg.Problem(req.ProblemID) == nil ||
		!s.users.Exists(req.UserID) {
		return errors.New(errors.NotFound)
	}
	contest, ok := s.contests.Get(req.ContestID)
	if !ok {
		return errors.New(errors.NotFound)
	}
	if now.Before(contest.From.Time) || now.After(contest.To.Time) ||
		!contest.HasUser(req.UserID) || !contest.HasProblem(req.ProblemID) {
		return errors.New(errors.InvalidArgument)
	}
	if s.jobs.CountTriple(req.UserID, req.ProblemID, req.ContestID) >= contest.SubmissionLimit {
		return errors.New(errors.RateLimit)
	}
	return nil
}

// Get returns one job
func (s *SubmitService) Get(ctx context.Context, id uint64) (*model.Job, error) {
	job, ok := s.jobs.Get(id)
	if !ok {
		return nil, errors.Newf(errors.NotFound, "Job %d not found.", id)
	}
	return job, nil
}

// Query returns the jobs matching the filter in ascending id order
func (s *SubmitService) Query(ctx context.Context, f registry.Filter) []model.Job {
	return s.jobs.Query(f, s.users.Name)
}

// Rejudge re-runs the executor on a stored submission, keeping the
// original created_time
func (s *SubmitService) Rejudge(ctx context.Context, id uint64) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs.Get(id)
	if !ok {
		return nil, errors.Newf(errors.NotFound, "Job %d not found.", id)
	}

	outcome := s.executor.Judge(ctx, &existing.Submission)
	job := &model.Job{
		ID:          id,
		CreatedTime: existing.CreatedTime,
		UpdatedTime: model.Now(),
		Submission:  existing.Submission,
		State:       model.StateFinished,
		Result:      outcome.Result,
		Score:       outcome.Score,
		Cases:       outcome.Cases,
	}

	s.jobs.Put(job)
	s.mirror(ctx, job, func() error { return s.store.ReplaceJob(ctx, job) })
	s.bump(ctx)
	return job, nil
}

// Delete removes a job that is still queued. The returned warning is
// non-empty when the mirror could not be written.
func (s *SubmitService) Delete(ctx context.Context, id uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs.Get(id)
	if !ok {
		return "", errors.Newf(errors.NotFound, "Job %d not found.", id)
	}
	if job.State != model.StateQueueing {
		return "", errors.Newf(errors.InvalidState, "Job %d not queuing.", id)
	}

	s.jobs.Remove(id)
	warning := ""
	if !s.store.Available() {
		warning = MirrorWarning
	} else if err := s.store.DeleteJob(ctx, id); err != nil {
		logger.Warn(ctx, "mirror delete job", zap.Uint64("job_id", id), zap.Error(err))
		warning = MirrorWarning
	}
	s.bump(ctx)
	return warning, nil
}

// mirror runs a best-effort write-through, stamping the warning on the
// response object when it fails
func (s *SubmitService) mirror(ctx context.Context, job *model.Job, write func() error) {
	if !s.store.Available() {
		job.Warning = MirrorWarning
		return
	}
	if err := write(); err != nil {
		logger.Warn(ctx, "mirror write job", zap.Uint64("job_id", job.ID), zap.Error(err))
		job.Warning = MirrorWarning
	}
}

func (s *SubmitService) bump(ctx context.Context) {
	if s.bumper != nil {
		s.bumper.Bump(ctx)
	}
}
