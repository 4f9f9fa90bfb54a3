package service

import (
	"context"

	"minoj/internal/config"
	"minoj/internal/model"
	"minoj/internal/registry"
	"minoj/internal/repository"
	"minoj/pkg/errors"
	"minoj/pkg/utils/logger"

	"go.uber.org/zap"
)

// ContestService owns contest creation and updates. Contest 0 is
// read-only through this surface.
type ContestService struct {
	cfg      *config.Config
	users    *registry.Users
	contests *registry.Contests
	store    *repository.Store
	bumper   VersionBumper
}

// NewContestService creates the service
func NewContestService(cfg *config.Config, users *registry.Users, contests *registry.Contests,
	store *repository.Store, bumper VersionBumper) *ContestService {
	return &ContestService{
		cfg:      cfg,
		users:    users,
		contests: contests,
		store:    store,
		bumper:   bumper,
	}
}

// validate checks that every referenced problem is configured and every
// referenced user is registered
func (s *ContestService) validate(ct *model.Contest) bool {
	for _, pid := range ct.ProblemIDs {
		if s.cfg.Problem(pid) == nil {
			return false
		}
	}
	for _, uid := range ct.UserIDs {
		if !s.users.Exists(uid) {
			return false
		}
	}
	return true
}

// Create registers a new contest. The request must not carry an id.
func (s *ContestService) Create(ctx context.Context, ct *model.Contest) (*model.Contest, error) {
	if !s.validate(ct) {
		return nil, errors.New(errors.NotFound)
	}

	created := s.contests.Create(ct)
	if !s.store.Available() {
		created.Warning = MirrorWarning
	} else if err := s.store.CreateContest(ctx, created); err != nil {
		logger.Warn(ctx, "mirror create contest", zap.Uint64("contest_id", *created.ID), zap.Error(err))
		created.Warning = MirrorWarning
	}
	s.bump(ctx)
	return created, nil
}

// Update replaces an existing non-zero contest
func (s *ContestService) Update(ctx context.Context, ct *model.Contest) (*model.Contest, error) {
	if !s.validate(ct) {
		return nil, errors.Newf(errors.NotFound, "Contest %d not found.", *ct.ID)
	}

	updated, err := s.contests.Update(ct)
	if err != nil {
		return nil, err
	}
	if !s.store.Available() {
		updated.Warning = MirrorWarning
	} else if err := s.store.UpdateContest(ctx, updated); err != nil {
		logger.Warn(ctx, "mirror update contest", zap.Uint64("contest_id", *updated.ID), zap.Error(err))
		updated.Warning = MirrorWarning
	}
	s.bump(ctx)
	return updated, nil
}

// Get returns one contest
func (s *ContestService) Get(ctx context.Context, id uint64) (*model.Contest, error) {
	ct, ok := s.contests.Get(id)
	if !ok {
		return nil, errors.Newf(errors.NotFound, "Contest %d not found.", id)
	}
	return ct, nil
}

// List returns all contests except contest 0 in ascending id order
func (s *ContestService) List(ctx context.Context) []model.Contest {
	return s.contests.List()
}

func (s *ContestService) bump(ctx context.Context) {
	if s.bumper != nil {
		s.bumper.Bump(ctx)
	}
}
