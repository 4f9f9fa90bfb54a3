package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"minoj/internal/common/cache"
	"minoj/internal/config"
	"minoj/internal/model"
	"minoj/internal/rank"
	"minoj/internal/registry"
	"minoj/pkg/errors"
	"minoj/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	ranklistVersionKey = "ranklist:version"
	ranklistTTL        = 10 * time.Minute
)

// RanklistService computes per-contest ranklists, with an optional
// redis cache in front. Cache entries are keyed by a version counter
// bumped on every mutation, so stale entries are never served and
// invalidation is a single INCR.
type RanklistService struct {
	cfg      *config.Config
	users    *registry.Users
	contests *registry.Contests
	jobs     *registry.Jobs
	cache    *cache.RedisCache
}

// NewRanklistService creates the service. A nil cache disables caching.
func NewRanklistService(cfg *config.Config, users *registry.Users, contests *registry.Contests,
	jobs *registry.Jobs, rc *cache.RedisCache) *RanklistService {
	return &RanklistService{
		cfg:      cfg,
		users:    users,
		contests: contests,
		jobs:     jobs,
		cache:    rc,
	}
}

// Bump invalidates all cached ranklists
func (s *RanklistService) Bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, ranklistVersionKey); err != nil {
		logger.Debug(ctx, "ranklist version bump", zap.Error(err))
	}
}

// Ranklist returns the ranked rows for one contest
func (s *RanklistService) Ranklist(ctx context.Context, contestID uint64,
	rule model.ScoringRule, breaker model.TieBreaker) ([]model.UserRank, error) {
	contest, ok := s.contests.Get(contestID)
	if !ok {
		return nil, errors.Newf(errors.NotFound, "Contest %d not found.", contestID)
	}

	key := s.cacheKey(ctx, contestID, rule, breaker)
	if key != "" {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var ranks []model.UserRank
			if err := json.Unmarshal([]byte(cached), &ranks); err == nil {
				return ranks, nil
			}
		} else if err != cache.ErrCacheMiss {
			logger.Debug(ctx, "ranklist cache get", zap.Error(err))
		}
	}

	ranks := rank.Compute(s.cfg, contest, s.jobs.List(), rule, breaker, s.users.Name)

	if key != "" {
		if data, err := json.Marshal(ranks); err == nil {
			if err := s.cache.Set(ctx, key, string(data), ranklistTTL); err != nil {
				logger.Debug(ctx, "ranklist cache set", zap.Error(err))
			}
		}
	}
	return ranks, nil
}

// cacheKey folds the current version into the key, empty when caching
// is unavailable
func (s *RanklistService) cacheKey(ctx context.Context, contestID uint64,
	rule model.ScoringRule, breaker model.TieBreaker) string {
	if s.cache == nil {
		return ""
	}
	version := int64(0)
	raw, err := s.cache.Get(ctx, ranklistVersionKey)
	if err == nil {
		version, _ = strconv.ParseInt(raw, 10, 64)
	} else if err != cache.ErrCacheMiss {
		return ""
	}
	return fmt.Sprintf("ranklist:%d:%s:%s:%d", contestID, rule, breaker, version)
}
