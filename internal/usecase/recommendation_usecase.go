package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"applyflow/internal/directory"
	"applyflow/internal/domain/scoring"
	"applyflow/internal/repository"

	"github.com/google/uuid"
)

const (
	// Entries scoring below this are never cached or returned.
	MinMatchThreshold = 30
	// Cached entries expire this long after computation.
	RecommendationTTL = time.Hour

	recomputeLockTTL = 30 * time.Second
)

var feedbackKinds = map[string]struct{}{
	"relevant":        {},
	"not_relevant":    {},
	"already_applied": {},
	"not_interested":  {},
}

// RecomputeLocker serializes recomputation per user. Implementations may
// degrade to always-granted, in which case the single-transaction cache
// replace makes the outcome last-writer-wins wholesale.
type RecomputeLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string)
}

type RefreshResult struct {
	Requested bool
	Succeeded bool
}

type RecommendationUsecase interface {
	Recompute(ctx context.Context, userID string) error
	GetRecommendations(ctx context.Context, userID string, page, limit int, refresh bool) ([]repository.CachedRecommendation, Pagination, RefreshResult, error)
	RecordFeedback(ctx context.Context, userID string, jobID uuid.UUID, kind, reason string) error
}

type RecommendationService struct {
	profiles directory.ProfileDirectory
	jobs     repository.JobRepository
	cache    repository.RecommendationCacheRepository
	feedback repository.FeedbackRepository
	locks    RecomputeLocker
	logger   *log.Logger
	now      func() time.Time
}

func NewRecommendationService(
	profiles directory.ProfileDirectory,
	jobs repository.JobRepository,
	cache repository.RecommendationCacheRepository,
	feedback repository.FeedbackRepository,
	locks RecomputeLocker,
	logger *log.Logger,
) *RecommendationService {
	return &RecommendationService{
		profiles: profiles,
		jobs:     jobs,
		cache:    cache,
		feedback: feedback,
		locks:    locks,
		logger:   logger,
		now:      time.Now,
	}
}

// Recompute scores every published job against the user's current profile
// and swaps the user's cache entries wholesale.
func (s *RecommendationService) Recompute(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidInput
	}

	if s.locks != nil {
		key := "recommendations:recompute:" + userID
		ok, err := s.locks.AcquireLock(ctx, key, recomputeLockTTL)
		if err == nil && !ok {
			// A concurrent sweep for this user is already writing a full
			// generation; skipping keeps replacement serialized.
			if s.logger != nil {
				s.logger.Printf("[Recommendations] recompute skipped, lock held | user=%s", userID)
			}
			return nil
		}
		defer s.locks.ReleaseLock(ctx, key)
	}

	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	jobs, err := s.jobs.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published jobs: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(RecommendationTTL)

	entries := make([]repository.CacheEntry, 0, len(jobs))
	for _, j := range jobs {
		res := scoring.Score(p, j, now)
		if res.Score < MinMatchThreshold {
			continue
		}
		entries = append(entries, repository.CacheEntry{
			ID:           uuid.New(),
			UserID:       userID,
			JobID:        j.ID,
			MatchScore:   res.Score,
			MatchReasons: res.Reasons,
			ExpiresAt:    expiresAt,
		})
	}

	// Ties keep the published-jobs listing order.
	sort.SliceStable(entries, func(i, k int) bool {
		return entries[i].MatchScore > entries[k].MatchScore
	})

	if err := s.cache.ReplaceForUser(ctx, userID, entries); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}

	if s.logger != nil {
		s.logger.Printf("[Recommendations] recomputed | user=%s jobs=%d cached=%d", userID, len(jobs), len(entries))
	}
	return nil
}

// GetRecommendations serves the cached ranking. A cold or expired cache is
// recomputed inline so callers never see an artificially empty first page;
// if that recompute fails the read degrades to whatever cache state exists.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID string, page, limit int, refresh bool) ([]repository.CachedRecommendation, Pagination, RefreshResult, error) {
	if userID == "" {
		return nil, Pagination{}, RefreshResult{}, ErrInvalidInput
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	result := RefreshResult{Requested: refresh}
	recomputed := false
	if refresh {
		if err := s.Recompute(ctx, userID); err != nil {
			if s.logger != nil {
				s.logger.Printf("[Recommendations] refresh failed | user=%s err=%v", userID, err)
			}
		} else {
			result.Succeeded = true
			recomputed = true
		}
	}

	offset := (page - 1) * limit
	items, total, err := s.cache.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, Pagination{}, result, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if total == 0 && !recomputed {
		if err := s.Recompute(ctx, userID); err != nil {
			if s.logger != nil {
				s.logger.Printf("[Recommendations] inline recompute failed | user=%s err=%v", userID, err)
			}
			return items, paginate(page, limit, total), result, nil
		}
		items, total, err = s.cache.ListForUser(ctx, userID, limit, offset)
		if err != nil {
			return nil, Pagination{}, result, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	return items, paginate(page, limit, total), result, nil
}

func (s *RecommendationService) RecordFeedback(ctx context.Context, userID string, jobID uuid.UUID, kind, reason string) error {
	if userID == "" || jobID == uuid.Nil {
		return ErrInvalidInput
	}

	normalized := strings.ToLower(strings.TrimSpace(kind))
	if _, ok := feedbackKinds[normalized]; !ok {
		return ErrInvalidFeedbackType
	}

	fb := repository.Feedback{
		ID:        uuid.New(),
		UserID:    userID,
		JobID:     jobID,
		Feedback:  normalized,
		Reason:    reason,
		CreatedAt: s.now(),
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if s.logger != nil {
		s.logger.Printf("[Recommendations] feedback recorded | user=%s job=%s kind=%s", userID, jobID, normalized)
	}
	return nil
}
