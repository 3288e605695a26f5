package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"applyflow/internal/domain/job"
	"applyflow/internal/repository"

	"github.com/google/uuid"
)

type SavedJobItem struct {
	ID        uuid.UUID
	JobID     uuid.UUID
	Job       *job.Job
	SavedDate time.Time
}

type SavedJobUsecase interface {
	Save(ctx context.Context, userID string, jobID uuid.UUID) (SavedJobItem, error)
	Unsave(ctx context.Context, userID string, jobID uuid.UUID) error
	List(ctx context.Context, userID string, page, limit int) ([]SavedJobItem, Pagination, error)
	Count(ctx context.Context, userID string) (int64, error)
}

type SavedJobService struct {
	saved  repository.SavedJobRepository
	jobs   repository.JobRepository
	logger *log.Logger
	now    func() time.Time
}

func NewSavedJobService(saved repository.SavedJobRepository, jobs repository.JobRepository, logger *log.Logger) *SavedJobService {
	return &SavedJobService{saved: saved, jobs: jobs, logger: logger, now: time.Now}
}

func (s *SavedJobService) Save(ctx context.Context, userID string, jobID uuid.UUID) (SavedJobItem, error) {
	if userID == "" || jobID == uuid.Nil {
		return SavedJobItem{}, ErrInvalidInput
	}

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return SavedJobItem{}, ErrJobNotFound
		}
		return SavedJobItem{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	exists, err := s.saved.ExistsByUserAndJob(ctx, userID, jobID)
	if err != nil {
		return SavedJobItem{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if exists {
		return SavedJobItem{}, ErrJobAlreadySaved
	}

	sj := repository.SavedJob{
		ID:        uuid.New(),
		UserID:    userID,
		JobID:     jobID,
		SavedDate: s.now(),
	}
	if err := s.saved.Create(ctx, sj); err != nil {
		return SavedJobItem{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if s.logger != nil {
		s.logger.Printf("[SavedJobs] saved | user=%s job=%s", userID, jobID)
	}
	return SavedJobItem{ID: sj.ID, JobID: jobID, Job: &j, SavedDate: sj.SavedDate}, nil
}

func (s *SavedJobService) Unsave(ctx context.Context, userID string, jobID uuid.UUID) error {
	if userID == "" || jobID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := s.saved.Delete(ctx, userID, jobID); err != nil {
		if errors.Is(err, repository.ErrSavedJobNotFound) {
			return ErrSavedJobNotFound
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if s.logger != nil {
		s.logger.Printf("[SavedJobs] removed | user=%s job=%s", userID, jobID)
	}
	return nil
}

func (s *SavedJobService) List(ctx context.Context, userID string, page, limit int) ([]SavedJobItem, Pagination, error) {
	if userID == "" {
		return nil, Pagination{}, ErrInvalidInput
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	rows, total, err := s.saved.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// Jobs deleted after being saved still list, with no job attached.
	items := make([]SavedJobItem, 0, len(rows))
	for _, sj := range rows {
		item := SavedJobItem{ID: sj.ID, JobID: sj.JobID, SavedDate: sj.SavedDate}
		if j, err := s.jobs.GetByID(ctx, sj.JobID); err == nil {
			item.Job = &j
		}
		items = append(items, item)
	}
	return items, paginate(page, limit, total), nil
}

func (s *SavedJobService) Count(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrInvalidInput
	}
	n, err := s.saved.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return n, nil
}
