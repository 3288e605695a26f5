package usecase

import (
	"context"
	"errors"
	"fmt"

	"applyflow/internal/domain/job"
	"applyflow/internal/repository"

	"github.com/google/uuid"
)

// JobUsecase exposes read-only access to the job directory.
type JobUsecase interface {
	GetJob(ctx context.Context, id uuid.UUID) (job.Job, error)
	ListEmployerJobs(ctx context.Context, employerID, status, sortOrder string, page, limit int) ([]job.Job, Pagination, error)
}

type JobService struct {
	jobs repository.JobRepository
}

func NewJobService(jobs repository.JobRepository) *JobService {
	return &JobService{jobs: jobs}
}

func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (job.Job, error) {
	if id == uuid.Nil {
		return job.Job{}, ErrInvalidInput
	}
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return j, nil
}

func (s *JobService) ListEmployerJobs(ctx context.Context, employerID, status, sortOrder string, page, limit int) ([]job.Job, Pagination, error) {
	if employerID == "" {
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

	jobs, total, err := s.jobs.ListByEmployer(ctx, repository.JobListFilter{
		EmployerID: employerID,
		Status:     status,
		SortOrder:  sortOrder,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return jobs, paginate(page, limit, total), nil
}
