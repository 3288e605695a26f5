package usecase

import (
	"context"
	"errors"
	"testing"

	"applyflow/internal/domain/job"
	"applyflow/internal/repository"

	"github.com/google/uuid"
)

type fakeSavedRepo struct {
	saved map[string][]repository.SavedJob
}

func newFakeSavedRepo() *fakeSavedRepo {
	return &fakeSavedRepo{saved: make(map[string][]repository.SavedJob)}
}

func (r *fakeSavedRepo) ExistsByUserAndJob(_ context.Context, userID string, jobID uuid.UUID) (bool, error) {
	for _, sj := range r.saved[userID] {
		if sj.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSavedRepo) Create(_ context.Context, sj repository.SavedJob) error {
	r.saved[sj.UserID] = append(r.saved[sj.UserID], sj)
	return nil
}

func (r *fakeSavedRepo) Delete(_ context.Context, userID string, jobID uuid.UUID) error {
	list := r.saved[userID]
	for i, sj := range list {
		if sj.JobID == jobID {
			r.saved[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return repository.ErrSavedJobNotFound
}

func (r *fakeSavedRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]repository.SavedJob, int64, error) {
	list := r.saved[userID]
	total := int64(len(list))
	if offset >= len(list) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], total, nil
}

func (r *fakeSavedRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	return int64(len(r.saved[userID])), nil
}

func TestSaveJob_RoundTrip(t *testing.T) {
	j := testJob("emp-1")
	saved := newFakeSavedRepo()
	svc := NewSavedJobService(saved, &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}, nil)

	item, err := svc.Save(context.Background(), "user-1", j.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if item.Job == nil || item.Job.ID != j.ID {
		t.Fatalf("expected saved job to carry the job")
	}

	if _, err := svc.Save(context.Background(), "user-1", j.ID); !errors.Is(err, ErrJobAlreadySaved) {
		t.Fatalf("expected ErrJobAlreadySaved, got %v", err)
	}

	items, pg, err := svc.List(context.Background(), "user-1", 1, 20)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 || pg.Total != 1 {
		t.Fatalf("expected one saved job, got %d (total %d)", len(items), pg.Total)
	}

	if err := svc.Unsave(context.Background(), "user-1", j.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := svc.Unsave(context.Background(), "user-1", j.ID); !errors.Is(err, ErrSavedJobNotFound) {
		t.Fatalf("expected ErrSavedJobNotFound, got %v", err)
	}
}

func TestSaveJob_UnknownJob(t *testing.T) {
	svc := NewSavedJobService(newFakeSavedRepo(), &fakeJobRepo{}, nil)
	if _, err := svc.Save(context.Background(), "user-1", uuid.New()); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
