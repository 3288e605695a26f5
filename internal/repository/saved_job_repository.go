package repository

import (
	"context"
	"errors"
	"time"

	"applyflow/internal/database"

	"github.com/google/uuid"
)

var ErrSavedJobNotFound = errors.New("saved job not found")

type SavedJob struct {
	ID        uuid.UUID
	UserID    string
	JobID     uuid.UUID
	SavedDate time.Time
}

type SavedJobRepository interface {
	ExistsByUserAndJob(ctx context.Context, userID string, jobID uuid.UUID) (bool, error)
	Create(ctx context.Context, sj SavedJob) error
	Delete(ctx context.Context, userID string, jobID uuid.UUID) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]SavedJob, int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type PostgresSavedJobRepository struct {
	db database.DB
}

func NewPostgresSavedJobRepository(db database.DB) *PostgresSavedJobRepository {
	return &PostgresSavedJobRepository{db: db}
}

func (r *PostgresSavedJobRepository) ExistsByUserAndJob(ctx context.Context, userID string, jobID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM saved_jobs WHERE user_id = $1 AND job_id = $2)`,
		userID, jobID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresSavedJobRepository) Create(ctx context.Context, sj SavedJob) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO saved_jobs (id, user_id, job_id, saved_date) VALUES ($1, $2, $3, $4)`,
		sj.ID, sj.UserID, sj.JobID, sj.SavedDate,
	)
	return err
}

func (r *PostgresSavedJobRepository) Delete(ctx context.Context, userID string, jobID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`,
		userID, jobID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSavedJobNotFound
	}
	return nil
}

func (r *PostgresSavedJobRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]SavedJob, int64, error) {
	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, job_id, saved_date
		 FROM saved_jobs
		 WHERE user_id = $1
		 ORDER BY saved_date DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]SavedJob, 0)
	for rows.Next() {
		var sj SavedJob
		if err := rows.Scan(&sj.ID, &sj.UserID, &sj.JobID, &sj.SavedDate); err != nil {
			return nil, 0, err
		}
		out = append(out, sj)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresSavedJobRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM saved_jobs WHERE user_id = $1`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
