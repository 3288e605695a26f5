package repository

import (
	"context"
	"time"

	"applyflow/internal/database"

	"github.com/google/uuid"
)

// Feedback rows are append-only; there is no update or delete path.
type Feedback struct {
	ID        uuid.UUID
	UserID    string
	JobID     uuid.UUID
	Feedback  string
	Reason    string
	CreatedAt time.Time
}

type FeedbackRepository interface {
	Create(ctx context.Context, fb Feedback) error
}

type PostgresFeedbackRepository struct {
	db database.DB
}

func NewPostgresFeedbackRepository(db database.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db}
}

func (r *PostgresFeedbackRepository) Create(ctx context.Context, fb Feedback) error {
	var reason any
	if fb.Reason != "" {
		reason = fb.Reason
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO recommendation_feedback (id, user_id, job_id, feedback, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		fb.ID, fb.UserID, fb.JobID, fb.Feedback, reason, fb.CreatedAt,
	)
	return err
}
