package repository

import (
	"context"
	"strings"
	"time"

	"applyflow/internal/database"
	"applyflow/internal/domain/job"

	"github.com/google/uuid"
)

// CacheEntry is one scored job for one user, written by a recompute sweep.
type CacheEntry struct {
	ID           uuid.UUID
	UserID       string
	JobID        uuid.UUID
	MatchScore   int
	MatchReasons []string
	ExpiresAt    time.Time
}

// CachedRecommendation is a live cache row joined with its job for reads.
type CachedRecommendation struct {
	JobID        uuid.UUID
	Job          job.Job
	MatchScore   int
	MatchReasons []string
	ExpiresAt    time.Time
}

type RecommendationCacheRepository interface {
	// ReplaceForUser swaps the user's entire entry set in one transaction
	// (delete-then-insert), so no reader ever sees two generations mixed
	// for the same key.
	ReplaceForUser(ctx context.Context, userID string, entries []CacheEntry) error
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]CachedRecommendation, int64, error)
	CountLiveForUser(ctx context.Context, userID string) (int64, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type PostgresRecommendationCacheRepository struct {
	db database.DB
}

func NewPostgresRecommendationCacheRepository(db database.DB) *PostgresRecommendationCacheRepository {
	return &PostgresRecommendationCacheRepository{db: db}
}

func (r *PostgresRecommendationCacheRepository) ReplaceForUser(ctx context.Context, userID string, entries []CacheEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM recommendation_cache WHERE user_id = $1`, userID); err != nil {
		return err
	}

	for _, e := range entries {
		_, err := tx.Exec(ctx,
			`INSERT INTO recommendation_cache (id, user_id, job_id, match_score, match_reasons, expires_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.ID, e.UserID, e.JobID, e.MatchScore, joinReasons(e.MatchReasons), e.ExpiresAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRecommendationCacheRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]CachedRecommendation, int64, error) {
	total, err := r.CountLiveForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT rc.job_id, rc.match_score, rc.match_reasons, rc.expires_at, `+prefixedJobColumns("j")+`
		 FROM recommendation_cache rc
		 JOIN jobs j ON j.id = rc.job_id
		 WHERE rc.user_id = $1 AND rc.expires_at > now()
		 ORDER BY rc.match_score DESC, rc.created_at ASC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]CachedRecommendation, 0)
	for rows.Next() {
		var rec CachedRecommendation
		var reasons string
		err := rows.Scan(
			&rec.JobID, &rec.MatchScore, &reasons, &rec.ExpiresAt,
			&rec.Job.ID, &rec.Job.EmployerID, &rec.Job.CompanyID, &rec.Job.Title, &rec.Job.Company,
			&rec.Job.Status, &rec.Job.Skills, &rec.Job.Seniority, &rec.Job.EducationRequired,
			&rec.Job.IsRemote, &rec.Job.Location, &rec.Job.PostedDate, &rec.Job.CreatedAt, &rec.Job.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		rec.MatchReasons = splitReasons(reasons)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresRecommendationCacheRepository) CountLiveForUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM recommendation_cache WHERE user_id = $1 AND expires_at > now()`,
		userID,
	)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresRecommendationCacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	return r.db.Exec(ctx, `DELETE FROM recommendation_cache WHERE expires_at <= now()`)
}

const reasonSeparator = "; "

func joinReasons(reasons []string) string {
	return strings.Join(reasons, reasonSeparator)
}

func splitReasons(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, reasonSeparator)
}

func prefixedJobColumns(alias string) string {
	return alias + `.id, ` + alias + `.employer_id, COALESCE(` + alias + `.company_id, ''), COALESCE(` + alias + `.title, ''), COALESCE(` + alias + `.company, ''),
	COALESCE(` + alias + `.status, ''), ` + alias + `.skills, COALESCE(` + alias + `.seniority, ''), COALESCE(` + alias + `.education_required, ''),
	` + alias + `.is_remote, COALESCE(` + alias + `.location, ''), ` + alias + `.posted_date, ` + alias + `.created_at, ` + alias + `.updated_at`
}
