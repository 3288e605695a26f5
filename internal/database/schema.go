package database

import "context"

// EnsureSchema creates the tables this service owns. Statements are
// idempotent so it is safe to run on every boot.
func EnsureSchema(ctx context.Context, db DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id UUID PRIMARY KEY,
			employer_id TEXT NOT NULL,
			company_id TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			company TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'published',
			skills TEXT[] NOT NULL DEFAULT '{}',
			seniority TEXT NOT NULL DEFAULT '',
			education_required TEXT NOT NULL DEFAULT '',
			is_remote BOOLEAN NOT NULL DEFAULT FALSE,
			location TEXT NOT NULL DEFAULT '',
			posted_date DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs (status)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_employer ON jobs (employer_id)`,

		`CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			job_id UUID NOT NULL REFERENCES jobs (id),
			status TEXT NOT NULL,
			applied_date DATE NOT NULL,
			cover_letter TEXT NOT NULL DEFAULT '',
			rejection_reason TEXT,
			resume_id TEXT,
			resume_data BYTEA,
			resume_file_name TEXT,
			resume_content_type TEXT,
			applicant_name TEXT NOT NULL DEFAULT '',
			applicant_email TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_user ON applications (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_job ON applications (job_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_applications_active
			ON applications (user_id, job_id)
			WHERE status <> 'WITHDRAWN'`,

		`CREATE TABLE IF NOT EXISTS recommendation_cache (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			job_id UUID NOT NULL,
			match_score INT NOT NULL,
			match_reasons TEXT NOT NULL DEFAULT '',
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, job_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendation_cache_user
			ON recommendation_cache (user_id, match_score DESC)`,

		`CREATE TABLE IF NOT EXISTS recommendation_feedback (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			job_id UUID NOT NULL,
			feedback TEXT NOT NULL,
			reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS saved_jobs (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			job_id UUID NOT NULL,
			saved_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, job_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
