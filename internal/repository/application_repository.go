package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"applyflow/internal/database"
	"applyflow/internal/domain/application"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrApplicationNotFound = errors.New("application not found")

// psql builds queries with $n placeholders for pgx.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type ApplicationListFilter struct {
	UserID    string
	JobID     uuid.UUID
	Status    application.Status
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

type ApplicationRepository interface {
	WithTx(tx database.Tx) ApplicationRepository

	Create(ctx context.Context, app application.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	// FindByIDForUpdate locks the row for the duration of the enclosing
	// transaction, serializing concurrent transitions on one application.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (application.Application, error)
	ExistsActiveByUserAndJob(ctx context.Context, userID string, jobID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status, rejectionReason string) error

	List(ctx context.Context, filter ApplicationListFilter) ([]application.Application, int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int64, error)
	CountByUserGroupedByStatus(ctx context.Context, userID string) (map[application.Status]int64, error)
}

type PostgresApplicationRepository struct {
	db database.DB
	q  database.Querier
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db, q: db}
}

func (r *PostgresApplicationRepository) WithTx(tx database.Tx) ApplicationRepository {
	return &PostgresApplicationRepository{db: r.db, q: tx}
}

const applicationColumns = `id, user_id, job_id, status, applied_date, COALESCE(cover_letter, ''),
	COALESCE(rejection_reason, ''), COALESCE(resume_id, ''), resume_data,
	COALESCE(resume_file_name, ''), COALESCE(resume_content_type, ''),
	COALESCE(applicant_name, ''), COALESCE(applicant_email, ''), created_at, updated_at`

func scanApplication(row database.Row) (application.Application, error) {
	var a application.Application
	var status string
	err := row.Scan(
		&a.ID, &a.UserID, &a.JobID, &status, &a.AppliedDate, &a.CoverLetter,
		&a.RejectionReason, &a.ResumeID, &a.ResumeData,
		&a.ResumeFileName, &a.ResumeContentType,
		&a.ApplicantName, &a.ApplicantEmail, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, app application.Application) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO applications
			(id, user_id, job_id, status, applied_date, cover_letter, resume_id,
			 resume_data, resume_file_name, resume_content_type,
			 applicant_name, applicant_email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		app.ID, app.UserID, app.JobID, string(app.Status), app.AppliedDate,
		app.CoverLetter, app.ResumeID, app.ResumeData, app.ResumeFileName,
		app.ResumeContentType, app.ApplicantName, app.ApplicantEmail,
		app.CreatedAt, app.UpdatedAt,
	)
	return err
}

func (r *PostgresApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.q.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.q.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1 FOR UPDATE`, id)
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) ExistsActiveByUserAndJob(ctx context.Context, userID string, jobID uuid.UUID) (bool, error) {
	var exists bool
	row := r.q.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE user_id = $1 AND job_id = $2 AND status <> $3
		)`,
		userID, jobID, string(application.StatusWithdrawn),
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status, rejectionReason string) error {
	var reason any
	if rejectionReason != "" {
		reason = rejectionReason
	}
	affected, err := r.q.Exec(ctx,
		`UPDATE applications
		 SET status = $1, rejection_reason = COALESCE($2, rejection_reason), updated_at = now()
		 WHERE id = $3`,
		string(status), reason, id,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

var applicationSortColumns = map[string]string{
	"appliedDate": "applied_date",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"status":      "status",
}

func (r *PostgresApplicationRepository) List(ctx context.Context, filter ApplicationListFilter) ([]application.Application, int64, error) {
	cond := sq.And{}
	if filter.UserID != "" {
		cond = append(cond, sq.Eq{"user_id": filter.UserID})
	}
	if filter.JobID != uuid.Nil {
		cond = append(cond, sq.Eq{"job_id": filter.JobID})
	}
	if filter.Status != "" {
		cond = append(cond, sq.Eq{"status": string(filter.Status)})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("applications").Where(cond).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := applicationSortColumns[filter.SortBy]
	if !ok {
		sortCol = "applied_date"
	}
	dir := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		dir = "ASC"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	listSQL, listArgs, err := psql.
		Select(applicationColumns).
		From("applications").
		Where(cond).
		OrderBy(sortCol + " " + dir).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rowScanner{rows})
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresApplicationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	row := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE user_id = $1`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresApplicationRepository) CountByUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var n int64
	row := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications WHERE user_id = $1 AND applied_date >= $2`,
		userID, since,
	)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresApplicationRepository) CountByUserGroupedByStatus(ctx context.Context, userID string) (map[application.Status]int64, error) {
	rows, err := r.q.Query(ctx,
		`SELECT status, COUNT(*) FROM applications WHERE user_id = $1 GROUP BY status`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[application.Status]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[application.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner lets scanApplication read from an open Rows cursor.
type rowScanner struct {
	rows database.Rows
}

func (s rowScanner) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}
