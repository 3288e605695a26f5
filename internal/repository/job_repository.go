package repository

import (
	"context"
	"errors"
	"strings"

	"applyflow/internal/database"
	"applyflow/internal/domain/job"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrJobNotFound = errors.New("job not found")

type JobListFilter struct {
	EmployerID string
	Status     string
	SortOrder  string
	Limit      int
	Offset     int
}

// JobRepository is the job directory: jobs are read-only from this
// service's perspective.
type JobRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	ListPublished(ctx context.Context) ([]job.Job, error)
	ListByEmployer(ctx context.Context, filter JobListFilter) ([]job.Job, int64, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, employer_id, COALESCE(company_id, ''), COALESCE(title, ''), COALESCE(company, ''),
	COALESCE(status, ''), skills, COALESCE(seniority, ''), COALESCE(education_required, ''),
	is_remote, COALESCE(location, ''), posted_date, created_at, updated_at`

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.EmployerID, &j.CompanyID, &j.Title, &j.Company,
		&j.Status, &j.Skills, &j.Seniority, &j.EducationRequired,
		&j.IsRemote, &j.Location, &j.PostedDate, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) ListPublished(ctx context.Context) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY posted_date DESC NULLS LAST, created_at DESC`,
		job.StatusPublished,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rowScanner{rows})
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) ListByEmployer(ctx context.Context, filter JobListFilter) ([]job.Job, int64, error) {
	cond := sq.And{sq.Eq{"employer_id": filter.EmployerID}}
	if filter.Status != "" {
		cond = append(cond, sq.Eq{"status": strings.ToLower(filter.Status)})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("jobs").Where(cond).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
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
		Select(jobColumns).
		From("jobs").
		Where(cond).
		OrderBy("created_at " + dir).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rowScanner{rows})
		if err != nil {
			return nil, 0, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
