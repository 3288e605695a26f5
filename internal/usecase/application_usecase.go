package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"applyflow/internal/database"
	"applyflow/internal/domain/application"
	"applyflow/internal/domain/job"
	"applyflow/internal/eventbus"
	"applyflow/internal/repository"

	"github.com/google/uuid"
)

type SubmitApplicationParams struct {
	JobID       uuid.UUID
	CoverLetter string

	ResumeID          string
	ResumeData        []byte
	ResumeFileName    string
	ResumeContentType string

	ApplicantName  string
	ApplicantEmail string
}

type UpdateStatusParams struct {
	Status string
	Reason string
}

// ApplicationWithJob pairs an application with its job for list/detail reads.
// Job is nil when the job lookup failed; reads degrade instead of erroring.
type ApplicationWithJob struct {
	Application application.Application
	Job         *job.Job
}

type ApplicationStats struct {
	Total         int64
	ByStatus      map[application.Status]int64
	ThisWeek      int64
	ThisMonth     int64
	InterviewRate *float64
}

type ApplicationListParams struct {
	Status    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type ApplicationUsecase interface {
	Submit(ctx context.Context, userID string, params SubmitApplicationParams) (ApplicationWithJob, error)
	ViewResume(ctx context.Context, applicationID uuid.UUID, employerID string) (application.Resume, error)
	Withdraw(ctx context.Context, applicationID uuid.UUID, userID string) (ApplicationWithJob, error)
	UpdateStatus(ctx context.Context, applicationID uuid.UUID, employerID string, params UpdateStatusParams) (ApplicationWithJob, error)

	GetByID(ctx context.Context, applicationID uuid.UUID, callerID string) (ApplicationWithJob, error)
	ListForUser(ctx context.Context, userID string, params ApplicationListParams) ([]ApplicationWithJob, Pagination, error)
	ListForJob(ctx context.Context, jobID uuid.UUID, employerID string, params ApplicationListParams) ([]ApplicationWithJob, Pagination, error)
	Stats(ctx context.Context, userID string) (ApplicationStats, error)
}

type ApplicationService struct {
	db     database.DB
	apps   repository.ApplicationRepository
	jobs   repository.JobRepository
	pub    *eventbus.Publisher
	logger *log.Logger
	now    func() time.Time
}

func NewApplicationService(db database.DB, apps repository.ApplicationRepository, jobs repository.JobRepository, pub *eventbus.Publisher, logger *log.Logger) *ApplicationService {
	return &ApplicationService{db: db, apps: apps, jobs: jobs, pub: pub, logger: logger, now: time.Now}
}

func (s *ApplicationService) relay() *eventbus.Relay {
	return eventbus.NewRelay(s.pub, s.logger)
}

func (s *ApplicationService) eventFor(app application.Application, j job.Job) eventbus.ApplicationEvent {
	return eventbus.ApplicationEvent{
		ApplicationID:  app.ID,
		JobID:          j.ID,
		JobTitle:       j.Title,
		CompanyName:    j.Company,
		CompanyID:      j.CompanyID,
		EmployerID:     j.EmployerID,
		UserID:         app.UserID,
		ApplicantName:  app.ApplicantName,
		ApplicantEmail: app.ApplicantEmail,
	}
}

func (s *ApplicationService) Submit(ctx context.Context, userID string, params SubmitApplicationParams) (ApplicationWithJob, error) {
	if userID == "" || params.JobID == uuid.Nil {
		return ApplicationWithJob{}, ErrInvalidInput
	}

	j, err := s.jobs.GetByID(ctx, params.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return ApplicationWithJob{}, ErrJobNotFound
		}
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !j.Published() {
		return ApplicationWithJob{}, ErrJobNotActive
	}

	now := s.now()
	app := application.Application{
		ID:                uuid.New(),
		UserID:            userID,
		JobID:             j.ID,
		Status:            application.StatusApplied,
		AppliedDate:       now,
		CoverLetter:       params.CoverLetter,
		ResumeID:          params.ResumeID,
		ResumeData:        params.ResumeData,
		ResumeFileName:    params.ResumeFileName,
		ResumeContentType: params.ResumeContentType,
		ApplicantName:     params.ApplicantName,
		ApplicantEmail:    params.ApplicantEmail,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if len(app.ResumeData) > 0 && app.ResumeID == "" {
		app.ResumeID = uuid.NewString()
	}

	relay := s.relay()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appsTx := s.apps.WithTx(tx)

	exists, err := appsTx.ExistsActiveByUserAndJob(ctx, userID, j.ID)
	if err != nil {
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if exists {
		return ApplicationWithJob{}, ErrAlreadyApplied
	}

	if err := appsTx.Create(ctx, app); err != nil {
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	relay.Stage(eventbus.Submitted{
		ApplicationEvent: s.eventFor(app, j),
		ResumeID:         app.ResumeID,
		AppliedDate:      app.AppliedDate.Format("2006-01-02"),
	})

	if err := tx.Commit(ctx); err != nil {
		relay.Discard()
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	relay.DispatchCommitted(ctx)

	if s.logger != nil {
		s.logger.Printf("[Applications] submitted | application=%s user=%s job=%s", app.ID, userID, j.ID)
	}
	return ApplicationWithJob{Application: app, Job: &j}, nil
}

func (s *ApplicationService) ViewResume(ctx context.Context, applicationID uuid.UUID, employerID string) (application.Resume, error) {
	if applicationID == uuid.Nil || employerID == "" {
		return application.Resume{}, ErrInvalidInput
	}

	relay := s.relay()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return application.Resume{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appsTx := s.apps.WithTx(tx)

	app, err := appsTx.FindByIDForUpdate(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return application.Resume{}, ErrApplicationNotFound
		}
		return application.Resume{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	j, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return application.Resume{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if j.EmployerID != employerID {
		return application.Resume{}, ErrForbidden
	}

	if len(app.ResumeData) == 0 {
		return application.Resume{}, ErrResumeNotFound
	}

	// First view moves APPLIED to RESUME_VIEWED; re-viewing re-notifies
	// without re-transitioning.
	if app.Status == application.StatusApplied {
		if err := appsTx.UpdateStatus(ctx, app.ID, application.StatusResumeViewed, ""); err != nil {
			return application.Resume{}, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		app.Status = application.StatusResumeViewed
	}

	relay.Stage(eventbus.ResumeViewed{
		ApplicationEvent: s.eventFor(app, j),
		Status:           string(app.Status),
	})

	if err := tx.Commit(ctx); err != nil {
		relay.Discard()
		return application.Resume{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	relay.DispatchCommitted(ctx)

	return application.Resume{
		Data:        app.ResumeData,
		FileName:    app.ResumeFileName,
		ContentType: app.ResumeContentType,
	}, nil
}

func (s *ApplicationService) Withdraw(ctx context.Context, applicationID uuid.UUID, userID string) (ApplicationWithJob, error) {
	if applicationID == uuid.Nil || userID == "" {
		return ApplicationWithJob{}, ErrInvalidInput
	}

	relay := s.relay()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appsTx := s.apps.WithTx(tx)

	app, err := appsTx.FindByIDForUpdate(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ApplicationWithJob{}, ErrApplicationNotFound
		}
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if app.UserID != userID {
		return ApplicationWithJob{}, ErrForbidden
	}
	if app.Status.Terminal() {
		return ApplicationWithJob{}, ErrCannotWithdraw
	}

	j, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := appsTx.UpdateStatus(ctx, app.ID, application.StatusWithdrawn, ""); err != nil {
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	app.Status = application.StatusWithdrawn
	app.UpdatedAt = s.now()

	relay.Stage(eventbus.Withdrawn{ApplicationEvent: s.eventFor(app, j)})

	if err := tx.Commit(ctx); err != nil {
		relay.Discard()
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	relay.DispatchCommitted(ctx)

	if s.logger != nil {
		s.logger.Printf("[Applications] withdrawn | application=%s user=%s", app.ID, userID)
	}
	return ApplicationWithJob{Application: app, Job: &j}, nil
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID uuid.UUID, employerID string, params UpdateStatusParams) (ApplicationWithJob, error) {
	if applicationID == uuid.Nil || employerID == "" {
		return ApplicationWithJob{}, ErrInvalidInput
	}

	next, ok := application.ParseStatus(params.Status)
	if !ok {
		return ApplicationWithJob{}, ErrInvalidInput
	}
	// Withdrawal is applicant-only, through Withdraw.
	if next == application.StatusWithdrawn {
		return ApplicationWithJob{}, ErrInvalidTransition
	}

	relay := s.relay()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appsTx := s.apps.WithTx(tx)

	app, err := appsTx.FindByIDForUpdate(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ApplicationWithJob{}, ErrApplicationNotFound
		}
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	j, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if j.EmployerID != employerID {
		return ApplicationWithJob{}, ErrForbidden
	}

	current := app.Status
	if !application.CanTransition(current, next) {
		return ApplicationWithJob{}, ErrInvalidTransition
	}

	reason := ""
	if next == application.StatusRejected {
		reason = params.Reason
	}
	if err := appsTx.UpdateStatus(ctx, app.ID, next, reason); err != nil {
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	app.Status = next
	app.RejectionReason = reason
	app.UpdatedAt = s.now()

	relay.Stage(eventbus.StatusUpdated{
		ApplicationEvent: s.eventFor(app, j),
		OldStatus:        string(current),
		NewStatus:        string(next),
	})

	if err := tx.Commit(ctx); err != nil {
		relay.Discard()
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	relay.DispatchCommitted(ctx)

	if s.logger != nil {
		s.logger.Printf("[Applications] status updated | application=%s %s -> %s", app.ID, current, next)
	}
	return ApplicationWithJob{Application: app, Job: &j}, nil
}

func (s *ApplicationService) GetByID(ctx context.Context, applicationID uuid.UUID, callerID string) (ApplicationWithJob, error) {
	if applicationID == uuid.Nil || callerID == "" {
		return ApplicationWithJob{}, ErrInvalidInput
	}

	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ApplicationWithJob{}, ErrApplicationNotFound
		}
		return ApplicationWithJob{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	withJob := s.attachJob(ctx, app)
	if app.UserID == callerID {
		return withJob, nil
	}
	if withJob.Job != nil && withJob.Job.EmployerID == callerID {
		return withJob, nil
	}
	return ApplicationWithJob{}, ErrForbidden
}

func (s *ApplicationService) ListForUser(ctx context.Context, userID string, params ApplicationListParams) ([]ApplicationWithJob, Pagination, error) {
	if userID == "" {
		return nil, Pagination{}, ErrInvalidInput
	}

	filter, page, limit, err := s.listFilter(params)
	if err != nil {
		return nil, Pagination{}, err
	}
	filter.UserID = userID

	apps, total, err := s.apps.List(ctx, filter)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return s.attachJobs(ctx, apps), paginate(page, limit, total), nil
}

func (s *ApplicationService) ListForJob(ctx context.Context, jobID uuid.UUID, employerID string, params ApplicationListParams) ([]ApplicationWithJob, Pagination, error) {
	if jobID == uuid.Nil || employerID == "" {
		return nil, Pagination{}, ErrInvalidInput
	}

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, Pagination{}, ErrJobNotFound
		}
		return nil, Pagination{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if j.EmployerID != employerID {
		return nil, Pagination{}, ErrForbidden
	}

	filter, page, limit, err := s.listFilter(params)
	if err != nil {
		return nil, Pagination{}, err
	}
	filter.JobID = jobID

	apps, total, err := s.apps.List(ctx, filter)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return s.attachJobs(ctx, apps), paginate(page, limit, total), nil
}

func (s *ApplicationService) Stats(ctx context.Context, userID string) (ApplicationStats, error) {
	if userID == "" {
		return ApplicationStats{}, ErrInvalidInput
	}

	total, err := s.apps.CountByUser(ctx, userID)
	if err != nil {
		return ApplicationStats{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	byStatus, err := s.apps.CountByUserGroupedByStatus(ctx, userID)
	if err != nil {
		return ApplicationStats{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	now := s.now()
	thisWeek, err := s.apps.CountByUserSince(ctx, userID, now.AddDate(0, 0, -7))
	if err != nil {
		return ApplicationStats{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	thisMonth, err := s.apps.CountByUserSince(ctx, userID, now.AddDate(0, -1, 0))
	if err != nil {
		return ApplicationStats{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	var interviewRate *float64
	if total > 0 {
		rate := float64(byStatus[application.StatusInterview]) / float64(total) * 100
		interviewRate = &rate
	}

	return ApplicationStats{
		Total:         total,
		ByStatus:      byStatus,
		ThisWeek:      thisWeek,
		ThisMonth:     thisMonth,
		InterviewRate: interviewRate,
	}, nil
}

func (s *ApplicationService) listFilter(params ApplicationListParams) (repository.ApplicationListFilter, int, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	filter := repository.ApplicationListFilter{
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}
	if params.Status != "" {
		st, ok := application.ParseStatus(params.Status)
		if !ok {
			return repository.ApplicationListFilter{}, 0, 0, ErrInvalidInput
		}
		filter.Status = st
	}
	return filter, page, limit, nil
}

func (s *ApplicationService) attachJob(ctx context.Context, app application.Application) ApplicationWithJob {
	j, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Applications] job lookup failed | application=%s job=%s err=%v", app.ID, app.JobID, err)
		}
		return ApplicationWithJob{Application: app}
	}
	return ApplicationWithJob{Application: app, Job: &j}
}

func (s *ApplicationService) attachJobs(ctx context.Context, apps []application.Application) []ApplicationWithJob {
	out := make([]ApplicationWithJob, 0, len(apps))
	seen := make(map[uuid.UUID]*job.Job, len(apps))
	for _, app := range apps {
		if cached, ok := seen[app.JobID]; ok {
			out = append(out, ApplicationWithJob{Application: app, Job: cached})
			continue
		}
		withJob := s.attachJob(ctx, app)
		seen[app.JobID] = withJob.Job
		out = append(out, withJob)
	}
	return out
}
