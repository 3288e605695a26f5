package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"applyflow/internal/database"
	"applyflow/internal/domain/application"
	"applyflow/internal/domain/job"
	"applyflow/internal/eventbus"
	"applyflow/internal/repository"

	"github.com/google/uuid"
)

type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(context.Context, string, ...any) (int64, error)         { return 0, nil }
func (t *fakeTx) Query(context.Context, string, ...any) (database.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) database.Row       { return nil }
func (t *fakeTx) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx       *fakeTx
	beginErr error
}

func (d *fakeDB) Exec(context.Context, string, ...any) (int64, error)         { return 0, nil }
func (d *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) { return nil, nil }
func (d *fakeDB) QueryRow(context.Context, string, ...any) database.Row       { return nil }
func (d *fakeDB) Ping(context.Context) error                                  { return nil }
func (d *fakeDB) Close() error                                                { return nil }
func (d *fakeDB) Begin(context.Context) (database.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	if d.tx == nil {
		d.tx = &fakeTx{}
	}
	return d.tx, nil
}

type fakeAppRepo struct {
	byID    map[uuid.UUID]application.Application
	exists  bool
	created []application.Application
	updates []struct {
		id     uuid.UUID
		status application.Status
		reason string
	}

	existsErr error
	createErr error
	findErr   error
	updateErr error
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{byID: make(map[uuid.UUID]application.Application)}
}

func (r *fakeAppRepo) WithTx(database.Tx) repository.ApplicationRepository { return r }
func (r *fakeAppRepo) Create(_ context.Context, app application.Application) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, app)
	r.byID[app.ID] = app
	return nil
}
func (r *fakeAppRepo) FindByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	if r.findErr != nil {
		return application.Application{}, r.findErr
	}
	app, ok := r.byID[id]
	if !ok {
		return application.Application{}, repository.ErrApplicationNotFound
	}
	return app, nil
}
func (r *fakeAppRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (application.Application, error) {
	return r.FindByID(ctx, id)
}
func (r *fakeAppRepo) ExistsActiveByUserAndJob(context.Context, string, uuid.UUID) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.exists, nil
}
func (r *fakeAppRepo) UpdateStatus(_ context.Context, id uuid.UUID, status application.Status, reason string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, struct {
		id     uuid.UUID
		status application.Status
		reason string
	}{id, status, reason})
	app := r.byID[id]
	app.Status = status
	if reason != "" {
		app.RejectionReason = reason
	}
	r.byID[id] = app
	return nil
}
func (r *fakeAppRepo) List(context.Context, repository.ApplicationListFilter) ([]application.Application, int64, error) {
	return nil, 0, nil
}
func (r *fakeAppRepo) CountByUser(context.Context, string) (int64, error) { return 0, nil }
func (r *fakeAppRepo) CountByUserSince(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}
func (r *fakeAppRepo) CountByUserGroupedByStatus(context.Context, string) (map[application.Status]int64, error) {
	return nil, nil
}

type fakeJobRepo struct {
	jobs map[uuid.UUID]job.Job
	err  error
}

func (r *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	if r.err != nil {
		return job.Job{}, r.err
	}
	j, ok := r.jobs[id]
	if !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}
func (r *fakeJobRepo) ListPublished(context.Context) ([]job.Job, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	return out, nil
}
func (r *fakeJobRepo) ListByEmployer(context.Context, repository.JobListFilter) ([]job.Job, int64, error) {
	return nil, 0, nil
}

type capturingBus struct {
	events []map[string]any
	err    error
}

func (b *capturingBus) Publish(_ context.Context, _ string, _ string, payload []byte) error {
	if b.err != nil {
		return b.err
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return err
	}
	b.events = append(b.events, m)
	return nil
}

func testJob(employerID string) job.Job {
	return job.Job{
		ID:         uuid.New(),
		EmployerID: employerID,
		Title:      "Backend Engineer",
		Company:    "Acme",
		Status:     job.StatusPublished,
	}
}

func newAppService(db *fakeDB, apps *fakeAppRepo, jobs *fakeJobRepo, bus *capturingBus) *ApplicationService {
	return NewApplicationService(db, apps, jobs, eventbus.NewPublisher(bus, "application-events"), nil)
}

func TestSubmit_PublishesAfterCommit(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	bus := &capturingBus{}

	svc := newAppService(db, apps, jobs, bus)

	res, err := svc.Submit(context.Background(), "user-1", SubmitApplicationParams{JobID: j.ID})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Application.Status != application.StatusApplied {
		t.Fatalf("expected APPLIED, got %s", res.Application.Status)
	}
	if !db.tx.committed {
		t.Fatalf("transaction was not committed")
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.events))
	}
	ev := bus.events[0]
	if ev["eventType"] != "APPLICATION_SUBMITTED" {
		t.Fatalf("unexpected event type: %v", ev["eventType"])
	}
	if ev["userId"] != "user-1" || ev["jobId"] != j.ID.String() {
		t.Fatalf("unexpected event identity fields: %v", ev)
	}
}

func TestSubmit_CommitFailurePublishesNothing(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	bus := &capturingBus{}

	svc := newAppService(db, apps, jobs, bus)

	_, err := svc.Submit(context.Background(), "user-1", SubmitApplicationParams{JobID: j.ID})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if len(bus.events) != 0 {
		t.Fatalf("event published despite failed commit: %d", len(bus.events))
	}
}

func TestSubmit_DuplicateActiveApplication(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	apps.exists = true
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	bus := &capturingBus{}

	svc := newAppService(db, apps, jobs, bus)

	_, err := svc.Submit(context.Background(), "user-1", SubmitApplicationParams{JobID: j.ID})
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if len(apps.created) != 0 {
		t.Fatalf("application was created despite duplicate")
	}
	if len(bus.events) != 0 {
		t.Fatalf("event published despite duplicate")
	}
}

func TestSubmit_JobNotActive(t *testing.T) {
	j := testJob("emp-1")
	j.Status = "closed"
	db := &fakeDB{}
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}

	svc := newAppService(db, newFakeAppRepo(), jobs, &capturingBus{})

	_, err := svc.Submit(context.Background(), "user-1", SubmitApplicationParams{JobID: j.ID})
	if !errors.Is(err, ErrJobNotActive) {
		t.Fatalf("expected ErrJobNotActive, got %v", err)
	}
}

func TestSubmit_GeneratesResumeID(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}

	svc := newAppService(db, apps, jobs, &capturingBus{})

	res, err := svc.Submit(context.Background(), "user-1", SubmitApplicationParams{
		JobID:      j.ID,
		ResumeData: []byte("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Application.ResumeID == "" {
		t.Fatalf("expected resume id to be generated")
	}
}

func seedApplication(apps *fakeAppRepo, userID string, jobID uuid.UUID, status application.Status) application.Application {
	app := application.Application{
		ID:          uuid.New(),
		UserID:      userID,
		JobID:       jobID,
		Status:      status,
		AppliedDate: time.Now(),
		ResumeData:  []byte("%PDF-1.4"),
	}
	apps.byID[app.ID] = app
	return app
}

func TestViewResume_FirstViewTransitions(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	bus := &capturingBus{}
	app := seedApplication(apps, "user-1", j.ID, application.StatusApplied)

	svc := newAppService(db, apps, jobs, bus)

	resume, err := svc.ViewResume(context.Background(), app.ID, "emp-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(resume.Data) != "%PDF-1.4" {
		t.Fatalf("unexpected resume data")
	}
	if len(apps.updates) != 1 || apps.updates[0].status != application.StatusResumeViewed {
		t.Fatalf("expected one transition to RESUME_VIEWED, got %v", apps.updates)
	}
	if len(bus.events) != 1 || bus.events[0]["eventType"] != "RESUME_VIEWED" {
		t.Fatalf("expected RESUME_VIEWED event, got %v", bus.events)
	}
}

func TestViewResume_RepeatViewNotifiesWithoutTransition(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	bus := &capturingBus{}
	app := seedApplication(apps, "user-1", j.ID, application.StatusInReview)

	svc := newAppService(db, apps, jobs, bus)

	if _, err := svc.ViewResume(context.Background(), app.ID, "emp-1"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(apps.updates) != 0 {
		t.Fatalf("expected no status change, got %v", apps.updates)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected re-notification event, got %d", len(bus.events))
	}
	if bus.events[0]["status"] != "IN_REVIEW" {
		t.Fatalf("expected current status in event, got %v", bus.events[0]["status"])
	}
}

func TestViewResume_WrongEmployer(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	app := seedApplication(apps, "user-1", j.ID, application.StatusApplied)

	svc := newAppService(db, apps, jobs, &capturingBus{})

	if _, err := svc.ViewResume(context.Background(), app.ID, "emp-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestViewResume_MissingResume(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	app := seedApplication(apps, "user-1", j.ID, application.StatusApplied)
	app.ResumeData = nil
	apps.byID[app.ID] = app

	svc := newAppService(db, apps, jobs, &capturingBus{})

	if _, err := svc.ViewResume(context.Background(), app.ID, "emp-1"); !errors.Is(err, ErrResumeNotFound) {
		t.Fatalf("expected ErrResumeNotFound, got %v", err)
	}
}

func TestWithdraw_OnlyApplicant(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	app := seedApplication(apps, "user-1", j.ID, application.StatusInReview)

	svc := newAppService(db, apps, jobs, &capturingBus{})

	if _, err := svc.Withdraw(context.Background(), app.ID, "someone-else"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestWithdraw_TerminalStatusRejected(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}

	for _, st := range []application.Status{application.StatusOffered, application.StatusRejected, application.StatusWithdrawn} {
		app := seedApplication(apps, "user-1", j.ID, st)
		svc := newAppService(db, apps, jobs, &capturingBus{})
		if _, err := svc.Withdraw(context.Background(), app.ID, "user-1"); !errors.Is(err, ErrCannotWithdraw) {
			t.Fatalf("status %s: expected ErrCannotWithdraw, got %v", st, err)
		}
	}
}

func TestWithdraw_PublishesEvent(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	bus := &capturingBus{}
	app := seedApplication(apps, "user-1", j.ID, application.StatusShortlisted)

	svc := newAppService(db, apps, jobs, bus)

	res, err := svc.Withdraw(context.Background(), app.ID, "user-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Application.Status != application.StatusWithdrawn {
		t.Fatalf("expected WITHDRAWN, got %s", res.Application.Status)
	}
	if len(bus.events) != 1 || bus.events[0]["eventType"] != "APPLICATION_WITHDRAWN" {
		t.Fatalf("expected APPLICATION_WITHDRAWN event, got %v", bus.events)
	}
}

func TestUpdateStatus_ValidTransition(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	bus := &capturingBus{}
	app := seedApplication(apps, "user-1", j.ID, application.StatusInReview)

	svc := newAppService(db, apps, jobs, bus)

	res, err := svc.UpdateStatus(context.Background(), app.ID, "emp-1", UpdateStatusParams{Status: "SHORTLISTED"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Application.Status != application.StatusShortlisted {
		t.Fatalf("expected SHORTLISTED, got %s", res.Application.Status)
	}
	ev := bus.events[0]
	if ev["eventType"] != "APPLICATION_STATUS_UPDATED" || ev["oldStatus"] != "IN_REVIEW" || ev["status"] != "SHORTLISTED" {
		t.Fatalf("unexpected event: %v", ev)
	}
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	app := seedApplication(apps, "user-1", j.ID, application.StatusApplied)

	svc := newAppService(db, apps, jobs, &capturingBus{})

	if _, err := svc.UpdateStatus(context.Background(), app.ID, "emp-1", UpdateStatusParams{Status: "OFFERED"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateStatus_WithdrawnRejectedForEmployers(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	app := seedApplication(apps, "user-1", j.ID, application.StatusInReview)

	svc := newAppService(db, apps, jobs, &capturingBus{})

	if _, err := svc.UpdateStatus(context.Background(), app.ID, "emp-1", UpdateStatusParams{Status: "WITHDRAWN"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateStatus_RejectionReasonOnlyOnReject(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	app := seedApplication(apps, "user-1", j.ID, application.StatusInReview)

	svc := newAppService(db, apps, jobs, &capturingBus{})

	res, err := svc.UpdateStatus(context.Background(), app.ID, "emp-1", UpdateStatusParams{
		Status: "SHORTLISTED",
		Reason: "should be dropped",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Application.RejectionReason != "" {
		t.Fatalf("reason persisted on non-rejection: %q", res.Application.RejectionReason)
	}

	res, err = svc.UpdateStatus(context.Background(), app.ID, "emp-1", UpdateStatusParams{
		Status: "REJECTED",
		Reason: "position filled",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Application.RejectionReason != "position filled" {
		t.Fatalf("expected rejection reason to persist, got %q", res.Application.RejectionReason)
	}
}

func TestGetByID_AccessControl(t *testing.T) {
	j := testJob("emp-1")
	db := &fakeDB{}
	apps := newFakeAppRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{j.ID: j}}
	app := seedApplication(apps, "user-1", j.ID, application.StatusApplied)

	svc := newAppService(db, apps, jobs, &capturingBus{})

	if _, err := svc.GetByID(context.Background(), app.ID, "user-1"); err != nil {
		t.Fatalf("applicant access failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), app.ID, "emp-1"); err != nil {
		t.Fatalf("employer access failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), app.ID, "stranger"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
}
