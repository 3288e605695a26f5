package eventbus

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeApplicationSubmitted     Type = "APPLICATION_SUBMITTED"
	TypeResumeViewed             Type = "RESUME_VIEWED"
	TypeApplicationWithdrawn     Type = "APPLICATION_WITHDRAWN"
	TypeApplicationStatusUpdated Type = "APPLICATION_STATUS_UPDATED"
)

// Event is one application lifecycle event. Each variant carries its own
// fields; all of them serialize to the same wire payload shape.
type Event interface {
	Kind() Type
	// Key is the bus partition key. Events sharing a key are observed in
	// emission order by a single consumer.
	Key() string
	wire(now time.Time) wirePayload
}

// Fields shared by every lifecycle event.
type ApplicationEvent struct {
	ApplicationID uuid.UUID
	JobID         uuid.UUID
	JobTitle      string
	CompanyName   string
	CompanyID     string
	EmployerID    string

	UserID         string
	ApplicantName  string
	ApplicantEmail string
}

func (e ApplicationEvent) Key() string {
	return e.UserID + "-" + e.JobID.String()
}

func (e ApplicationEvent) base(kind Type, status string, now time.Time) wirePayload {
	return wirePayload{
		EventType:      string(kind),
		ApplicationID:  e.ApplicationID.String(),
		JobID:          e.JobID.String(),
		JobTitle:       e.JobTitle,
		CompanyName:    e.CompanyName,
		CompanyID:      e.CompanyID,
		EmployerID:     e.EmployerID,
		UserID:         e.UserID,
		ApplicantName:  e.ApplicantName,
		ApplicantEmail: e.ApplicantEmail,
		Status:         status,
		Timestamp:      now.UTC().Format(time.RFC3339),
	}
}

type Submitted struct {
	ApplicationEvent
	ResumeID    string
	AppliedDate string
}

func (e Submitted) Kind() Type { return TypeApplicationSubmitted }

func (e Submitted) wire(now time.Time) wirePayload {
	p := e.base(TypeApplicationSubmitted, "APPLIED", now)
	p.ResumeID = e.ResumeID
	p.AppliedDate = e.AppliedDate
	return p
}

type ResumeViewed struct {
	ApplicationEvent
	Status string
}

func (e ResumeViewed) Kind() Type { return TypeResumeViewed }

func (e ResumeViewed) wire(now time.Time) wirePayload {
	return e.base(TypeResumeViewed, e.Status, now)
}

type Withdrawn struct {
	ApplicationEvent
}

func (e Withdrawn) Kind() Type { return TypeApplicationWithdrawn }

func (e Withdrawn) wire(now time.Time) wirePayload {
	return e.base(TypeApplicationWithdrawn, "WITHDRAWN", now)
}

type StatusUpdated struct {
	ApplicationEvent
	OldStatus string
	NewStatus string
}

func (e StatusUpdated) Kind() Type { return TypeApplicationStatusUpdated }

func (e StatusUpdated) wire(now time.Time) wirePayload {
	p := e.base(TypeApplicationStatusUpdated, e.NewStatus, now)
	p.OldStatus = e.OldStatus
	return p
}

type wirePayload struct {
	EventType      string `json:"eventType"`
	ApplicationID  string `json:"applicationId"`
	JobID          string `json:"jobId"`
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
	CompanyID      string `json:"companyId"`
	EmployerID     string `json:"employerId"`
	UserID         string `json:"userId"`
	ApplicantName  string `json:"applicantName"`
	ApplicantEmail string `json:"applicantEmail"`
	ResumeID       string `json:"resumeId,omitempty"`
	Status         string `json:"status"`
	OldStatus      string `json:"oldStatus,omitempty"`
	AppliedDate    string `json:"appliedDate,omitempty"`
	Timestamp      string `json:"timestamp"`
}
