package application

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusApplied      Status = "APPLIED"
	StatusResumeViewed Status = "RESUME_VIEWED"
	StatusInReview     Status = "IN_REVIEW"
	StatusShortlisted  Status = "SHORTLISTED"
	StatusInterview    Status = "INTERVIEW"
	StatusOffered      Status = "OFFERED"
	StatusRejected     Status = "REJECTED"
	StatusWithdrawn    Status = "WITHDRAWN"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusApplied, StatusResumeViewed, StatusInReview, StatusShortlisted,
		StatusInterview, StatusOffered, StatusRejected, StatusWithdrawn:
		return Status(s), true
	}
	return "", false
}

// Terminal statuses accept no further transitions, including withdrawal.
func (s Status) Terminal() bool {
	switch s {
	case StatusOffered, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// CanTransition reports whether an employer may move an application from
// current to next. Withdrawal is applicant-only and never allowed here.
func CanTransition(current, next Status) bool {
	if next == StatusWithdrawn {
		return false
	}
	switch current {
	case StatusApplied, StatusResumeViewed:
		return next == StatusInReview || next == StatusRejected
	case StatusInReview:
		return next == StatusShortlisted || next == StatusRejected
	case StatusShortlisted:
		return next == StatusInterview || next == StatusRejected
	case StatusInterview:
		return next == StatusOffered || next == StatusRejected
	}
	return false
}

type Application struct {
	ID     uuid.UUID
	UserID string
	JobID  uuid.UUID
	Status Status

	AppliedDate time.Time
	CoverLetter string

	// Set only when the status becomes REJECTED.
	RejectionReason string

	ResumeID          string
	ResumeData        []byte
	ResumeFileName    string
	ResumeContentType string

	// Snapshot captured at submission time, immutable afterwards.
	ApplicantName  string
	ApplicantEmail string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resume is the stored resume payload returned by the view-resume flow.
type Resume struct {
	Data        []byte
	FileName    string
	ContentType string
}
