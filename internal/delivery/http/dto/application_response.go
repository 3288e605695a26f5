package dto

import (
	"time"

	"applyflow/internal/usecase"
)

type SubmitApplicationRequest struct {
	JobID       string `json:"jobId"`
	CoverLetter string `json:"coverLetter"`

	ResumeID          string `json:"resumeId"`
	ResumeData        []byte `json:"resumeData"`
	ResumeFileName    string `json:"resumeFileName"`
	ResumeContentType string `json:"resumeContentType"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type ApplicationResponse struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	JobID           string       `json:"jobId"`
	Status          string       `json:"status"`
	AppliedDate     time.Time    `json:"appliedDate"`
	CoverLetter     string       `json:"coverLetter,omitempty"`
	RejectionReason string       `json:"rejectionReason,omitempty"`
	ResumeID        string       `json:"resumeId,omitempty"`
	HasResume       bool         `json:"hasResume"`
	ApplicantName   string       `json:"applicantName,omitempty"`
	ApplicantEmail  string       `json:"applicantEmail,omitempty"`
	Job             *JobResponse `json:"job,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func NewApplicationResponse(item usecase.ApplicationWithJob) ApplicationResponse {
	app := item.Application
	return ApplicationResponse{
		ID:              app.ID.String(),
		UserID:          app.UserID,
		JobID:           app.JobID.String(),
		Status:          string(app.Status),
		AppliedDate:     app.AppliedDate,
		CoverLetter:     app.CoverLetter,
		RejectionReason: app.RejectionReason,
		ResumeID:        app.ResumeID,
		HasResume:       len(app.ResumeData) > 0,
		ApplicantName:   app.ApplicantName,
		ApplicantEmail:  app.ApplicantEmail,
		Job:             newJobResponsePtr(item.Job),
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}

type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Pagination   PaginationResponse    `json:"pagination"`
}

func NewApplicationListResponse(items []usecase.ApplicationWithJob, p usecase.Pagination) ApplicationListResponse {
	out := ApplicationListResponse{
		Applications: make([]ApplicationResponse, 0, len(items)),
		Pagination:   NewPaginationResponse(p),
	}
	for _, item := range items {
		out.Applications = append(out.Applications, NewApplicationResponse(item))
	}
	return out
}
