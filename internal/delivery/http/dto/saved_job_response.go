package dto

import (
	"time"

	"applyflow/internal/usecase"
)

type SaveJobRequest struct {
	JobID string `json:"jobId"`
}

type SavedJobResponse struct {
	ID        string       `json:"id"`
	JobID     string       `json:"jobId"`
	Job       *JobResponse `json:"job,omitempty"`
	SavedDate time.Time    `json:"savedDate"`
}

func NewSavedJobResponse(item usecase.SavedJobItem) SavedJobResponse {
	return SavedJobResponse{
		ID:        item.ID.String(),
		JobID:     item.JobID.String(),
		Job:       newJobResponsePtr(item.Job),
		SavedDate: item.SavedDate,
	}
}

type SavedJobListResponse struct {
	SavedJobs  []SavedJobResponse `json:"savedJobs"`
	Pagination PaginationResponse `json:"pagination"`
}

func NewSavedJobListResponse(items []usecase.SavedJobItem, p usecase.Pagination) SavedJobListResponse {
	out := SavedJobListResponse{
		SavedJobs:  make([]SavedJobResponse, 0, len(items)),
		Pagination: NewPaginationResponse(p),
	}
	for _, item := range items {
		out.SavedJobs = append(out.SavedJobs, NewSavedJobResponse(item))
	}
	return out
}
