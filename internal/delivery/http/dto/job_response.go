package dto

import (
	"time"

	"applyflow/internal/domain/job"
)

type JobResponse struct {
	ID                string     `json:"id"`
	EmployerID        string     `json:"employerId"`
	CompanyID         string     `json:"companyId,omitempty"`
	Title             string     `json:"title"`
	Company           string     `json:"company"`
	Status            string     `json:"status"`
	Skills            []string   `json:"skills"`
	Seniority         string     `json:"seniority,omitempty"`
	EducationRequired string     `json:"educationRequired,omitempty"`
	IsRemote          bool       `json:"isRemote"`
	Location          string     `json:"location,omitempty"`
	PostedDate        *time.Time `json:"postedDate,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func NewJobResponse(j job.Job) JobResponse {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		ID:                j.ID.String(),
		EmployerID:        j.EmployerID,
		CompanyID:         j.CompanyID,
		Title:             j.Title,
		Company:           j.Company,
		Status:            j.Status,
		Skills:            skills,
		Seniority:         j.Seniority,
		EducationRequired: j.EducationRequired,
		IsRemote:          j.IsRemote,
		Location:          j.Location,
		PostedDate:        j.PostedDate,
		CreatedAt:         j.CreatedAt,
		UpdatedAt:         j.UpdatedAt,
	}
}

func newJobResponsePtr(j *job.Job) *JobResponse {
	if j == nil {
		return nil
	}
	out := NewJobResponse(*j)
	return &out
}
