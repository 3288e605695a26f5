package job

import (
	"time"

	"github.com/google/uuid"
)

const StatusPublished = "published"

type Job struct {
	ID         uuid.UUID
	EmployerID string
	CompanyID  string
	Title      string
	Company    string
	Status     string

	Skills            []string
	Seniority         string
	EducationRequired string
	IsRemote          bool
	Location          string
	PostedDate        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (j Job) Published() bool {
	return j.Status == StatusPublished
}
