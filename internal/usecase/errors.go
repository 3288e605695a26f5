package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	ErrJobNotFound         = errors.New("job not found")
	ErrJobNotActive        = errors.New("job is not active")
	ErrAlreadyApplied      = errors.New("already applied for this job")
	ErrApplicationNotFound = errors.New("application not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrCannotWithdraw      = errors.New("cannot withdraw application")
	ErrResumeNotFound      = errors.New("resume not found")

	ErrInvalidFeedbackType = errors.New("invalid feedback type")
	ErrJobAlreadySaved     = errors.New("job already saved")
	ErrSavedJobNotFound    = errors.New("job is not in saved list")
)

// Pagination is 1-indexed toward callers.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

func paginate(page, limit int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
