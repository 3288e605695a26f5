package dto

import (
	"time"

	"applyflow/internal/repository"
	"applyflow/internal/usecase"
)

type RecommendationResponse struct {
	JobID        string      `json:"jobId"`
	Job          JobResponse `json:"job"`
	MatchScore   int         `json:"matchScore"`
	MatchReasons []string    `json:"matchReasons"`
	ExpiresAt    time.Time   `json:"expiresAt"`
}

type RecommendationListResponse struct {
	Recommendations []RecommendationResponse `json:"recommendations"`
	Pagination      PaginationResponse       `json:"pagination"`
	Refreshed       *bool                    `json:"refreshed,omitempty"`
}

func NewRecommendationListResponse(items []repository.CachedRecommendation, p usecase.Pagination, refresh usecase.RefreshResult) RecommendationListResponse {
	out := RecommendationListResponse{
		Recommendations: make([]RecommendationResponse, 0, len(items)),
		Pagination:      NewPaginationResponse(p),
	}
	for _, item := range items {
		reasons := item.MatchReasons
		if reasons == nil {
			reasons = []string{}
		}
		out.Recommendations = append(out.Recommendations, RecommendationResponse{
			JobID:        item.JobID.String(),
			Job:          NewJobResponse(item.Job),
			MatchScore:   item.MatchScore,
			MatchReasons: reasons,
			ExpiresAt:    item.ExpiresAt,
		})
	}
	if refresh.Requested {
		ok := refresh.Succeeded
		out.Refreshed = &ok
	}
	return out
}

type RecommendationFeedbackRequest struct {
	JobID    string `json:"jobId"`
	Feedback string `json:"feedback"`
	Reason   string `json:"reason"`
}
