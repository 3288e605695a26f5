package dto

import "applyflow/internal/usecase"

type ApplicationStatsResponse struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"byStatus"`
	ThisWeek      int64            `json:"thisWeek"`
	ThisMonth     int64            `json:"thisMonth"`
	InterviewRate *float64         `json:"interviewRate,omitempty"`
}

func NewApplicationStatsResponse(stats usecase.ApplicationStats) ApplicationStatsResponse {
	byStatus := make(map[string]int64, len(stats.ByStatus))
	for st, n := range stats.ByStatus {
		byStatus[string(st)] = n
	}
	return ApplicationStatsResponse{
		Total:         stats.Total,
		ByStatus:      byStatus,
		ThisWeek:      stats.ThisWeek,
		ThisMonth:     stats.ThisMonth,
		InterviewRate: stats.InterviewRate,
	}
}
