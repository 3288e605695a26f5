package handler

import (
	"errors"
	"strconv"

	"applyflow/internal/delivery/http/dto"
	"applyflow/internal/delivery/http/middleware"
	"applyflow/internal/pkg/response"
	"applyflow/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/recommendations")
	grp.Get("/", h.List)
	grp.Post("/feedback", h.Feedback)
}

func (h *RecommendationHandler) List(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	refresh, _ := strconv.ParseBool(c.Query("refresh", "false"))

	items, pg, refreshRes, err := h.uc.GetRecommendations(c.Context(), userID, page, limit, refresh)
	if err != nil {
		return mapRecommendationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendationListResponse(items, pg, refreshRes))
}

func (h *RecommendationHandler) Feedback(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req dto.RecommendationFeedbackRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	if err := h.uc.RecordFeedback(c.Context(), userID, jobID, req.Feedback, req.Reason); err != nil {
		return mapRecommendationError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Feedback recorded", nil)
}

func mapRecommendationError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, usecase.ErrInvalidFeedbackType):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
