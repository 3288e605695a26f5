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

type SavedJobHandler struct {
	uc usecase.SavedJobUsecase
}

func NewSavedJobHandler(uc usecase.SavedJobUsecase) *SavedJobHandler {
	return &SavedJobHandler{uc: uc}
}

func (h *SavedJobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/saved-jobs")
	grp.Post("/", h.Save)
	grp.Get("/", h.List)
	grp.Get("/count", h.Count)
	grp.Delete("/:job_id", h.Unsave)
}

func (h *SavedJobHandler) Save(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req dto.SaveJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	item, err := h.uc.Save(c.Context(), userID, jobID)
	if err != nil {
		return mapSavedJobError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Job saved", dto.NewSavedJobResponse(item))
}

func (h *SavedJobHandler) Unsave(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	if err := h.uc.Unsave(c.Context(), userID, jobID); err != nil {
		return mapSavedJobError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job removed from saved list", nil)
}

func (h *SavedJobHandler) List(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	items, pg, err := h.uc.List(c.Context(), userID, page, limit)
	if err != nil {
		return mapSavedJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSavedJobListResponse(items, pg))
}

func (h *SavedJobHandler) Count(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	n, err := h.uc.Count(c.Context(), userID)
	if err != nil {
		return mapSavedJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"count": n})
}

func mapSavedJobError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrJobNotFound), errors.Is(err, usecase.ErrSavedJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrJobAlreadySaved):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
