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

type ApplicationHandler struct {
	uc usecase.ApplicationUsecase
}

func NewApplicationHandler(uc usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/applications")
	grp.Post("/", h.Submit)
	grp.Get("/", h.ListMine)
	grp.Get("/stats", h.Stats)
	grp.Get("/:id", h.GetByID)
	grp.Post("/:id/withdraw", h.Withdraw)
	grp.Patch("/:id/status", h.UpdateStatus)
	grp.Get("/:id/resume", h.ViewResume)

	r.Get("/jobs/:job_id/applications", h.ListForJob)
}

func (h *ApplicationHandler) Submit(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req dto.SubmitApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	res, err := h.uc.Submit(c.Context(), userID, usecase.SubmitApplicationParams{
		JobID:             jobID,
		CoverLetter:       req.CoverLetter,
		ResumeID:          req.ResumeID,
		ResumeData:        req.ResumeData,
		ResumeFileName:    req.ResumeFileName,
		ResumeContentType: req.ResumeContentType,
		ApplicantName:     middleware.UserName(c),
		ApplicantEmail:    middleware.UserEmail(c),
	})
	if err != nil {
		return mapApplicationError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Application submitted", dto.NewApplicationResponse(res))
}

func (h *ApplicationHandler) ListMine(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	items, pg, err := h.uc.ListForUser(c.Context(), userID, listParams(c))
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationListResponse(items, pg))
}

func (h *ApplicationHandler) ListForJob(c fiber.Ctx) error {
	employerID := middleware.UserID(c)

	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	items, pg, err := h.uc.ListForJob(c.Context(), jobID, employerID, listParams(c))
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationListResponse(items, pg))
}

func (h *ApplicationHandler) GetByID(c fiber.Ctx) error {
	callerID := middleware.UserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	res, err := h.uc.GetByID(c.Context(), id, callerID)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(res))
}

func (h *ApplicationHandler) Withdraw(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	res, err := h.uc.Withdraw(c.Context(), id, userID)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, "Application withdrawn", dto.NewApplicationResponse(res))
}

func (h *ApplicationHandler) UpdateStatus(c fiber.Ctx) error {
	employerID := middleware.UserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	var req dto.UpdateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}

	res, err := h.uc.UpdateStatus(c.Context(), id, employerID, usecase.UpdateStatusParams{
		Status: req.Status,
		Reason: req.Reason,
	})
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, "Status updated", dto.NewApplicationResponse(res))
}

// ViewResume streams the stored file instead of the JSON envelope.
func (h *ApplicationHandler) ViewResume(c fiber.Ctx) error {
	employerID := middleware.UserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	resume, err := h.uc.ViewResume(c.Context(), id, employerID)
	if err != nil {
		return mapApplicationError(err)
	}

	contentType := resume.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	if resume.FileName != "" {
		c.Set(fiber.HeaderContentDisposition, `inline; filename="`+resume.FileName+`"`)
	}
	return c.Status(fiber.StatusOK).Send(resume.Data)
}

func (h *ApplicationHandler) Stats(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	stats, err := h.uc.Stats(c.Context(), userID)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationStatsResponse(stats))
}

func listParams(c fiber.Ctx) usecase.ApplicationListParams {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	return usecase.ApplicationListParams{
		Status:    c.Query("status"),
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}

func mapApplicationError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrCannotWithdraw), errors.Is(err, usecase.ErrJobNotActive):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrJobNotFound), errors.Is(err, usecase.ErrApplicationNotFound), errors.Is(err, usecase.ErrResumeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, err)
	case errors.Is(err, usecase.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
