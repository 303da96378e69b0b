package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-service/internal/api/dto"
	"github.com/spec-kit/case-service/internal/auth"
	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/service"
	apperrors "github.com/spec-kit/case-service/pkg/util"
)

// CasesHandler exposes the case access layer.
type CasesHandler struct {
	cases    *service.CaseService
	activity *service.ActivityService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(caseService *service.CaseService, activityService *service.ActivityService) *CasesHandler {
	return &CasesHandler{cases: caseService, activity: activityService}
}

// List GET /api/cases.
func (h *CasesHandler) List(c *fiber.Ctx) error {
	list, err := h.cases.ListCases(c.UserContext(), parseCaseListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(dto.CaseListResponse{
		Data:     list.Data,
		Total:    list.Total,
		Page:     list.Page,
		PageSize: list.PageSize,
	}))
}

// Get GET /api/cases/:id.
func (h *CasesHandler) Get(c *fiber.Ctx) error {
	found, err := h.cases.GetCase(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(found))
}

// Create POST /api/cases.
func (h *CasesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req domain.CreateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	created, err := h.cases.CreateCase(c.UserContext(), principal.ActorID(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.Success(created))
}

// Update PATCH /api/cases/:id.
func (h *CasesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req domain.UpdateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.cases.UpdateCase(c.UserContext(), principal.ActorID(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(updated))
}

// Archive DELETE /api/cases/:id.
func (h *CasesHandler) Archive(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	msg, err := h.cases.ArchiveCase(c.UserContext(), principal.ActorID(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(dto.MessageResponse{Message: msg}))
}

// Stats GET /api/dashboard/stats.
func (h *CasesHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.cases.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(stats))
}

// Activity GET /api/cases/:id/activity.
func (h *CasesHandler) Activity(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.cases.GetCase(c.UserContext(), id); err != nil {
		return err
	}
	entries, err := h.activity.ForCase(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(dto.ActivityListResponse{Items: entries, Count: len(entries)}))
}

func parseCaseListQuery(c *fiber.Ctx) service.CaseListFilter {
	filter := service.CaseListFilter{
		Page:     parseInt(c.Query("page"), 1),
		PageSize: parseInt(c.Query("pageSize"), 0),
	}
	if val := c.Query("status"); val != "" {
		status := domain.CaseStatus(val)
		filter.Status = &status
	}
	if val := c.Query("priority"); val != "" {
		priority := domain.CasePriority(val)
		filter.Priority = &priority
	}
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}
