package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-service/internal/api/dto"
	"github.com/spec-kit/case-service/internal/service"
)

// AdminHandler serves admin-only reporting endpoints.
type AdminHandler struct {
	cases    *service.CaseService
	activity *service.ActivityService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(caseService *service.CaseService, activityService *service.ActivityService) *AdminHandler {
	return &AdminHandler{cases: caseService, activity: activityService}
}

// Report GET /api/reports/cases.
func (h *AdminHandler) Report(c *fiber.Ctx) error {
	report, err := h.cases.Report(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(report))
}

// Activity GET /api/admin/activity.
func (h *AdminHandler) Activity(c *fiber.Ctx) error {
	entries, err := h.activity.Recent(c.UserContext(), parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(dto.ActivityListResponse{Items: entries, Count: len(entries)}))
}
