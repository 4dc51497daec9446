package handlers

import (
	"mess-feedback/internal/core/services"
	"mess-feedback/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService services.AdminSummarizer
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService services.AdminSummarizer) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetAdminDashboard returns admin dashboard data
// @Summary Admin Dashboard
// @Description Feedback counts by mess type, category and feedback type, plus account totals (Admin only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "Admin dashboard retrieved successfully", data)
}
