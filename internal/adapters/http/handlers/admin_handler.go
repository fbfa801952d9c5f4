package handlers

import (
	"time"

	"homework-desk/internal/core/services"
	"homework-desk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler handles the owner dashboard: analytics and exports
type AdminHandler struct {
	analyticsService *services.AnalyticsService
	reportService    *services.ReportService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(analyticsService *services.AnalyticsService, reportService *services.ReportService) *AdminHandler {
	return &AdminHandler{
		analyticsService: analyticsService,
		reportService:    reportService,
	}
}

// Analytics returns revenue, growth and popularity figures
// @Summary Dashboard analytics
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param X-Dashboard-Pin header string true "Dashboard PIN"
// @Success 200 {object} response.Response
// @Router /admin/analytics [get]
func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	overview, err := h.analyticsService.Overview(c.Context())
	if err != nil {
		return fail(c, err, "Failed to get analytics")
	}
	return response.Success(c, "Analytics retrieved successfully", overview)
}

// Export downloads requests and transactions as a workbook
// @Summary Export workbook
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param X-Dashboard-Pin header string true "Dashboard PIN"
// @Success 200 {file} file
// @Router /admin/reports/export [get]
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	data, err := h.reportService.Export(c.Context())
	if err != nil {
		return fail(c, err, "Failed to export data")
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+h.reportService.Filename(time.Now())+`"`)
	return c.Send(data)
}
