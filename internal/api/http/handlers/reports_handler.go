package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-api/internal/api/dto"
	"github.com/spec-kit/helpdesk-api/internal/service"
)

// ReportsHandler exposes aggregate count endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// CountByStatus GET /api/tickets/reports/status.
func (h *ReportsHandler) CountByStatus(c *fiber.Ctx) error {
	rows, err := h.service.CountByStatus(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.StatusReportRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.StatusReportRow{Status: row.Status, Count: row.Count})
	}
	return c.JSON(result)
}

// CountByPriority GET /api/tickets/reports/priority.
func (h *ReportsHandler) CountByPriority(c *fiber.Ctx) error {
	rows, err := h.service.CountByPriority(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.PriorityReportRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.PriorityReportRow{Priority: row.Priority, Count: row.Count})
	}
	return c.JSON(result)
}
