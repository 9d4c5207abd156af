package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/service"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/response"
)

// DashboardHandler exposes admin dashboard endpoints.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary returns admission totals and per-unit/per-teacher progress.
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ExportSummaryPDF streams the unit summary as a PDF report.
func (h *DashboardHandler) ExportSummaryPDF(c *gin.Context) {
	payload, err := h.dashboard.ExportSummaryPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="admission-summary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}

// ExportUnassignedCSV streams the unassigned queue as CSV.
func (h *DashboardHandler) ExportUnassignedCSV(c *gin.Context) {
	payload, err := h.dashboard.ExportUnassignedCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="unassigned-students.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}
