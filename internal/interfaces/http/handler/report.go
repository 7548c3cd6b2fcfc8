package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/application/report"
)

// ReportHandler serves computed reports
type ReportHandler struct {
	BaseHandler
	dashboard *report.DashboardService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dashboard *report.DashboardService) *ReportHandler {
	return &ReportHandler{dashboard: dashboard}
}

// Dashboard handles GET /api/reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboard.GetDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}
