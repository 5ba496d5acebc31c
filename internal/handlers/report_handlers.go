package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/services"
)

// ReportHandler serves the analytics and dashboard aggregates.
type ReportHandler struct {
	analyticsService services.AnalyticsService
	dashboardService services.DashboardService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(as services.AnalyticsService, ds services.DashboardService) *ReportHandler {
	return &ReportHandler{analyticsService: as, dashboardService: ds}
}

// GetAnalyticsSummary returns revenue, inventory value, margin, top sellers and stock buckets.
func (h *ReportHandler) GetAnalyticsSummary(c *gin.Context) {
	summary, err := h.analyticsService.GetSummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "build analytics summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetAnalyticsReport returns the summary together with the restock predictions.
func (h *ReportHandler) GetAnalyticsReport(c *gin.Context) {
	report, err := h.analyticsService.GetReport(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "build analytics report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetDashboardSummary provides a summary of key metrics for the dashboard.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.dashboardService.GetSummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "build dashboard summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
