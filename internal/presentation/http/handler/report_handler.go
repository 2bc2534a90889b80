package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos-api/internal/application/service"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/response"
)

// ReportHandler serves dashboard and revenue statistics. Dates are YYYY-MM-DD, ?to is inclusive.
type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	result, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard retrieved successfully", result)
}

func (h *ReportHandler) RevenueByDay(c *gin.Context) {
	points, err := h.reportService.RevenueByDay(c.Request.Context(), dateRange(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily revenue retrieved successfully", points)
}

func (h *ReportHandler) RevenueByMonth(c *gin.Context) {
	points, err := h.reportService.RevenueByMonth(c.Request.Context(), dateRange(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Monthly revenue retrieved successfully", points)
}

func (h *ReportHandler) TopDishes(c *gin.Context) {
	rows, err := h.reportService.TopDishes(c.Request.Context(), dateRange(c), queryInt(c, "limit", service.DefaultTopLimit))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top dishes retrieved successfully", rows)
}

func (h *ReportHandler) TopCustomers(c *gin.Context) {
	rows, err := h.reportService.TopCustomers(c.Request.Context(), queryInt(c, "limit", service.DefaultTopLimit))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top customers retrieved successfully", rows)
}

func (h *ReportHandler) Profit(c *gin.Context) {
	result, err := h.reportService.Profit(c.Request.Context(), dateRange(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profit retrieved successfully", result)
}

func (h *ReportHandler) InventoryValuation(c *gin.Context) {
	rows, err := h.reportService.InventoryValuation(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory valuation retrieved successfully", rows)
}

func (h *ReportHandler) StaffPerformance(c *gin.Context) {
	rows, err := h.reportService.StaffPerformance(c.Request.Context(), dateRange(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Staff performance retrieved successfully", rows)
}
