package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/application/analytics"
	"github.com/hostelhub/backend/internal/domain/report"
)

// AnalyticsHandler serves dashboards and statistics
type AnalyticsHandler struct {
	BaseHandler
	service *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// AdminDashboard godoc
// @ID           adminDashboard
// @Summary      Administrator dashboard
// @Description  Occupancy, bookings, revenue, complaints and leaves at a glance
// @Tags         analytics
// @Produce      json
// @Success      200 {object} dto.Response{data=report.AdminDashboard}
// @Security     BearerAuth
// @Router       /analytics/dashboard [get]
func (h *AnalyticsHandler) AdminDashboard(c *gin.Context) {
	dashboard, err := h.service.AdminDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// StudentDashboard godoc
// @ID           studentDashboard
// @Summary      My dashboard
// @Tags         analytics
// @Produce      json
// @Success      200 {object} dto.Response{data=report.StudentDashboard}
// @Security     BearerAuth
// @Router       /analytics/me [get]
func (h *AnalyticsHandler) StudentDashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	dashboard, err := h.service.StudentDashboard(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Occupancy godoc
// @ID           occupancyOverview
// @Summary      Occupancy overview
// @Tags         analytics
// @Produce      json
// @Success      200 {object} dto.Response{data=report.OccupancyOverview}
// @Security     BearerAuth
// @Router       /analytics/occupancy [get]
func (h *AnalyticsHandler) Occupancy(c *gin.Context) {
	overview, err := h.service.Occupancy(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}

// OccupancyBy godoc
// @ID           occupancyByDimension
// @Summary      Occupancy grouped by room type, block or floor
// @Tags         analytics
// @Produce      json
// @Param        dimension path string true "type, block or floor"
// @Success      200 {object} dto.Response{data=[]report.OccupancyGroup}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /analytics/occupancy/{dimension} [get]
func (h *AnalyticsHandler) OccupancyBy(c *gin.Context) {
	groups, err := h.service.OccupancyBy(c.Request.Context(), report.OccupancyDimension(c.Param("dimension")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}

// Revenue godoc
// @ID           revenueByMonth
// @Summary      Paid revenue per month
// @Tags         analytics
// @Produce      json
// @Param        year query int false "Year (defaults to the current year)"
// @Success      200 {object} dto.Response{data=analytics.RevenueDTO}
// @Security     BearerAuth
// @Router       /analytics/revenue [get]
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	year := queryInt(c, "year", time.Now().Year())
	if year < 2000 || year > 2100 {
		h.invalidParam(c, "year", "must be between 2000 and 2100")
		return
	}
	revenue, err := h.service.Revenue(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, revenue)
}

// Complaints godoc
// @ID           complaintStatistics
// @Summary      Complaint statistics
// @Tags         analytics
// @Produce      json
// @Success      200 {object} dto.Response{data=analytics.ComplaintStatsDTO}
// @Security     BearerAuth
// @Router       /analytics/complaints [get]
func (h *AnalyticsHandler) Complaints(c *gin.Context) {
	stats, err := h.service.Complaints(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
