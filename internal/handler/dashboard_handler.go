package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/middleware"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/service"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/response"
)

// DashboardHandler exposes occupancy and runtime statistics endpoints.
type DashboardHandler struct {
	dashboard *service.DashboardService
	metrics   *service.MetricsService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService, metrics *service.MetricsService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, metrics: metrics}
}

// Occupancy godoc
// @Summary Occupancy dashboard
// @Description Per-block capacity and occupancy aggregates, cached in Redis
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/occupancy [get]
func (h *DashboardHandler) Occupancy(c *gin.Context) {
	summary, cacheHit, err := h.dashboard.Occupancy(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, nil)
}

// Stats godoc
// @Summary Runtime statistics snapshot
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
