package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/service"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/response"
)

// PlacementHandler exposes the placement roster and bulk assignment endpoints.
type PlacementHandler struct {
	placements  *service.PlacementService
	assignments *service.AssignmentService
	dashboard   *service.DashboardService
}

// NewPlacementHandler constructs PlacementHandler.
func NewPlacementHandler(placements *service.PlacementService, assignments *service.AssignmentService, dashboard *service.DashboardService) *PlacementHandler {
	return &PlacementHandler{placements: placements, assignments: assignments, dashboard: dashboard}
}

// List godoc
// @Summary List active placements
// @Tags Placements
// @Produce json
// @Param blockId query string false "Filter by block"
// @Param year query int false "Filter by year level"
// @Param search query string false "Search by student name or code"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /placements [get]
func (h *PlacementHandler) List(c *gin.Context) {
	filter := placementFilterFromQuery(c)

	placements, pagination, err := h.placements.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, placements, pagination)
}

// Run godoc
// @Summary Run a bulk placement action
// @Description Currently supports auto_assign, which places every unassigned active student
// @Tags Placements
// @Accept json
// @Produce json
// @Param payload body dto.PlacementActionRequest true "Action payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /placements [post]
func (h *PlacementHandler) Run(c *gin.Context) {
	var req dto.PlacementActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Action != "auto_assign" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported action %q", req.Action)))
		return
	}

	report, err := h.assignments.AutoAssignAll(c.Request.Context(), actorIDFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboard.InvalidateOccupancy(c.Request.Context())
	response.JSON(c, http.StatusOK, report, nil)
}

// UnassignAll godoc
// @Summary Clear all active placements
// @Tags Placements
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /placements [delete]
func (h *PlacementHandler) UnassignAll(c *gin.Context) {
	report, err := h.assignments.UnassignAll(c.Request.Context(), actorIDFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboard.InvalidateOccupancy(c.Request.Context())
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export the placement roster as CSV
// @Tags Placements
// @Produce text/csv
// @Param blockId query string false "Filter by block"
// @Param year query int false "Filter by year level"
// @Success 200 {file} file
// @Router /placements/export [get]
func (h *PlacementHandler) Export(c *gin.Context) {
	filter := placementFilterFromQuery(c)

	data, filename, err := h.placements.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

func placementFilterFromQuery(c *gin.Context) models.PlacementFilter {
	var filter models.PlacementFilter
	filter.BlockID = c.Query("blockId")
	filter.Status = c.Query("status")
	if year := c.Query("year"); year != "" {
		if v, err := strconv.Atoi(year); err == nil {
			filter.Year = &v
		}
	}
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}
