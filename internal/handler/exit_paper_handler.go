package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/service"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/response"
)

// ExitPaperHandler exposes exit paper endpoints.
type ExitPaperHandler struct {
	papers *service.ExitPaperService
}

// NewExitPaperHandler constructs ExitPaperHandler.
func NewExitPaperHandler(papers *service.ExitPaperService) *ExitPaperHandler {
	return &ExitPaperHandler{papers: papers}
}

// List godoc
// @Summary List exit papers
// @Tags ExitPapers
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /exit-papers [get]
func (h *ExitPaperHandler) List(c *gin.Context) {
	var filter models.ExitPaperFilter
	filter.StudentID = c.Query("studentId")
	filter.Status = c.Query("status")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	papers, pagination, err := h.papers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, papers, pagination)
}

// Get godoc
// @Summary Get exit paper detail
// @Tags ExitPapers
// @Produce json
// @Param id path string true "Exit paper ID"
// @Success 200 {object} response.Envelope
// @Router /exit-papers/{id} [get]
func (h *ExitPaperHandler) Get(c *gin.Context) {
	paper, err := h.papers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, paper, nil)
}

// Create godoc
// @Summary Request an exit paper
// @Tags ExitPapers
// @Accept json
// @Produce json
// @Param payload body dto.CreateExitPaperRequest true "Exit paper payload"
// @Success 201 {object} response.Envelope
// @Router /exit-papers [post]
func (h *ExitPaperHandler) Create(c *gin.Context) {
	var req dto.CreateExitPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	paper, err := h.papers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, paper)
}

// Decide godoc
// @Summary Approve or reject an exit paper
// @Tags ExitPapers
// @Accept json
// @Produce json
// @Param id path string true "Exit paper ID"
// @Param payload body dto.DecideExitPaperRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exit-papers/{id}/decision [post]
func (h *ExitPaperHandler) Decide(c *gin.Context) {
	var req dto.DecideExitPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	paper, err := h.papers.Decide(c.Request.Context(), c.Param("id"), req, actorIDFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, paper, nil)
}

// Export godoc
// @Summary Download a decided exit paper as PDF
// @Tags ExitPapers
// @Produce application/pdf
// @Param id path string true "Exit paper ID"
// @Success 200 {file} file
// @Failure 412 {object} response.Envelope
// @Router /exit-papers/{id}/export [get]
func (h *ExitPaperHandler) Export(c *gin.Context) {
	data, filename, err := h.papers.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
