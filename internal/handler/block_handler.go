package handler

import (
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

// BlockHandler exposes dormitory block endpoints.
type BlockHandler struct {
	blocks *service.BlockService
}

// NewBlockHandler constructs BlockHandler.
func NewBlockHandler(blocks *service.BlockService) *BlockHandler {
	return &BlockHandler{blocks: blocks}
}

// List godoc
// @Summary List blocks
// @Tags Blocks
// @Produce json
// @Param reservedFor query string false "Filter by reservation"
// @Param status query string false "Filter by status"
// @Param accessible query bool false "Filter by accessibility"
// @Param search query string false "Search by code or name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /blocks [get]
func (h *BlockHandler) List(c *gin.Context) {
	var filter models.BlockFilter
	filter.ReservedFor = c.Query("reservedFor")
	filter.Status = c.Query("status")
	if accessible := c.Query("accessible"); accessible != "" {
		if accessible == "true" {
			v := true
			filter.Accessible = &v
		} else if accessible == "false" {
			v := false
			filter.Accessible = &v
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

	blocks, pagination, err := h.blocks.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, pagination)
}

// Get godoc
// @Summary Get block detail
// @Tags Blocks
// @Produce json
// @Param id path string true "Block ID"
// @Success 200 {object} response.Envelope
// @Router /blocks/{id} [get]
func (h *BlockHandler) Get(c *gin.Context) {
	block, err := h.blocks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}

// Create godoc
// @Summary Register block
// @Tags Blocks
// @Accept json
// @Produce json
// @Param payload body dto.CreateBlockRequest true "Block payload"
// @Success 201 {object} response.Envelope
// @Router /blocks [post]
func (h *BlockHandler) Create(c *gin.Context) {
	var req dto.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	block, err := h.blocks.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, block)
}

// Update godoc
// @Summary Update block
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path string true "Block ID"
// @Param payload body dto.UpdateBlockRequest true "Block payload"
// @Success 200 {object} response.Envelope
// @Router /blocks/{id} [put]
func (h *BlockHandler) Update(c *gin.Context) {
	var req dto.UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	block, err := h.blocks.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}

// Deactivate godoc
// @Summary Deactivate block
// @Description Existing placements are kept; the block stops receiving new assignments
// @Tags Blocks
// @Param id path string true "Block ID"
// @Success 204 {object} response.Envelope
// @Router /blocks/{id} [delete]
func (h *BlockHandler) Deactivate(c *gin.Context) {
	if err := h.blocks.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
