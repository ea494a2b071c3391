package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-adp-api/internal/models"
	"github.com/noah-isme/academy-adp-api/internal/service"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
	"github.com/noah-isme/academy-adp-api/pkg/response"
)

// CoachHandler exposes coach endpoints.
type CoachHandler struct {
	coaches *service.CoachService
}

// NewCoachHandler constructs CoachHandler.
func NewCoachHandler(coaches *service.CoachService) *CoachHandler {
	return &CoachHandler{coaches: coaches}
}

// List godoc
// @Summary List coaches
// @Tags Coaches
// @Produce json
// @Param search query string false "Search by name"
// @Param branchId query string false "Filter by branch"
// @Param sportId query string false "Filter by sport"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /coaches [get]
func (h *CoachHandler) List(c *gin.Context) {
	var filter models.CoachFilter
	filter.Search = c.Query("search")
	filter.BranchID = c.Query("branchId")
	filter.SportID = c.Query("sportId")
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	coaches, pagination, err := h.coaches.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coaches, pagination)
}

// Get godoc
// @Summary Get coach detail
// @Tags Coaches
// @Produce json
// @Param id path string true "Coach ID"
// @Success 200 {object} response.Envelope
// @Router /coaches/{id} [get]
func (h *CoachHandler) Get(c *gin.Context) {
	coach, err := h.coaches.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coach, nil)
}

// Create godoc
// @Summary Promote an employee to coach
// @Tags Coaches
// @Accept json
// @Produce json
// @Param payload body service.CreateCoachRequest true "Coach payload"
// @Success 201 {object} response.Envelope
// @Router /coaches [post]
func (h *CoachHandler) Create(c *gin.Context) {
	var req service.CreateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	coach, err := h.coaches.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, coach)
}

// Update godoc
// @Summary Update coach sport or skill level
// @Tags Coaches
// @Accept json
// @Produce json
// @Param id path string true "Coach ID"
// @Param payload body service.UpdateCoachRequest true "Coach payload"
// @Success 200 {object} response.Envelope
// @Router /coaches/{id} [put]
func (h *CoachHandler) Update(c *gin.Context) {
	var req service.UpdateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	coach, err := h.coaches.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coach, nil)
}

// Delete godoc
// @Summary Remove coach role
// @Tags Coaches
// @Produce json
// @Param id path string true "Coach ID"
// @Success 204
// @Router /coaches/{id} [delete]
func (h *CoachHandler) Delete(c *gin.Context) {
	if err := h.coaches.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
