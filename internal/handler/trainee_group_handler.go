package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-adp-api/internal/models"
	"github.com/noah-isme/academy-adp-api/internal/service"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
	"github.com/noah-isme/academy-adp-api/pkg/response"
)

// TraineeGroupHandler exposes trainee group endpoints.
type TraineeGroupHandler struct {
	groups *service.TraineeGroupService
}

// NewTraineeGroupHandler constructs TraineeGroupHandler.
func NewTraineeGroupHandler(groups *service.TraineeGroupService) *TraineeGroupHandler {
	return &TraineeGroupHandler{groups: groups}
}

// List godoc
// @Summary List trainee groups
// @Tags TraineeGroups
// @Produce json
// @Param search query string false "Search by name"
// @Param branchId query string false "Filter by branch"
// @Param coachId query string false "Filter by coach"
// @Param sportId query string false "Filter by sport"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /trainee-groups [get]
func (h *TraineeGroupHandler) List(c *gin.Context) {
	var filter models.TraineeGroupFilter
	filter.Search = c.Query("search")
	filter.BranchID = c.Query("branchId")
	filter.CoachID = c.Query("coachId")
	filter.SportID = c.Query("sportId")
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	groups, pagination, err := h.groups.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, pagination)
}

// Options godoc
// @Summary Lightweight id/name pairs for dropdowns
// @Tags TraineeGroups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /trainee-groups/options [get]
func (h *TraineeGroupHandler) Options(c *gin.Context) {
	options, err := h.groups.Options(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// Get godoc
// @Summary Get trainee group detail with weekly schedule
// @Tags TraineeGroups
// @Produce json
// @Param id path string true "Trainee group ID"
// @Success 200 {object} response.Envelope
// @Router /trainee-groups/{id} [get]
func (h *TraineeGroupHandler) Get(c *gin.Context) {
	group, err := h.groups.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Create godoc
// @Summary Create trainee group
// @Tags TraineeGroups
// @Accept json
// @Produce json
// @Param payload body service.TraineeGroupRequest true "Trainee group payload"
// @Success 201 {object} response.Envelope
// @Router /trainee-groups [post]
func (h *TraineeGroupHandler) Create(c *gin.Context) {
	var req service.TraineeGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// Update godoc
// @Summary Update trainee group and replace its weekly schedule
// @Tags TraineeGroups
// @Accept json
// @Produce json
// @Param id path string true "Trainee group ID"
// @Param payload body service.TraineeGroupRequest true "Trainee group payload"
// @Success 200 {object} response.Envelope
// @Router /trainee-groups/{id} [put]
func (h *TraineeGroupHandler) Update(c *gin.Context) {
	var req service.TraineeGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.groups.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Delete godoc
// @Summary Delete trainee group
// @Tags TraineeGroups
// @Produce json
// @Param id path string true "Trainee group ID"
// @Success 204
// @Router /trainee-groups/{id} [delete]
func (h *TraineeGroupHandler) Delete(c *gin.Context) {
	if err := h.groups.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
