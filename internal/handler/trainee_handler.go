package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-adp-api/internal/models"
	"github.com/noah-isme/academy-adp-api/internal/service"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
	"github.com/noah-isme/academy-adp-api/pkg/response"
)

// TraineeHandler exposes trainee endpoints.
type TraineeHandler struct {
	trainees *service.TraineeService
}

// NewTraineeHandler constructs TraineeHandler.
func NewTraineeHandler(trainees *service.TraineeService) *TraineeHandler {
	return &TraineeHandler{trainees: trainees}
}

// List godoc
// @Summary List trainees
// @Tags Trainees
// @Produce json
// @Param search query string false "Search by name or SSN"
// @Param branchId query string false "Filter by branch"
// @Param sportId query string false "Filter by practiced sport"
// @Param gender query string false "Filter by gender"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /trainees [get]
func (h *TraineeHandler) List(c *gin.Context) {
	var filter models.TraineeFilter
	filter.Search = c.Query("search")
	filter.BranchID = c.Query("branchId")
	filter.SportID = c.Query("sportId")
	filter.Gender = c.Query("gender")
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	trainees, pagination, err := h.trainees.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainees, pagination)
}

// Get godoc
// @Summary Get trainee detail
// @Tags Trainees
// @Produce json
// @Param id path string true "Trainee ID"
// @Success 200 {object} response.Envelope
// @Router /trainees/{id} [get]
func (h *TraineeHandler) Get(c *gin.Context) {
	trainee, err := h.trainees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainee, nil)
}

// Create godoc
// @Summary Create trainee
// @Tags Trainees
// @Accept json
// @Produce json
// @Param payload body service.TraineeRequest true "Trainee payload"
// @Success 201 {object} response.Envelope
// @Router /trainees [post]
func (h *TraineeHandler) Create(c *gin.Context) {
	var req service.TraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	trainee, err := h.trainees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trainee)
}

// Update godoc
// @Summary Update trainee
// @Tags Trainees
// @Accept json
// @Produce json
// @Param id path string true "Trainee ID"
// @Param payload body service.TraineeRequest true "Trainee payload"
// @Success 200 {object} response.Envelope
// @Router /trainees/{id} [put]
func (h *TraineeHandler) Update(c *gin.Context) {
	var req service.TraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	trainee, err := h.trainees.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainee, nil)
}

// Delete godoc
// @Summary Delete trainee
// @Tags Trainees
// @Produce json
// @Param id path string true "Trainee ID"
// @Success 204
// @Router /trainees/{id} [delete]
func (h *TraineeHandler) Delete(c *gin.Context) {
	if err := h.trainees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
