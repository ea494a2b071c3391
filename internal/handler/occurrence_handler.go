package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-adp-api/internal/models"
	"github.com/noah-isme/academy-adp-api/internal/service"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
	"github.com/noah-isme/academy-adp-api/pkg/response"
)

// OccurrenceHandler exposes session occurrence endpoints.
type OccurrenceHandler struct {
	occurrences *service.OccurrenceService
}

// NewOccurrenceHandler constructs OccurrenceHandler.
func NewOccurrenceHandler(occurrences *service.OccurrenceService) *OccurrenceHandler {
	return &OccurrenceHandler{occurrences: occurrences}
}

// List godoc
// @Summary List session occurrences
// @Tags Sessions
// @Produce json
// @Param groupId query string false "Filter by trainee group"
// @Param branchId query string false "Filter by branch"
// @Param status query string false "Filter by status (Scheduled, Completed, Cancelled)"
// @Param dateFrom query string false "Window start (YYYY-MM-DD)"
// @Param dateTo query string false "Window end (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *OccurrenceHandler) List(c *gin.Context) {
	var filter models.SessionOccurrenceFilter
	filter.TraineeGroupID = c.Query("groupId")
	filter.BranchID = c.Query("branchId")
	filter.Status = c.Query("status")
	dateFrom, ok := dateQuery(c, "dateFrom")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid dateFrom, expected YYYY-MM-DD"))
		return
	}
	dateTo, ok := dateQuery(c, "dateTo")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid dateTo, expected YYYY-MM-DD"))
		return
	}
	filter.DateFrom = dateFrom
	filter.DateTo = dateTo
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	occurrences, pagination, err := h.occurrences.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrences, pagination)
}

// Get godoc
// @Summary Get session occurrence
// @Tags Sessions
// @Produce json
// @Param id path string true "Occurrence ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *OccurrenceHandler) Get(c *gin.Context) {
	occurrence, err := h.occurrences.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrence, nil)
}

// Generate godoc
// @Summary Expand a group's weekly schedule into dated occurrences
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body models.GenerateOccurrencesRequest true "Generation window"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sessions/generate [post]
func (h *OccurrenceHandler) Generate(c *gin.Context) {
	var req models.GenerateOccurrencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.occurrences.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Complete godoc
// @Summary Mark a scheduled session as held and record attendance
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Occurrence ID"
// @Param payload body models.CompleteOccurrenceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{id}/complete [post]
func (h *OccurrenceHandler) Complete(c *gin.Context) {
	var req models.CompleteOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	occurrence, err := h.occurrences.Complete(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrence, nil)
}

// Cancel godoc
// @Summary Cancel a scheduled session
// @Tags Sessions
// @Produce json
// @Param id path string true "Occurrence ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{id}/cancel [post]
func (h *OccurrenceHandler) Cancel(c *gin.Context) {
	occurrence, err := h.occurrences.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrence, nil)
}
