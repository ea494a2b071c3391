package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-adp-api/internal/models"
	"github.com/noah-isme/academy-adp-api/internal/service"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
	"github.com/noah-isme/academy-adp-api/pkg/response"
)

// SportHandler exposes sport catalog endpoints.
type SportHandler struct {
	sports *service.SportService
}

// NewSportHandler constructs SportHandler.
func NewSportHandler(sports *service.SportService) *SportHandler {
	return &SportHandler{sports: sports}
}

// List godoc
// @Summary List sports
// @Tags Sports
// @Produce json
// @Param search query string false "Search by name"
// @Param category query string false "Filter by category"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /sports [get]
func (h *SportHandler) List(c *gin.Context) {
	var filter models.SportFilter
	filter.Search = c.Query("search")
	filter.Category = c.Query("category")
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	sports, pagination, err := h.sports.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sports, pagination)
}

// Get godoc
// @Summary Get sport detail with skill levels
// @Tags Sports
// @Produce json
// @Param id path string true "Sport ID"
// @Success 200 {object} response.Envelope
// @Router /sports/{id} [get]
func (h *SportHandler) Get(c *gin.Context) {
	sport, err := h.sports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sport, nil)
}

// Create godoc
// @Summary Create sport
// @Tags Sports
// @Accept json
// @Produce json
// @Param payload body service.SportRequest true "Sport payload"
// @Success 201 {object} response.Envelope
// @Router /sports [post]
func (h *SportHandler) Create(c *gin.Context) {
	var req service.SportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sport, err := h.sports.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sport)
}

// Update godoc
// @Summary Update sport
// @Tags Sports
// @Accept json
// @Produce json
// @Param id path string true "Sport ID"
// @Param payload body service.SportRequest true "Sport payload"
// @Success 200 {object} response.Envelope
// @Router /sports/{id} [put]
func (h *SportHandler) Update(c *gin.Context) {
	var req service.SportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sport, err := h.sports.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sport, nil)
}

// AddSkillLevel godoc
// @Summary Add a skill level to a sport
// @Tags Sports
// @Accept json
// @Produce json
// @Param id path string true "Sport ID"
// @Param payload body service.SkillLevelRequest true "Skill level payload"
// @Success 201 {object} response.Envelope
// @Router /sports/{id}/skill-levels [post]
func (h *SportHandler) AddSkillLevel(c *gin.Context) {
	var req service.SkillLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	level, err := h.sports.AddSkillLevel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, level)
}

// Delete godoc
// @Summary Delete sport
// @Tags Sports
// @Produce json
// @Param id path string true "Sport ID"
// @Success 204
// @Router /sports/{id} [delete]
func (h *SportHandler) Delete(c *gin.Context) {
	if err := h.sports.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
