package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/versity-app/volunteer-api/internal/dto"
	apierrors "github.com/versity-app/volunteer-api/internal/errors"
	"github.com/versity-app/volunteer-api/internal/middleware"
	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/services"
	"github.com/versity-app/volunteer-api/internal/utils"
)

// HourHandler coordinates volunteer hour HTTP handlers.
type HourHandler struct {
	hourService *services.HourService
}

// NewHourHandler creates a new HourHandler.
func NewHourHandler(hourService *services.HourService) *HourHandler {
	return &HourHandler{
		hourService: hourService,
	}
}

// LogHours records hours a volunteer worked on an opportunity.
func (h *HourHandler) LogHours(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type LogHoursRequest struct {
		OpportunityID uint64    `json:"opportunity_id" binding:"required"`
		Hours         float64   `json:"hours" binding:"required"`
		Date          time.Time `json:"date" binding:"required"`
	}

	var req LogHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.hourService.LogHours(actor, services.LogHoursInput{
		OpportunityID: req.OpportunityID,
		Hours:         req.Hours,
		Date:          req.Date,
	})
	if err != nil {
		respondHourError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToVolunteerHourDTO(*entry))
}

// ListHours returns the hour entries the caller is allowed to see.
// Supports a status filter.
func (h *HourHandler) ListHours(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListHoursInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.HourStatus(statusStr)
		switch status {
		case models.HourStatusSubmitted, models.HourStatusApproved, models.HourStatusRejected:
			input.Status = &status
		default:
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
	}

	entries, total, err := h.hourService.ListHours(actor, input)
	if err != nil {
		respondHourError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHourListResponse(entries, params.Page, params.Limit, total))
}

// VerifyHours approves or rejects a submitted hour entry.
func (h *HourHandler) VerifyHours(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid hour record ID")
		return
	}

	type VerifyHoursRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req VerifyHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.hourService.VerifyHours(actor, id, models.HourStatus(req.Status))
	if err != nil {
		respondHourError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVolunteerHourDTO(*entry))
}

func respondHourError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrHourNotFound),
		errors.Is(err, services.ErrNoMatchForHours):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrHourAccessDenied),
		errors.Is(err, services.ErrOnlyVolunteersLogHours),
		errors.Is(err, services.ErrMatchNotAccepted):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrHourAlreadyDecided):
		apierrors.InvalidTransition(c, err.Error())
	case errors.Is(err, services.ErrInvalidHourDecision),
		errors.Is(err, services.ErrHoursNotPositive),
		errors.Is(err, services.ErrHourDateInFuture):
		apierrors.UnprocessableEntity(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
