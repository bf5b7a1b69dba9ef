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
	"github.com/versity-app/volunteer-api/internal/services"
	"github.com/versity-app/volunteer-api/internal/utils"
)

// VolunteerHandler coordinates volunteer profile and reporting HTTP handlers.
type VolunteerHandler struct {
	volunteerService *services.VolunteerService
}

// NewVolunteerHandler creates a new VolunteerHandler.
func NewVolunteerHandler(volunteerService *services.VolunteerService) *VolunteerHandler {
	return &VolunteerHandler{
		volunteerService: volunteerService,
	}
}

// GetProfile returns a volunteer's profile.
func (h *VolunteerHandler) GetProfile(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	volunteerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid volunteer ID")
		return
	}

	profile, err := h.volunteerService.GetProfile(actor, volunteerID)
	if err != nil {
		respondVolunteerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVolunteerProfileDTO(*profile))
}

// UpdateProfile applies a partial update to a volunteer's profile.
func (h *VolunteerHandler) UpdateProfile(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	volunteerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid volunteer ID")
		return
	}

	type UpdateProfileRequest struct {
		Name             *string    `json:"name"`
		Bio              *string    `json:"bio"`
		Phone            *string    `json:"phone"`
		Location         *string    `json:"location"`
		Skills           *string    `json:"skills"`
		Availability     *string    `json:"availability"`
		EmergencyContact *string    `json:"emergency_contact"`
		DateOfBirth      *time.Time `json:"date_of_birth"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.volunteerService.UpdateProfile(actor, volunteerID, services.UpdateProfileInput{
		Name:             req.Name,
		Bio:              req.Bio,
		Phone:            req.Phone,
		Location:         req.Location,
		Skills:           req.Skills,
		Availability:     req.Availability,
		EmergencyContact: req.EmergencyContact,
		DateOfBirth:      req.DateOfBirth,
	})
	if err != nil {
		respondVolunteerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVolunteerProfileDTO(*profile))
}

// GetHours returns a volunteer's logged hours.
func (h *VolunteerHandler) GetHours(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	volunteerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid volunteer ID")
		return
	}

	params := utils.GetPaginationParams(c)

	entries, total, err := h.volunteerService.GetHours(actor, volunteerID, params.Page, params.Limit)
	if err != nil {
		respondVolunteerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHourListResponse(entries, params.Page, params.Limit, total))
}

// GetStats returns a volunteer's aggregated track record.
func (h *VolunteerHandler) GetStats(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	volunteerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid volunteer ID")
		return
	}

	stats, err := h.volunteerService.GetStats(actor, volunteerID)
	if err != nil {
		respondVolunteerError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func respondVolunteerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrVolunteerNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProfileAccessDenied):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
