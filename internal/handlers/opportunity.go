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

// OpportunityHandler coordinates opportunity catalog HTTP handlers.
type OpportunityHandler struct {
	oppService *services.OpportunityService
}

// NewOpportunityHandler creates a new OpportunityHandler.
func NewOpportunityHandler(oppService *services.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{
		oppService: oppService,
	}
}

// ListOpportunities returns the public opportunity catalog.
// Supports title, location, skills and organization_id filters.
func (h *OpportunityHandler) ListOpportunities(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	input := services.ListOpportunitiesInput{
		Title:    c.Query("title"),
		Location: c.Query("location"),
		Skills:   c.Query("skills"),
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if orgIDStr := c.Query("organization_id"); orgIDStr != "" {
		orgID, err := strconv.ParseUint(orgIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid organization_id")
			return
		}
		input.OrganizationID = &orgID
	}

	opportunities, total, err := h.oppService.ListOpportunities(input)
	if err != nil {
		respondOpportunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOpportunityListResponse(opportunities, params.Page, params.Limit, total))
}

// GetOpportunity returns a single opportunity.
func (h *OpportunityHandler) GetOpportunity(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid opportunity ID")
		return
	}

	opp, err := h.oppService.GetOpportunity(id)
	if err != nil {
		respondOpportunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOpportunityDTO(*opp))
}

// CreateOpportunity publishes a new opportunity.
func (h *OpportunityHandler) CreateOpportunity(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateOpportunityRequest struct {
		Title          string     `json:"title" binding:"required"`
		Description    string     `json:"description"`
		SkillsRequired string     `json:"skills_required"`
		StartDate      *time.Time `json:"start_date"`
		EndDate        *time.Time `json:"end_date"`
		Location       string     `json:"location"`
		OrganizationID *uint64    `json:"organization_id"`
	}

	var req CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	opp, err := h.oppService.CreateOpportunity(actor, services.CreateOpportunityInput{
		Title:          req.Title,
		Description:    req.Description,
		SkillsRequired: req.SkillsRequired,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Location:       req.Location,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		respondOpportunityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOpportunityDTO(*opp))
}

// UpdateOpportunity applies changes to an opportunity.
func (h *OpportunityHandler) UpdateOpportunity(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid opportunity ID")
		return
	}

	type UpdateOpportunityRequest struct {
		Title          *string    `json:"title"`
		Description    *string    `json:"description"`
		SkillsRequired *string    `json:"skills_required"`
		StartDate      *time.Time `json:"start_date"`
		EndDate        *time.Time `json:"end_date"`
		Location       *string    `json:"location"`
	}

	var req UpdateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	opp, err := h.oppService.UpdateOpportunity(actor, id, services.UpdateOpportunityInput{
		Title:          req.Title,
		Description:    req.Description,
		SkillsRequired: req.SkillsRequired,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Location:       req.Location,
	})
	if err != nil {
		respondOpportunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOpportunityDTO(*opp))
}

// DeleteOpportunity removes an opportunity and everything hanging off it.
func (h *OpportunityHandler) DeleteOpportunity(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid opportunity ID")
		return
	}

	if err := h.oppService.DeleteOpportunity(actor, id); err != nil {
		respondOpportunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Opportunity deleted successfully",
	})
}

func respondOpportunityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOpportunityNotFound),
		errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrOpportunityAccessDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrOrganizationRequired):
		apierrors.UnprocessableEntity(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
