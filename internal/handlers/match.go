package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/versity-app/volunteer-api/internal/dto"
	apierrors "github.com/versity-app/volunteer-api/internal/errors"
	"github.com/versity-app/volunteer-api/internal/middleware"
	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/services"
	"github.com/versity-app/volunteer-api/internal/utils"
)

// MatchHandler coordinates match lifecycle HTTP handlers.
type MatchHandler struct {
	matchService *services.MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

// CreateMatch lets a volunteer apply to an opportunity.
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateMatchRequest struct {
		OpportunityID uint64 `json:"opportunity_id" binding:"required"`
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	match, err := h.matchService.CreateMatch(actor, req.OpportunityID)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMatchDTO(*match))
}

// ListMatches returns the matches the caller is allowed to see.
// Supports a status filter.
func (h *MatchHandler) ListMatches(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListMatchesInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.MatchStatus(statusStr)
		switch status {
		case models.MatchStatusPending, models.MatchStatusAccepted, models.MatchStatusRejected:
			input.Status = &status
		default:
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
	}

	matches, total, err := h.matchService.ListMatches(actor, input)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMatchListResponse(matches, params.Page, params.Limit, total))
}

// GetMatch returns a single match.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid match ID")
		return
	}

	match, err := h.matchService.GetMatch(actor, id)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMatchDTO(*match))
}

// UpdateMatchStatus accepts or rejects a pending application.
func (h *MatchHandler) UpdateMatchStatus(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid match ID")
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	match, err := h.matchService.UpdateMatchStatus(actor, id, models.MatchStatus(req.Status))
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMatchDTO(*match))
}

// GetRecommendations returns opportunities the volunteer has not applied to.
func (h *MatchHandler) GetRecommendations(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	opportunities, err := h.matchService.RecommendOpportunities(actor, limit)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	items := make([]dto.OpportunityDTO, len(opportunities))
	for i, opp := range opportunities {
		items[i] = dto.ToOpportunityDTO(opp)
	}

	c.JSON(http.StatusOK, gin.H{
		"opportunities": items,
	})
}

// GetCandidates returns volunteers who have not applied to the opportunity.
func (h *MatchHandler) GetCandidates(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	opportunityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid opportunity ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	candidates, err := h.matchService.FindCandidates(actor, opportunityID, limit)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	items := make([]dto.UserDTO, len(candidates))
	for i, candidate := range candidates {
		items[i] = dto.ToUserDTO(candidate)
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": items,
	})
}

// GetStatistics returns match outcome statistics for the caller's scope.
func (h *MatchHandler) GetStatistics(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var orgID *uint64
	if idStr := c.Query("organization_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid organization ID")
			return
		}
		orgID = &id
	}

	stats, err := h.matchService.GetStatistics(actor, orgID)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func respondMatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrOpportunityNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMatchAccessDenied),
		errors.Is(err, services.ErrOnlyVolunteersApply):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyApplied):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrMatchAlreadyDecided):
		apierrors.InvalidTransition(c, err.Error())
	case errors.Is(err, services.ErrInvalidMatchDecision):
		apierrors.UnprocessableEntity(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
