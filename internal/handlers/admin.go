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

// AdminHandler coordinates administration HTTP handlers.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListUsers returns all users. Supports role and search filters.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListUsersInput{
		Search:   c.Query("search"),
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if roleStr := c.Query("role"); roleStr != "" {
		role := models.Role(roleStr)
		if !role.Valid() {
			apierrors.BadRequest(c, "Invalid role filter")
			return
		}
		input.Role = &role
	}

	users, total, err := h.adminService.ListUsers(actor, input)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, params.Page, params.Limit, total))
}

// GetUser returns one user with their role-specific profile.
func (h *AdminHandler) GetUser(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.adminService.GetUser(actor, userID)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a user account.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.adminService.DeleteUser(actor, userID); err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// ListLogs returns audit log rows, newest first. Supports level and source
// filters.
func (h *AdminHandler) ListLogs(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListLogsInput{
		Source:   c.Query("source"),
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if levelStr := c.Query("level"); levelStr != "" {
		level := models.LogLevel(levelStr)
		switch level {
		case models.LogLevelInfo, models.LogLevelWarning, models.LogLevelError:
			input.Level = &level
		default:
			apierrors.BadRequest(c, "Invalid level filter")
			return
		}
	}

	logs, total, err := h.adminService.ListLogs(actor, input)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLogListResponse(logs, params.Page, params.Limit, total))
}

// GetDashboardStats returns platform-wide counts for the admin dashboard.
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stats, err := h.adminService.GetDashboardStats(actor)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	recent := make([]dto.UserDTO, len(stats.RecentUsers))
	for i, user := range stats.RecentUsers {
		recent[i] = dto.ToUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{
		"user_counts":       stats.UserCounts,
		"opportunity_count": stats.OpportunityCount,
		"match_count":       stats.MatchCount,
		"recent_users":      recent,
	})
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAdminAccessRequired):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrCannotDeleteSelf):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
