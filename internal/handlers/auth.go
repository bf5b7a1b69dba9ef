package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/versity-app/volunteer-api/internal/constants"
	"github.com/versity-app/volunteer-api/internal/dto"
	apierrors "github.com/versity-app/volunteer-api/internal/errors"
	"github.com/versity-app/volunteer-api/internal/middleware"
	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService      *services.AuthService
	volunteerService *services.VolunteerService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, volunteerService *services.VolunteerService) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		volunteerService: volunteerService,
	}
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username                string `json:"username" binding:"required,min=3,max=50"`
		Email                   string `json:"email" binding:"required,email"`
		Password                string `json:"password" binding:"required"`
		Role                    string `json:"role"`
		AdminKey                string `json:"admin_key"`
		OrganizationName        string `json:"organization_name"`
		OrganizationDescription string `json:"organization_description"`
		OrganizationLocation    string `json:"organization_location"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username:                req.Username,
		Email:                   req.Email,
		Password:                req.Password,
		Role:                    models.Role(req.Role),
		AdminKey:                req.AdminKey,
		OrganizationName:        req.OrganizationName,
		OrganizationDescription: req.OrganizationDescription,
		OrganizationLocation:    req.OrganizationLocation,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusCreated, userDTO)
}

// Login authenticates a user and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenResponse(*result.User, result.Token, result.ExpiresAt))
}

// Logout acknowledges a logout. Bearer tokens are not tracked server side,
// so the client discards the token and the session ends with it.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// RefreshToken issues a fresh token for the authenticated user.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	result, err := h.authService.RefreshToken(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenResponse(*result.User, result.Token, result.ExpiresAt))
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, userDTO)
}

// UpdateCurrentUser updates the authenticated user's account and, for
// volunteers, their profile in one request.
func (h *AuthHandler) UpdateCurrentUser(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateMeRequest struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`

		// Volunteer profile fields
		Name             *string    `json:"name"`
		Bio              *string    `json:"bio"`
		Phone            *string    `json:"phone"`
		Location         *string    `json:"location"`
		Skills           *string    `json:"skills"`
		Availability     *string    `json:"availability"`
		EmergencyContact *string    `json:"emergency_contact"`
		DateOfBirth      *time.Time `json:"date_of_birth"`
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Username != nil || req.Email != nil || req.Password != nil {
		if _, err := h.authService.UpdateAccount(actor.UserID, services.UpdateAccountInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		}); err != nil {
			respondAuthError(c, err)
			return
		}
	}

	hasProfileFields := req.Name != nil || req.Bio != nil || req.Phone != nil ||
		req.Location != nil || req.Skills != nil || req.Availability != nil ||
		req.EmergencyContact != nil || req.DateOfBirth != nil
	if hasProfileFields && actor.IsVolunteer() {
		if _, err := h.volunteerService.UpdateProfile(actor, actor.UserID, services.UpdateProfileInput{
			Name:             req.Name,
			Bio:              req.Bio,
			Phone:            req.Phone,
			Location:         req.Location,
			Skills:           req.Skills,
			Availability:     req.Availability,
			EmergencyContact: req.EmergencyContact,
			DateOfBirth:      req.DateOfBirth,
		}); err != nil {
			respondVolunteerError(c, err)
			return
		}
	}

	user, err := h.authService.GetUser(actor.UserID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, userDTO)
}

// ForgotPassword issues a password reset token for the given email. The
// response does not reveal whether the address exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	type ForgotPasswordRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If the email exists, a reset link has been sent",
	})
}

// ResetPassword sets a new password using a reset token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	type ResetPasswordRequest struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset",
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrEmailRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.UnprocessableEntity(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrAdminKeyInvalid),
		errors.Is(err, services.ErrAdminLimitReached):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrInvalidResetToken):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToCreateUser):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
