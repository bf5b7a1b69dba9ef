package dto

import (
	"time"

	"github.com/versity-app/volunteer-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID             uint64               `json:"id"`
	Username       string               `json:"username"`
	Email          string               `json:"email"`
	Role           models.Role          `json:"role"`
	OrganizationID *uint64              `json:"organization_id,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	Organization   *OrganizationDTO     `json:"organization,omitempty"`
	Profile        *VolunteerProfileDTO `json:"volunteer_profile,omitempty"`
	AdminProfile   *AdminProfileDTO     `json:"admin_profile,omitempty"`
}

// VolunteerProfileDTO represents a volunteer profile in API responses
type VolunteerProfileDTO struct {
	ID               uint64     `json:"id"`
	UserID           uint64     `json:"user_id"`
	Name             string     `json:"name"`
	Bio              string     `json:"bio"`
	Phone            string     `json:"phone"`
	Location         string     `json:"location"`
	Skills           string     `json:"skills"`
	Availability     string     `json:"availability"`
	EmergencyContact string     `json:"emergency_contact"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
}

// AdminProfileDTO represents an admin's permission flags in API responses
type AdminProfileDTO struct {
	ID                     uint64 `json:"id"`
	UserID                 uint64 `json:"user_id"`
	CanManageUsers         bool   `json:"can_manage_users"`
	CanManageOrganizations bool   `json:"can_manage_organizations"`
	CanManageOpportunities bool   `json:"can_manage_opportunities"`
	CanVerifyHours         bool   `json:"can_verify_hours"`
}

// TokenResponse represents a successful login or token refresh
type TokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresAt   int64   `json:"expires_at"`
	User        UserDTO `json:"user"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO `json:"users"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		CreatedAt:      user.CreatedAt,
	}

	// Include relations if preloaded
	if user.Organization != nil {
		org := ToOrganizationDTO(*user.Organization)
		dto.Organization = &org
	}
	if user.VolunteerProfile != nil {
		profile := ToVolunteerProfileDTO(*user.VolunteerProfile)
		dto.Profile = &profile
	}
	if user.AdminProfile != nil {
		admin := ToAdminProfileDTO(*user.AdminProfile)
		dto.AdminProfile = &admin
	}

	return dto
}

// ToVolunteerProfileDTO converts a VolunteerProfile model to VolunteerProfileDTO
func ToVolunteerProfileDTO(profile models.VolunteerProfile) VolunteerProfileDTO {
	return VolunteerProfileDTO{
		ID:               profile.ID,
		UserID:           profile.UserID,
		Name:             profile.Name,
		Bio:              profile.Bio,
		Phone:            profile.Phone,
		Location:         profile.Location,
		Skills:           profile.Skills,
		Availability:     profile.Availability,
		EmergencyContact: profile.EmergencyContact,
		DateOfBirth:      profile.DateOfBirth,
	}
}

// ToAdminProfileDTO converts an AdminProfile model to AdminProfileDTO
func ToAdminProfileDTO(profile models.AdminProfile) AdminProfileDTO {
	return AdminProfileDTO{
		ID:                     profile.ID,
		UserID:                 profile.UserID,
		CanManageUsers:         profile.CanManageUsers,
		CanManageOrganizations: profile.CanManageOrganizations,
		CanManageOpportunities: profile.CanManageOpportunities,
		CanVerifyHours:         profile.CanVerifyHours,
	}
}

// ToTokenResponse converts a login result to TokenResponse
func ToTokenResponse(user models.User, token string, expiresAt int64) TokenResponse {
	return TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        ToUserDTO(user),
	}
}

// ToUserListResponse converts a slice of users to UserListResponse
func ToUserListResponse(users []models.User, page, pageSize int, totalCount int64) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}

	return UserListResponse{
		Users:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}
