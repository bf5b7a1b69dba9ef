package dto

import (
	"time"

	"github.com/versity-app/volunteer-api/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ContactEmail string    `json:"contact_email"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrganizationListResponse represents a paginated list of organizations
type OrganizationListResponse struct {
	Organizations []OrganizationDTO `json:"organizations"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalCount    int64             `json:"total_count"`
	TotalPages    int               `json:"total_pages"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:           org.ID,
		Name:         org.Name,
		Description:  org.Description,
		ContactEmail: org.ContactEmail,
		Location:     org.Location,
		CreatedAt:    org.CreatedAt,
	}
}

// ToOrganizationListResponse converts a slice of organizations to OrganizationListResponse
func ToOrganizationListResponse(orgs []models.Organization, page, pageSize int, totalCount int64) OrganizationListResponse {
	items := make([]OrganizationDTO, len(orgs))
	for i, org := range orgs {
		items[i] = ToOrganizationDTO(org)
	}

	return OrganizationListResponse{
		Organizations: items,
		Page:          page,
		PageSize:      pageSize,
		TotalCount:    totalCount,
		TotalPages:    totalPages(totalCount, pageSize),
	}
}
