package dto

import (
	"time"

	"github.com/versity-app/volunteer-api/internal/models"
)

// OpportunityDTO represents an opportunity in API responses
type OpportunityDTO struct {
	ID             uint64           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	SkillsRequired string           `json:"skills_required"`
	StartDate      *time.Time       `json:"start_date"`
	EndDate        *time.Time       `json:"end_date"`
	Location       string           `json:"location"`
	OrganizationID uint64           `json:"organization_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Organization   *OrganizationDTO `json:"organization,omitempty"`
}

// OpportunityListResponse represents a paginated list of opportunities
type OpportunityListResponse struct {
	Opportunities []OpportunityDTO `json:"opportunities"`
	Page          int              `json:"page"`
	PageSize      int              `json:"page_size"`
	TotalCount    int64            `json:"total_count"`
	TotalPages    int              `json:"total_pages"`
}

// ToOpportunityDTO converts an Opportunity model to OpportunityDTO
func ToOpportunityDTO(opp models.Opportunity) OpportunityDTO {
	dto := OpportunityDTO{
		ID:             opp.ID,
		Title:          opp.Title,
		Description:    opp.Description,
		SkillsRequired: opp.SkillsRequired,
		StartDate:      opp.StartDate,
		EndDate:        opp.EndDate,
		Location:       opp.Location,
		OrganizationID: opp.OrganizationID,
		CreatedAt:      opp.CreatedAt,
		UpdatedAt:      opp.UpdatedAt,
	}

	// Include organization if preloaded
	if opp.Organization.ID != 0 {
		org := ToOrganizationDTO(opp.Organization)
		dto.Organization = &org
	}

	return dto
}

// ToOpportunityListResponse converts a slice of opportunities to OpportunityListResponse
func ToOpportunityListResponse(opps []models.Opportunity, page, pageSize int, totalCount int64) OpportunityListResponse {
	items := make([]OpportunityDTO, len(opps))
	for i, opp := range opps {
		items[i] = ToOpportunityDTO(opp)
	}

	return OpportunityListResponse{
		Opportunities: items,
		Page:          page,
		PageSize:      pageSize,
		TotalCount:    totalCount,
		TotalPages:    totalPages(totalCount, pageSize),
	}
}
