package dto

import (
	"time"

	"github.com/versity-app/volunteer-api/internal/models"
)

// MatchDTO represents a volunteer's application to an opportunity in API
// responses
type MatchDTO struct {
	ID            uint64             `json:"id"`
	VolunteerID   uint64             `json:"volunteer_id"`
	OpportunityID uint64             `json:"opportunity_id"`
	Status        models.MatchStatus `json:"status"`
	MatchedOn     time.Time          `json:"matched_on"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Volunteer     *UserDTO           `json:"volunteer,omitempty"`
	Opportunity   *OpportunityDTO    `json:"opportunity,omitempty"`
}

// MatchListResponse represents a paginated list of matches
type MatchListResponse struct {
	Matches    []MatchDTO `json:"matches"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int64      `json:"total_count"`
	TotalPages int        `json:"total_pages"`
}

// ToMatchDTO converts a Match model to MatchDTO
func ToMatchDTO(match models.Match) MatchDTO {
	dto := MatchDTO{
		ID:            match.ID,
		VolunteerID:   match.VolunteerID,
		OpportunityID: match.OpportunityID,
		Status:        match.Status,
		MatchedOn:     match.MatchedOn,
		CreatedAt:     match.CreatedAt,
		UpdatedAt:     match.UpdatedAt,
	}

	// Include relations if preloaded
	if match.Volunteer.ID != 0 {
		volunteer := ToUserDTO(match.Volunteer)
		dto.Volunteer = &volunteer
	}
	if match.Opportunity.ID != 0 {
		opp := ToOpportunityDTO(match.Opportunity)
		dto.Opportunity = &opp
	}

	return dto
}

// ToMatchListResponse converts a slice of matches to MatchListResponse
func ToMatchListResponse(matches []models.Match, page, pageSize int, totalCount int64) MatchListResponse {
	items := make([]MatchDTO, len(matches))
	for i, match := range matches {
		items[i] = ToMatchDTO(match)
	}

	return MatchListResponse{
		Matches:    items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}
