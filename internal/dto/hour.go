package dto

import (
	"time"

	"github.com/versity-app/volunteer-api/internal/models"
)

// VolunteerHourDTO represents a logged hour entry in API responses
type VolunteerHourDTO struct {
	ID            uint64            `json:"id"`
	VolunteerID   uint64            `json:"volunteer_id"`
	OpportunityID uint64            `json:"opportunity_id"`
	MatchID       uint64            `json:"match_id"`
	Hours         float64           `json:"hours"`
	Date          time.Time         `json:"date"`
	Status        models.HourStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	Volunteer     *UserDTO          `json:"volunteer,omitempty"`
	Opportunity   *OpportunityDTO   `json:"opportunity,omitempty"`
}

// HourListResponse represents a paginated list of hour entries
type HourListResponse struct {
	Hours      []VolunteerHourDTO `json:"hours"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalCount int64              `json:"total_count"`
	TotalPages int                `json:"total_pages"`
}

// ToVolunteerHourDTO converts a VolunteerHour model to VolunteerHourDTO
func ToVolunteerHourDTO(entry models.VolunteerHour) VolunteerHourDTO {
	dto := VolunteerHourDTO{
		ID:            entry.ID,
		VolunteerID:   entry.VolunteerID,
		OpportunityID: entry.OpportunityID,
		MatchID:       entry.MatchID,
		Hours:         entry.Hours,
		Date:          entry.Date,
		Status:        entry.Status,
		CreatedAt:     entry.CreatedAt,
	}

	// Include relations if preloaded
	if entry.Volunteer.ID != 0 {
		volunteer := ToUserDTO(entry.Volunteer)
		dto.Volunteer = &volunteer
	}
	if entry.Opportunity.ID != 0 {
		opp := ToOpportunityDTO(entry.Opportunity)
		dto.Opportunity = &opp
	}

	return dto
}

// ToHourListResponse converts a slice of hour entries to HourListResponse
func ToHourListResponse(entries []models.VolunteerHour, page, pageSize int, totalCount int64) HourListResponse {
	items := make([]VolunteerHourDTO, len(entries))
	for i, entry := range entries {
		items[i] = ToVolunteerHourDTO(entry)
	}

	return HourListResponse{
		Hours:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}
