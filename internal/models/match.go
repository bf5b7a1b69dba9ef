package models

import "time"

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusRejected MatchStatus = "rejected"
)

// Terminal reports whether s admits no further transitions.
func (s MatchStatus) Terminal() bool {
	return s == MatchStatusAccepted || s == MatchStatusRejected
}

type Match struct {
	ID            uint64      `gorm:"primarykey" json:"id"`
	VolunteerID   uint64      `gorm:"not null;uniqueIndex:idx_matches_volunteer_opportunity" json:"volunteer_id"`
	OpportunityID uint64      `gorm:"not null;uniqueIndex:idx_matches_volunteer_opportunity" json:"opportunity_id"`
	Status        MatchStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	MatchedOn     time.Time   `json:"matched_on"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	// Relations
	Volunteer   User        `gorm:"foreignKey:VolunteerID" json:"volunteer,omitempty"`
	Opportunity Opportunity `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
}
