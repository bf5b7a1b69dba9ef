package models

import "time"

type HourStatus string

const (
	HourStatusSubmitted HourStatus = "submitted"
	HourStatusApproved  HourStatus = "approved"
	HourStatusRejected  HourStatus = "rejected"
)

// Terminal reports whether s admits no further transitions.
func (s HourStatus) Terminal() bool {
	return s == HourStatusApproved || s == HourStatusRejected
}

type VolunteerHour struct {
	ID            uint64     `gorm:"primarykey" json:"id"`
	VolunteerID   uint64     `gorm:"not null;index" json:"volunteer_id"`
	OpportunityID uint64     `gorm:"not null;index" json:"opportunity_id"`
	MatchID       uint64     `gorm:"not null;index" json:"match_id"`
	Hours         float64    `gorm:"not null" json:"hours"`
	Date          time.Time  `gorm:"not null" json:"date"`
	Status        HourStatus `gorm:"type:varchar(20);not null;default:'submitted'" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Volunteer   User        `gorm:"foreignKey:VolunteerID" json:"volunteer,omitempty"`
	Opportunity Opportunity `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
	Match       Match       `gorm:"foreignKey:MatchID" json:"-"`
}
