package models

import (
	"time"

	"gorm.io/gorm"
)

type Opportunity struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	SkillsRequired string         `gorm:"type:varchar(255)" json:"skills_required"`
	StartDate      *time.Time     `json:"start_date"`
	EndDate        *time.Time     `json:"end_date"`
	Location       string         `gorm:"type:varchar(255)" json:"location"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization    `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Matches      []Match         `gorm:"foreignKey:OpportunityID" json:"-"`
	Hours        []VolunteerHour `gorm:"foreignKey:OpportunityID" json:"-"`
}
