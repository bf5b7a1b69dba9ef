package models

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	ContactEmail string         `gorm:"type:varchar(255);not null" json:"contact_email"`
	Location     string         `gorm:"type:varchar(255)" json:"location"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Users         []User        `gorm:"foreignKey:OrganizationID" json:"-"`
	Opportunities []Opportunity `gorm:"foreignKey:OrganizationID" json:"opportunities,omitempty"`
}
