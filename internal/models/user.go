package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleVolunteer    Role = "volunteer"
	RoleOrganization Role = "organization"
	RoleAdmin        Role = "admin"
)

// Valid reports whether r is one of the roles the system knows about.
func (r Role) Valid() bool {
	switch r {
	case RoleVolunteer, RoleOrganization, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Username       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string         `gorm:"type:varchar(255);not null" json:"-"`
	Role           Role           `gorm:"type:varchar(20);not null" json:"role"`
	OrganizationID *uint64        `json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization     *Organization     `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	VolunteerProfile *VolunteerProfile `gorm:"foreignKey:UserID" json:"volunteer_profile,omitempty"`
	AdminProfile     *AdminProfile     `gorm:"foreignKey:UserID" json:"admin_profile,omitempty"`
	Matches          []Match           `gorm:"foreignKey:VolunteerID" json:"-"`
	Hours            []VolunteerHour   `gorm:"foreignKey:VolunteerID" json:"-"`
}
