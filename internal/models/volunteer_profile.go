package models

import (
	"time"

	"gorm.io/gorm"
)

// VolunteerProfile holds the optional descriptive fields a volunteer can
// fill in after registering. Exactly one row exists per volunteer user.
type VolunteerProfile struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	UserID           uint64         `gorm:"not null;uniqueIndex" json:"user_id"`
	Name             string         `gorm:"type:varchar(255)" json:"name"`
	Bio              string         `gorm:"type:text" json:"bio"`
	Phone            string         `gorm:"type:varchar(50)" json:"phone"`
	Location         string         `gorm:"type:varchar(255)" json:"location"`
	Skills           string         `gorm:"type:text" json:"skills"`
	Availability     string         `gorm:"type:varchar(255)" json:"availability"`
	EmergencyContact string         `gorm:"type:varchar(255)" json:"emergency_contact"`
	DateOfBirth      *time.Time     `json:"date_of_birth"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
