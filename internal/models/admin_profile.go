package models

import "time"

// AdminProfile records the permission flags of an admin user. Exactly one
// row exists per admin user and it is created together with the account.
type AdminProfile struct {
	ID                     uint64    `gorm:"primarykey" json:"id"`
	UserID                 uint64    `gorm:"not null;uniqueIndex" json:"user_id"`
	CanManageUsers         bool      `gorm:"not null;default:true" json:"can_manage_users"`
	CanManageOrganizations bool      `gorm:"not null;default:true" json:"can_manage_organizations"`
	CanManageOpportunities bool      `gorm:"not null;default:true" json:"can_manage_opportunities"`
	CanVerifyHours         bool      `gorm:"not null;default:true" json:"can_verify_hours"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
