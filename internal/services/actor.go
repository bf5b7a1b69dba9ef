package services

import "github.com/versity-app/volunteer-api/internal/models"

// Actor identifies the authenticated caller of a service operation. Every
// authorization decision is made against this value, never against raw
// request data.
type Actor struct {
	UserID         uint64
	Role           models.Role
	OrganizationID *uint64
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// IsVolunteer reports whether the actor holds the volunteer role.
func (a Actor) IsVolunteer() bool {
	return a.Role == models.RoleVolunteer
}

// IsOrganization reports whether the actor holds the organization role.
func (a Actor) IsOrganization() bool {
	return a.Role == models.RoleOrganization
}

// OwnsOrganization reports whether the actor belongs to the organization
// with the given ID.
func (a Actor) OwnsOrganization(orgID uint64) bool {
	return a.OrganizationID != nil && *a.OrganizationID == orgID
}
