package constants

// Gin context keys populated by the auth middleware.
const (
	ContextKeyUserID         = "user_id"
	ContextKeyUserRole       = "user_role"
	ContextKeyOrganizationID = "organization_id"
)

const MinPasswordLength = 8

// Pagination bounds shared by list endpoints.
const (
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// DefaultMaxAdmins caps how many admin accounts can exist unless
// overridden by configuration.
const DefaultMaxAdmins = 3
