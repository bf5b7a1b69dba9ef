package repository

import (
	"time"

	"github.com/versity-app/volunteer-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateVolunteer creates a user and their volunteer profile within a
	// single transaction.
	CreateVolunteer(user *models.User, profile *models.VolunteerProfile) error

	// CreateOrganizationAccount creates a user, their organization, and the
	// link between them within a single transaction.
	CreateOrganizationAccount(user *models.User, org *models.Organization) error

	// CreateAdmin creates a user and their admin profile within a single
	// transaction. The admin head count is checked inside the transaction
	// and ErrAdminLimitReached is returned when it is full.
	CreateAdmin(user *models.User, profile *models.AdminProfile, maxAdmins int) error

	// FindByID finds a user by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users with filtering and pagination
	List(filter UserFilter) ([]models.User, int64, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete removes a user and their profile rows
	Delete(id uint64) error

	// CountByRole counts users holding the given role
	CountByRole(role models.Role) (int64, error)
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role       *models.Role
	Search     string
	ExcludeIDs []uint64
	Page       int
	PageSize   int
}

// VolunteerProfileRepository defines the interface for volunteer profile data access
type VolunteerProfileRepository interface {
	// FindByUserID finds the profile belonging to a user
	FindByUserID(userID uint64) (*models.VolunteerProfile, error)

	// Update updates a profile
	Update(profile *models.VolunteerProfile) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// List retrieves organizations with pagination
	List(page, pageSize int) ([]models.Organization, int64, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// Delete deletes an organization and its opportunities
	Delete(id uint64) error
}

// OpportunityRepository defines the interface for opportunity data access
type OpportunityRepository interface {
	// Create creates a new opportunity
	Create(opp *models.Opportunity) error

	// FindByID finds an opportunity by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Opportunity, error)

	// List retrieves opportunities with filtering and pagination
	List(filter OpportunityFilter) ([]models.Opportunity, int64, error)

	// Update updates an opportunity
	Update(opp *models.Opportunity) error

	// Delete soft deletes an opportunity together with its matches and
	// logged hours
	Delete(id uint64) error

	// Count counts all opportunities
	Count() (int64, error)
}

// OpportunityFilter holds filtering options for listing opportunities
type OpportunityFilter struct {
	Title          string
	Location       string
	Skills         string
	OrganizationID *uint64
	StartsAfter    *time.Time
	ExcludeIDs     []uint64
	Page           int
	PageSize       int
}

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	// Create creates a new match
	Create(match *models.Match) error

	// FindByID finds a match by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Match, error)

	// FindByVolunteerAndOpportunity finds the match a volunteer holds for an
	// opportunity
	FindByVolunteerAndOpportunity(volunteerID, opportunityID uint64) (*models.Match, error)

	// List retrieves matches with filtering and pagination
	List(filter MatchFilter) ([]models.Match, int64, error)

	// UpdateStatus moves a match from one status to another. The write is
	// conditional on the current status so concurrent decisions cannot both
	// win; the returned count is the number of rows changed.
	UpdateStatus(id uint64, from, to models.MatchStatus) (int64, error)

	// StatusCounts returns the number of matches per status, optionally
	// scoped to one organization's opportunities
	StatusCounts(organizationID *uint64) (map[models.MatchStatus]int64, error)

	// CountForVolunteer counts a volunteer's applications, optionally
	// limited to one status
	CountForVolunteer(volunteerID uint64, status *models.MatchStatus) (int64, error)

	// OpportunityIDsForVolunteer lists the opportunities a volunteer has
	// already applied to
	OpportunityIDsForVolunteer(volunteerID uint64) ([]uint64, error)

	// VolunteerIDsForOpportunity lists the volunteers who already applied
	// to an opportunity
	VolunteerIDsForOpportunity(opportunityID uint64) ([]uint64, error)
}

// MatchFilter holds filtering options for listing matches
type MatchFilter struct {
	VolunteerID    *uint64
	OpportunityID  *uint64
	OrganizationID *uint64
	Status         *models.MatchStatus
	Page           int
	PageSize       int
}

// HourRepository defines the interface for volunteer hour data access
type HourRepository interface {
	// Create creates a new hour entry
	Create(entry *models.VolunteerHour) error

	// FindByID finds an hour entry by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.VolunteerHour, error)

	// List retrieves hour entries with filtering and pagination
	List(filter HourFilter) ([]models.VolunteerHour, int64, error)

	// UpdateStatus moves an hour entry from one status to another. The write
	// is conditional on the current status; the returned count is the number
	// of rows changed.
	UpdateStatus(id uint64, from, to models.HourStatus) (int64, error)

	// TotalHours sums the hours a volunteer has in the given status
	TotalHours(volunteerID uint64, status models.HourStatus) (float64, error)

	// StatusCounts returns the number of hour entries per status, optionally
	// scoped to one organization's opportunities
	StatusCounts(organizationID *uint64) (map[models.HourStatus]int64, error)
}

// HourFilter holds filtering options for listing hour entries
type HourFilter struct {
	VolunteerID    *uint64
	OpportunityID  *uint64
	OrganizationID *uint64
	MatchID        *uint64
	Status         *models.HourStatus
	Page           int
	PageSize       int
}

// SystemLogRepository defines the interface for audit log data access
type SystemLogRepository interface {
	// Create appends a log row
	Create(entry *models.SystemLog) error

	// List retrieves log rows with filtering and pagination, newest first
	List(filter LogFilter) ([]models.SystemLog, int64, error)
}

// LogFilter holds filtering options for listing audit log rows
type LogFilter struct {
	Level    *models.LogLevel
	Source   string
	UserID   *uint64
	Page     int
	PageSize int
}
