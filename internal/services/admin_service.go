package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/repository"
)

var (
	ErrAdminAccessRequired = errors.New("admin access required")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
)

// AdminService handles user administration, audit log access and the
// platform-wide dashboard
type AdminService struct {
	userRepo  repository.UserRepository
	oppRepo   repository.OpportunityRepository
	matchRepo repository.MatchRepository
	logRepo   repository.SystemLogRepository
	audit     *SystemLogService
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo repository.UserRepository,
	oppRepo repository.OpportunityRepository,
	matchRepo repository.MatchRepository,
	logRepo repository.SystemLogRepository,
	audit *SystemLogService,
) *AdminService {
	return &AdminService{
		userRepo:  userRepo,
		oppRepo:   oppRepo,
		matchRepo: matchRepo,
		logRepo:   logRepo,
		audit:     audit,
	}
}

// ListUsersInput represents filters for listing users
type ListUsersInput struct {
	Role     *models.Role
	Search   string
	Page     int
	PageSize int
}

// ListUsers returns all users, newest first, optionally filtered by role or
// a username/email search term
func (s *AdminService) ListUsers(actor Actor, input ListUsersInput) ([]models.User, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, ErrAdminAccessRequired
	}

	users, total, err := s.userRepo.List(repository.UserFilter{
		Role:     input.Role,
		Search:   input.Search,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// GetUser returns one user with their role-specific profile loaded
func (s *AdminService) GetUser(actor Actor, userID uint64) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminAccessRequired
	}

	user, err := s.userRepo.FindByID(userID, "VolunteerProfile", "AdminProfile", "Organization")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user and their profile rows. Admins cannot delete
// their own account.
func (s *AdminService) DeleteUser(actor Actor, userID uint64) error {
	if !actor.IsAdmin() {
		return ErrAdminAccessRequired
	}
	if actor.UserID == userID {
		return ErrCannotDeleteSelf
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.audit.Record(models.LogLevelWarning, "admin", fmt.Sprintf("user %d (%s) deleted by admin %d", user.ID, user.Username, actor.UserID), &actor.UserID)

	return nil
}

// ListLogsInput represents filters for listing audit log rows
type ListLogsInput struct {
	Level    *models.LogLevel
	Source   string
	Page     int
	PageSize int
}

// ListLogs returns audit log rows, newest first
func (s *AdminService) ListLogs(actor Actor, input ListLogsInput) ([]models.SystemLog, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, ErrAdminAccessRequired
	}

	logs, total, err := s.logRepo.List(repository.LogFilter{
		Level:    input.Level,
		Source:   input.Source,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list logs: %w", err)
	}

	return logs, total, nil
}

// DashboardUserCounts breaks the user base down by role
type DashboardUserCounts struct {
	Volunteers    int64 `json:"volunteers"`
	Organizations int64 `json:"organizations"`
	Admins        int64 `json:"admins"`
}

// DashboardStats summarizes platform activity for the admin dashboard
type DashboardStats struct {
	UserCounts       DashboardUserCounts `json:"user_counts"`
	OpportunityCount int64               `json:"opportunity_count"`
	MatchCount       int64               `json:"match_count"`
	RecentUsers      []models.User       `json:"recent_users"`
}

// GetDashboardStats aggregates platform-wide counts and the five newest
// registrations
func (s *AdminService) GetDashboardStats(actor Actor) (*DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminAccessRequired
	}

	stats := &DashboardStats{}

	var err error
	if stats.UserCounts.Volunteers, err = s.userRepo.CountByRole(models.RoleVolunteer); err != nil {
		return nil, fmt.Errorf("failed to count volunteers: %w", err)
	}
	if stats.UserCounts.Organizations, err = s.userRepo.CountByRole(models.RoleOrganization); err != nil {
		return nil, fmt.Errorf("failed to count organizations: %w", err)
	}
	if stats.UserCounts.Admins, err = s.userRepo.CountByRole(models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}

	if stats.OpportunityCount, err = s.oppRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count opportunities: %w", err)
	}

	counts, err := s.matchRepo.StatusCounts(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}
	for _, n := range counts {
		stats.MatchCount += n
	}

	recent, _, err := s.userRepo.List(repository.UserFilter{Page: 1, PageSize: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	stats.RecentUsers = recent

	return stats, nil
}
