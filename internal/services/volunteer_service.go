package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/repository"
)

var (
	ErrVolunteerNotFound   = errors.New("volunteer not found")
	ErrProfileAccessDenied = errors.New("user does not have permission to access this profile")
)

// VolunteerService handles volunteer profiles and per-volunteer reporting
type VolunteerService struct {
	userRepo    repository.UserRepository
	profileRepo repository.VolunteerProfileRepository
	matchRepo   repository.MatchRepository
	hourRepo    repository.HourRepository
}

// NewVolunteerService creates a new VolunteerService
func NewVolunteerService(
	userRepo repository.UserRepository,
	profileRepo repository.VolunteerProfileRepository,
	matchRepo repository.MatchRepository,
	hourRepo repository.HourRepository,
) *VolunteerService {
	return &VolunteerService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		matchRepo:   matchRepo,
		hourRepo:    hourRepo,
	}
}

// findVolunteer resolves a user ID to a volunteer, treating users holding
// another role as absent.
func (s *VolunteerService) findVolunteer(volunteerID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(volunteerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("failed to find volunteer: %w", err)
	}
	if user.Role != models.RoleVolunteer {
		return nil, ErrVolunteerNotFound
	}
	return user, nil
}

// GetProfile returns a volunteer's profile. Volunteers can read their own,
// admins anyone's.
func (s *VolunteerService) GetProfile(actor Actor, volunteerID uint64) (*models.VolunteerProfile, error) {
	if !actor.IsAdmin() && actor.UserID != volunteerID {
		return nil, ErrProfileAccessDenied
	}

	if _, err := s.findVolunteer(volunteerID); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByUserID(volunteerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}

// UpdateProfileInput represents input for updating a volunteer profile.
// Nil fields are left untouched.
type UpdateProfileInput struct {
	Name             *string
	Bio              *string
	Phone            *string
	Location         *string
	Skills           *string
	Availability     *string
	EmergencyContact *string
	DateOfBirth      *time.Time
}

// UpdateProfile applies a partial update to a volunteer's profile. Same
// access rule as GetProfile.
func (s *VolunteerService) UpdateProfile(actor Actor, volunteerID uint64, input UpdateProfileInput) (*models.VolunteerProfile, error) {
	profile, err := s.GetProfile(actor, volunteerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.Location != nil {
		profile.Location = *input.Location
	}
	if input.Skills != nil {
		profile.Skills = *input.Skills
	}
	if input.Availability != nil {
		profile.Availability = *input.Availability
	}
	if input.EmergencyContact != nil {
		profile.EmergencyContact = *input.EmergencyContact
	}
	if input.DateOfBirth != nil {
		profile.DateOfBirth = input.DateOfBirth
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// GetHours returns a volunteer's hour entries. Volunteers see their own,
// organizations only the entries logged against their opportunities, admins
// everything.
func (s *VolunteerService) GetHours(actor Actor, volunteerID uint64, page, pageSize int) ([]models.VolunteerHour, int64, error) {
	if actor.IsVolunteer() && actor.UserID != volunteerID {
		return nil, 0, ErrProfileAccessDenied
	}

	if _, err := s.findVolunteer(volunteerID); err != nil {
		return nil, 0, err
	}

	filter := repository.HourFilter{
		VolunteerID: &volunteerID,
		Page:        page,
		PageSize:    pageSize,
	}
	if actor.IsOrganization() {
		if actor.OrganizationID == nil {
			return []models.VolunteerHour{}, 0, nil
		}
		filter.OrganizationID = actor.OrganizationID
	}

	entries, total, err := s.hourRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list hours: %w", err)
	}

	return entries, total, nil
}

// VolunteerStats summarizes a volunteer's track record
type VolunteerStats struct {
	TotalHours           float64                `json:"total_hours"`
	TotalApplications    int64                  `json:"total_applications"`
	AcceptedApplications int64                  `json:"accepted_applications"`
	CompletionRate       float64                `json:"completion_rate"`
	RecentActivity       []models.VolunteerHour `json:"recent_activity"`
}

// GetStats aggregates a volunteer's approved hours and application record.
// Volunteers can read their own stats, admins anyone's.
func (s *VolunteerService) GetStats(actor Actor, volunteerID uint64) (*VolunteerStats, error) {
	if !actor.IsAdmin() && actor.UserID != volunteerID {
		return nil, ErrProfileAccessDenied
	}

	if _, err := s.findVolunteer(volunteerID); err != nil {
		return nil, err
	}

	totalHours, err := s.hourRepo.TotalHours(volunteerID, models.HourStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to sum hours: %w", err)
	}

	totalApplications, err := s.matchRepo.CountForVolunteer(volunteerID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	accepted := models.MatchStatusAccepted
	acceptedApplications, err := s.matchRepo.CountForVolunteer(volunteerID, &accepted)
	if err != nil {
		return nil, fmt.Errorf("failed to count accepted applications: %w", err)
	}

	completionRate := 0.0
	if totalApplications > 0 {
		completionRate = float64(acceptedApplications) / float64(totalApplications) * 100
	}

	recent, _, err := s.hourRepo.List(repository.HourFilter{
		VolunteerID: &volunteerID,
		Page:        1,
		PageSize:    5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activity: %w", err)
	}

	return &VolunteerStats{
		TotalHours:           totalHours,
		TotalApplications:    totalApplications,
		AcceptedApplications: acceptedApplications,
		CompletionRate:       completionRate,
		RecentActivity:       recent,
	}, nil
}
