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
	ErrHourNotFound           = errors.New("hour record not found")
	ErrHourAccessDenied       = errors.New("user does not have permission to access this hour record")
	ErrOnlyVolunteersLogHours = errors.New("only volunteers can log hours")
	ErrHoursNotPositive       = errors.New("hours must be greater than zero")
	ErrHourDateInFuture       = errors.New("date cannot be in the future")
	ErrNoMatchForHours        = errors.New("no application found for this opportunity")
	ErrMatchNotAccepted       = errors.New("hours can only be logged against an accepted application")
	ErrHourAlreadyDecided     = errors.New("hour record has already been decided")
	ErrInvalidHourDecision    = errors.New("hour status must be approved or rejected")
)

// HourService handles logging and verification of volunteer hours. Every
// entry hangs off an accepted match; verification is the owning
// organization's call.
type HourService struct {
	hourRepo  repository.HourRepository
	matchRepo repository.MatchRepository
	userRepo  repository.UserRepository
	notifier  *NotificationService
	audit     *SystemLogService
}

// NewHourService creates a new HourService
func NewHourService(
	hourRepo repository.HourRepository,
	matchRepo repository.MatchRepository,
	userRepo repository.UserRepository,
	notifier *NotificationService,
	audit *SystemLogService,
) *HourService {
	return &HourService{
		hourRepo:  hourRepo,
		matchRepo: matchRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		audit:     audit,
	}
}

// LogHoursInput represents input for logging volunteer hours
type LogHoursInput struct {
	OpportunityID uint64
	Hours         float64
	Date          time.Time
}

// LogHours records hours a volunteer worked on an opportunity. The caller
// must hold an accepted match for the opportunity; entries start out
// submitted and wait for the organization's verdict.
func (s *HourService) LogHours(actor Actor, input LogHoursInput) (*models.VolunteerHour, error) {
	if !actor.IsVolunteer() {
		return nil, ErrOnlyVolunteersLogHours
	}

	if input.Hours <= 0 {
		return nil, ErrHoursNotPositive
	}

	// A timestamp later today still counts as today.
	now := time.Now()
	startOfTomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
	if !input.Date.Before(startOfTomorrow) {
		return nil, ErrHourDateInFuture
	}

	match, err := s.matchRepo.FindByVolunteerAndOpportunity(actor.UserID, input.OpportunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMatchForHours
		}
		return nil, fmt.Errorf("failed to find match: %w", err)
	}

	if match.Status != models.MatchStatusAccepted {
		return nil, ErrMatchNotAccepted
	}

	entry := &models.VolunteerHour{
		VolunteerID:   actor.UserID,
		OpportunityID: input.OpportunityID,
		MatchID:       match.ID,
		Hours:         input.Hours,
		Date:          input.Date,
		Status:        models.HourStatusSubmitted,
	}

	if err := s.hourRepo.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to create hour record: %w", err)
	}

	s.audit.Info("hours", fmt.Sprintf("volunteer %d logged %g hours for opportunity %d", actor.UserID, input.Hours, input.OpportunityID), actor.UserID)

	return s.hourRepo.FindByID(entry.ID, "Opportunity")
}

// ListHoursInput represents filters for listing hour entries
type ListHoursInput struct {
	Status   *models.HourStatus
	Page     int
	PageSize int
}

// ListHours returns the hour entries the actor is allowed to see: volunteers
// their own, organizations those against their opportunities, admins all.
func (s *HourService) ListHours(actor Actor, input ListHoursInput) ([]models.VolunteerHour, int64, error) {
	filter := repository.HourFilter{
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	switch {
	case actor.IsVolunteer():
		filter.VolunteerID = &actor.UserID
	case actor.IsOrganization():
		if actor.OrganizationID == nil {
			return []models.VolunteerHour{}, 0, nil
		}
		filter.OrganizationID = actor.OrganizationID
	case actor.IsAdmin():
		// no scoping
	default:
		return []models.VolunteerHour{}, 0, nil
	}

	entries, total, err := s.hourRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list hours: %w", err)
	}

	return entries, total, nil
}

// VerifyHours decides a submitted hour entry. Only the organization that
// owns the opportunity the hours were logged against, or an admin, may
// decide; a decided entry never changes again. The volunteer is notified
// after the decision commits.
func (s *HourService) VerifyHours(actor Actor, hourID uint64, to models.HourStatus) (*models.VolunteerHour, error) {
	if to != models.HourStatusApproved && to != models.HourStatusRejected {
		return nil, ErrInvalidHourDecision
	}

	entry, err := s.hourRepo.FindByID(hourID, "Opportunity")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHourNotFound
		}
		return nil, fmt.Errorf("failed to find hour record: %w", err)
	}

	if !actor.IsAdmin() {
		if !actor.IsOrganization() || !actor.OwnsOrganization(entry.Opportunity.OrganizationID) {
			return nil, ErrHourAccessDenied
		}
	}

	rows, err := s.hourRepo.UpdateStatus(hourID, models.HourStatusSubmitted, to)
	if err != nil {
		return nil, fmt.Errorf("failed to update hour status: %w", err)
	}
	if rows == 0 {
		// Someone else decided first, or the row is gone.
		current, err := s.hourRepo.FindByID(hourID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrHourNotFound
			}
			return nil, fmt.Errorf("failed to re-read hour record: %w", err)
		}
		if current.Status != models.HourStatusSubmitted {
			return nil, ErrHourAlreadyDecided
		}
		return nil, fmt.Errorf("hour record %d not updated", hourID)
	}

	s.audit.Info("hours", fmt.Sprintf("hour record %d %s by user %d", hourID, to, actor.UserID), actor.UserID)

	if volunteer, err := s.userRepo.FindByID(entry.VolunteerID); err == nil {
		s.notifier.SendHourDecision(volunteer, entry.Opportunity.Title, entry.Hours, to)
	}

	return s.hourRepo.FindByID(hourID, "Volunteer", "Opportunity")
}
