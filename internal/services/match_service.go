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
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchAccessDenied    = errors.New("user does not have permission to access this match")
	ErrAlreadyApplied       = errors.New("volunteer has already applied for this opportunity")
	ErrMatchAlreadyDecided  = errors.New("match has already been decided")
	ErrInvalidMatchDecision = errors.New("match status must be accepted or rejected")
	ErrOnlyVolunteersApply  = errors.New("only volunteers can apply for opportunities")
)

// MatchService handles the application lifecycle between volunteers and
// opportunities
type MatchService struct {
	matchRepo repository.MatchRepository
	oppRepo   repository.OpportunityRepository
	userRepo  repository.UserRepository
	notifier  *NotificationService
	audit     *SystemLogService
}

// NewMatchService creates a new MatchService
func NewMatchService(
	matchRepo repository.MatchRepository,
	oppRepo repository.OpportunityRepository,
	userRepo repository.UserRepository,
	notifier *NotificationService,
	audit *SystemLogService,
) *MatchService {
	return &MatchService{
		matchRepo: matchRepo,
		oppRepo:   oppRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		audit:     audit,
	}
}

// CreateMatch records a volunteer's application for an opportunity. Every
// application starts out pending.
func (s *MatchService) CreateMatch(actor Actor, opportunityID uint64) (*models.Match, error) {
	if !actor.IsVolunteer() {
		return nil, ErrOnlyVolunteersApply
	}

	opp, err := s.oppRepo.FindByID(opportunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to find opportunity: %w", err)
	}

	if _, err := s.matchRepo.FindByVolunteerAndOpportunity(actor.UserID, opportunityID); err == nil {
		return nil, ErrAlreadyApplied
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing match: %w", err)
	}

	match := &models.Match{
		VolunteerID:   actor.UserID,
		OpportunityID: opportunityID,
		Status:        models.MatchStatusPending,
		MatchedOn:     time.Now(),
	}

	if err := s.matchRepo.Create(match); err != nil {
		// The unique index on (volunteer, opportunity) closes the race
		// between the duplicate check above and this insert.
		return nil, ErrAlreadyApplied
	}

	s.audit.Info("matches", fmt.Sprintf("volunteer %d applied for opportunity %d", actor.UserID, opportunityID), actor.UserID)

	if volunteer, err := s.userRepo.FindByID(actor.UserID); err == nil {
		s.notifier.SendApplicationSubmitted(volunteer, opp.Title)
	}

	return s.matchRepo.FindByID(match.ID, "Opportunity")
}

// ListMatchesInput represents filters for listing matches
type ListMatchesInput struct {
	Status   *models.MatchStatus
	Page     int
	PageSize int
}

// ListMatches returns the matches the actor is allowed to see: volunteers
// their own, organizations those for their opportunities, admins all.
func (s *MatchService) ListMatches(actor Actor, input ListMatchesInput) ([]models.Match, int64, error) {
	filter := repository.MatchFilter{
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	switch {
	case actor.IsVolunteer():
		filter.VolunteerID = &actor.UserID
	case actor.IsOrganization():
		if actor.OrganizationID == nil {
			return []models.Match{}, 0, nil
		}
		filter.OrganizationID = actor.OrganizationID
	case actor.IsAdmin():
		// no scoping
	default:
		return []models.Match{}, 0, nil
	}

	matches, total, err := s.matchRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list matches: %w", err)
	}

	return matches, total, nil
}

// GetMatch returns one match if the actor is involved in it. Matches outside
// the actor's scope read as not found.
func (s *MatchService) GetMatch(actor Actor, id uint64) (*models.Match, error) {
	match, err := s.matchRepo.FindByID(id, "Volunteer", "Opportunity")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find match: %w", err)
	}

	switch {
	case actor.IsAdmin():
	case actor.IsVolunteer() && match.VolunteerID == actor.UserID:
	case actor.IsOrganization() && actor.OwnsOrganization(match.Opportunity.OrganizationID):
	default:
		return nil, ErrMatchNotFound
	}

	return match, nil
}

// UpdateMatchStatus decides a pending application. Only the organization
// that owns the opportunity, or an admin, may decide; a decided match never
// changes again. The volunteer is notified after the decision commits.
func (s *MatchService) UpdateMatchStatus(actor Actor, matchID uint64, to models.MatchStatus) (*models.Match, error) {
	if to != models.MatchStatusAccepted && to != models.MatchStatusRejected {
		return nil, ErrInvalidMatchDecision
	}

	match, err := s.matchRepo.FindByID(matchID, "Opportunity")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find match: %w", err)
	}

	if !actor.IsAdmin() {
		if !actor.IsOrganization() || !actor.OwnsOrganization(match.Opportunity.OrganizationID) {
			return nil, ErrMatchAccessDenied
		}
	}

	rows, err := s.matchRepo.UpdateStatus(matchID, models.MatchStatusPending, to)
	if err != nil {
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}
	if rows == 0 {
		// Someone else decided first, or the row is gone.
		current, err := s.matchRepo.FindByID(matchID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMatchNotFound
			}
			return nil, fmt.Errorf("failed to re-read match: %w", err)
		}
		if current.Status != models.MatchStatusPending {
			return nil, ErrMatchAlreadyDecided
		}
		return nil, fmt.Errorf("match %d not updated", matchID)
	}

	s.audit.Info("matches", fmt.Sprintf("match %d %s by user %d", matchID, to, actor.UserID), actor.UserID)

	if volunteer, err := s.userRepo.FindByID(match.VolunteerID); err == nil {
		s.notifier.SendMatchDecision(volunteer, match.Opportunity.Title, to)
	}

	return s.matchRepo.FindByID(matchID, "Volunteer", "Opportunity")
}

// RecommendOpportunities returns up to limit opportunities the volunteer
// has not applied to yet.
func (s *MatchService) RecommendOpportunities(actor Actor, limit int) ([]models.Opportunity, error) {
	if !actor.IsVolunteer() {
		return nil, ErrMatchAccessDenied
	}
	if limit <= 0 {
		limit = 10
	}

	appliedIDs, err := s.matchRepo.OpportunityIDsForVolunteer(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing applications: %w", err)
	}

	opportunities, _, err := s.oppRepo.List(repository.OpportunityFilter{
		ExcludeIDs: appliedIDs,
		Page:       1,
		PageSize:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}

	return opportunities, nil
}

// FindCandidates returns up to limit volunteers who have not applied to the
// opportunity yet. Only the owning organization or an admin may ask.
func (s *MatchService) FindCandidates(actor Actor, opportunityID uint64, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 20
	}

	opp, err := s.oppRepo.FindByID(opportunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to find opportunity: %w", err)
	}

	if !actor.IsAdmin() {
		if !actor.IsOrganization() || !actor.OwnsOrganization(opp.OrganizationID) {
			return nil, ErrMatchAccessDenied
		}
	}

	appliedIDs, err := s.matchRepo.VolunteerIDsForOpportunity(opportunityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing applicants: %w", err)
	}

	role := models.RoleVolunteer
	candidates, _, err := s.userRepo.List(repository.UserFilter{
		Role:       &role,
		ExcludeIDs: appliedIDs,
		Page:       1,
		PageSize:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}

	return candidates, nil
}

// MatchStatistics summarizes match outcomes.
type MatchStatistics struct {
	Total          int64   `json:"total_matches"`
	Pending        int64   `json:"pending_matches"`
	Accepted       int64   `json:"accepted_matches"`
	Rejected       int64   `json:"rejected_matches"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}

// GetStatistics computes match statistics. Organization actors are scoped to
// their own opportunities; admins see everything and may narrow to one
// organization.
func (s *MatchService) GetStatistics(actor Actor, organizationID *uint64) (*MatchStatistics, error) {
	var orgID *uint64
	switch {
	case actor.IsAdmin():
		orgID = organizationID
	case actor.IsOrganization():
		if actor.OrganizationID == nil {
			return &MatchStatistics{}, nil
		}
		orgID = actor.OrganizationID
	default:
		return nil, ErrMatchAccessDenied
	}

	counts, err := s.matchRepo.StatusCounts(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}

	stats := &MatchStatistics{
		Pending:  counts[models.MatchStatusPending],
		Accepted: counts[models.MatchStatusAccepted],
		Rejected: counts[models.MatchStatusRejected],
	}
	stats.Total = stats.Pending + stats.Accepted + stats.Rejected
	if stats.Total > 0 {
		stats.AcceptanceRate = float64(stats.Accepted) / float64(stats.Total) * 100
	}

	return stats, nil
}
