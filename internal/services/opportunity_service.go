package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/repository"
)

var (
	ErrOpportunityNotFound     = errors.New("opportunity not found")
	ErrOpportunityAccessDenied = errors.New("user does not have permission to modify this opportunity")
	ErrTitleRequired           = errors.New("title is required")
	ErrTitleEmpty              = errors.New("title cannot be empty")
	ErrInvalidDateRange        = errors.New("end date cannot be before start date")
	ErrOrganizationRequired    = errors.New("an organization must be specified")
)

// OpportunityService handles the opportunity catalog business logic
type OpportunityService struct {
	oppRepo repository.OpportunityRepository
	orgRepo repository.OrganizationRepository
}

// NewOpportunityService creates a new OpportunityService
func NewOpportunityService(oppRepo repository.OpportunityRepository, orgRepo repository.OrganizationRepository) *OpportunityService {
	return &OpportunityService{
		oppRepo: oppRepo,
		orgRepo: orgRepo,
	}
}

// ListOpportunitiesInput represents filters for browsing the catalog
type ListOpportunitiesInput struct {
	Title          string
	Location       string
	Skills         string
	OrganizationID *uint64
	Page           int
	PageSize       int
}

// ListOpportunities returns the catalog page matching the filters. The
// catalog is public; no actor is involved.
func (s *OpportunityService) ListOpportunities(input ListOpportunitiesInput) ([]models.Opportunity, int64, error) {
	filter := repository.OpportunityFilter{
		Title:          input.Title,
		Location:       input.Location,
		Skills:         input.Skills,
		OrganizationID: input.OrganizationID,
		Page:           input.Page,
		PageSize:       input.PageSize,
	}

	opportunities, total, err := s.oppRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list opportunities: %w", err)
	}

	return opportunities, total, nil
}

// GetOpportunity returns one opportunity with its organization
func (s *OpportunityService) GetOpportunity(id uint64) (*models.Opportunity, error) {
	opp, err := s.oppRepo.FindByID(id, "Organization")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to find opportunity: %w", err)
	}

	return opp, nil
}

// CreateOpportunityInput represents input for creating an opportunity
type CreateOpportunityInput struct {
	Title          string
	Description    string
	SkillsRequired string
	StartDate      *time.Time
	EndDate        *time.Time
	Location       string
	OrganizationID *uint64
}

// CreateOpportunity creates an opportunity. Organization actors always
// create under their own organization; admins must name one explicitly.
func (s *OpportunityService) CreateOpportunity(actor Actor, input CreateOpportunityInput) (*models.Opportunity, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var organizationID uint64
	switch {
	case actor.IsOrganization():
		if actor.OrganizationID == nil {
			return nil, ErrOpportunityAccessDenied
		}
		organizationID = *actor.OrganizationID

	case actor.IsAdmin():
		if input.OrganizationID == nil {
			return nil, ErrOrganizationRequired
		}
		organizationID = *input.OrganizationID

	default:
		return nil, ErrOpportunityAccessDenied
	}

	if _, err := s.orgRepo.FindByID(organizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to verify organization: %w", err)
	}

	opp := &models.Opportunity{
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		SkillsRequired: input.SkillsRequired,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Location:       input.Location,
		OrganizationID: organizationID,
	}

	if err := s.oppRepo.Create(opp); err != nil {
		return nil, fmt.Errorf("failed to create opportunity: %w", err)
	}

	return s.oppRepo.FindByID(opp.ID, "Organization")
}

// UpdateOpportunityInput represents input for updating an opportunity
type UpdateOpportunityInput struct {
	Title          *string
	Description    *string
	SkillsRequired *string
	StartDate      *time.Time
	EndDate        *time.Time
	Location       *string
}

// UpdateOpportunity applies changes to an opportunity the actor controls.
func (s *OpportunityService) UpdateOpportunity(actor Actor, id uint64, input UpdateOpportunityInput) (*models.Opportunity, error) {
	opp, err := s.oppRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to find opportunity: %w", err)
	}

	if !s.canManage(actor, opp) {
		return nil, ErrOpportunityAccessDenied
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		opp.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		opp.Description = *input.Description
	}
	if input.SkillsRequired != nil {
		opp.SkillsRequired = *input.SkillsRequired
	}
	if input.StartDate != nil {
		opp.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		opp.EndDate = input.EndDate
	}
	if opp.StartDate != nil && opp.EndDate != nil && opp.EndDate.Before(*opp.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if input.Location != nil {
		opp.Location = *input.Location
	}

	if err := s.oppRepo.Update(opp); err != nil {
		return nil, fmt.Errorf("failed to update opportunity: %w", err)
	}

	return s.oppRepo.FindByID(opp.ID, "Organization")
}

// DeleteOpportunity removes an opportunity the actor controls, together
// with its matches and logged hours.
func (s *OpportunityService) DeleteOpportunity(actor Actor, id uint64) error {
	opp, err := s.oppRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOpportunityNotFound
		}
		return fmt.Errorf("failed to find opportunity: %w", err)
	}

	if !s.canManage(actor, opp) {
		return ErrOpportunityAccessDenied
	}

	if err := s.oppRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete opportunity: %w", err)
	}

	return nil
}

// canManage reports whether the actor may modify the opportunity: admins
// always, organization accounts only for their own postings.
func (s *OpportunityService) canManage(actor Actor, opp *models.Opportunity) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.IsOrganization() && actor.OwnsOrganization(opp.OrganizationID)
}
