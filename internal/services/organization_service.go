package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/repository"
)

var (
	ErrOrganizationNotFound     = errors.New("organization not found")
	ErrOrganizationAccessDenied = errors.New("user does not have permission to modify this organization")
	ErrOrganizationNameEmpty    = errors.New("organization name cannot be empty")
)

// OrganizationService handles organization pages. Organizations are created
// as part of registration, so this service only reads and edits them.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

// GetOrganization returns an organization's public page
func (s *OrganizationService) GetOrganization(orgID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// ListOrganizations returns the public organization directory, sorted by
// name
func (s *OrganizationService) ListOrganizations(page, pageSize int) ([]models.Organization, int64, error) {
	orgs, total, err := s.orgRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, total, nil
}

// UpdateOrganizationInput represents input for updating an organization
// page. Nil fields are left untouched.
type UpdateOrganizationInput struct {
	Name         *string
	Description  *string
	ContactEmail *string
	Location     *string
}

// UpdateOrganization applies a partial update to an organization page. Only
// the account that owns the organization, or an admin, may edit it.
func (s *OrganizationService) UpdateOrganization(actor Actor, orgID uint64, input UpdateOrganizationInput) (*models.Organization, error) {
	if !actor.IsAdmin() && !actor.OwnsOrganization(orgID) {
		return nil, ErrOrganizationAccessDenied
	}

	org, err := s.GetOrganization(orgID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrOrganizationNameEmpty
		}
		org.Name = *input.Name
	}
	if input.Description != nil {
		org.Description = *input.Description
	}
	if input.ContactEmail != nil {
		org.ContactEmail = *input.ContactEmail
	}
	if input.Location != nil {
		org.Location = *input.Location
	}

	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}
