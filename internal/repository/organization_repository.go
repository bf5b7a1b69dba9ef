package repository

import (
	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/models"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// List retrieves organizations with pagination
func (r *GormOrganizationRepository) List(page, pageSize int) ([]models.Organization, int64, error) {
	var orgs []models.Organization

	query := r.db.Model(&models.Organization{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("name ASC")
	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		listQuery = listQuery.Offset(offset).Limit(pageSize)
	}

	if err := listQuery.Find(&orgs).Error; err != nil {
		return nil, 0, err
	}

	return orgs, total, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

// Delete deletes an organization and its opportunities in a transaction
func (r *GormOrganizationRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Opportunities carry the matches and hours with them
		var opportunityIDs []uint64
		if err := tx.Model(&models.Opportunity{}).
			Where("organization_id = ?", id).
			Pluck("id", &opportunityIDs).Error; err != nil {
			return err
		}

		if len(opportunityIDs) > 0 {
			if err := tx.Where("opportunity_id IN ?", opportunityIDs).Delete(&models.VolunteerHour{}).Error; err != nil {
				return err
			}

			if err := tx.Where("opportunity_id IN ?", opportunityIDs).Delete(&models.Match{}).Error; err != nil {
				return err
			}

			if err := tx.Where("organization_id = ?", id).Delete(&models.Opportunity{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Organization{}, id).Error
	})
}
