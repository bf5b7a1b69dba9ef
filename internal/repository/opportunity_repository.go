package repository

import (
	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/models"
)

// GormOpportunityRepository is a GORM implementation of OpportunityRepository
type GormOpportunityRepository struct {
	db *gorm.DB
}

// NewOpportunityRepository creates a new OpportunityRepository
func NewOpportunityRepository(db *gorm.DB) OpportunityRepository {
	return &GormOpportunityRepository{db: db}
}

// Create creates a new opportunity
func (r *GormOpportunityRepository) Create(opp *models.Opportunity) error {
	return r.db.Create(opp).Error
}

// FindByID finds an opportunity by ID with optional preloading
func (r *GormOpportunityRepository) FindByID(id uint64, preload ...string) (*models.Opportunity, error) {
	var opp models.Opportunity
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&opp, id).Error; err != nil {
		return nil, err
	}

	return &opp, nil
}

// List retrieves opportunities with filtering and pagination
func (r *GormOpportunityRepository) List(filter OpportunityFilter) ([]models.Opportunity, int64, error) {
	var opportunities []models.Opportunity

	query := r.db.Model(&models.Opportunity{})

	if filter.Title != "" {
		query = query.Where("title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.Location != "" {
		query = query.Where("location LIKE ?", "%"+filter.Location+"%")
	}
	if filter.Skills != "" {
		query = query.Where("skills_required LIKE ?", "%"+filter.Skills+"%")
	}
	if filter.OrganizationID != nil {
		query = query.Where("organization_id = ?", *filter.OrganizationID)
	}
	if filter.StartsAfter != nil {
		query = query.Where("start_date >= ?", *filter.StartsAfter)
	}
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filter.ExcludeIDs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Organization").Find(&opportunities).Error; err != nil {
		return nil, 0, err
	}

	return opportunities, total, nil
}

// Update updates an opportunity
func (r *GormOpportunityRepository) Update(opp *models.Opportunity) error {
	return r.db.Save(opp).Error
}

// Delete soft deletes an opportunity together with its matches and hours
func (r *GormOpportunityRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("opportunity_id = ?", id).Delete(&models.VolunteerHour{}).Error; err != nil {
			return err
		}

		if err := tx.Where("opportunity_id = ?", id).Delete(&models.Match{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Opportunity{}, id).Error
	})
}

// Count counts all opportunities
func (r *GormOpportunityRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Opportunity{}).Count(&count).Error
	return count, err
}
