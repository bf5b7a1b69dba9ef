package repository

import (
	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/models"
)

// GormMatchRepository is a GORM implementation of MatchRepository
type GormMatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new MatchRepository
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &GormMatchRepository{db: db}
}

// Create creates a new match
func (r *GormMatchRepository) Create(match *models.Match) error {
	return r.db.Create(match).Error
}

// FindByID finds a match by ID with optional preloading
func (r *GormMatchRepository) FindByID(id uint64, preload ...string) (*models.Match, error) {
	var match models.Match
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&match, id).Error; err != nil {
		return nil, err
	}

	return &match, nil
}

// FindByVolunteerAndOpportunity finds the match a volunteer holds for an opportunity
func (r *GormMatchRepository) FindByVolunteerAndOpportunity(volunteerID, opportunityID uint64) (*models.Match, error) {
	var match models.Match
	if err := r.db.Where("volunteer_id = ? AND opportunity_id = ?", volunteerID, opportunityID).
		First(&match).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// List retrieves matches with filtering and pagination
func (r *GormMatchRepository) List(filter MatchFilter) ([]models.Match, int64, error) {
	var matches []models.Match

	query := r.db.Model(&models.Match{})

	if filter.VolunteerID != nil {
		query = query.Where("matches.volunteer_id = ?", *filter.VolunteerID)
	}
	if filter.OpportunityID != nil {
		query = query.Where("matches.opportunity_id = ?", *filter.OpportunityID)
	}
	if filter.OrganizationID != nil {
		query = query.
			Joins("JOIN opportunities ON opportunities.id = matches.opportunity_id").
			Where("opportunities.organization_id = ? AND opportunities.deleted_at IS NULL", *filter.OrganizationID)
	}
	if filter.Status != nil {
		query = query.Where("matches.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("matches.matched_on DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Volunteer").Preload("Opportunity").Find(&matches).Error; err != nil {
		return nil, 0, err
	}

	return matches, total, nil
}

// UpdateStatus moves a match from one status to another. The condition on the
// current status makes the write a no-op when another decision got there
// first, so exactly one of two racing updates changes the row.
func (r *GormMatchRepository) UpdateStatus(id uint64, from, to models.MatchStatus) (int64, error) {
	result := r.db.Model(&models.Match{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

// OpportunityIDsForVolunteer lists the opportunities a volunteer has already
// applied to
func (r *GormMatchRepository) OpportunityIDsForVolunteer(volunteerID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.Match{}).
		Where("volunteer_id = ?", volunteerID).
		Pluck("opportunity_id", &ids).Error
	return ids, err
}

// VolunteerIDsForOpportunity lists the volunteers who already applied to an
// opportunity
func (r *GormMatchRepository) VolunteerIDsForOpportunity(opportunityID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.Match{}).
		Where("opportunity_id = ?", opportunityID).
		Pluck("volunteer_id", &ids).Error
	return ids, err
}

// CountForVolunteer counts a volunteer's applications, optionally limited to
// one status
func (r *GormMatchRepository) CountForVolunteer(volunteerID uint64, status *models.MatchStatus) (int64, error) {
	query := r.db.Model(&models.Match{}).Where("volunteer_id = ?", volunteerID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// StatusCounts returns the number of matches per status, optionally scoped to
// one organization's opportunities
func (r *GormMatchRepository) StatusCounts(organizationID *uint64) (map[models.MatchStatus]int64, error) {
	type statusCount struct {
		Status models.MatchStatus
		Count  int64
	}

	query := r.db.Model(&models.Match{}).Select("matches.status AS status, COUNT(*) AS count")
	if organizationID != nil {
		query = query.
			Joins("JOIN opportunities ON opportunities.id = matches.opportunity_id").
			Where("opportunities.organization_id = ? AND opportunities.deleted_at IS NULL", *organizationID)
	}

	var rows []statusCount
	if err := query.Group("matches.status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.MatchStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
