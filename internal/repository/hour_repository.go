package repository

import (
	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/models"
)

// GormHourRepository is a GORM implementation of HourRepository
type GormHourRepository struct {
	db *gorm.DB
}

// NewHourRepository creates a new HourRepository
func NewHourRepository(db *gorm.DB) HourRepository {
	return &GormHourRepository{db: db}
}

// Create creates a new hour entry
func (r *GormHourRepository) Create(entry *models.VolunteerHour) error {
	return r.db.Create(entry).Error
}

// FindByID finds an hour entry by ID with optional preloading
func (r *GormHourRepository) FindByID(id uint64, preload ...string) (*models.VolunteerHour, error) {
	var entry models.VolunteerHour
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&entry, id).Error; err != nil {
		return nil, err
	}

	return &entry, nil
}

// List retrieves hour entries with filtering and pagination
func (r *GormHourRepository) List(filter HourFilter) ([]models.VolunteerHour, int64, error) {
	var entries []models.VolunteerHour

	query := r.db.Model(&models.VolunteerHour{})

	if filter.VolunteerID != nil {
		query = query.Where("volunteer_hours.volunteer_id = ?", *filter.VolunteerID)
	}
	if filter.OpportunityID != nil {
		query = query.Where("volunteer_hours.opportunity_id = ?", *filter.OpportunityID)
	}
	if filter.OrganizationID != nil {
		query = query.
			Joins("JOIN opportunities ON opportunities.id = volunteer_hours.opportunity_id").
			Where("opportunities.organization_id = ? AND opportunities.deleted_at IS NULL", *filter.OrganizationID)
	}
	if filter.MatchID != nil {
		query = query.Where("volunteer_hours.match_id = ?", *filter.MatchID)
	}
	if filter.Status != nil {
		query = query.Where("volunteer_hours.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("volunteer_hours.date DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Volunteer").Preload("Opportunity").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// UpdateStatus moves an hour entry from one status to another. The condition
// on the current status makes the write a no-op when a concurrent reviewer
// already decided the entry.
func (r *GormHourRepository) UpdateStatus(id uint64, from, to models.HourStatus) (int64, error) {
	result := r.db.Model(&models.VolunteerHour{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

// TotalHours sums the hours a volunteer has in the given status
func (r *GormHourRepository) TotalHours(volunteerID uint64, status models.HourStatus) (float64, error) {
	var total float64
	err := r.db.Model(&models.VolunteerHour{}).
		Where("volunteer_id = ? AND status = ?", volunteerID, status).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&total).Error
	return total, err
}

// StatusCounts returns the number of hour entries per status, optionally
// scoped to one organization's opportunities
func (r *GormHourRepository) StatusCounts(organizationID *uint64) (map[models.HourStatus]int64, error) {
	type statusCount struct {
		Status models.HourStatus
		Count  int64
	}

	query := r.db.Model(&models.VolunteerHour{}).Select("volunteer_hours.status AS status, COUNT(*) AS count")
	if organizationID != nil {
		query = query.
			Joins("JOIN opportunities ON opportunities.id = volunteer_hours.opportunity_id").
			Where("opportunities.organization_id = ? AND opportunities.deleted_at IS NULL", *organizationID)
	}

	var rows []statusCount
	if err := query.Group("volunteer_hours.status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.HourStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
