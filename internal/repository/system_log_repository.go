package repository

import (
	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/models"
)

// GormSystemLogRepository is a GORM implementation of SystemLogRepository
type GormSystemLogRepository struct {
	db *gorm.DB
}

// NewSystemLogRepository creates a new SystemLogRepository
func NewSystemLogRepository(db *gorm.DB) SystemLogRepository {
	return &GormSystemLogRepository{db: db}
}

// Create appends a log row
func (r *GormSystemLogRepository) Create(entry *models.SystemLog) error {
	return r.db.Create(entry).Error
}

// List retrieves log rows with filtering and pagination, newest first
func (r *GormSystemLogRepository) List(filter LogFilter) ([]models.SystemLog, int64, error) {
	var entries []models.SystemLog

	query := r.db.Model(&models.SystemLog{})

	if filter.Level != nil {
		query = query.Where("level = ?", *filter.Level)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
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

	if err := listQuery.Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
