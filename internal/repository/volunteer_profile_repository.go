package repository

import (
	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/models"
)

// GormVolunteerProfileRepository is a GORM implementation of VolunteerProfileRepository
type GormVolunteerProfileRepository struct {
	db *gorm.DB
}

// NewVolunteerProfileRepository creates a new VolunteerProfileRepository
func NewVolunteerProfileRepository(db *gorm.DB) VolunteerProfileRepository {
	return &GormVolunteerProfileRepository{db: db}
}

// FindByUserID finds the profile belonging to a user
func (r *GormVolunteerProfileRepository) FindByUserID(userID uint64) (*models.VolunteerProfile, error) {
	var profile models.VolunteerProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update updates a profile
func (r *GormVolunteerProfileRepository) Update(profile *models.VolunteerProfile) error {
	return r.db.Save(profile).Error
}
