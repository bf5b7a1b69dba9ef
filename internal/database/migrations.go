package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/versity-app/volunteer-api/internal/models"
)

// AddIndexes adds the indexes the list endpoints rely on beyond what the
// model tags declare
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Match listings filter by status and by opportunity
		{&models.Match{}, "matches", "idx_matches_status", "status"},
		{&models.Match{}, "matches", "idx_matches_opportunity_id", "opportunity_id"},

		// Hour listings filter by status and sort by date
		{&models.VolunteerHour{}, "volunteer_hours", "idx_volunteer_hours_status", "status"},
		{&models.VolunteerHour{}, "volunteer_hours", "idx_volunteer_hours_date", "date"},

		// Opportunity search filters on location, results sort by start date
		{&models.Opportunity{}, "opportunities", "idx_opportunities_location", "location"},
		{&models.Opportunity{}, "opportunities", "idx_opportunities_start_date", "start_date"},

		// Log browsing filters by level and pages by time
		{&models.SystemLog{}, "system_logs", "idx_system_logs_level", "level"},
		{&models.SystemLog{}, "system_logs", "idx_system_logs_created_at", "created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// MigrateDatabase runs schema migration then the index pass
func MigrateDatabase(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
