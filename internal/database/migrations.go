package database

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations executes all database migrations
func RunMigrations(db *gorm.DB) error {
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates database indexes
func createIndexes(db *gorm.DB) error {
	// Index for looking up past imports of a file
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_import_logs_file
		ON import_logs(file_no, import_time)
	`).Error; err != nil {
		return err
	}

	// Index for case lookups by year/number
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_imported_cases_case
		ON imported_cases(year, case_number)
	`).Error; err != nil {
		return err
	}

	return nil
}
