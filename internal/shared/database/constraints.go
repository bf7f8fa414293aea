package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints the admission flow depends on
func MigrateConstraints(db *gorm.DB) error {
	// Capacity can never be exceeded even if application code regresses
	err := db.Exec(`
		ALTER TABLE slots
		ADD CONSTRAINT IF NOT EXISTS slots_issued_within_capacity
		CHECK (issued_count >= 0 AND issued_count <= capacity);
	`).Error
	if err != nil {
		return err
	}

	// Gate lookups are always by code and status
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_code_status
		ON tickets (code, status);
	`).Error
	if err != nil {
		return err
	}

	// Occupancy tallies group tickets per slot
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_slot_id
		ON tickets (slot_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
