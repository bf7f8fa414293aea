package database

import (
	"launidad/internal/auth"
	"launidad/internal/calendar"
	"launidad/internal/tickets"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&calendar.Slot{},
		&tickets.Ticket{},
		&auth.Operator{},
	)
}
