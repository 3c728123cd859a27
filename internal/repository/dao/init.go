package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Equipment{},
		&Station{},
		&StationSlot{},
		&StationPricing{},
		&Reservation{},
	); err != nil {
		return err
	}

	// Partial unique index: at most one non-terminal reservation per slot.
	// AutoMigrate cannot express the WHERE clause, so it is created here.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ` + activeReservationIndex + `
		ON reservations (slot_id)
		WHERE status IN ('pending', 'confirmed', 'active')`).Error
}
