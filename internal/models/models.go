package models

import "gorm.io/gorm"

// All returns every model that needs migration, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&DonorProfile{},
		&ReceiverProfile{},
		&Donation{},
		&Request{},
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return err
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	migrations := []func(*gorm.DB) error{
		addAvailableDonationsIndex,
	}
	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}
	return nil
}

// addAvailableDonationsIndex speeds up the receiver listing, which only reads Available rows.
func addAvailableDonationsIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_donations_available_created
		ON donations(created_at DESC)
		WHERE status = 'Available'
	`).Error
}
