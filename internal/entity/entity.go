package entity

import "gorm.io/gorm"

// AutoMigrate migrates all tracker tables in dependency order.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Lookups
		&Status{},
		&Segment{},
		&ServiceLine{},
		&Partner{},

		// Core
		&Customer{},
		&CustomerContact{},
		&Project{},
		&ProjectTerm{},

		// Templates
		&TermTemplate{},
		&TermTemplateItem{},

		// Users
		&User{},
	)
}
