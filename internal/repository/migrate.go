package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the catalog tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&EventModel{}, &LocationModel{})
}
