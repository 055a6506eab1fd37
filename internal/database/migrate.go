package database

import (
	"fmt"

	"apartments/internal/domain"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first.
func Models() []any {
	return []any{
		&domain.Apartment{},
		&domain.Amenity{},
		&domain.ApartmentAmenity{},
		&domain.Image{},
		&domain.Feature{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&domain.Apartment{}, "Amenities", &domain.ApartmentAmenity{}); err != nil {
		return fmt.Errorf("setup apartment_amenity join table: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Reset drops every table and migrates again. Used by the seeder.
func Reset(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return Migrate(db)
}
