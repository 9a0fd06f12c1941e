package migrations

import (
	"github.com/UltraPon/SellUp/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.FilterAttribute{},
		&models.Listing{},
		&models.Image{},
		&models.ListingCategory{},
		&models.Favorite{},
		&models.Review{},
		&models.Message{},
	)
}
