package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Listing struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	UserID            uint              `gorm:"not null;index" json:"user_id"`
	User              User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	CategoryID        uint              `gorm:"not null;index" json:"category_id"`
	Category          Category          `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category"`
	Title             string            `gorm:"size:255;not null" json:"title"`
	Description       *string           `gorm:"type:text" json:"description"`
	Price             decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"price"`
	Address           *string           `gorm:"size:255" json:"address"`
	Attributes        datatypes.JSONMap `json:"attributes"`
	Images            []Image           `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"images"`
	ListingCategories []ListingCategory `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"categories"`
	CreatedAt         time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// BeforeSave keeps the attributes column a JSON object, never null.
func (l *Listing) BeforeSave(tx *gorm.DB) error {
	if l.Attributes == nil {
		l.Attributes = datatypes.JSONMap{}
	}
	return nil
}

type ListingCategory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ListingID  uint      `gorm:"not null;uniqueIndex:idx_listing_category" json:"listing_id"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_listing_category;index" json:"category_id"`
	Category   Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category"`
	CreatedAt  time.Time `json:"created_at"`
}

type Image struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ListingID  uint      `gorm:"not null;index" json:"listing_id"`
	URL        string    `gorm:"size:500;not null" json:"url"`
	IsExternal bool      `gorm:"not null;default:true" json:"is_external"`
	CreatedAt  time.Time `json:"created_at"`
}
