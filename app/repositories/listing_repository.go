package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/UltraPon/SellUp/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListingFilter is the already-resolved search input. Every field is
// optional; set fields are combined with AND.
type ListingFilter struct {
	// CategoryIDs matches the primary category or any legacy association.
	CategoryIDs []uint
	// PrimaryCategoryID matches the primary category only.
	PrimaryCategoryID *uint
	Query             string
	City              string
	PriceMin          *decimal.Decimal
	PriceMax          *decimal.Decimal
	UserID            *uint
}

type ListingRepositoryImpl interface {
	Search(ctx context.Context, filter ListingFilter) ([]models.Listing, error)
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	CreateWithImages(ctx context.Context, listing *models.Listing, imageURLs []string) error
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id uint) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepositoryImpl {
	return &listingRepository{db: db}
}

func withListingRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Category").
		Preload("Category.Filters", orderedFilters).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("images.id ASC") }).
		Preload("ListingCategories", func(db *gorm.DB) *gorm.DB { return db.Order("listing_categories.id ASC") }).
		Preload("ListingCategories.Category")
}

// Backslash is a string escape inside MySQL literals.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// likePattern matches s literally as a lowercase substring.
func likePattern(s string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(s)) + "%"
}

func lowerLike(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '" + likeEscape + "'"
}

func (r *listingRepository) Search(ctx context.Context, f ListingFilter) ([]models.Listing, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&models.Listing{})

	if len(f.CategoryIDs) > 0 {
		legacy := db.Model(&models.ListingCategory{}).Select("listing_id").Where("category_id IN ?", f.CategoryIDs)
		q = q.Where("listings.category_id IN ? OR listings.id IN (?)", f.CategoryIDs, legacy)
	}
	if f.PrimaryCategoryID != nil {
		q = q.Where("listings.category_id = ?", *f.PrimaryCategoryID)
	}
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where(lowerLike("listings.title")+" OR "+lowerLike("listings.description")+" OR "+lowerLike("listings.address"), p, p, p)
	}
	if f.City != "" {
		q = q.Where(lowerLike("listings.address"), likePattern(f.City))
	}
	if f.PriceMin != nil {
		q = q.Where("listings.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("listings.price <= ?", *f.PriceMax)
	}
	if f.UserID != nil {
		q = q.Where("listings.user_id = ?", *f.UserID)
	}

	var listings []models.Listing
	err := withListingRelations(q).
		Order("listings.created_at DESC").
		Order("listings.id DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	return listings, nil
}

func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := withListingRelations(r.db.WithContext(ctx)).First(&listing, "listings.id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// CreateWithImages writes the listing and one external image row per URL atomically.
func (r *listingRepository) CreateWithImages(ctx context.Context, listing *models.Listing, imageURLs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(listing).Error; err != nil {
			return fmt.Errorf("failed to create listing: %w", translateWriteError(err))
		}
		if len(imageURLs) == 0 {
			return nil
		}
		images := make([]models.Image, 0, len(imageURLs))
		for _, u := range imageURLs {
			images = append(images, models.Image{ListingID: listing.ID, URL: u, IsExternal: true})
		}
		if err := tx.Create(&images).Error; err != nil {
			return fmt.Errorf("failed to create listing images: %w", err)
		}
		listing.Images = images
		return nil
	})
}

func (r *listingRepository) Update(ctx context.Context, listing *models.Listing) error {
	if listing.Attributes == nil {
		listing.Attributes = map[string]interface{}{}
	}
	err := r.db.WithContext(ctx).Model(listing).
		Select("title", "description", "price", "address", "category_id", "attributes").
		Omit(clause.Associations).
		Updates(listing).Error
	if err != nil {
		return fmt.Errorf("failed to update listing %d: %w", listing.ID, err)
	}
	return nil
}

func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteListingRows(tx, []uint{id})
	})
}

func deleteListingRows(tx *gorm.DB, listingIDs []uint) error {
	if err := tx.Where("listing_id IN ?", listingIDs).Delete(&models.Image{}).Error; err != nil {
		return fmt.Errorf("failed to delete images: %w", err)
	}
	if err := tx.Where("listing_id IN ?", listingIDs).Delete(&models.Favorite{}).Error; err != nil {
		return fmt.Errorf("failed to delete favorites: %w", err)
	}
	if err := tx.Where("listing_id IN ?", listingIDs).Delete(&models.ListingCategory{}).Error; err != nil {
		return fmt.Errorf("failed to delete listing categories: %w", err)
	}
	if err := tx.Where("id IN ?", listingIDs).Delete(&models.Listing{}).Error; err != nil {
		return fmt.Errorf("failed to delete listings: %w", err)
	}
	return nil
}
