package repositories

import (
	"context"
	"fmt"

	"github.com/UltraPon/SellUp/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListingCategoryRepositoryImpl interface {
	List(ctx context.Context, listingID *uint) ([]models.ListingCategory, error)
	GetByID(ctx context.Context, id uint) (*models.ListingCategory, error)
	Create(ctx context.Context, lc *models.ListingCategory) error
	Delete(ctx context.Context, id uint) error
}

type listingCategoryRepository struct {
	db *gorm.DB
}

func NewListingCategoryRepository(db *gorm.DB) ListingCategoryRepositoryImpl {
	return &listingCategoryRepository{db: db}
}

func (r *listingCategoryRepository) List(ctx context.Context, listingID *uint) ([]models.ListingCategory, error) {
	q := r.db.WithContext(ctx).Preload("Category")
	if listingID != nil {
		q = q.Where("listing_id = ?", *listingID)
	}
	var rows []models.ListingCategory
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list listing categories: %w", err)
	}
	return rows, nil
}

func (r *listingCategoryRepository) GetByID(ctx context.Context, id uint) (*models.ListingCategory, error) {
	var lc models.ListingCategory
	if err := r.db.WithContext(ctx).Preload("Category").First(&lc, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &lc, nil
}

func (r *listingCategoryRepository) Create(ctx context.Context, lc *models.ListingCategory) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(lc).Error; err != nil {
		return fmt.Errorf("failed to attach category: %w", translateWriteError(err))
	}
	return nil
}

func (r *listingCategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ListingCategory{}, "id = ?", id).Error
}
