package repositories

import (
	"context"

	"github.com/UltraPon/SellUp/app/models"
	"gorm.io/gorm"
)

type ImageRepositoryImpl interface {
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	ListByListing(ctx context.Context, listingID uint) ([]models.Image, error)
	Delete(ctx context.Context, id uint) error
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepositoryImpl {
	return &imageRepository{db: db}
}

func (r *imageRepository) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) ListByListing(ctx context.Context, listingID uint) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).Where("listing_id = ?", listingID).Order("id ASC").Find(&images).Error
	return images, err
}

func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Image{}, "id = ?", id).Error
}
