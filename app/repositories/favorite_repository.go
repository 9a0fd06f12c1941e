package repositories

import (
	"context"
	"fmt"

	"github.com/UltraPon/SellUp/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepositoryImpl interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Favorite, error)
	GetByID(ctx context.Context, id uint) (*models.Favorite, error)
	Create(ctx context.Context, favorite *models.Favorite) error
	Delete(ctx context.Context, id uint) error
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepositoryImpl {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Preload("Listing.Images", func(db *gorm.DB) *gorm.DB { return db.Order("images.id ASC") }).
		Preload("Listing.Category").
		Preload("Listing.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites of user %d: %w", userID, err)
	}
	return favorites, nil
}

func (r *favoriteRepository) GetByID(ctx context.Context, id uint) (*models.Favorite, error) {
	var favorite models.Favorite
	if err := r.db.WithContext(ctx).First(&favorite, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &favorite, nil
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *models.Favorite) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(favorite).Error; err != nil {
		return fmt.Errorf("failed to add favorite: %w", translateWriteError(err))
	}
	return nil
}

func (r *favoriteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Favorite{}, "id = ?", id).Error
}
