package repositories

import (
	"context"
	"fmt"

	"github.com/UltraPon/SellUp/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepositoryImpl interface {
	List(ctx context.Context, reviewedID *uint) ([]models.Review, error)
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepositoryImpl {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) List(ctx context.Context, reviewedID *uint) ([]models.Review, error) {
	q := r.db.WithContext(ctx).Preload("Reviewer").Preload("Reviewed")
	if reviewedID != nil {
		q = q.Where("reviewed_id = ?", *reviewedID)
	}
	var reviews []models.Review
	if err := q.Order("created_at DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("Reviewer").Preload("Reviewed").First(&review, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error
}
