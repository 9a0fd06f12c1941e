package repositories

import (
	"context"
	"fmt"

	"github.com/UltraPon/SellUp/app/models"
	"gorm.io/gorm"
)

type FilterAttributeRepositoryImpl interface {
	Create(ctx context.Context, filter *models.FilterAttribute) error
	GetByID(ctx context.Context, id uint) (*models.FilterAttribute, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]models.FilterAttribute, error)
	Update(ctx context.Context, filter *models.FilterAttribute) error
	Delete(ctx context.Context, id uint) error
	ExistsByName(ctx context.Context, categoryID uint, name string, excludeID uint) (bool, error)
}

type filterAttributeRepository struct {
	db *gorm.DB
}

func NewFilterAttributeRepository(db *gorm.DB) FilterAttributeRepositoryImpl {
	return &filterAttributeRepository{db: db}
}

func (r *filterAttributeRepository) Create(ctx context.Context, filter *models.FilterAttribute) error {
	if err := r.db.WithContext(ctx).Create(filter).Error; err != nil {
		return fmt.Errorf("failed to create filter attribute: %w", translateWriteError(err))
	}
	return nil
}

func (r *filterAttributeRepository) GetByID(ctx context.Context, id uint) (*models.FilterAttribute, error) {
	var filter models.FilterAttribute
	if err := r.db.WithContext(ctx).First(&filter, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &filter, nil
}

func (r *filterAttributeRepository) ListByCategory(ctx context.Context, categoryID uint) ([]models.FilterAttribute, error) {
	var filters []models.FilterAttribute
	err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("id ASC").Find(&filters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list filters of category %d: %w", categoryID, err)
	}
	return filters, nil
}

func (r *filterAttributeRepository) Update(ctx context.Context, filter *models.FilterAttribute) error {
	err := r.db.WithContext(ctx).Model(filter).
		Select("name", "attribute_type", "options", "min_value", "max_value", "unit").
		Updates(filter).Error
	if err != nil {
		return fmt.Errorf("failed to update filter attribute %d: %w", filter.ID, translateWriteError(err))
	}
	return nil
}

func (r *filterAttributeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FilterAttribute{}, "id = ?", id).Error
}

func (r *filterAttributeRepository) ExistsByName(ctx context.Context, categoryID uint, name string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.FilterAttribute{}).Where("category_id = ? AND name = ?", categoryID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
