package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/UltraPon/SellUp/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxCategoryDepth bounds every walk over the category tree.
const MaxCategoryDepth = 64

var ErrTreeTooDeep = errors.New("category tree exceeds maximum depth")

type CategoryRepositoryImpl interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	ExistsByNameAndParent(ctx context.Context, name string, parentID *uint, excludeID uint) (bool, error)
	ChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error)
	HasChildren(ctx context.Context, id uint) (bool, error)
	Ancestors(ctx context.Context, id uint) ([]models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func orderedFilters(db *gorm.DB) *gorm.DB {
	return db.Order("filter_attributes.id ASC")
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", translateWriteError(err))
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Preload("Filters", orderedFilters).First(&category, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Preload("Filters", orderedFilters).Order("id ASC").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Model(category).
		Select("name", "parent_id", "filter_attributes").
		Updates(map[string]interface{}{
			"name":              category.Name,
			"parent_id":         category.ParentID,
			"filter_attributes": category.FilterAttributes,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update category %d: %w", category.ID, translateWriteError(err))
	}
	return nil
}

// Delete removes the category, its whole subtree and everything hanging
// off those categories in one transaction.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		levels, err := subtreeLevels(tx, id)
		if err != nil {
			return err
		}

		var all []uint
		for _, level := range levels {
			all = append(all, level...)
		}

		var listingIDs []uint
		if err := tx.Model(&models.Listing{}).Where("category_id IN ?", all).Pluck("id", &listingIDs).Error; err != nil {
			return fmt.Errorf("failed to collect listings: %w", err)
		}
		if len(listingIDs) > 0 {
			if err := deleteListingRows(tx, listingIDs); err != nil {
				return err
			}
		}

		if err := tx.Where("category_id IN ?", all).Delete(&models.ListingCategory{}).Error; err != nil {
			return fmt.Errorf("failed to delete listing categories: %w", err)
		}
		if err := tx.Where("category_id IN ?", all).Delete(&models.FilterAttribute{}).Error; err != nil {
			return fmt.Errorf("failed to delete filter attributes: %w", err)
		}

		for i := len(levels) - 1; i >= 0; i-- {
			if err := tx.Where("id IN ?", levels[i]).Delete(&models.Category{}).Error; err != nil {
				return fmt.Errorf("failed to delete categories: %w", err)
			}
		}
		return nil
	})
}

// subtreeLevels returns the subtree rooted at id grouped by depth, root first.
func subtreeLevels(db *gorm.DB, id uint) ([][]uint, error) {
	seen := map[uint]bool{id: true}
	levels := [][]uint{{id}}
	frontier := []uint{id}

	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= MaxCategoryDepth {
			return nil, ErrTreeTooDeep
		}
		var children []uint
		if err := db.Model(&models.Category{}).Where("parent_id IN ?", frontier).Order("id").Pluck("id", &children).Error; err != nil {
			return nil, fmt.Errorf("failed to load child categories: %w", err)
		}
		next := children[:0]
		for _, c := range children {
			if !seen[c] {
				seen[c] = true
				next = append(next, c)
			}
		}
		if len(next) > 0 {
			levels = append(levels, append([]uint(nil), next...))
		}
		frontier = next
	}
	return levels, nil
}

func (r *categoryRepository) ExistsByNameAndParent(ctx context.Context, name string, parentID *uint, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return count > 0, nil
}

func (r *categoryRepository) ChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("parent_id IN ?", parentIDs).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load child categories: %w", err)
	}
	return ids, nil
}

func (r *categoryRepository) HasChildren(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("parent_id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ancestors returns the chain from the root down to id, inclusive.
func (r *categoryRepository) Ancestors(ctx context.Context, id uint) ([]models.Category, error) {
	var chain []models.Category
	next := &id
	for depth := 0; next != nil; depth++ {
		if depth >= MaxCategoryDepth {
			return nil, ErrTreeTooDeep
		}
		var c models.Category
		err := r.db.WithContext(ctx).Select("id", "name", "parent_id").First(&c, "id = ?", *next).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				break
			}
			return nil, fmt.Errorf("failed to load category %d: %w", *next, err)
		}
		chain = append(chain, c)
		next = c.ParentID
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
