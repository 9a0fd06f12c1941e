package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/repositories"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const FullPathSeparator = " > "

type CategoryNode struct {
	ID               uint                     `json:"id"`
	Name             string                   `json:"name"`
	Parent           *uint                    `json:"parent"`
	FullPath         string                   `json:"full_path"`
	IsLeaf           bool                     `json:"is_leaf"`
	FilterAttributes map[string]interface{}   `json:"filter_attributes"`
	Filters          []models.FilterAttribute `json:"filters"`
	Children         []*CategoryNode          `json:"children"`
}

type CategoryInput struct {
	Name             string                 `json:"name" validate:"required,max=100"`
	Parent           *uint                  `json:"parent"`
	FilterAttributes map[string]interface{} `json:"filter_attributes"`
}

type FilterInput struct {
	Name          string   `json:"name" validate:"required,max=100"`
	AttributeType string   `json:"attribute_type" validate:"required,oneof=text number select checkbox range"`
	Options       []string `json:"options"`
	MinValue      *float64 `json:"min_value"`
	MaxValue      *float64 `json:"max_value"`
	Unit          string   `json:"unit" validate:"max=20"`
}

type CategoryService struct {
	categories repositories.CategoryRepositoryImpl
	filters    repositories.FilterAttributeRepositoryImpl
	resolver   CategoryResolver
	cache      CategoryCache
	logger     *zap.Logger
}

func NewCategoryService(
	categories repositories.CategoryRepositoryImpl,
	filters repositories.FilterAttributeRepositoryImpl,
	resolver CategoryResolver,
	cache CategoryCache,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		filters:    filters,
		resolver:   resolver,
		cache:      cache,
		logger:     logger,
	}
}

// BuildForest arranges a flat category list into trees. Categories whose
// parent is missing from the list are unreachable and left out.
func BuildForest(categories []models.Category) []*CategoryNode {
	arena := make(map[uint]*models.Category, len(categories))
	for i := range categories {
		arena[categories[i].ID] = &categories[i]
	}

	nodes := make(map[uint]*CategoryNode, len(categories))
	for i := range categories {
		c := &categories[i]
		filters := c.Filters
		if filters == nil {
			filters = []models.FilterAttribute{}
		}
		nodes[c.ID] = &CategoryNode{
			ID:               c.ID,
			Name:             c.Name,
			Parent:           c.ParentID,
			FullPath:         fullPathFromArena(arena, c.ID),
			IsLeaf:           true,
			FilterAttributes: c.FilterAttributes,
			Filters:          filters,
		}
	}

	ids := make([]uint, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var roots []*CategoryNode
	for _, id := range ids {
		n := nodes[id]
		if n.Parent == nil {
			roots = append(roots, n)
			continue
		}
		if parent, ok := nodes[*n.Parent]; ok {
			parent.Children = append(parent.Children, n)
			parent.IsLeaf = false
		}
	}
	if roots == nil {
		roots = []*CategoryNode{}
	}
	return roots
}

func fullPathFromArena(arena map[uint]*models.Category, id uint) string {
	var names []string
	current, ok := arena[id]
	for depth := 0; ok && depth < repositories.MaxCategoryDepth; depth++ {
		names = append(names, current.Name)
		if current.ParentID == nil {
			break
		}
		current, ok = arena[*current.ParentID]
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, FullPathSeparator)
}

func findNode(nodes []*CategoryNode, id uint) *CategoryNode {
	stack := append([]*CategoryNode(nil), nodes...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.ID == id {
			return n
		}
		stack = append(stack, n.Children...)
	}
	return nil
}

func (s *CategoryService) Tree(ctx context.Context) ([]*CategoryNode, error) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildForest(categories), nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*CategoryNode, error) {
	forest, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	node := findNode(forest, id)
	if node == nil {
		return nil, apperrors.NotFound("category")
	}
	return node, nil
}

func (s *CategoryService) FullPath(ctx context.Context, id uint) (string, error) {
	chain, err := s.categories.Ancestors(ctx, id)
	if err != nil {
		return "", err
	}
	if len(chain) == 0 {
		return "", apperrors.NotFound("category")
	}
	names := make([]string, 0, len(chain))
	for _, c := range chain {
		names = append(names, c.Name)
	}
	return strings.Join(names, FullPathSeparator), nil
}

func (s *CategoryService) Descendants(ctx context.Context, id uint) ([]uint, error) {
	if _, err := s.mustGet(ctx, id); err != nil {
		return nil, err
	}
	return s.resolver.ResolveDescendants(ctx, id)
}

func (s *CategoryService) mustGet(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load category %d: %w", id, err)
	}
	if category == nil {
		return nil, apperrors.NotFound("category")
	}
	return category, nil
}

func (s *CategoryService) checkName(ctx context.Context, name string, parent *uint, excludeID uint) error {
	exists, err := s.categories.ExistsByNameAndParent(ctx, name, parent, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.Conflict(fmt.Sprintf("category %q already exists under this parent", name))
	}
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*CategoryNode, error) {
	if in.Parent != nil {
		parent, err := s.categories.GetByID(ctx, *in.Parent)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperrors.ValidationField("parent", "category does not exist")
		}
	}
	if err := s.checkName(ctx, in.Name, in.Parent, 0); err != nil {
		return nil, err
	}

	category := &models.Category{Name: in.Name, ParentID: in.Parent, FilterAttributes: datatypes.JSONMap(in.FilterAttributes)}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict(fmt.Sprintf("category %q already exists under this parent", in.Name))
		}
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("category created", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	return s.Get(ctx, category.ID)
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*CategoryNode, error) {
	category, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Parent != nil {
		if *in.Parent == id {
			return nil, apperrors.ValidationField("parent", "category cannot be its own parent")
		}
		parent, err := s.categories.GetByID(ctx, *in.Parent)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperrors.ValidationField("parent", "category does not exist")
		}
		below, err := s.resolver.ResolveDescendants(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, d := range below {
			if d == *in.Parent {
				return nil, apperrors.ValidationField("parent", "category cannot be moved below its own descendant")
			}
		}
	}
	if err := s.checkName(ctx, in.Name, in.Parent, id); err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.ParentID = in.Parent
	if in.FilterAttributes != nil {
		category.FilterAttributes = datatypes.JSONMap(in.FilterAttributes)
	}
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict(fmt.Sprintf("category %q already exists under this parent", in.Name))
		}
		return nil, err
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.mustGet(ctx, id); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	s.invalidate(ctx)
	s.logger.Info("category deleted", zap.Uint("category_id", id))
	return nil
}

func (s *CategoryService) Filters(ctx context.Context, categoryID uint) ([]models.FilterAttribute, error) {
	if _, err := s.mustGet(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.filters.ListByCategory(ctx, categoryID)
}

// FilterOptions describes the selectable values of a category's filters:
// select filters list their options, range filters expose min/max bounds.
func (s *CategoryService) FilterOptions(ctx context.Context, categoryID uint) (map[string]interface{}, error) {
	filters, err := s.Filters(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	options := make(map[string]interface{})
	for _, f := range filters {
		switch f.AttributeType {
		case models.FilterSelect:
			opts := []string(f.Options)
			if opts == nil {
				opts = []string{}
			}
			options[f.Name] = opts
		case models.FilterRange:
			options[f.Name+"_min"] = f.MinValue
			options[f.Name+"_max"] = f.MaxValue
		}
	}
	return options, nil
}

func validateFilterInput(in FilterInput) error {
	fields := map[string]string{}
	switch models.FilterType(in.AttributeType) {
	case models.FilterSelect:
		if len(in.Options) == 0 {
			fields["options"] = "select filters need at least one option"
		}
	case models.FilterRange, models.FilterNumber:
		if in.MinValue != nil && in.MaxValue != nil && *in.MinValue > *in.MaxValue {
			fields["min_value"] = "min_value must not exceed max_value"
		}
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}

func (s *CategoryService) applyFilter(ctx context.Context, f *models.FilterAttribute, in FilterInput) error {
	if err := validateFilterInput(in); err != nil {
		return err
	}
	exists, err := s.filters.ExistsByName(ctx, f.CategoryID, in.Name, f.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.Conflict(fmt.Sprintf("filter %q already exists in this category", in.Name))
	}
	f.Name = in.Name
	f.AttributeType = models.FilterType(in.AttributeType)
	f.Options = datatypes.JSONSlice[string](in.Options)
	f.MinValue = in.MinValue
	f.MaxValue = in.MaxValue
	f.Unit = in.Unit
	return nil
}

func (s *CategoryService) CreateFilter(ctx context.Context, categoryID uint, in FilterInput) (*models.FilterAttribute, error) {
	if _, err := s.mustGet(ctx, categoryID); err != nil {
		return nil, err
	}
	f := &models.FilterAttribute{CategoryID: categoryID}
	if err := s.applyFilter(ctx, f, in); err != nil {
		return nil, err
	}
	if err := s.filters.Create(ctx, f); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict(fmt.Sprintf("filter %q already exists in this category", in.Name))
		}
		return nil, err
	}
	return f, nil
}

func (s *CategoryService) UpdateFilter(ctx context.Context, id uint, in FilterInput) (*models.FilterAttribute, error) {
	f, err := s.filters.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperrors.NotFound("filter attribute")
	}
	if err := s.applyFilter(ctx, f, in); err != nil {
		return nil, err
	}
	if err := s.filters.Update(ctx, f); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict(fmt.Sprintf("filter %q already exists in this category", in.Name))
		}
		return nil, err
	}
	return f, nil
}

func (s *CategoryService) DeleteFilter(ctx context.Context, id uint) error {
	f, err := s.filters.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return apperrors.NotFound("filter attribute")
	}
	return s.filters.Delete(ctx, id)
}
