package services

import (
	"context"
	"testing"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/repositories"
	"github.com/UltraPon/SellUp/app/utils/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCategoryService(t *testing.T) (*CategoryService, *memoryCache) {
	t.Helper()
	db := testdb.New(t)
	categories := repositories.NewCategoryRepository(db)
	cache := newMemoryCache()
	resolver := NewCategoryResolver(categories, cache, 0, zap.NewNop())
	return NewCategoryService(categories, repositories.NewFilterAttributeRepository(db), resolver, cache, zap.NewNop()), cache
}

func mustCreate(t *testing.T, svc *CategoryService, name string, parent *CategoryNode) *CategoryNode {
	t.Helper()
	in := CategoryInput{Name: name}
	if parent != nil {
		in.Parent = &parent.ID
	}
	node, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	return node
}

func TestBuildForest(t *testing.T) {
	p1, p2 := uint(1), uint(2)
	missing := uint(99)
	forest := BuildForest([]models.Category{
		{ID: 3, Name: "Smartphones", ParentID: &p2},
		{ID: 1, Name: "Electronics"},
		{ID: 2, Name: "Phones", ParentID: &p1},
		{ID: 4, Name: "Furniture"},
		{ID: 5, Name: "Orphan", ParentID: &missing},
	})

	require.Len(t, forest, 2)
	electronics := forest[0]
	assert.Equal(t, "Electronics", electronics.Name)
	assert.False(t, electronics.IsLeaf)
	require.Len(t, electronics.Children, 1)

	smartphones := electronics.Children[0].Children[0]
	assert.Equal(t, "Electronics > Phones > Smartphones", smartphones.FullPath)
	assert.True(t, smartphones.IsLeaf)
	assert.Nil(t, smartphones.Children)
	assert.NotNil(t, smartphones.Filters)

	assert.Equal(t, "Furniture", forest[1].Name)
	assert.True(t, forest[1].IsLeaf)
}

func TestCategoryCreateConflictsAndFullPath(t *testing.T) {
	svc, cache := newCategoryService(t)
	ctx := context.Background()

	electronics := mustCreate(t, svc, "Electronics", nil)
	phones := mustCreate(t, svc, "Phones", electronics)
	smartphones := mustCreate(t, svc, "Smartphones", phones)
	assert.Equal(t, "Electronics > Phones > Smartphones", smartphones.FullPath)

	path, err := svc.FullPath(ctx, smartphones.ID)
	require.NoError(t, err)
	assert.Equal(t, smartphones.FullPath, path)

	_, err = svc.Create(ctx, CategoryInput{Name: "Electronics"})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict), "duplicate root name")

	_, err = svc.Create(ctx, CategoryInput{Name: "Phones", Parent: &electronics.ID})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	mustCreate(t, svc, "Phones", nil)

	missing := uint(404)
	_, err = svc.Create(ctx, CategoryInput{Name: "Ghost", Parent: &missing})
	assert.Contains(t, apperrors.As(err).Fields, "parent")

	assert.Positive(t, cache.invalidated)
}

func TestCategoryUpdateRejectsCycles(t *testing.T) {
	svc, _ := newCategoryService(t)
	ctx := context.Background()

	electronics := mustCreate(t, svc, "Electronics", nil)
	phones := mustCreate(t, svc, "Phones", electronics)
	smartphones := mustCreate(t, svc, "Smartphones", phones)

	_, err := svc.Update(ctx, electronics.ID, CategoryInput{Name: "Electronics", Parent: &smartphones.ID})
	assert.Contains(t, apperrors.As(err).Fields, "parent")

	_, err = svc.Update(ctx, phones.ID, CategoryInput{Name: "Phones", Parent: &phones.ID})
	assert.Contains(t, apperrors.As(err).Fields, "parent")

	moved, err := svc.Update(ctx, smartphones.ID, CategoryInput{Name: "Smartphones", Parent: &electronics.ID})
	require.NoError(t, err)
	assert.Equal(t, "Electronics > Smartphones", moved.FullPath)

	ids, err := svc.Descendants(ctx, phones.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{phones.ID}, ids, "cache is refreshed after the move")
}

func TestCategoryDeleteAndGet(t *testing.T) {
	svc, _ := newCategoryService(t)
	ctx := context.Background()

	electronics := mustCreate(t, svc, "Electronics", nil)
	phones := mustCreate(t, svc, "Phones", electronics)

	require.NoError(t, svc.Delete(ctx, electronics.ID))

	_, err := svc.Get(ctx, phones.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.True(t, apperrors.Is(svc.Delete(ctx, electronics.ID), apperrors.KindNotFound))

	tree, err := svc.Tree(ctx)
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestFiltersAreOwnOnlyAndValidated(t *testing.T) {
	svc, _ := newCategoryService(t)
	ctx := context.Background()

	phones := mustCreate(t, svc, "Phones", nil)
	smartphones := mustCreate(t, svc, "Smartphones", phones)

	_, err := svc.CreateFilter(ctx, phones.ID, FilterInput{Name: "Brand", AttributeType: "select", Options: []string{"Apple", "Samsung"}})
	require.NoError(t, err)
	minV, maxV := 1.0, 16.0
	_, err = svc.CreateFilter(ctx, smartphones.ID, FilterInput{Name: "RAM", AttributeType: "range", MinValue: &minV, MaxValue: &maxV, Unit: "GB"})
	require.NoError(t, err)

	_, err = svc.CreateFilter(ctx, phones.ID, FilterInput{Name: "Brand", AttributeType: "text"})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	_, err = svc.CreateFilter(ctx, phones.ID, FilterInput{Name: "Color", AttributeType: "select"})
	assert.Contains(t, apperrors.As(err).Fields, "options")

	_, err = svc.CreateFilter(ctx, phones.ID, FilterInput{Name: "Weight", AttributeType: "number", MinValue: &maxV, MaxValue: &minV})
	assert.Contains(t, apperrors.As(err).Fields, "min_value")

	own, err := svc.Filters(ctx, smartphones.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "RAM", own[0].Name)

	opts, err := svc.FilterOptions(ctx, phones.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Samsung"}, opts["Brand"])

	opts, err = svc.FilterOptions(ctx, smartphones.ID)
	require.NoError(t, err)
	assert.Equal(t, &minV, opts["RAM_min"])
	assert.Equal(t, &maxV, opts["RAM_max"])

	updated, err := svc.UpdateFilter(ctx, own[0].ID, FilterInput{Name: "Memory", AttributeType: "number"})
	require.NoError(t, err)
	assert.Equal(t, models.FilterNumber, updated.AttributeType)

	require.NoError(t, svc.DeleteFilter(ctx, own[0].ID))
	assert.True(t, apperrors.Is(svc.DeleteFilter(ctx, own[0].ID), apperrors.KindNotFound))
}
