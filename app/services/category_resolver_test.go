package services

import (
	"context"
	"errors"
	"testing"

	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/repositories"
	"github.com/UltraPon/SellUp/app/utils/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mapLookup serves children from an in-memory parent -> children map.
type mapLookup struct {
	children map[uint][]uint
	calls    int
	err      error
}

func (m *mapLookup) ChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []uint
	for _, p := range parentIDs {
		out = append(out, m.children[p]...)
	}
	return out, nil
}

type memoryCache struct {
	entries     map[uint][]uint
	invalidated int
}

func newMemoryCache() *memoryCache { return &memoryCache{entries: map[uint][]uint{}} }

func (c *memoryCache) GetDescendants(ctx context.Context, id uint) ([]uint, bool) {
	ids, ok := c.entries[id]
	return ids, ok
}

func (c *memoryCache) SetDescendants(ctx context.Context, id uint, ids []uint) { c.entries[id] = ids }

func (c *memoryCache) Invalidate(ctx context.Context) {
	c.entries = map[uint][]uint{}
	c.invalidated++
}

func TestResolveDescendantsClosure(t *testing.T) {
	lookup := &mapLookup{children: map[uint][]uint{
		1: {2, 4},
		2: {3},
		4: {5, 6},
	}}
	r := NewCategoryResolver(lookup, nil, 0, zap.NewNop())

	ids, err := r.ResolveDescendants(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2, 3, 4, 5, 6}, ids)
	assert.Equal(t, uint(1), ids[0])
	assert.Equal(t, 3, lookup.calls, "one lookup per level plus the empty last level")

	ids, err = r.ResolveDescendants(context.Background(), 4)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{4, 5, 6}, ids)
}

func TestResolveUnknownOrLeafIsSingleton(t *testing.T) {
	r := NewCategoryResolver(&mapLookup{children: map[uint][]uint{1: {2}}}, nil, 0, nil)

	ids, err := r.ResolveDescendants(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, []uint{999}, ids)

	ids, err = r.ResolveDescendants(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, ids)
}

func TestResolveDeepChainWithoutRecursion(t *testing.T) {
	children := map[uint][]uint{}
	for i := uint(1); i < 60; i++ {
		children[i] = []uint{i + 1}
	}
	r := NewCategoryResolver(&mapLookup{children: children}, nil, 0, nil)

	ids, err := r.ResolveDescendants(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, ids, 60)
}

func TestResolveStopsOnMalformedCycle(t *testing.T) {
	lookup := &mapLookup{children: map[uint][]uint{1: {2}, 2: {3}, 3: {1}}}
	r := NewCategoryResolver(lookup, nil, 0, nil)

	ids, err := r.ResolveDescendants(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2, 3}, ids)
}

func TestResolveDepthGuardTruncates(t *testing.T) {
	children := map[uint][]uint{}
	for i := uint(1); i < 10; i++ {
		children[i] = []uint{i + 1}
	}
	cache := newMemoryCache()
	r := NewCategoryResolver(&mapLookup{children: children}, cache, 3, nil)

	ids, err := r.ResolveDescendants(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3, 4}, ids)
	assert.Empty(t, cache.entries, "truncated results are not cached")
}

func TestResolveUsesCache(t *testing.T) {
	lookup := &mapLookup{children: map[uint][]uint{1: {2}}}
	cache := newMemoryCache()
	r := NewCategoryResolver(lookup, cache, 0, nil)

	_, err := r.ResolveDescendants(context.Background(), 1)
	require.NoError(t, err)
	calls := lookup.calls

	ids, err := r.ResolveDescendants(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, ids)
	assert.Equal(t, calls, lookup.calls)
}

func TestResolvePropagatesLookupErrors(t *testing.T) {
	r := NewCategoryResolver(&mapLookup{err: errors.New("db down")}, nil, 0, nil)
	_, err := r.ResolveDescendants(context.Background(), 1)
	assert.Error(t, err)
}

func TestResolveAgainstCategoryRepository(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := repositories.NewCategoryRepository(db)

	electronics := &models.Category{Name: "Electronics"}
	require.NoError(t, repo.Create(ctx, electronics))
	phones := &models.Category{Name: "Phones", ParentID: &electronics.ID}
	require.NoError(t, repo.Create(ctx, phones))
	smartphones := &models.Category{Name: "Smartphones", ParentID: &phones.ID}
	require.NoError(t, repo.Create(ctx, smartphones))
	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Furniture"}))

	r := NewCategoryResolver(repo, nil, 0, nil)
	ids, err := r.ResolveDescendants(ctx, electronics.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{electronics.ID, phones.ID, smartphones.ID}, ids)
}
