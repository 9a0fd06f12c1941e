package repositories

import (
	"context"
	"testing"

	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/utils/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryDeleteRemovesSubtreeAndDependents(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := NewCategoryRepository(db)

	electronics := createCategory(t, db, "Electronics", nil)
	phones := createCategory(t, db, "Phones", electronics)
	smartphones := createCategory(t, db, "Smartphones", phones)
	furniture := createCategory(t, db, "Furniture", nil)

	filters := NewFilterAttributeRepository(db)
	require.NoError(t, filters.Create(ctx, &models.FilterAttribute{CategoryID: phones.ID, Name: "Brand", AttributeType: models.FilterText}))
	require.NoError(t, filters.Create(ctx, &models.FilterAttribute{CategoryID: smartphones.ID, Name: "RAM", AttributeType: models.FilterNumber}))
	require.NoError(t, filters.Create(ctx, &models.FilterAttribute{CategoryID: furniture.ID, Name: "Material", AttributeType: models.FilterText}))

	owner := createUser(t, db, "alice")
	phone := createListing(t, db, owner, smartphones, "Pixel")
	chair := createListing(t, db, owner, furniture, "Chair")
	require.NoError(t, NewListingCategoryRepository(db).Create(ctx, &models.ListingCategory{ListingID: chair.ID, CategoryID: phones.ID}))
	require.NoError(t, NewFavoriteRepository(db).Create(ctx, &models.Favorite{UserID: owner.ID, ListingID: phone.ID}))

	require.NoError(t, repo.Delete(ctx, electronics.ID))

	for _, id := range []uint{electronics.ID, phones.ID, smartphones.ID} {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	var filterCount, imageCount, favoriteCount, legacyCount int64
	db.Model(&models.FilterAttribute{}).Count(&filterCount)
	db.Model(&models.Image{}).Where("listing_id = ?", phone.ID).Count(&imageCount)
	db.Model(&models.Favorite{}).Count(&favoriteCount)
	db.Model(&models.ListingCategory{}).Count(&legacyCount)
	assert.Equal(t, int64(1), filterCount)
	assert.Zero(t, imageCount)
	assert.Zero(t, favoriteCount)
	assert.Zero(t, legacyCount)

	gone, err := NewListingRepository(db).GetByID(ctx, phone.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := NewListingRepository(db).GetByID(ctx, chair.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Empty(t, kept.ListingCategories)
}

func TestCategoryNameUniquePerParent(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := NewCategoryRepository(db)

	electronics := createCategory(t, db, "Electronics", nil)
	books := createCategory(t, db, "Books", nil)
	createCategory(t, db, "Accessories", electronics)

	exists, err := repo.ExistsByNameAndParent(ctx, "Electronics", nil, 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByNameAndParent(ctx, "Electronics", nil, electronics.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByNameAndParent(ctx, "Accessories", &books.ID, 0)
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.Create(ctx, &models.Category{Name: "Accessories", ParentID: &electronics.ID})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCategoryAncestorsAndChildren(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := NewCategoryRepository(db)

	electronics := createCategory(t, db, "Electronics", nil)
	phones := createCategory(t, db, "Phones", electronics)
	laptops := createCategory(t, db, "Laptops", electronics)
	smartphones := createCategory(t, db, "Smartphones", phones)

	chain, err := repo.Ancestors(ctx, smartphones.ID)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, "Electronics", chain[0].Name)
	assert.Equal(t, "Smartphones", chain[2].Name)

	children, err := repo.ChildIDs(ctx, []uint{electronics.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{phones.ID, laptops.ID}, children)

	leaf, err := repo.HasChildren(ctx, smartphones.ID)
	require.NoError(t, err)
	assert.False(t, leaf)

	hasKids, err := repo.HasChildren(ctx, phones.ID)
	require.NoError(t, err)
	assert.True(t, hasKids)
}

func TestCategoryUpdateMovesParent(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := NewCategoryRepository(db)

	electronics := createCategory(t, db, "Electronics", nil)
	phones := createCategory(t, db, "Phones", nil)

	phones.ParentID = &electronics.ID
	phones.Name = "Mobile phones"
	require.NoError(t, repo.Update(ctx, phones))

	got, err := repo.GetByID(ctx, phones.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, electronics.ID, *got.ParentID)
	assert.Equal(t, "Mobile phones", got.Name)
}
