package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/utils/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(listings []models.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Title)
	}
	return out
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestSearchMatchesPrimaryAndLegacyCategoriesOnce(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := NewListingRepository(db)
	owner := createUser(t, db, "bob")

	electronics := createCategory(t, db, "Electronics", nil)
	phones := createCategory(t, db, "Phones", electronics)
	furniture := createCategory(t, db, "Furniture", nil)

	direct := createListing(t, db, owner, phones, "Phone")
	both := createListing(t, db, owner, phones, "Phone with legacy row")
	legacyOnly := createListing(t, db, owner, furniture, "Desk phone stand")
	createListing(t, db, owner, furniture, "Sofa")

	lcRepo := NewListingCategoryRepository(db)
	require.NoError(t, lcRepo.Create(ctx, &models.ListingCategory{ListingID: both.ID, CategoryID: phones.ID}))
	require.NoError(t, lcRepo.Create(ctx, &models.ListingCategory{ListingID: both.ID, CategoryID: electronics.ID}))
	require.NoError(t, lcRepo.Create(ctx, &models.ListingCategory{ListingID: legacyOnly.ID, CategoryID: electronics.ID}))

	got, err := repo.Search(ctx, ListingFilter{CategoryIDs: []uint{electronics.ID, phones.ID}})
	require.NoError(t, err)

	ids := make([]uint, 0, len(got))
	for _, l := range got {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []uint{direct.ID, both.ID, legacyOnly.ID}, ids)
}

func TestSearchTextIsCaseInsensitiveAcrossFields(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := NewListingRepository(db)
	owner := createUser(t, db, "carol")
	cat := createCategory(t, db, "Misc", nil)

	createListing(t, db, owner, cat, "Red BICYCLE")
	createListing(t, db, owner, cat, "Helmet", withDescription("fits any bicycle"))
	createListing(t, db, owner, cat, "Pump", withAddress("Bicycle street 5"))
	createListing(t, db, owner, cat, "Lamp")

	got, err := repo.Search(ctx, ListingFilter{Query: "bicycle"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Red BICYCLE", "Helmet", "Pump"}, titles(got))
}

func TestSearchCityAndPriceBounds(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := NewListingRepository(db)
	owner := createUser(t, db, "dave")
	cat := createCategory(t, db, "Misc", nil)

	createListing(t, db, owner, cat, "Cheap", withPrice("100"), withAddress("123 Main, Springfield"))
	createListing(t, db, owner, cat, "Mid", withPrice("150.50"), withAddress("5 Oak, Springfield"))
	createListing(t, db, owner, cat, "Top", withPrice("200"), withAddress("9 Elm, springfield"))
	createListing(t, db, owner, cat, "Elsewhere", withPrice("150"), withAddress("1 Bay, Shelbyville"))

	got, err := repo.Search(ctx, ListingFilter{City: "Springfield"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Cheap", "Mid", "Top"}, titles(got))

	got, err = repo.Search(ctx, ListingFilter{PriceMin: decPtr("100"), PriceMax: decPtr("200")})
	require.NoError(t, err)
	assert.Len(t, got, 4, "bounds are inclusive")

	got, err = repo.Search(ctx, ListingFilter{PriceMin: decPtr("150.50"), City: "springfield"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Mid", "Top"}, titles(got))
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := NewListingRepository(db)
	owner := createUser(t, db, "ivan")
	cat := createCategory(t, db, "Misc", nil)

	createListing(t, db, owner, cat, "50% off bike")
	createListing(t, db, owner, cat, "Lamp", withAddress("Main st, Springfield"))
	createListing(t, db, owner, cat, "Desk_lamp!", withAddress("Oak_street"))

	cases := []struct {
		name   string
		filter ListingFilter
		want   []string
	}{
		{"percent", ListingFilter{Query: "%"}, []string{"50% off bike"}},
		{"underscore query", ListingFilter{Query: "k_l"}, []string{"Desk_lamp!"}},
		{"escape char", ListingFilter{Query: "p!"}, []string{"Desk_lamp!"}},
		{"underscore city", ListingFilter{City: "_"}, []string{"Desk_lamp!"}},
		{"backslash", ListingFilter{Query: `\`}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tc.filter)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, titles(got))
		})
	}
}

func TestSearchHonoursCancelledContext(t *testing.T) {
	db := testdb.New(t)
	repo := NewListingRepository(db)
	owner := createUser(t, db, "jane")
	cat := createCategory(t, db, "Misc", nil)
	createListing(t, db, owner, cat, "Chair")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.Search(ctx, ListingFilter{CategoryIDs: []uint{cat.ID}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchOrdersNewestFirstAndScopesByOwner(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := NewListingRepository(db)
	erin := createUser(t, db, "erin")
	frank := createUser(t, db, "frank")
	cat := createCategory(t, db, "Misc", nil)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	createListing(t, db, erin, cat, "old", withCreatedAt(base))
	createListing(t, db, erin, cat, "new", withCreatedAt(base.Add(2*time.Hour)))
	createListing(t, db, frank, cat, "middle", withCreatedAt(base.Add(time.Hour)))

	got, err := repo.Search(ctx, ListingFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "middle", "old"}, titles(got))

	got, err = repo.Search(ctx, ListingFilter{UserID: &erin.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, titles(got))
}

func TestCreateWithImagesStoresEmptyAttributesAndRelations(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := NewListingRepository(db)
	owner := createUser(t, db, "gina")
	cat := createCategory(t, db, "Phones", nil)
	require.NoError(t, NewFilterAttributeRepository(db).Create(ctx, &models.FilterAttribute{CategoryID: cat.ID, Name: "Brand", AttributeType: models.FilterText}))

	l := &models.Listing{UserID: owner.ID, CategoryID: cat.ID, Title: "Pixel", Price: decimal.RequireFromString("499.99")}
	require.NoError(t, repo.CreateWithImages(ctx, l, []string{"https://i.example/1.png", "https://i.example/2.png"}))

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotNil(t, got.Attributes)
	assert.Empty(t, got.Attributes)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("499.99")))
	require.Len(t, got.Images, 2)
	assert.True(t, got.Images[0].IsExternal)
	assert.Equal(t, "gina", got.User.Username)
	require.Len(t, got.Category.Filters, 1)
	assert.Equal(t, "Brand", got.Category.Filters[0].Name)
}

func TestUpdateKeepsCreatedAt(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := NewListingRepository(db)
	owner := createUser(t, db, "hank")
	cat := createCategory(t, db, "Misc", nil)
	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	l := createListing(t, db, owner, cat, "Original", withCreatedAt(created))

	l.Title = "Renamed"
	l.CreatedAt = time.Now()
	l.Attributes = nil
	require.NoError(t, repo.Update(ctx, l))

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.NotNil(t, got.Attributes)
}
