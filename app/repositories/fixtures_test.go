package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/UltraPon/SellUp/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	require.NoError(t, db.FirstOrCreate(&models.Role{ID: models.RoleUserID, Name: "user"}).Error)
	user := &models.User{Email: name + "@example.com", Username: name, Password: "x", RoleID: models.RoleUserID}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createCategory(t *testing.T, db *gorm.DB, name string, parent *models.Category) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	require.NoError(t, NewCategoryRepository(db).Create(context.Background(), c))
	return c
}

func strPtr(s string) *string { return &s }

type listingOpt func(*models.Listing)

func withAddress(a string) listingOpt { return func(l *models.Listing) { l.Address = strPtr(a) } }

func withDescription(d string) listingOpt { return func(l *models.Listing) { l.Description = strPtr(d) } }

func withPrice(p string) listingOpt {
	return func(l *models.Listing) { l.Price = decimal.RequireFromString(p) }
}

func withCreatedAt(ts time.Time) listingOpt { return func(l *models.Listing) { l.CreatedAt = ts } }

func createListing(t *testing.T, db *gorm.DB, owner *models.User, category *models.Category, title string, opts ...listingOpt) *models.Listing {
	t.Helper()
	l := &models.Listing{
		UserID:     owner.ID,
		CategoryID: category.ID,
		Title:      title,
		Price:      decimal.NewFromInt(100),
	}
	for _, opt := range opts {
		opt(l)
	}
	require.NoError(t, NewListingRepository(db).CreateWithImages(context.Background(), l, []string{fmt.Sprintf("https://img.example/%s.png", title)}))
	return l
}
