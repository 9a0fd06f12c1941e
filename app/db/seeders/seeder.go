package seeders

import (
	"context"
	"fmt"

	"github.com/UltraPon/SellUp/app/db/fakers"
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/repositories"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Options struct {
	AdminEmail    string
	AdminPassword string
	// Demo adds fake users and listings on top of the reference data.
	Demo         bool
	DemoUsers    int
	DemoListings int
}

type categorySeed struct {
	Name     string
	Filters  []models.FilterAttribute
	Children []categorySeed
}

func floatPtr(v float64) *float64 { return &v }

var categoryTree = []categorySeed{
	{
		Name: "Electronics",
		Children: []categorySeed{
			{
				Name: "Phones",
				Filters: []models.FilterAttribute{
					{Name: "brand", AttributeType: models.FilterSelect, Options: datatypes.JSONSlice[string]{"Apple", "Samsung", "Xiaomi"}},
				},
				Children: []categorySeed{
					{
						Name: "Smartphones",
						Filters: []models.FilterAttribute{
							{Name: "storage", AttributeType: models.FilterRange, MinValue: floatPtr(16), MaxValue: floatPtr(1024), Unit: "GB"},
							{Name: "dual_sim", AttributeType: models.FilterCheckbox},
						},
					},
				},
			},
			{Name: "Laptops", Filters: []models.FilterAttribute{
				{Name: "screen", AttributeType: models.FilterRange, MinValue: floatPtr(11), MaxValue: floatPtr(18), Unit: "in"},
			}},
		},
	},
	{
		Name: "Real estate",
		Children: []categorySeed{
			{Name: "Apartments", Filters: []models.FilterAttribute{
				{Name: "rooms", AttributeType: models.FilterNumber},
				{Name: "area", AttributeType: models.FilterRange, MinValue: floatPtr(10), MaxValue: floatPtr(500), Unit: "m²"},
			}},
		},
	},
	{Name: "Transport"},
}

func SeedRoles(ctx context.Context, roles repositories.RoleRepositoryImpl) error {
	for _, role := range []models.Role{
		{ID: models.RoleAdminID, Name: "admin"},
		{ID: models.RoleUserID, Name: "user"},
	} {
		if err := roles.Ensure(ctx, &role); err != nil {
			return err
		}
	}
	return nil
}

func SeedAdmin(ctx context.Context, users repositories.UserRepositoryImpl, email, password string) (*models.User, error) {
	existing, err := users.FindByEmail(ctx, email)
	if err != nil || existing != nil {
		return existing, err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Email:           email,
		Username:        "admin",
		Password:        hash,
		RoleID:          models.RoleAdminID,
		IsActive:        true,
		IsStaff:         true,
		IsEmailVerified: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// SeedCategories creates the reference tree. Existing categories with the
// same name and parent are reused.
func SeedCategories(ctx context.Context, db *gorm.DB) ([]models.Category, error) {
	var leaves []models.Category
	var walk func(seeds []categorySeed, parentID *uint) error
	walk = func(seeds []categorySeed, parentID *uint) error {
		for _, s := range seeds {
			category, err := firstOrCreateCategory(ctx, db, s.Name, parentID)
			if err != nil {
				return err
			}
			for _, f := range s.Filters {
				f.CategoryID = category.ID
				if err := db.WithContext(ctx).
					Where(models.FilterAttribute{CategoryID: category.ID, Name: f.Name}).
					FirstOrCreate(&f).Error; err != nil {
					return fmt.Errorf("failed to seed filter %s: %w", f.Name, err)
				}
				category.Filters = append(category.Filters, f)
			}
			if len(s.Children) == 0 {
				leaves = append(leaves, *category)
				continue
			}
			if err := walk(s.Children, &category.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(categoryTree, nil); err != nil {
		return nil, err
	}
	return leaves, nil
}

func firstOrCreateCategory(ctx context.Context, db *gorm.DB, name string, parentID *uint) (*models.Category, error) {
	var category models.Category
	q := db.WithContext(ctx).Where("name = ?", name)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	err := q.First(&category).Error
	if err == nil {
		return &category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	category = models.Category{Name: name, ParentID: parentID}
	if err := db.WithContext(ctx).Omit("Filters", "Children").Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to seed category %s: %w", name, err)
	}
	return &category, nil
}

func seedDemo(ctx context.Context, db *gorm.DB, users repositories.UserRepositoryImpl, leaves []models.Category, opts Options, logger *zap.Logger) error {
	if len(leaves) == 0 {
		return nil
	}
	var owners []uint
	for i := 0; i < opts.DemoUsers; i++ {
		user, err := fakers.UserFaker()
		if err != nil {
			return err
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		owners = append(owners, user.ID)
	}
	if len(owners) == 0 {
		return nil
	}

	for i := 0; i < opts.DemoListings; i++ {
		listing := fakers.ListingFaker(owners[i%len(owners)], &leaves[i%len(leaves)])
		if err := db.WithContext(ctx).Omit("User", "Category", "ListingCategories").Create(listing).Error; err != nil {
			return fmt.Errorf("failed to seed listing: %w", err)
		}
	}
	logger.Info("demo data seeded", zap.Int("users", len(owners)), zap.Int("listings", opts.DemoListings))
	return nil
}

func DBSeed(ctx context.Context, db *gorm.DB, opts Options, logger *zap.Logger) error {
	users := repositories.NewUserRepository(db)
	if err := SeedRoles(ctx, repositories.NewRoleRepository(db)); err != nil {
		return err
	}
	if _, err := SeedAdmin(ctx, users, opts.AdminEmail, opts.AdminPassword); err != nil {
		return err
	}
	leaves, err := SeedCategories(ctx, db)
	if err != nil {
		return err
	}
	logger.Info("reference data seeded", zap.Int("leaf_categories", len(leaves)))

	if opts.Demo {
		return seedDemo(ctx, db, users, leaves, opts, logger)
	}
	return nil
}
