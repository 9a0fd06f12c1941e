package repositories

import (
	"context"

	"github.com/UltraPon/SellUp/app/models"
	"gorm.io/gorm"
)

type RoleRepositoryImpl interface {
	List(ctx context.Context) ([]models.Role, error)
	GetByID(ctx context.Context, id uint) (*models.Role, error)
	Ensure(ctx context.Context, role *models.Role) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepositoryImpl {
	return &roleRepository{db: db}
}

func (r *roleRepository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepository) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// Ensure inserts the role with its fixed id unless it already exists.
func (r *roleRepository) Ensure(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Where(models.Role{ID: role.ID}).Attrs(models.Role{Name: role.Name}).FirstOrCreate(role).Error
}
