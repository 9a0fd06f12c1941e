package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/UltraPon/SellUp/app/models"
	"gorm.io/gorm"
)

type UserRepositoryImpl interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	MarkEmailVerified(ctx context.Context, userID uint) error
	SavePasswordResetToken(ctx context.Context, userID uint, token string, createdAt time.Time) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepositoryImpl {
	return &userRepository{db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.RoleID == 0 {
		user.RoleID = models.RoleUserID
	}
	user.PasswordResetToken = nil
	user.PasswordResetCreatedAt = nil

	if err := r.db.WithContext(ctx).Omit("Role").Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translateWriteError(err))
	}
	return nil
}

func (r *userRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Role").Where(query, args...).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, "email_verification_token = ?", token)
}

func (r *userRepository) FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, "password_reset_token = ?", token)
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Preload("Role").Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	updates := map[string]interface{}{
		"username":     user.Username,
		"phone_number": user.PhoneNumber,
		"role_id":      user.RoleID,
		"updated_at":   time.Now(),
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update profile of user %d: %w", user.ID, translateWriteError(err))
	}
	return nil
}

func (r *userRepository) MarkEmailVerified(ctx context.Context, userID uint) error {
	updates := map[string]interface{}{
		"is_email_verified": true,
		"updated_at":        time.Now(),
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to verify email of user %d: %w", userID, err)
	}
	return nil
}

func (r *userRepository) SavePasswordResetToken(ctx context.Context, userID uint, token string, createdAt time.Time) error {
	updates := map[string]interface{}{
		"password_reset_token":      token,
		"password_reset_created_at": createdAt,
		"updated_at":                time.Now(),
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to save password reset token for user %d: %w", userID, err)
	}
	return nil
}

// UpdatePassword also clears any pending reset token.
func (r *userRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	updates := map[string]interface{}{
		"password":                  passwordHash,
		"password_reset_token":      nil,
		"password_reset_created_at": nil,
		"updated_at":                time.Now(),
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update password for user %d: %w", userID, err)
	}
	return nil
}
