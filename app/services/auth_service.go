package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const PasswordResetValidity = 24 * time.Hour

type RegisterInput struct {
	Email           string  `json:"email" validate:"required,email,max=254"`
	Username        string  `json:"username" validate:"required,max=150"`
	Password        string  `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string  `json:"confirm_password" validate:"required"`
	RoleID          uint    `json:"role_id"`
	PhoneNumber     *string `json:"phone_number" validate:"omitempty,max=20"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileInput struct {
	Username    string  `json:"username" validate:"required,max=150"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
	RoleID      uint    `json:"role_id"`
}

type PasswordResetInput struct {
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type AuthService struct {
	users       repositories.UserRepositoryImpl
	roles       repositories.RoleRepositoryImpl
	tokens      *TokenService
	notifier    *Notifier
	backendURL  string
	frontendURL string
	logger      *zap.Logger
	now         func() time.Time
}

func NewAuthService(
	users repositories.UserRepositoryImpl,
	roles repositories.RoleRepositoryImpl,
	tokens *TokenService,
	notifier *Notifier,
	backendURL, frontendURL string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		roles:       roles,
		tokens:      tokens,
		notifier:    notifier,
		backendURL:  backendURL,
		frontendURL: frontendURL,
		logger:      logger,
		now:         time.Now,
	}
}

func invalidCredentials(msg string) error {
	return apperrors.ValidationField("non_field_errors", msg)
}

func (s *AuthService) checkRole(ctx context.Context, roleID uint) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return apperrors.ValidationField("role_id", "role does not exist")
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, apperrors.ValidationField("confirm_password", "passwords do not match")
	}
	if in.RoleID == 0 {
		in.RoleID = models.RoleUserID
	}
	if err := s.checkRole(ctx, in.RoleID); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("a user with this email already exists")
	}
	if existing, err = s.users.FindByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperrors.Conflict("a user with this username already exists")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	token := uuid.New().String()
	user := &models.User{
		Email:                  email,
		Username:               in.Username,
		Password:               hash,
		RoleID:                 in.RoleID,
		PhoneNumber:            in.PhoneNumber,
		EmailVerificationToken: &token,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict("a user with this email or username already exists")
		}
		return nil, err
	}

	link := fmt.Sprintf("%s/confirm-email/%s/", s.backendURL, token)
	s.notifier.SendAsync(user.Email, "Confirm your email", ConfirmationEmailBody(user.Username, link))
	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// ConfirmEmail reports whether the address had already been verified.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	user, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, apperrors.ValidationField("token", "invalid confirmation token")
	}
	if user.IsEmailVerified {
		return true, nil
	}
	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return false, err
	}
	return false, nil
}

func containsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	if containsSpace(in.Password) {
		return nil, "", apperrors.ValidationField("password", "password must not contain spaces")
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", invalidCredentials("invalid email or password")
	}
	if !user.IsEmailVerified {
		return nil, "", invalidCredentials("email address is not confirmed")
	}
	if !helpers.PasswordCompare(user.Password, []byte(in.Password)) {
		return nil, "", invalidCredentials("invalid email or password")
	}
	if !user.IsActive {
		return nil, "", invalidCredentials("account is disabled")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, in ProfileInput) (*models.User, error) {
	if in.RoleID == 0 {
		in.RoleID = user.RoleID
	}
	if in.RoleID != user.RoleID {
		if err := s.checkRole(ctx, in.RoleID); err != nil {
			return nil, err
		}
	}
	if in.Username != user.Username {
		existing, err := s.users.FindByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.Conflict("a user with this username already exists")
		}
	}

	user.Username = in.Username
	user.PhoneNumber = in.PhoneNumber
	user.RoleID = in.RoleID
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict("a user with this username already exists")
		}
		return nil, err
	}
	return s.users.FindByID(ctx, user.ID)
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user with this email")
	}

	token := uuid.New().String()
	if err := s.users.SavePasswordResetToken(ctx, user.ID, token, s.now()); err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password/%s/", s.frontendURL, token)
	s.notifier.SendAsync(user.Email, "Password reset", PasswordResetEmailBody(link, PasswordResetValidity))
	return nil
}

func (s *AuthService) ValidateResetToken(ctx context.Context, token string) (*models.User, error) {
	user, err := s.users.FindByPasswordResetToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordResetCreatedAt == nil {
		return nil, apperrors.NotFound("reset token")
	}
	if s.now().Sub(*user.PasswordResetCreatedAt) > PasswordResetValidity {
		return nil, apperrors.ValidationField("token", "reset token has expired")
	}
	return user, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, in PasswordResetInput) error {
	if in.Password != in.ConfirmPassword {
		return apperrors.ValidationField("confirm_password", "passwords do not match")
	}
	if containsSpace(in.Password) {
		return apperrors.ValidationField("password", "password must not contain spaces")
	}
	user, err := s.ValidateResetToken(ctx, token)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	s.logger.Info("password reset", zap.Uint("user_id", user.ID))
	return nil
}
