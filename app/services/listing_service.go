package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	MaxListingImages = 10
	MaxImageSize     = 10 << 20
)

type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type ListingInput struct {
	Title       string                 `json:"title" validate:"required,max=255"`
	Description *string                `json:"description"`
	Price       string                 `json:"price" validate:"required"`
	Address     *string                `json:"address" validate:"omitempty,max=255"`
	CategoryID  uint                   `json:"category_id" validate:"required"`
	Attributes  map[string]interface{} `json:"attributes"`
}

type RejectedImage struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type CreateListingResult struct {
	Listing        *models.Listing
	RejectedImages []RejectedImage
}

type ListingService struct {
	listings   repositories.ListingRepositoryImpl
	categories repositories.CategoryRepositoryImpl
	images     ImageHost
	logger     *zap.Logger
	maxImages  int
	maxSize    int64
}

func NewListingService(
	listings repositories.ListingRepositoryImpl,
	categories repositories.CategoryRepositoryImpl,
	images ImageHost,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{
		listings:   listings,
		categories: categories,
		images:     images,
		logger:     logger,
		maxImages:  MaxListingImages,
		maxSize:    MaxImageSize,
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, apperrors.ValidationField("price", "price must be a number")
	}
	if price.IsNegative() {
		return decimal.Zero, apperrors.ValidationField("price", "price must not be negative")
	}
	if price.GreaterThanOrEqual(decimal.New(1, 8)) {
		return decimal.Zero, apperrors.ValidationField("price", "price must be below 100000000")
	}
	return price.Round(2), nil
}

func (s *ListingService) checkCategory(ctx context.Context, id uint) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load category %d: %w", id, err)
	}
	if category == nil {
		return apperrors.ValidationField("category_id", "category does not exist")
	}
	return nil
}

// screenImages splits uploads into acceptable ones and individually rejected ones.
func (s *ListingService) screenImages(uploads []ImageUpload) ([]ImageUpload, []RejectedImage) {
	var accepted []ImageUpload
	var rejected []RejectedImage
	for _, u := range uploads {
		switch {
		case u.Size > s.maxSize:
			rejected = append(rejected, RejectedImage{Filename: u.Filename, Reason: fmt.Sprintf("file exceeds %dMB", s.maxSize>>20)})
		case !strings.HasPrefix(strings.ToLower(u.ContentType), "image/"):
			rejected = append(rejected, RejectedImage{Filename: u.Filename, Reason: "file is not an image"})
		default:
			accepted = append(accepted, u)
		}
	}
	return accepted, rejected
}

// Create validates the listing and its images, uploads the images one by
// one and persists the listing together with every successful upload.
// Nothing is persisted when no upload succeeds.
func (s *ListingService) Create(ctx context.Context, userID uint, in ListingInput, uploads []ImageUpload) (*CreateListingResult, error) {
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	if len(uploads) == 0 {
		return nil, apperrors.ValidationField("images", "at least one image is required")
	}
	accepted, rejected := s.screenImages(uploads)
	if len(accepted) == 0 {
		return nil, &apperrors.Error{
			Kind:    apperrors.KindValidation,
			Message: "no acceptable image",
			Fields:  map[string]string{"images": rejected[0].Filename + ": " + rejected[0].Reason},
		}
	}
	if len(accepted) > s.maxImages {
		return nil, apperrors.ValidationField("images", fmt.Sprintf("at most %d images are allowed", s.maxImages))
	}

	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	var urls []string
	var lastErr error
	for _, u := range accepted {
		data, err := io.ReadAll(io.LimitReader(u.Reader, s.maxSize+1))
		if err == nil && int64(len(data)) > s.maxSize {
			err = errors.New("file exceeds size limit")
		}
		if err != nil {
			s.logger.Warn("skipping unreadable image", zap.String("filename", u.Filename), zap.Error(err))
			rejected = append(rejected, RejectedImage{Filename: u.Filename, Reason: "file could not be read"})
			continue
		}

		url, err := s.images.Upload(ctx, data, u.Filename)
		if err != nil {
			lastErr = err
			s.logger.Warn("image upload failed", zap.String("filename", u.Filename), zap.Error(err))
			rejected = append(rejected, RejectedImage{Filename: u.Filename, Reason: "upload failed"})
			continue
		}
		urls = append(urls, url)
	}

	if len(urls) == 0 {
		return nil, &apperrors.Error{
			Kind:    apperrors.KindValidation,
			Message: "no image could be uploaded",
			Fields:  map[string]string{"images": "failed to upload any image"},
			Err:     apperrors.Upstream("image host", lastErr),
		}
	}

	listing := &models.Listing{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		Price:       price,
		Address:     in.Address,
		Attributes:  datatypes.JSONMap(in.Attributes),
	}
	if err := s.listings.CreateWithImages(ctx, listing, urls); err != nil {
		return nil, err
	}
	s.logger.Info("listing created",
		zap.Uint("listing_id", listing.ID),
		zap.Uint("user_id", userID),
		zap.Int("images", len(urls)),
		zap.Int("rejected_images", len(rejected)))

	created, err := s.listings.GetByID(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	return &CreateListingResult{Listing: created, RejectedImages: rejected}, nil
}

func (s *ListingService) Get(ctx context.Context, id uint) (*models.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing %d: %w", id, err)
	}
	if listing == nil {
		return nil, apperrors.NotFound("listing")
	}
	return listing, nil
}

// Owned loads a listing the actor may modify: its owner or staff.
func (s *ListingService) Owned(ctx context.Context, actor *models.User, id uint) (*models.Listing, error) {
	listing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.UserID != actor.ID && !actor.HasStaffAccess() {
		return nil, apperrors.Forbidden("only the owner can modify this listing")
	}
	return listing, nil
}

func (s *ListingService) Update(ctx context.Context, actor *models.User, id uint, in ListingInput) (*models.Listing, error) {
	listing, err := s.Owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != listing.CategoryID {
		if err := s.checkCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}

	listing.Title = in.Title
	listing.Description = in.Description
	listing.Price = price
	listing.Address = in.Address
	listing.CategoryID = in.CategoryID
	if in.Attributes != nil {
		listing.Attributes = datatypes.JSONMap(in.Attributes)
	}
	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ListingService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if _, err := s.Owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete listing %d: %w", id, err)
	}
	s.logger.Info("listing deleted", zap.Uint("listing_id", id), zap.Uint("actor_id", actor.ID))
	return nil
}
