package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/repositories"
	"github.com/UltraPon/SellUp/app/utils/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockImageHost struct {
	mock.Mock
}

func (m *mockImageHost) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	args := m.Called(ctx, data, filename)
	return args.String(0), args.Error(1)
}

type listingFixture struct {
	db       *gorm.DB
	svc      *ListingService
	host     *mockImageHost
	owner    *models.User
	category *models.Category
}

func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()
	db := testdb.New(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Role{ID: models.RoleUserID, Name: "user"}).Error)
	owner := &models.User{Email: "seller@example.com", Username: "seller", Password: "x", RoleID: models.RoleUserID}
	require.NoError(t, repositories.NewUserRepository(db).Create(ctx, owner))

	categories := repositories.NewCategoryRepository(db)
	category := &models.Category{Name: "Phones"}
	require.NoError(t, categories.Create(ctx, category))

	host := &mockImageHost{}
	svc := NewListingService(repositories.NewListingRepository(db), categories, host, zap.NewNop())
	return &listingFixture{db: db, svc: svc, host: host, owner: owner, category: category}
}

func pngUpload(name string) ImageUpload {
	data := []byte("\x89PNG\r\n\x1a\n" + name)
	return ImageUpload{Filename: name, ContentType: "image/png", Size: int64(len(data)), Reader: bytes.NewReader(data)}
}

func (f *listingFixture) input() ListingInput {
	return ListingInput{Title: "Pixel 8", Price: "499.99", CategoryID: f.category.ID}
}

func (f *listingFixture) countListings(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Model(&models.Listing{}).Count(&n).Error)
	return n
}

func TestCreateListingWithImages(t *testing.T) {
	f := newListingFixture(t)
	f.host.On("Upload", mock.Anything, mock.Anything, mock.AnythingOfType("string")).
		Return("https://i.example/a.png", nil).Twice()

	res, err := f.svc.Create(context.Background(), f.owner.ID, f.input(), []ImageUpload{pngUpload("a.png"), pngUpload("b.png")})
	require.NoError(t, err)

	assert.Len(t, res.Listing.Images, 2)
	assert.Empty(t, res.RejectedImages)
	assert.Equal(t, "499.99", res.Listing.Price.StringFixed(2))
	assert.NotNil(t, res.Listing.Attributes)
	f.host.AssertExpectations(t)
}

func TestCreateListingRequiresAnImage(t *testing.T) {
	f := newListingFixture(t)

	_, err := f.svc.Create(context.Background(), f.owner.ID, f.input(), nil)

	appErr := apperrors.As(err)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "images")
	assert.Zero(t, f.countListings(t))
}

func TestCreateListingRejectsElevenImagesBeforePersisting(t *testing.T) {
	f := newListingFixture(t)
	uploads := make([]ImageUpload, 0, 11)
	for i := 0; i < 11; i++ {
		uploads = append(uploads, pngUpload(fmt.Sprintf("%d.png", i)))
	}

	_, err := f.svc.Create(context.Background(), f.owner.ID, f.input(), uploads)

	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Zero(t, f.countListings(t))
	f.host.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateListingSkipsOversizedImage(t *testing.T) {
	f := newListingFixture(t)
	f.host.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://i.example/x.png", nil)

	uploads := make([]ImageUpload, 0, 11)
	for i := 0; i < 10; i++ {
		uploads = append(uploads, pngUpload(fmt.Sprintf("%d.png", i)))
	}
	big := pngUpload("huge.png")
	big.Size = MaxImageSize + 1
	uploads = append(uploads, big)

	res, err := f.svc.Create(context.Background(), f.owner.ID, f.input(), uploads)
	require.NoError(t, err)

	assert.Len(t, res.Listing.Images, 10)
	require.Len(t, res.RejectedImages, 1)
	assert.Equal(t, "huge.png", res.RejectedImages[0].Filename)
	f.host.AssertNumberOfCalls(t, "Upload", 10)
}

func TestCreateListingRejectsNonImages(t *testing.T) {
	f := newListingFixture(t)
	doc := ImageUpload{Filename: "cv.pdf", ContentType: "application/pdf", Size: 10, Reader: bytes.NewReader(make([]byte, 10))}

	_, err := f.svc.Create(context.Background(), f.owner.ID, f.input(), []ImageUpload{doc})

	appErr := apperrors.As(err)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields["images"], "not an image")
	assert.Zero(t, f.countListings(t))
}

func TestCreateListingKeepsPartialUploads(t *testing.T) {
	f := newListingFixture(t)
	f.host.On("Upload", mock.Anything, mock.Anything, "ok.png").Return("https://i.example/ok.png", nil)
	f.host.On("Upload", mock.Anything, mock.Anything, "bad.png").Return("", errors.New("imgbb: upload bad.png rejected"))

	res, err := f.svc.Create(context.Background(), f.owner.ID, f.input(), []ImageUpload{pngUpload("ok.png"), pngUpload("bad.png")})
	require.NoError(t, err)

	require.Len(t, res.Listing.Images, 1)
	assert.Equal(t, "https://i.example/ok.png", res.Listing.Images[0].URL)
	require.Len(t, res.RejectedImages, 1)
	assert.Equal(t, "upload failed", res.RejectedImages[0].Reason)
}

func TestCreateListingAbortsWhenNoUploadSucceeds(t *testing.T) {
	f := newListingFixture(t)
	f.host.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	_, err := f.svc.Create(context.Background(), f.owner.ID, f.input(), []ImageUpload{pngUpload("a.png"), pngUpload("b.png")})

	appErr := apperrors.As(err)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	var upstream *apperrors.Error
	require.True(t, errors.As(appErr.Err, &upstream))
	assert.Equal(t, apperrors.KindUpstream, upstream.Kind)
	assert.Zero(t, f.countListings(t))

	var images int64
	f.db.Model(&models.Image{}).Count(&images)
	assert.Zero(t, images)
}

func TestCreateListingValidatesPriceAndCategory(t *testing.T) {
	f := newListingFixture(t)

	in := f.input()
	in.Price = "free"
	_, err := f.svc.Create(context.Background(), f.owner.ID, in, []ImageUpload{pngUpload("a.png")})
	assert.Contains(t, apperrors.As(err).Fields, "price")

	in = f.input()
	in.CategoryID = 9999
	_, err = f.svc.Create(context.Background(), f.owner.ID, in, []ImageUpload{pngUpload("a.png")})
	assert.Contains(t, apperrors.As(err).Fields, "category_id")
	f.host.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAndDeleteRequireOwnership(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	f.host.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://i.example/a.png", nil)
	res, err := f.svc.Create(ctx, f.owner.ID, f.input(), []ImageUpload{pngUpload("a.png")})
	require.NoError(t, err)
	id := res.Listing.ID

	stranger := &models.User{ID: f.owner.ID + 100}
	in := f.input()
	in.Title = "Hijacked"
	_, err = f.svc.Update(ctx, stranger, id, in)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	assert.True(t, apperrors.Is(f.svc.Delete(ctx, stranger, id), apperrors.KindForbidden))

	in.Title = "Pixel 8 Pro"
	in.Attributes = map[string]interface{}{"color": "black"}
	updated, err := f.svc.Update(ctx, f.owner, id, in)
	require.NoError(t, err)
	assert.Equal(t, "Pixel 8 Pro", updated.Title)
	assert.Equal(t, "black", updated.Attributes["color"])
	assert.True(t, updated.CreatedAt.Equal(res.Listing.CreatedAt))

	staff := &models.User{ID: stranger.ID, IsStaff: true}
	require.NoError(t, f.svc.Delete(ctx, staff, id))
	_, err = f.svc.Get(ctx, id)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}
