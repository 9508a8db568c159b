package usecase

import (
	"context"
	"testing"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadPhotoAppendsURL(t *testing.T) {
	storage := new(MockStorage)
	repo := new(MockListingRepository)
	cache := new(MockCache)
	publisher := new(MockPublisher)
	uc := NewPhotoUsecase(storage, repo, cache, publisher, logger.NewLogger())
	ctx := context.Background()

	listing := &domain.Listing{ID: "l1", SellerID: "seller-1", Photos: []string{"existing.jpg"}}
	data := []byte{0xff, 0xd8}
	repo.On("FindByID", ctx, "l1").Return(listing, nil)
	storage.On("Upload", ctx, "car.jpg", data).Return("https://cdn.example/photos/abc.jpg", nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)
	cache.On("DeleteListing", ctx, "l1").Return(nil)
	publisher.On("Publish", ctx, SubjectListingUpdated, mock.Anything).Return(nil)

	url, err := uc.UploadPhoto(ctx, "l1", "seller-1", "car.jpg", data)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/photos/abc.jpg", url)
	assert.Equal(t, []string{"existing.jpg", "https://cdn.example/photos/abc.jpg"}, listing.Photos)
}

func TestUploadPhotoOnlyByOwner(t *testing.T) {
	storage := new(MockStorage)
	repo := new(MockListingRepository)
	cache := new(MockCache)
	publisher := new(MockPublisher)
	uc := NewPhotoUsecase(storage, repo, cache, publisher, logger.NewLogger())
	ctx := context.Background()

	listing := &domain.Listing{ID: "l1", SellerID: "seller-1"}
	repo.On("FindByID", ctx, "l1").Return(listing, nil)

	_, err := uc.UploadPhoto(ctx, "l1", "intruder", "car.jpg", []byte{1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}
