package usecase

import (
	"context"
	"time"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"go.uber.org/zap"
)

// Storage uploads binary photo data and returns a public URL.
type Storage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// PhotoUsecase attaches uploaded photos to listings.
type PhotoUsecase struct {
	storage   Storage
	repo      domain.ListingRepository
	cache     ListingCache
	publisher EventPublisher
	logger    *logger.Logger
}

func NewPhotoUsecase(storage Storage, repo domain.ListingRepository, cache ListingCache, publisher EventPublisher, log *logger.Logger) *PhotoUsecase {
	return &PhotoUsecase{
		storage:   storage,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    log.Named("PhotoUsecase"),
	}
}

// UploadPhoto stores the photo and appends its URL to the listing. Only
// the owner may add photos.
func (uc *PhotoUsecase) UploadPhoto(ctx context.Context, listingID, userID, fileName string, data []byte) (string, error) {
	uc.logger.Info("Uploading photo",
		zap.String("listing_id", listingID),
		zap.String("user_id", userID),
		zap.String("file_name", fileName),
		zap.Int("size_bytes", len(data)))

	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return "", err
	}
	if listing.SellerID != userID {
		uc.logger.Warn("Photo upload ownership check failed",
			zap.String("listing_id", listingID),
			zap.String("user_id", userID))
		return "", domain.ErrForbidden
	}

	url, err := uc.storage.Upload(ctx, fileName, data)
	if err != nil {
		uc.logger.Error("Photo upload failed", zap.String("listing_id", listingID), zap.Error(err))
		return "", err
	}

	listing.Photos = append(listing.Photos, url)
	listing.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("Failed to attach photo to listing",
			zap.String("listing_id", listingID),
			zap.String("url", url),
			zap.Error(err))
		return "", err
	}

	if err := uc.cache.DeleteListing(ctx, listingID); err != nil {
		uc.logger.Warn("Cache invalidation failed", zap.String("listing_id", listingID), zap.Error(err))
	}
	if err := uc.publisher.Publish(ctx, SubjectListingUpdated, map[string]string{"listing_id": listingID}); err != nil {
		uc.logger.Error("Failed to publish event",
			zap.String("subject", SubjectListingUpdated),
			zap.String("listing_id", listingID),
			zap.Error(err))
	}
	return url, nil
}
