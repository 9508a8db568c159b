package usecase

import (
	"context"
	"errors"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"go.uber.org/zap"
)

// FavoriteUsecase maintains per-user favorite sets. Favorites are ids
// only; the current listing data is resolved on read so a stale snapshot
// is never shown.
type FavoriteUsecase struct {
	store    domain.FavoriteStore
	listings domain.ListingRepository
	logger   *logger.Logger
}

func NewFavoriteUsecase(store domain.FavoriteStore, listings domain.ListingRepository, log *logger.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{
		store:    store,
		listings: listings,
		logger:   log.Named("FavoriteUsecase"),
	}
}

// Toggle flips membership for the listing and returns the resulting
// state. The write happens before returning; a store failure surfaces to
// the caller instead of leaving the UI out of sync with storage.
func (uc *FavoriteUsecase) Toggle(ctx context.Context, userID, listingID string) (bool, error) {
	uc.logger.Info("Toggling favorite", zap.String("user_id", userID), zap.String("listing_id", listingID))

	if _, err := uc.listings.FindByID(ctx, listingID); err != nil {
		uc.logger.Warn("Favorite toggle for unknown listing",
			zap.String("listing_id", listingID), zap.Error(err))
		return false, err
	}

	favorited, err := uc.store.Toggle(ctx, userID, listingID)
	if err != nil {
		uc.logger.Error("Favorite toggle failed",
			zap.String("user_id", userID),
			zap.String("listing_id", listingID),
			zap.Error(err))
		return false, err
	}
	return favorited, nil
}

// IsFavorite reports current membership.
func (uc *FavoriteUsecase) IsFavorite(ctx context.Context, userID, listingID string) (bool, error) {
	return uc.store.IsMember(ctx, userID, listingID)
}

// List returns the user's favorited listings, resolved to their current
// state. Favorites pointing at deleted listings are skipped.
func (uc *FavoriteUsecase) List(ctx context.Context, userID string) ([]*domain.Listing, error) {
	ids, err := uc.store.Members(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to read favorites", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	listings := make([]*domain.Listing, 0, len(ids))
	for _, id := range ids {
		listing, err := uc.listings.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrListingNotFound) {
				continue
			}
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
