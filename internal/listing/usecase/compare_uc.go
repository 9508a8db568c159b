package usecase

import (
	"context"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"go.uber.org/zap"
)

// CompareUsecase maintains per-user compare sets, capped at
// domain.CompareCapacity. The set stores listing snapshots so the compare
// table renders without refetching each column.
type CompareUsecase struct {
	store    domain.CompareStore
	listings domain.ListingRepository
	logger   *logger.Logger
}

func NewCompareUsecase(store domain.CompareStore, listings domain.ListingRepository, log *logger.Logger) *CompareUsecase {
	return &CompareUsecase{
		store:    store,
		listings: listings,
		logger:   log.Named("CompareUsecase"),
	}
}

// Add puts the listing's current snapshot into the compare set. It
// reports false without error when the listing is already present or the
// set is full; storage failures are returned.
func (uc *CompareUsecase) Add(ctx context.Context, userID, listingID string) (bool, error) {
	uc.logger.Info("Adding to compare set", zap.String("user_id", userID), zap.String("listing_id", listingID))

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		uc.logger.Warn("Compare add for unknown listing",
			zap.String("listing_id", listingID), zap.Error(err))
		return false, err
	}

	added, err := uc.store.Add(ctx, userID, listing)
	if err != nil {
		uc.logger.Error("Compare add failed",
			zap.String("user_id", userID),
			zap.String("listing_id", listingID),
			zap.Error(err))
		return false, err
	}
	if !added {
		uc.logger.Debug("Compare add was a no-op",
			zap.String("user_id", userID),
			zap.String("listing_id", listingID))
	}
	return added, nil
}

// Remove drops the listing from the compare set. Removing an absent
// listing is not an error.
func (uc *CompareUsecase) Remove(ctx context.Context, userID, listingID string) error {
	uc.logger.Info("Removing from compare set", zap.String("user_id", userID), zap.String("listing_id", listingID))
	if err := uc.store.Remove(ctx, userID, listingID); err != nil {
		uc.logger.Error("Compare remove failed",
			zap.String("user_id", userID),
			zap.String("listing_id", listingID),
			zap.Error(err))
		return err
	}
	return nil
}

// List returns the stored snapshots in insertion order.
func (uc *CompareUsecase) List(ctx context.Context, userID string) ([]*domain.Listing, error) {
	return uc.store.Members(ctx, userID)
}

// Count returns the current size of the compare set.
func (uc *CompareUsecase) Count(ctx context.Context, userID string) (int, error) {
	return uc.store.Count(ctx, userID)
}
