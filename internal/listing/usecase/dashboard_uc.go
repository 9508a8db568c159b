package usecase

import (
	"context"
	"time"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"go.uber.org/zap"
)

// DashboardUsecase assembles the seller dashboard: the seller's listings
// plus view and favorite counters.
type DashboardUsecase struct {
	listings  domain.ListingRepository
	views     domain.ViewRepository
	favorites domain.FavoriteStore
	logger    *logger.Logger
}

func NewDashboardUsecase(
	listings domain.ListingRepository,
	views domain.ViewRepository,
	favorites domain.FavoriteStore,
	log *logger.Logger,
) *DashboardUsecase {
	return &DashboardUsecase{
		listings:  listings,
		views:     views,
		favorites: favorites,
		logger:    log.Named("DashboardUsecase"),
	}
}

// Listings returns every listing of the seller, newest first, all
// statuses included.
func (uc *DashboardUsecase) Listings(ctx context.Context, sellerID string) ([]*domain.Listing, error) {
	return uc.listings.FindBySellerID(ctx, sellerID)
}

// Stats summarises the seller's listings with views recorded since the
// given time. Counter failures degrade to zeros; the dashboard must not
// go blank because a counter store is down.
func (uc *DashboardUsecase) Stats(ctx context.Context, sellerID string, since time.Time) (*domain.SellerStats, error) {
	listings, err := uc.listings.FindBySellerID(ctx, sellerID)
	if err != nil {
		uc.logger.Error("Failed to load seller listings", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, err
	}

	stats := &domain.SellerStats{
		ViewsByID:     make(map[string]int64, len(listings)),
		FavoritesByID: make(map[string]int64, len(listings)),
	}

	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
		switch l.Status {
		case domain.StatusApproved:
			stats.Active++
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusSold:
			stats.Sold++
		}
	}

	if len(ids) == 0 {
		return stats, nil
	}

	views, err := uc.views.CountSince(ctx, ids, since)
	if err != nil {
		uc.logger.Warn("Failed to count views", zap.String("seller_id", sellerID), zap.Error(err))
	} else {
		stats.ViewsByID = views
		for _, n := range views {
			stats.ViewsTotal += n
		}
	}

	for _, id := range ids {
		count, err := uc.favorites.ListingCount(ctx, id)
		if err != nil {
			uc.logger.Warn("Failed to count favorites",
				zap.String("listing_id", id), zap.Error(err))
			continue
		}
		stats.FavoritesByID[id] = count
	}

	return stats, nil
}
