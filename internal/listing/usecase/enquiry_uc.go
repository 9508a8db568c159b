package usecase

import (
	"context"
	"fmt"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/carmarket/listing-service/internal/platform/metrics"
	"go.uber.org/zap"
)

// SubjectListingEnquiry is emitted when a buyer contacts a seller.
const SubjectListingEnquiry = "listing.enquiry"

// EnquiryUsecase accepts buyer messages for a listing, persists them and
// forwards them to the seller by e-mail.
type EnquiryUsecase struct {
	enquiries domain.EnquiryRepository
	listings  domain.ListingRepository
	publisher EventPublisher
	notifier  Notifier
	metrics   *metrics.Manager
	logger    *logger.Logger
}

func NewEnquiryUsecase(
	enquiries domain.EnquiryRepository,
	listings domain.ListingRepository,
	publisher EventPublisher,
	notifier Notifier,
	m *metrics.Manager,
	log *logger.Logger,
) *EnquiryUsecase {
	return &EnquiryUsecase{
		enquiries: enquiries,
		listings:  listings,
		publisher: publisher,
		notifier:  notifier,
		metrics:   m,
		logger:    log.Named("EnquiryUsecase"),
	}
}

// CreateEnquiry records a buyer message for an approved listing. Sellers
// cannot enquire about their own listings.
func (uc *EnquiryUsecase) CreateEnquiry(ctx context.Context, listingID, buyerID, message string) (*domain.Enquiry, error) {
	uc.logger.Info("Creating enquiry", zap.String("listing_id", listingID), zap.String("buyer_id", buyerID))

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.StatusApproved {
		uc.logger.Warn("Enquiry refused for non-approved listing",
			zap.String("listing_id", listingID),
			zap.String("status", string(listing.Status)))
		return nil, fmt.Errorf("%w: listing is not available", domain.ErrInvalidInput)
	}
	if listing.SellerID == buyerID {
		return nil, fmt.Errorf("%w: cannot enquire about your own listing", domain.ErrInvalidInput)
	}

	enquiry, err := domain.NewEnquiry(listingID, listing.SellerID, buyerID, message)
	if err != nil {
		uc.logger.Warn("Enquiry input rejected", zap.String("listing_id", listingID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := uc.enquiries.Create(ctx, enquiry); err != nil {
		uc.logger.Error("Failed to persist enquiry", zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}

	uc.metrics.EnquiriesTotal.Inc()

	if err := uc.publisher.Publish(ctx, SubjectListingEnquiry, map[string]string{
		"enquiry_id": enquiry.ID,
		"listing_id": listingID,
	}); err != nil {
		uc.logger.Error("Failed to publish enquiry event",
			zap.String("enquiry_id", enquiry.ID),
			zap.Error(err))
	}

	go func() {
		if err := uc.notifier.SendEnquiryReceived(listing.ContactEmail, listing.Brand, listing.Model, message); err != nil {
			uc.logger.Warn("Failed to forward enquiry to seller",
				zap.String("enquiry_id", enquiry.ID),
				zap.Error(err))
		}
	}()

	return enquiry, nil
}

// ListForSeller returns a seller's received enquiries, newest first.
func (uc *EnquiryUsecase) ListForSeller(ctx context.Context, sellerID string) ([]*domain.Enquiry, error) {
	enquiries, err := uc.enquiries.FindBySellerID(ctx, sellerID)
	if err != nil {
		uc.logger.Error("Failed to list enquiries", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, err
	}
	return enquiries, nil
}
