package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/carmarket/listing-service/internal/platform/metrics"
	"go.uber.org/zap"
)

// EventPublisher publishes listing change events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// ListingCache caches mapped listings by id.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id string) error
}

// Notifier sends seller notifications. Satisfied by the SMTP mailer.
type Notifier interface {
	SendListingApproved(toEmail, brand, model string) error
	SendListingRejected(toEmail, brand, model, reason string) error
	SendEnquiryReceived(toEmail, brand, model, message string) error
}

// Event subject names, mirrored by the NATS adapter.
const (
	SubjectListingCreated = "listing.created"
	SubjectListingUpdated = "listing.updated"
	SubjectListingDeleted = "listing.deleted"
)

// ListingInput carries the seller-provided fields of a listing.
type ListingInput struct {
	Brand        string
	Model        string
	Year         int
	Price        float64
	Mileage      int
	FuelType     string
	Transmission string
	EmissionNorm string
	Location     string
	Description  string
	ContactEmail string
}

// ListingUsecase implements the listing lifecycle: creation, edits by the
// owner, moderation transitions and deletion. Every successful write emits
// an event and invalidates the cache entry.
type ListingUsecase struct {
	repo      domain.ListingRepository
	views     domain.ViewRepository
	cache     ListingCache
	publisher EventPublisher
	notifier  Notifier
	metrics   *metrics.Manager
	logger    *logger.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	views domain.ViewRepository,
	cache ListingCache,
	publisher EventPublisher,
	notifier Notifier,
	m *metrics.Manager,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:      repo,
		views:     views,
		cache:     cache,
		publisher: publisher,
		notifier:  notifier,
		metrics:   m,
		logger:    log.Named("ListingUsecase"),
	}
}

func validateInput(in ListingInput) error {
	if strings.TrimSpace(in.Brand) == "" || strings.TrimSpace(in.Model) == "" {
		return errors.New("brand and model are required")
	}
	if in.Year < domain.YearMinDefault || in.Year > domain.YearMaxDefault {
		return errors.New("year out of range")
	}
	if in.Price <= 0 {
		return errors.New("price must be positive")
	}
	if in.Mileage < 0 {
		return errors.New("mileage cannot be negative")
	}
	if strings.TrimSpace(in.FuelType) == "" {
		return errors.New("fuel type is required")
	}
	return nil
}

// CreateListing stores a new listing in pending status, awaiting
// moderation. Derived fields are computed here so the caller sees the
// same shape a fetch would return.
func (uc *ListingUsecase) CreateListing(ctx context.Context, sellerID string, in ListingInput) (*domain.Listing, error) {
	uc.logger.Info("Creating listing",
		zap.String("seller_id", sellerID),
		zap.String("brand", in.Brand),
		zap.String("model", in.Model))

	if sellerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateInput(in); err != nil {
		uc.logger.Warn("Listing input rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	now := time.Now().UTC()
	listing := &domain.Listing{
		SellerID:      sellerID,
		Brand:         strings.TrimSpace(in.Brand),
		Model:         strings.TrimSpace(in.Model),
		Year:          in.Year,
		Price:         in.Price,
		Mileage:       in.Mileage,
		FuelType:      in.FuelType,
		Transmission:  in.Transmission,
		EmissionNorm:  in.EmissionNorm,
		Location:      in.Location,
		Description:   in.Description,
		ContactEmail:  in.ContactEmail,
		Photos:        []string{},
		Status:        domain.StatusPending,
		ZFECompatible: domain.ZFECompatibleFrom(in.EmissionNorm, in.FuelType),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("Failed to create listing", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, err
	}

	uc.metrics.ListingsCreatedTotal.Inc()
	uc.publishEvent(ctx, SubjectListingCreated, listing.ID)
	return listing, nil
}

// UpdateListing applies an owner edit. Editing an approved listing sends
// it back through moderation.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, id, userID string, in ListingInput) (*domain.Listing, error) {
	uc.logger.Info("Updating listing", zap.String("listing_id", id), zap.String("user_id", userID))

	listing, err := uc.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		uc.logger.Warn("Listing input rejected", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	listing.Brand = strings.TrimSpace(in.Brand)
	listing.Model = strings.TrimSpace(in.Model)
	listing.Year = in.Year
	listing.Price = in.Price
	listing.Mileage = in.Mileage
	listing.FuelType = in.FuelType
	listing.Transmission = in.Transmission
	listing.EmissionNorm = in.EmissionNorm
	listing.Location = in.Location
	listing.Description = in.Description
	listing.ContactEmail = in.ContactEmail
	listing.ZFECompatible = domain.ZFECompatibleFrom(in.EmissionNorm, in.FuelType)
	if listing.Status == domain.StatusApproved {
		listing.Status = domain.StatusPending
	}
	listing.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("Failed to update listing", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	uc.invalidate(ctx, id)
	uc.publishEvent(ctx, SubjectListingUpdated, id)
	return listing, nil
}

// DeleteListing removes a listing. Only the owner may delete.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, id, userID string) error {
	uc.logger.Info("Deleting listing", zap.String("listing_id", id), zap.String("user_id", userID))

	if _, err := uc.findOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("Failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return err
	}

	uc.invalidate(ctx, id)
	uc.publishEvent(ctx, SubjectListingDeleted, id)
	return nil
}

// GetListing returns one listing, served from the cache when possible,
// and records a detail view for the seller dashboard.
func (uc *ListingUsecase) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	if cached, err := uc.cache.GetListing(ctx, id); err != nil {
		uc.logger.Warn("Cache read failed", zap.String("listing_id", id), zap.Error(err))
	} else if cached != nil {
		uc.recordView(ctx, id)
		return cached, nil
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("Cache write failed", zap.String("listing_id", id), zap.Error(err))
	}
	uc.recordView(ctx, id)
	return listing, nil
}

// Moderation transitions. Only pending listings can be approved or
// rejected; only approved listings can be marked sold by their owner.

// ApproveListing publishes a pending listing and notifies the seller.
func (uc *ListingUsecase) ApproveListing(ctx context.Context, id string) (*domain.Listing, error) {
	uc.logger.Info("Approving listing", zap.String("listing_id", id))

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.StatusPending {
		uc.logger.Warn("Approve refused",
			zap.String("listing_id", id),
			zap.String("status", string(listing.Status)))
		return nil, domain.ErrInvalidStatusTransition
	}

	listing.Status = domain.StatusApproved
	listing.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("Failed to approve listing", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	uc.invalidate(ctx, id)
	uc.publishEvent(ctx, SubjectListingUpdated, id)
	uc.notify(id, func() error {
		return uc.notifier.SendListingApproved(listing.ContactEmail, listing.Brand, listing.Model)
	})
	return listing, nil
}

// RejectListing declines a pending listing with a reason for the seller.
func (uc *ListingUsecase) RejectListing(ctx context.Context, id, reason string) (*domain.Listing, error) {
	uc.logger.Info("Rejecting listing", zap.String("listing_id", id), zap.String("reason", reason))

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.StatusPending {
		uc.logger.Warn("Reject refused",
			zap.String("listing_id", id),
			zap.String("status", string(listing.Status)))
		return nil, domain.ErrInvalidStatusTransition
	}

	listing.Status = domain.StatusRejected
	listing.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("Failed to reject listing", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	uc.invalidate(ctx, id)
	uc.publishEvent(ctx, SubjectListingUpdated, id)
	uc.notify(id, func() error {
		return uc.notifier.SendListingRejected(listing.ContactEmail, listing.Brand, listing.Model, reason)
	})
	return listing, nil
}

// MarkSold lets the owner close an approved listing.
func (uc *ListingUsecase) MarkSold(ctx context.Context, id, userID string) (*domain.Listing, error) {
	uc.logger.Info("Marking listing sold", zap.String("listing_id", id), zap.String("user_id", userID))

	listing, err := uc.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.StatusApproved {
		uc.logger.Warn("Mark sold refused",
			zap.String("listing_id", id),
			zap.String("status", string(listing.Status)))
		return nil, domain.ErrInvalidStatusTransition
	}

	listing.Status = domain.StatusSold
	listing.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("Failed to mark listing sold", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	uc.invalidate(ctx, id)
	uc.publishEvent(ctx, SubjectListingUpdated, id)
	return listing, nil
}

func (uc *ListingUsecase) findOwned(ctx context.Context, id, userID string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != userID {
		uc.logger.Warn("Ownership check failed",
			zap.String("listing_id", id),
			zap.String("owner_id", listing.SellerID),
			zap.String("user_id", userID))
		return nil, domain.ErrForbidden
	}
	return listing, nil
}

// publishEvent emits a change event carrying only the listing id. The
// payload stays minimal on purpose: consumers treat any event as a signal
// to refetch, never as data to merge.
func (uc *ListingUsecase) publishEvent(ctx context.Context, subject, listingID string) {
	payload := map[string]string{"listing_id": listingID}
	if err := uc.publisher.Publish(ctx, subject, payload); err != nil {
		uc.logger.Error("Failed to publish event",
			zap.String("subject", subject),
			zap.String("listing_id", listingID),
			zap.Error(err))
	}
}

func (uc *ListingUsecase) invalidate(ctx context.Context, id string) {
	if err := uc.cache.DeleteListing(ctx, id); err != nil {
		uc.logger.Warn("Cache invalidation failed", zap.String("listing_id", id), zap.Error(err))
	}
}

// recordView is best-effort; dashboard counters must never fail a read.
func (uc *ListingUsecase) recordView(ctx context.Context, id string) {
	if err := uc.views.Record(ctx, id, time.Now().UTC()); err != nil {
		uc.logger.Warn("Failed to record view", zap.String("listing_id", id), zap.Error(err))
	}
}

// notify sends an email off the request path.
func (uc *ListingUsecase) notify(listingID string, send func() error) {
	go func() {
		if err := send(); err != nil {
			uc.logger.Warn("Seller notification failed", zap.String("listing_id", listingID), zap.Error(err))
		}
	}()
}
