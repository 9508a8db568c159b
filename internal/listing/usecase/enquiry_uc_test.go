package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/carmarket/listing-service/internal/platform/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEnquiryUC(t *testing.T) (*EnquiryUsecase, *MockEnquiryRepository, *MockListingRepository, *MockPublisher, *fakeNotifier) {
	t.Helper()
	enquiries := new(MockEnquiryRepository)
	listings := new(MockListingRepository)
	publisher := new(MockPublisher)
	notifier := &fakeNotifier{}
	uc := NewEnquiryUsecase(enquiries, listings, publisher, notifier,
		metrics.NewManager("test_enquiry_uc"), logger.NewLogger())
	return uc, enquiries, listings, publisher, notifier
}

func TestCreateEnquiry(t *testing.T) {
	uc, enquiries, listings, publisher, notifier := newEnquiryUC(t)
	ctx := context.Background()

	listing := &domain.Listing{
		ID: "l1", SellerID: "seller-1", Brand: "Peugeot", Model: "308",
		Status: domain.StatusApproved, ContactEmail: "seller@example.com",
	}
	listings.On("FindByID", ctx, "l1").Return(listing, nil)
	enquiries.On("Create", ctx, mock.AnythingOfType("*domain.Enquiry")).Return(nil)
	publisher.On("Publish", ctx, SubjectListingEnquiry, mock.Anything).Return(nil)

	enquiry, err := uc.CreateEnquiry(ctx, "l1", "buyer-1", "Toujours disponible ?")
	require.NoError(t, err)
	assert.Equal(t, "seller-1", enquiry.SellerID)
	assert.Equal(t, "buyer-1", enquiry.BuyerID)

	assert.Eventually(t, func() bool {
		return notifier.enquiredCount() == 1
	}, time.Second, 10*time.Millisecond, "enquiry must be forwarded to the seller")
}

func TestCreateEnquiryRefusedForPendingListing(t *testing.T) {
	uc, enquiries, listings, _, _ := newEnquiryUC(t)
	ctx := context.Background()

	listings.On("FindByID", ctx, "l1").Return(&domain.Listing{ID: "l1", Status: domain.StatusPending}, nil)

	_, err := uc.CreateEnquiry(ctx, "l1", "buyer-1", "hello")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	enquiries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateEnquiryOwnListingRefused(t *testing.T) {
	uc, _, listings, _, _ := newEnquiryUC(t)
	ctx := context.Background()

	listing := &domain.Listing{ID: "l1", SellerID: "seller-1", Status: domain.StatusApproved}
	listings.On("FindByID", ctx, "l1").Return(listing, nil)

	_, err := uc.CreateEnquiry(ctx, "l1", "seller-1", "is it nice?")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateEnquiryEmptyMessageRefused(t *testing.T) {
	uc, _, listings, _, _ := newEnquiryUC(t)
	ctx := context.Background()

	listing := &domain.Listing{ID: "l1", SellerID: "seller-1", Status: domain.StatusApproved}
	listings.On("FindByID", ctx, "l1").Return(listing, nil)

	_, err := uc.CreateEnquiry(ctx, "l1", "buyer-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListForSeller(t *testing.T) {
	uc, enquiries, _, _, _ := newEnquiryUC(t)
	ctx := context.Background()

	expected := []*domain.Enquiry{{ID: "e1"}, {ID: "e2"}}
	enquiries.On("FindBySellerID", ctx, "seller-1").Return(expected, nil)

	got, err := uc.ListForSeller(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}
