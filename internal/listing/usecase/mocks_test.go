package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/stretchr/testify/mock"
)

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepository) FindApproved(ctx context.Context, offset, limit int) ([]*domain.Listing, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Listing), args.Get(1).(int64), args.Error(2)
}
func (m *MockListingRepository) FindBySellerID(ctx context.Context, sellerID string) ([]*domain.Listing, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}

type MockViewRepository struct{ mock.Mock }

func (m *MockViewRepository) Record(ctx context.Context, listingID string, viewedAt time.Time) error {
	args := m.Called(ctx, listingID, viewedAt)
	return args.Error(0)
}
func (m *MockViewRepository) CountSince(ctx context.Context, listingIDs []string, since time.Time) (map[string]int64, error) {
	args := m.Called(ctx, listingIDs, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockFavoriteStore struct{ mock.Mock }

func (m *MockFavoriteStore) Toggle(ctx context.Context, userID, listingID string) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}
func (m *MockFavoriteStore) IsMember(ctx context.Context, userID, listingID string) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}
func (m *MockFavoriteStore) Members(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockFavoriteStore) ListingCount(ctx context.Context, listingID string) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCompareStore struct{ mock.Mock }

func (m *MockCompareStore) Add(ctx context.Context, userID string, snapshot *domain.Listing) (bool, error) {
	args := m.Called(ctx, userID, snapshot)
	return args.Bool(0), args.Error(1)
}
func (m *MockCompareStore) Remove(ctx context.Context, userID, listingID string) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockCompareStore) Members(ctx context.Context, userID string) ([]*domain.Listing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}
func (m *MockCompareStore) Count(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockEnquiryRepository struct{ mock.Mock }

func (m *MockEnquiryRepository) Create(ctx context.Context, enquiry *domain.Enquiry) error {
	args := m.Called(ctx, enquiry)
	return args.Error(0)
}
func (m *MockEnquiryRepository) FindBySellerID(ctx context.Context, sellerID string) ([]*domain.Enquiry, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Enquiry), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockCache) DeleteListing(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.Error(1)
}

// fakeNotifier records sent notifications behind a mutex, since the
// usecases send off the request goroutine.
type fakeNotifier struct {
	mu       sync.Mutex
	approved []string
	rejected []string
	enquired []string
}

func (n *fakeNotifier) SendListingApproved(toEmail, brand, model string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approved = append(n.approved, toEmail)
	return nil
}

func (n *fakeNotifier) SendListingRejected(toEmail, brand, model, reason string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected = append(n.rejected, toEmail)
	return nil
}

func (n *fakeNotifier) SendEnquiryReceived(toEmail, brand, model, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enquired = append(n.enquired, toEmail)
	return nil
}

func (n *fakeNotifier) approvedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.approved)
}

func (n *fakeNotifier) rejectedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.rejected)
}

func (n *fakeNotifier) enquiredCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.enquired)
}
