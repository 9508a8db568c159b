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

func TestCompareAddStoresSnapshot(t *testing.T) {
	store := new(MockCompareStore)
	repo := new(MockListingRepository)
	uc := NewCompareUsecase(store, repo, logger.NewLogger())
	ctx := context.Background()

	listing := &domain.Listing{ID: "l1", Brand: "Peugeot"}
	repo.On("FindByID", ctx, "l1").Return(listing, nil)
	store.On("Add", ctx, "u1", listing).Return(true, nil)

	added, err := uc.Add(ctx, "u1", "l1")
	require.NoError(t, err)
	assert.True(t, added)
	store.AssertExpectations(t)
}

func TestCompareAddAtCapacityIsNoOp(t *testing.T) {
	store := new(MockCompareStore)
	repo := new(MockListingRepository)
	uc := NewCompareUsecase(store, repo, logger.NewLogger())
	ctx := context.Background()

	listing := &domain.Listing{ID: "l4"}
	repo.On("FindByID", ctx, "l4").Return(listing, nil)
	store.On("Add", ctx, "u1", listing).Return(false, nil)

	added, err := uc.Add(ctx, "u1", "l4")
	require.NoError(t, err, "a full set refuses quietly, it does not fail")
	assert.False(t, added)
}

func TestCompareAddUnknownListing(t *testing.T) {
	store := new(MockCompareStore)
	repo := new(MockListingRepository)
	uc := NewCompareUsecase(store, repo, logger.NewLogger())
	ctx := context.Background()

	repo.On("FindByID", ctx, "missing").Return(nil, domain.ErrListingNotFound)

	_, err := uc.Add(ctx, "u1", "missing")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompareRemoveAbsentIsFine(t *testing.T) {
	store := new(MockCompareStore)
	repo := new(MockListingRepository)
	uc := NewCompareUsecase(store, repo, logger.NewLogger())
	ctx := context.Background()

	store.On("Remove", ctx, "u1", "never-added").Return(nil)
	assert.NoError(t, uc.Remove(ctx, "u1", "never-added"))
}

func TestCompareList(t *testing.T) {
	store := new(MockCompareStore)
	repo := new(MockListingRepository)
	uc := NewCompareUsecase(store, repo, logger.NewLogger())
	ctx := context.Background()

	snapshots := []*domain.Listing{{ID: "l1"}, {ID: "l2"}}
	store.On("Members", ctx, "u1").Return(snapshots, nil)

	listings, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, snapshots, listings)
}
