package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const compareKeyPrefix = "compare:"

// CompareStore implements domain.CompareStore on Redis. Each user's
// compare set is one JSON array of listing snapshots under a fixed key,
// capped at domain.CompareCapacity. Write-through, last writer wins.
type CompareStore struct {
	client *redis.Client
	logger *logger.Logger
}

// NewCompareStore creates the store on an established client.
func NewCompareStore(client *redis.Client, log *logger.Logger) *CompareStore {
	return &CompareStore{
		client: client,
		logger: log.Named("CompareStore"),
	}
}

func (s *CompareStore) key(userID string) string {
	return compareKeyPrefix + userID
}

func (s *CompareStore) load(ctx context.Context, userID string) ([]*domain.Listing, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return []*domain.Listing{}, nil
		}
		return nil, fmt.Errorf("failed to load compare set for user %s: %w", userID, err)
	}

	var snapshots []*domain.Listing
	if err := json.Unmarshal([]byte(val), &snapshots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal compare set for user %s: %w", userID, err)
	}
	return snapshots, nil
}

func (s *CompareStore) save(ctx context.Context, userID string, snapshots []*domain.Listing) error {
	data, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("failed to marshal compare set for user %s: %w", userID, err)
	}
	if err := s.client.Set(ctx, s.key(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save compare set for user %s: %w", userID, err)
	}
	return nil
}

// Add inserts a snapshot and reports whether the set changed. Adding a
// duplicate or adding when the set holds domain.CompareCapacity entries
// is a no-op, not an error.
func (s *CompareStore) Add(ctx context.Context, userID string, snapshot *domain.Listing) (bool, error) {
	if snapshot == nil || snapshot.ID == "" {
		return false, fmt.Errorf("%w: compare snapshot requires a listing id", domain.ErrInvalidInput)
	}

	snapshots, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, existing := range snapshots {
		if existing.ID == snapshot.ID {
			return false, nil
		}
	}
	if len(snapshots) >= domain.CompareCapacity {
		return false, nil
	}

	snapshots = append(snapshots, snapshot)
	if err := s.save(ctx, userID, snapshots); err != nil {
		return false, err
	}

	s.logger.Debug("Listing added to compare set",
		zap.String("user_id", userID),
		zap.String("listing_id", snapshot.ID),
		zap.Int("size", len(snapshots)))
	return true, nil
}

// Remove deletes a listing from the compare set. Removing an absent
// listing succeeds.
func (s *CompareStore) Remove(ctx context.Context, userID, listingID string) error {
	snapshots, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	next := make([]*domain.Listing, 0, len(snapshots))
	for _, existing := range snapshots {
		if existing.ID == listingID {
			continue
		}
		next = append(next, existing)
	}
	if len(next) == len(snapshots) {
		return nil
	}
	return s.save(ctx, userID, next)
}

// Members returns the user's compare snapshots in insertion order.
func (s *CompareStore) Members(ctx context.Context, userID string) ([]*domain.Listing, error) {
	return s.load(ctx, userID)
}

// Count returns the compare set cardinality.
func (s *CompareStore) Count(ctx context.Context, userID string) (int, error) {
	snapshots, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(snapshots), nil
}
