package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	favoritesKeyPrefix     = "favorites:"
	favoriteCountKeyPrefix = "favcount:"
)

// FavoriteStore implements domain.FavoriteStore on Redis. Each user's set
// is one JSON array under a fixed key; every mutation is written through
// immediately. Multiple sessions of the same user race on the key with
// last-writer-wins semantics, there is no locking.
type FavoriteStore struct {
	client *redis.Client
	logger *logger.Logger
}

// NewFavoriteStore creates the store on an established client.
func NewFavoriteStore(client *redis.Client, log *logger.Logger) *FavoriteStore {
	return &FavoriteStore{
		client: client,
		logger: log.Named("FavoriteStore"),
	}
}

func (s *FavoriteStore) key(userID string) string {
	return favoritesKeyPrefix + userID
}

func (s *FavoriteStore) load(ctx context.Context, userID string) ([]string, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to load favorites for user %s: %w", userID, err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(val), &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal favorites for user %s: %w", userID, err)
	}
	return ids, nil
}

func (s *FavoriteStore) save(ctx context.Context, userID string, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal favorites for user %s: %w", userID, err)
	}
	if err := s.client.Set(ctx, s.key(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save favorites for user %s: %w", userID, err)
	}
	return nil
}

// Toggle flips membership of the listing in the user's favorites and
// reports the resulting state. The write happens before the per-listing
// counter is adjusted, so a failed write leaves both untouched.
func (s *FavoriteStore) Toggle(ctx context.Context, userID, listingID string) (bool, error) {
	ids, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}

	favorited := true
	next := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		if id == listingID {
			favorited = false
			continue
		}
		next = append(next, id)
	}
	if favorited {
		next = append(next, listingID)
	}

	if err := s.save(ctx, userID, next); err != nil {
		return false, err
	}

	counterKey := favoriteCountKeyPrefix + listingID
	if favorited {
		err = s.client.Incr(ctx, counterKey).Err()
	} else {
		err = s.client.Decr(ctx, counterKey).Err()
	}
	if err != nil {
		// The set is already persisted; the counter is display-only.
		s.logger.Warn("Failed to adjust favorite counter",
			zap.String("listing_id", listingID), zap.Error(err))
	}

	s.logger.Debug("Favorite toggled",
		zap.String("user_id", userID),
		zap.String("listing_id", listingID),
		zap.Bool("favorited", favorited))
	return favorited, nil
}

// IsMember reports whether the listing is in the user's favorites.
func (s *FavoriteStore) IsMember(ctx context.Context, userID, listingID string) (bool, error) {
	ids, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == listingID {
			return true, nil
		}
	}
	return false, nil
}

// Members returns the user's favorite listing ids in insertion order.
func (s *FavoriteStore) Members(ctx context.Context, userID string) ([]string, error) {
	return s.load(ctx, userID)
}

// ListingCount reports how many users currently favorite a listing.
func (s *FavoriteStore) ListingCount(ctx context.Context, listingID string) (int64, error) {
	val, err := s.client.Get(ctx, favoriteCountKeyPrefix+listingID).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read favorite counter for listing %s: %w", listingID, err)
	}
	if val < 0 {
		val = 0
	}
	return val, nil
}
