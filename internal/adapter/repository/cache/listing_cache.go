package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/redis/go-redis/v9"
)

const listingKeyPrefix = "listing:"

// ListingCache is a read-through Redis cache for listings by id. Cached
// entries carry the mapped domain shape, derived fields included, and are
// invalidated on every write to the listing.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates the cache on an established client.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

// GetListing returns the cached listing or (nil, nil) on a miss.
func (c *ListingCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, listingKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// SetListing stores the listing under its id for the configured TTL.
func (c *ListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKeyPrefix+listing.ID, data, c.ttl).Err()
}

// DeleteListing drops the cached entry for the id.
func (c *ListingCache) DeleteListing(ctx context.Context, id string) error {
	return c.client.Del(ctx, listingKeyPrefix+id).Err()
}
