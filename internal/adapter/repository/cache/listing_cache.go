package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/platform/logger"
)

const (
	listingKeyPrefix = "listing:"
	listingTTL       = time.Hour
)

// ListingCache stores listing snapshots in Redis keyed by listing id. A miss
// is reported as (nil, nil) so callers fall through to the backend.
type ListingCache struct {
	client *redis.Client
	log    *logger.Logger
}

func NewListingCache(client *redis.Client, log *logger.Logger) *ListingCache {
	return &ListingCache{client: client, log: log}
}

func (c *ListingCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	raw, err := c.client.Get(ctx, listingKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", id, err)
	}
	var listing domain.Listing
	if err := json.Unmarshal(raw, &listing); err != nil {
		// A corrupt entry behaves like a miss after eviction.
		c.log.Warn("ListingCache: dropping undecodable entry", "listing_id", id, "error", err.Error())
		c.client.Del(ctx, listingKeyPrefix+id)
		return nil, nil
	}
	return &listing, nil
}

func (c *ListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	raw, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", listing.ID, err)
	}
	if err := c.client.Set(ctx, listingKeyPrefix+listing.ID, raw, listingTTL).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", listing.ID, err)
	}
	return nil
}

// DeleteListing drops the cached snapshot after a mutation.
func (c *ListingCache) DeleteListing(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, listingKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("cache delete %q: %w", id, err)
	}
	return nil
}
