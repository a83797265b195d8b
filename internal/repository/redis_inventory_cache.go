package repository

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/pkg/redis"
)

const inventoryKeyPrefix = "inventory:event:"

// claimTicketScript atomically decrements the cached ticket count, never
// going below zero. Returns the remaining count on success, -1 when the key
// is missing and -2 when sold out.
const claimTicketScript = `
local available = redis.call('GET', KEYS[1])
if not available then
	return -1
end
available = tonumber(available)
if available <= 0 then
	return -2
end
return redis.call('DECR', KEYS[1])
`

const claimTicketScriptName = "claim_ticket"

// RedisInventoryCache implements InventoryCache on Redis. The cached count
// shields Postgres from booking-rush read traffic; the database row remains
// the source of truth.
type RedisInventoryCache struct {
	client *redis.Client
}

// NewRedisInventoryCache creates a new RedisInventoryCache
func NewRedisInventoryCache(client *redis.Client) *RedisInventoryCache {
	return &RedisInventoryCache{client: client}
}

func inventoryKey(eventID string) string {
	return inventoryKeyPrefix + eventID
}

// Seed initializes the cached count for an event
func (c *RedisInventoryCache) Seed(ctx context.Context, eventID string, available int) error {
	return c.client.Set(ctx, inventoryKey(eventID), available, 0).Err()
}

// Claim atomically claims one ticket from the cache
func (c *RedisInventoryCache) Claim(ctx context.Context, eventID string) (int, error) {
	result, err := c.client.EvalWithFallback(ctx, claimTicketScriptName, claimTicketScript,
		[]string{inventoryKey(eventID)}).Int()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	switch {
	case result == -1:
		return 0, domain.ErrEventNotFound
	case result == -2:
		return 0, domain.ErrInsufficientTickets
	default:
		return result, nil
	}
}

// Release returns one ticket to the cache (booking rollback)
func (c *RedisInventoryCache) Release(ctx context.Context, eventID string) error {
	return c.client.Client().Incr(ctx, inventoryKey(eventID)).Err()
}

// Get returns the cached count, with found=false on cache miss
func (c *RedisInventoryCache) Get(ctx context.Context, eventID string) (int, bool, error) {
	available, err := c.client.Get(ctx, inventoryKey(eventID)).Int()
	if err != nil {
		if err == goredis.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}
	return available, true, nil
}

// SeedAll warms the cache for a batch of events using a pipeline
func (c *RedisInventoryCache) SeedAll(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, ev := range events {
		pipe.Set(ctx, inventoryKey(ev.ID), ev.TicketsAvailable, 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}
