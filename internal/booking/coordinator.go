package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/pkg/logger"
	"github.com/imcoolthanyou/Event-Hive/pkg/retry"
)

// TicketStore performs the atomic check-then-decrement on durable storage
type TicketStore interface {
	DecrementTickets(ctx context.Context, eventID string) (remaining int, err error)
}

// InventoryCache mirrors ticket counts so booking-rush traffic is absorbed
// by the cache instead of the store. The store row stays authoritative.
type InventoryCache interface {
	Seed(ctx context.Context, eventID string, available int) error
	Claim(ctx context.Context, eventID string) (remaining int, err error)
	Release(ctx context.Context, eventID string) error
	Get(ctx context.Context, eventID string) (available int, found bool, err error)
}

// Coordinator books tickets. The store's guarded decrement keeps the count
// non-negative under contention; transaction conflicts are retried a
// bounded number of times, every other failure surfaces immediately.
type Coordinator struct {
	store   TicketStore
	cache   InventoryCache
	retrier *retry.Retrier
	log     *logger.Logger
}

// RetryConfig returns the bounded backoff used for booking conflicts
func RetryConfig() *retry.Config {
	return &retry.Config{
		MaxRetries:      3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// NewCoordinator creates a Coordinator. The cache may be nil.
func NewCoordinator(store TicketStore, cache InventoryCache) *Coordinator {
	return &Coordinator{
		store:   store,
		cache:   cache,
		retrier: retry.New(RetryConfig()),
		log:     logger.Get(),
	}
}

// Book claims one ticket for the event. Returns the remaining count on
// success. Sold-out and missing events fail without retry. A seeded cache
// rejects sold-out bookings before the store is touched.
func (c *Coordinator) Book(ctx context.Context, eventID string) (int, error) {
	claimed, err := c.claimCached(ctx, eventID)
	if err != nil {
		return 0, err
	}

	var remaining int

	op := func(ctx context.Context) error {
		rem, err := c.store.DecrementTickets(ctx, eventID)
		if err == nil {
			remaining = rem
			return nil
		}
		if errors.Is(err, domain.ErrTransactionConflict) {
			return err
		}
		return retry.Permanent(err)
	}

	result := c.retrier.DoWithCallback(ctx, op, func(attempt int, err error, next time.Duration) {
		c.log.Warn("booking conflict, retrying",
			zap.String("event_id", eventID),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", next),
		)
	})

	if result.Err != nil {
		err := result.Err
		if errors.Is(err, retry.ErrMaxRetriesExceeded) && result.LastError != nil {
			err = result.LastError
		}
		if claimed {
			c.releaseCached(ctx, eventID)
		}
		return 0, err
	}

	c.syncCache(ctx, eventID, remaining)
	return remaining, nil
}

// CachedAvailability returns the cached ticket count when one is seeded
func (c *Coordinator) CachedAvailability(ctx context.Context, eventID string) (int, bool) {
	if c.cache == nil {
		return 0, false
	}
	available, found, err := c.cache.Get(ctx, eventID)
	if err != nil || !found {
		return 0, false
	}
	return available, true
}

// claimCached takes one ticket from the cache ahead of the store decrement.
// A sold-out cache rejects the booking without a store round trip; a cache
// miss or failure falls through to the store unclaimed.
func (c *Coordinator) claimCached(ctx context.Context, eventID string) (bool, error) {
	if c.cache == nil {
		return false, nil
	}
	_, err := c.cache.Claim(ctx, eventID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrInsufficientTickets):
		return false, domain.ErrInsufficientTickets
	case errors.Is(err, domain.ErrEventNotFound):
		// Not seeded, the store decides
		return false, nil
	default:
		c.log.Warn("inventory cache claim failed, falling back to store",
			zap.String("event_id", eventID), zap.Error(err))
		return false, nil
	}
}

// releaseCached returns a claimed ticket after a store failure. Best effort;
// the next successful booking reseeds the count from the store anyway.
func (c *Coordinator) releaseCached(ctx context.Context, eventID string) {
	if err := c.cache.Release(ctx, eventID); err != nil {
		c.log.Warn("inventory cache release failed",
			zap.String("event_id", eventID), zap.Error(err))
	}
}

// syncCache refreshes the cached count. A cache failure never fails the
// booking.
func (c *Coordinator) syncCache(ctx context.Context, eventID string, remaining int) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Seed(ctx, eventID, remaining); err != nil {
		c.log.Warn("inventory cache sync failed",
			zap.String("event_id", eventID), zap.Error(err))
	}
}
