package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TotalsCache keeps computed daily totals in redis so repeated dashboard reads
// do not re-aggregate a plan. Every meal mutation invalidates the plan's entry.
// All methods are safe to call with a nil cache or nil client; reads then miss
// and writes are dropped.
type TotalsCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewTotalsCache creates a new TotalsCache instance.
func NewTotalsCache(client *redis.Client, ttl time.Duration) *TotalsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TotalsCache{redis: client, ttl: ttl}
}

func totalsKey(planID uuid.UUID) string {
	return fmt.Sprintf("plan:totals:%s", planID)
}

// Get returns the cached totals for a plan, if present.
func (c *TotalsCache) Get(ctx context.Context, planID uuid.UUID) (*DailyTotals, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, totalsKey(planID)).Bytes()
	if err != nil {
		return nil, false
	}
	var totals DailyTotals
	if err := json.Unmarshal(data, &totals); err != nil {
		return nil, false
	}
	return &totals, true
}

// Set stores the totals for a plan.
func (c *TotalsCache) Set(ctx context.Context, planID uuid.UUID, totals *DailyTotals) {
	if c == nil || c.redis == nil {
		return
	}
	data, err := json.Marshal(totals)
	if err != nil {
		return
	}
	// Best effort: a failed cache write only costs a recomputation.
	c.redis.Set(ctx, totalsKey(planID), data, c.ttl)
}

// Invalidate drops the cached totals for a plan.
func (c *TotalsCache) Invalidate(ctx context.Context, planID uuid.UUID) {
	if c == nil || c.redis == nil {
		return
	}
	c.redis.Del(ctx, totalsKey(planID))
}
