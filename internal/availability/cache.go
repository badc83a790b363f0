package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

const defaultCacheTTL = 2 * time.Minute

// CachedChecker is a read-through Redis cache in front of another Checker.
// Each date is one hash keyed by therapy id.
type CachedChecker struct {
	inner  Checker
	redis  redis.Cmdable
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedChecker wraps inner with a Redis cache.
func NewCachedChecker(inner Checker, client redis.Cmdable, ttl time.Duration, logger *logging.Logger) *CachedChecker {
	if inner == nil {
		panic("availability: inner checker required")
	}
	if client == nil {
		panic("availability: redis client required")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedChecker{inner: inner, redis: client, ttl: ttl, logger: logger}
}

func (c *CachedChecker) key(date string) string {
	return fmt.Sprintf("availability:%s", date)
}

// Check serves from cache when possible. Cache failures fall through to the
// inner checker.
func (c *CachedChecker) Check(ctx context.Context, therapyID, date string) ([]string, error) {
	data, err := c.redis.HGet(ctx, c.key(date), therapyID).Bytes()
	switch {
	case err == nil:
		var slots []string
		if jsonErr := json.Unmarshal(data, &slots); jsonErr == nil {
			if slots == nil {
				slots = []string{}
			}
			return slots, nil
		}
		c.logger.Warn("availability cache entry corrupt", "date", date, "therapy_id", therapyID)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("availability cache read failed", "date", date, "error", err)
	}

	slots, err := c.inner.Check(ctx, therapyID, date)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(slots)
	if err != nil {
		return slots, nil
	}
	_, err = c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, c.key(date), therapyID, payload)
		pipe.Expire(ctx, c.key(date), c.ttl)
		return nil
	})
	if err != nil {
		c.logger.Warn("availability cache write failed", "date", date, "error", err)
	}
	return slots, nil
}

// Invalidate drops every cached therapy answer for date.
func (c *CachedChecker) Invalidate(ctx context.Context, date string) error {
	if err := c.redis.Del(ctx, c.key(date)).Err(); err != nil {
		return fmt.Errorf("availability: invalidate %s: %w", date, err)
	}
	return nil
}
