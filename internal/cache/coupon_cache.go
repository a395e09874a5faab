package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
)

const couponKeyFmt = "coupon:name:%s"

var TTLCoupon = 5 * time.Minute

func NewRedisClient(addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}

// CouponCache is a read-through cache for coupon-by-name lookups, the one
// unauthenticated hot path (applied at checkout). A nil *CouponCache is a
// no-op so the service runs without redis configured.
type CouponCache struct {
	rdb *redis.Client
	log *logrus.Logger
}

func NewCouponCache(rdb *redis.Client, logger *logrus.Logger) *CouponCache {
	if rdb == nil {
		return nil
	}
	return &CouponCache{rdb: rdb, log: logger}
}

func (c *CouponCache) Get(ctx context.Context, name string) (*domain.Coupon, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, fmt.Sprintf(couponKeyFmt, name)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("CouponCache: get %s failed: %v", name, err)
		}
		return nil, false
	}
	var coupon domain.Coupon
	if err := json.Unmarshal(raw, &coupon); err != nil {
		c.log.Warnf("CouponCache: corrupt entry for %s: %v", name, err)
		return nil, false
	}
	return &coupon, true
}

func (c *CouponCache) Set(ctx context.Context, coupon *domain.Coupon) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(coupon)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, fmt.Sprintf(couponKeyFmt, coupon.Name), raw, TTLCoupon).Err(); err != nil {
		c.log.Warnf("CouponCache: set %s failed: %v", coupon.Name, err)
	}
}

func (c *CouponCache) Invalidate(ctx context.Context, name string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, fmt.Sprintf(couponKeyFmt, name)).Err(); err != nil {
		c.log.Warnf("CouponCache: invalidate %s failed: %v", name, err)
	}
}
