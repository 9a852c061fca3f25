package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const cooldownKeyPrefix = "cooldown:send:"

// ResendLimiter throttles how often a verification code can be requested per
// phone. A pure UX throttle at the transport edge; the issuer itself never
// refuses a send.
type ResendLimiter struct {
	cache    *redis.Client
	cooldown time.Duration
}

func NewResendLimiter(cache *redis.Client, cooldown time.Duration) *ResendLimiter {
	if cooldown <= 0 {
		cooldown = 60 * time.Second
	}
	return &ResendLimiter{cache: cache, cooldown: cooldown}
}

// Allow reports whether a send for phone is currently permitted. Fail-open:
// a missing client or cache error never blocks the user. SET NX EX writes
// the key and its TTL in one command, so a crash can never leave a
// cooldown key without expiry.
func (l *ResendLimiter) Allow(ctx context.Context, phone string) bool {
	if l == nil || l.cache == nil {
		return true
	}
	key := cooldownKeyPrefix + phone
	ok, err := l.cache.SetNX(ctx, key, 1, l.cooldown).Result()
	if err != nil {
		return true
	}
	return ok
}
