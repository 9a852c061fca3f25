package repositories

import (
	"context"
	"testing"
	"time"
)

func TestResendLimiterCooldown(t *testing.T) {
	cache, mr := setupCache(t)
	limiter := NewResendLimiter(cache, time.Minute)
	ctx := context.Background()

	if !limiter.Allow(ctx, "+251912345678") {
		t.Fatalf("first send should be allowed")
	}
	if limiter.Allow(ctx, "+251912345678") {
		t.Fatalf("second send inside the cooldown should be blocked")
	}

	// a different phone is unaffected
	if !limiter.Allow(ctx, "+251911111111") {
		t.Fatalf("other phone should be allowed")
	}

	mr.FastForward(61 * time.Second)
	if !limiter.Allow(ctx, "+251912345678") {
		t.Fatalf("send after cooldown should be allowed")
	}
}

func TestResendLimiterKeyAlwaysCarriesTTL(t *testing.T) {
	cache, mr := setupCache(t)
	limiter := NewResendLimiter(cache, time.Minute)

	limiter.Allow(context.Background(), "+251912345678")

	// the key and its expiry are written atomically; a key with no TTL
	// would block the phone forever
	key := cooldownKeyPrefix + "+251912345678"
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected cooldown key with a bounded TTL, got %s", ttl)
	}
}

func TestResendLimiterFailsOpen(t *testing.T) {
	limiter := NewResendLimiter(nil, time.Minute)
	if !limiter.Allow(context.Background(), "+251912345678") {
		t.Fatalf("limiter without a cache should fail open")
	}
}

func TestResendLimiterFailsOpenOnCacheError(t *testing.T) {
	cache, mr := setupCache(t)
	limiter := NewResendLimiter(cache, time.Minute)
	mr.Close()

	if !limiter.Allow(context.Background(), "+251912345678") {
		t.Fatalf("limiter should fail open when the cache is down")
	}
}
