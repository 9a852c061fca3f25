package repositories

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"sira/internal/models"
)

func setupCache(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestPendingStorePutTake(t *testing.T) {
	cache, _ := setupCache(t)
	store := NewPendingRegistrationStore(cache)
	ctx := context.Background()

	reg := &models.PendingRegistration{
		Phone:     "+251912345678",
		FullName:  "Abebe Bikila",
		Username:  "abebe",
		CreatedAt: time.Now(),
	}
	if err := store.Put(ctx, reg, 30*time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Take(ctx, "+251912345678")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got == nil || got.FullName != "Abebe Bikila" || got.Username != "abebe" {
		t.Fatalf("unexpected registration: %+v", got)
	}

	// take consumes the record
	again, err := store.Take(ctx, "+251912345678")
	if err != nil {
		t.Fatalf("second take: %v", err)
	}
	if again != nil {
		t.Fatalf("expected nil on second take, got %+v", again)
	}
}

func TestPendingStoreExpiry(t *testing.T) {
	cache, mr := setupCache(t)
	store := NewPendingRegistrationStore(cache)
	ctx := context.Background()

	reg := &models.PendingRegistration{Phone: "+251912345678", FullName: "A", CreatedAt: time.Now()}
	if err := store.Put(ctx, reg, 30*time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(31 * time.Minute)

	got, err := store.Take(ctx, "+251912345678")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired registration to be gone, got %+v", got)
	}
}

func TestPendingStoreMissingPhone(t *testing.T) {
	cache, _ := setupCache(t)
	store := NewPendingRegistrationStore(cache)

	got, err := store.Take(context.Background(), "+251999999999")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown phone")
	}
}
