package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sira/internal/models"
)

const pendingKeyPrefix = "pendingreg:"

// PendingStore holds registration details between "code sent" and "code
// verified" for phones that don't have a profile yet.
type PendingStore interface {
	Put(ctx context.Context, reg *models.PendingRegistration, ttl time.Duration) error
	// Take reads and deletes the record in one go; nil when absent or expired.
	Take(ctx context.Context, phone string) (*models.PendingRegistration, error)
}

type pendingRegistrationStore struct {
	cache *redis.Client
}

func NewPendingRegistrationStore(cache *redis.Client) PendingStore {
	return &pendingRegistrationStore{cache: cache}
}

// Put overwrites any previous record for the same phone; a resend simply
// refreshes the details and the TTL.
func (s *pendingRegistrationStore) Put(ctx context.Context, reg *models.PendingRegistration, ttl time.Duration) error {
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	b, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("encode pending registration: %w", err)
	}
	if err := s.cache.Set(ctx, pendingKeyPrefix+reg.Phone, b, ttl).Err(); err != nil {
		return fmt.Errorf("store pending registration: %w", err)
	}
	return nil
}

func (s *pendingRegistrationStore) Take(ctx context.Context, phone string) (*models.PendingRegistration, error) {
	key := pendingKeyPrefix + phone
	b, err := s.cache.GetDel(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("take pending registration: %w", err)
	}
	var reg models.PendingRegistration
	if err := json.Unmarshal(b, &reg); err != nil {
		return nil, fmt.Errorf("decode pending registration: %w", err)
	}
	return &reg, nil
}
