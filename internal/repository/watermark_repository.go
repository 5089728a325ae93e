package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/identity-service/internal/domain"
)

// RotationWatermarkStore records the instant of the latest refresh rotation
// per account. Refresh tokens issued before the watermark are rejected when
// the feature is enabled; the entry expires with the refresh TTL so the
// store never outlives the tokens it fences.
type RotationWatermarkStore interface {
	Touch(ctx context.Context, role domain.RoleTag, accountID string, rotatedAt time.Time, ttl time.Duration) error
	LastRotation(ctx context.Context, role domain.RoleTag, accountID string) (time.Time, bool, error)
}

type redisWatermarkStore struct {
	client *redis.Client
}

// NewRedisWatermarkStore returns a Redis-backed watermark store.
func NewRedisWatermarkStore(client *redis.Client) RotationWatermarkStore {
	return &redisWatermarkStore{client: client}
}

func watermarkKey(role domain.RoleTag, accountID string) string {
	return fmt.Sprintf("auth:rotation:%s:%s", role, accountID)
}

func (s *redisWatermarkStore) Touch(ctx context.Context, role domain.RoleTag, accountID string, rotatedAt time.Time, ttl time.Duration) error {
	return s.client.Set(ctx, watermarkKey(role, accountID), rotatedAt.UnixNano(), ttl).Err()
}

func (s *redisWatermarkStore) LastRotation(ctx context.Context, role domain.RoleTag, accountID string) (time.Time, bool, error) {
	val, err := s.client.Get(ctx, watermarkKey(role, accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	nanos, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse rotation watermark: %w", err)
	}
	return time.Unix(0, nanos), true, nil
}

// MemoryWatermarkStore is a map-backed watermark store for tests.
type MemoryWatermarkStore struct {
	mu    sync.RWMutex
	marks map[string]time.Time
}

// NewMemoryWatermarkStore builds an empty in-memory watermark store.
func NewMemoryWatermarkStore() *MemoryWatermarkStore {
	return &MemoryWatermarkStore{marks: make(map[string]time.Time)}
}

func (s *MemoryWatermarkStore) Touch(_ context.Context, role domain.RoleTag, accountID string, rotatedAt time.Time, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[watermarkKey(role, accountID)] = rotatedAt
	return nil
}

func (s *MemoryWatermarkStore) LastRotation(_ context.Context, role domain.RoleTag, accountID string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mark, ok := s.marks[watermarkKey(role, accountID)]
	return mark, ok, nil
}
