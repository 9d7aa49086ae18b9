// Package cache provides the Redis mirror of the last good price snapshot.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"papertrade_backend/internal/feature/market/domain/entity"
	"papertrade_backend/internal/feature/market/usecase"
)

// SnapshotMirror keeps a copy of the last successful price snapshot in Redis
// so that a restarted server can serve prices while the provider is down.
// A nil client turns every operation into a no-op.
type SnapshotMirror struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SnapshotMirror = (*SnapshotMirror)(nil)

// NewSnapshotMirror creates a mirror. If ttl is 0, it defaults to 24 hours.
// If namespace is empty, it uses "papertrade".
func NewSnapshotMirror(rdb *redis.Client, ttl time.Duration, namespace string) *SnapshotMirror {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if namespace == "" {
		namespace = "papertrade"
	}
	return &SnapshotMirror{rdb: rdb, ttl: ttl, namespace: namespace}
}

// Save overwrites the mirrored snapshot.
func (m *SnapshotMirror) Save(ctx context.Context, snap entity.CachedSnapshot) error {
	if m.rdb == nil {
		return nil
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return m.rdb.Set(ctx, m.key(), b, m.ttl).Err()
}

// Load returns the mirrored snapshot, or nil when nothing usable is stored.
func (m *SnapshotMirror) Load(ctx context.Context) (*entity.CachedSnapshot, error) {
	if m.rdb == nil {
		return nil, nil
	}
	b, err := m.rdb.Get(ctx, m.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap entity.CachedSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		// Delete corrupted cache entry
		_ = m.rdb.Del(ctx, m.key()).Err()
		return nil, nil
	}
	return &snap, nil
}

func (m *SnapshotMirror) key() string {
	return safe(m.namespace) + ":snapshot"
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
