// Package cache persists the single offline snapshot slot. The slot is
// overwritten wholesale on every save and never merged, so a loaded snapshot
// is always self-consistent.
package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/civicpulse/civicpulse-api/models"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet
var ErrNoSnapshot = errors.New("no snapshot stored")

// snapshotKey is the fixed static key the one cache entry lives under
const snapshotKey = "civicpulse:map:snapshot"

// SnapshotStore is the single-slot persistence contract for the offline
// snapshot
type SnapshotStore interface {
	Save(ctx context.Context, snap models.OfflineSnapshot) error
	Load(ctx context.Context) (*models.OfflineSnapshot, error)
}

// RedisStore persists the snapshot in redis. A single SET of the encoded
// snapshot gives the whole-value overwrite the snapshot invariant requires.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis at the given URL and verifies the
// connection
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	zap.S().Infow("connected to redis", "url", redisURL)
	return &RedisStore{client: client}, nil
}

// Save overwrites the snapshot slot
func (s *RedisStore) Save(ctx context.Context, snap models.OfflineSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotKey, b, 0).Err()
}

// Load reads the snapshot slot, returning ErrNoSnapshot when empty
func (s *RedisStore) Load(ctx context.Context) (*models.OfflineSnapshot, error) {
	b, err := s.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	var snap models.OfflineSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Close releases the redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
