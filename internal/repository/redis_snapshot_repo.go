package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisSnapshotRepository struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshotRepository stores the snapshot as one string value.
func NewRedisSnapshotRepository(client *redis.Client, key string) SnapshotRepository {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &redisSnapshotRepository{client: client, key: key}
}

func (r *redisSnapshotRepository) Save(ctx context.Context, snap Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", r.key, err)
	}
	return nil
}

func (r *redisSnapshotRepository) Load(ctx context.Context) (Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, fmt.Errorf("failed to load snapshot %s: %w", r.key, err)
	}
	return DecodeSnapshot(data)
}
