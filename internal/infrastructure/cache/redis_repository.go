package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/repository"
)

// RedisRepository implements the EnrichmentSnapshots interface using Redis
// as the backend. Snapshots let a restarted process warm its in-memory
// enrichment cache without hammering the upstream provider.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(addr, password string, db int, ttl time.Duration) *RedisRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisRepository{client: client, ttl: ttl}
}

// Ensure RedisRepository implements the EnrichmentSnapshots interface
var _ repository.EnrichmentSnapshots = (*RedisRepository)(nil)

// Ping verifies the connection at startup.
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func snapshotKey(wallet string) string {
	return fmt.Sprintf("enrich:%s", wallet)
}

// Save stores a full enrichment entry. The key expires with the cache TTL
// so snapshots never outlive the data they mirror by much.
func (r *RedisRepository) Save(ctx context.Context, e *model.Enrichment) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal enrichment: %w", err)
	}
	return r.client.Set(ctx, snapshotKey(e.WalletAddress), data, r.ttl).Err()
}

// Load retrieves a snapshot for the wallet. Returns (nil, nil) when no
// snapshot exists.
func (r *RedisRepository) Load(ctx context.Context, wallet string) (*model.Enrichment, error) {
	data, err := r.client.Get(ctx, snapshotKey(wallet)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var e model.Enrichment
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal enrichment: %w", err)
	}
	return &e, nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
