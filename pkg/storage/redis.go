package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matst80/magic-search/pkg/common/jsoncompat"
	"github.com/matst80/magic-search/pkg/types"
)

// RedisStorage keeps one facet document per region as a JSON string.
type RedisStorage struct {
	client *redis.Client
	key    string
}

func FacetsKey(region string) string {
	return "magicsearch:facets:" + region
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisStorage(client *redis.Client, region string) *RedisStorage {
	return &RedisStorage{
		client: client,
		key:    FacetsKey(region),
	}
}

func (r *RedisStorage) LoadFacets(ctx context.Context) (*types.FacetDocument, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoFacets
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return ParseDocument(data, FormatJSON)
}

func (r *RedisStorage) SaveFacets(ctx context.Context, doc *types.FacetDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	data, err := jsoncompat.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode facet document: %w", err)
	}
	if err = r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
