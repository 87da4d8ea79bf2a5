package adapters

import (
	"context"
	"time"

	"github.com/shard-legends/alchemy-service/internal/database"
	"github.com/shard-legends/alchemy-service/internal/events"
	"github.com/shard-legends/alchemy-service/internal/storage"
)

// CacheAdapter адаптирует database.RedisClient для storage.CacheInterface и events.Broker
type CacheAdapter struct {
	redis *database.RedisClient
}

// NewCacheAdapter создает новый адаптер для Redis
func NewCacheAdapter(redis *database.RedisClient) *CacheAdapter {
	return &CacheAdapter{redis: redis}
}

// Get получает значение по ключу
func (a *CacheAdapter) Get(ctx context.Context, key string) (string, error) {
	return a.redis.Get(ctx, key)
}

// Set устанавливает значение с TTL
func (a *CacheAdapter) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return a.redis.Set(ctx, key, value, ttl)
}

// SetNX устанавливает значение только если ключ отсутствует
func (a *CacheAdapter) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return a.redis.SetNX(ctx, key, value, ttl)
}

// Publish отправляет событие в канал pub/sub
func (a *CacheAdapter) Publish(ctx context.Context, channel string, payload []byte) error {
	return a.redis.Publish(ctx, channel, payload)
}

// Del удаляет ключ
func (a *CacheAdapter) Del(ctx context.Context, key string) error {
	return a.redis.Delete(ctx, key)
}

// Health проверяет состояние Redis
func (a *CacheAdapter) Health(ctx context.Context) error {
	return a.redis.Health(ctx)
}

var (
	_ storage.CacheInterface = (*CacheAdapter)(nil)
	_ events.Broker          = (*CacheAdapter)(nil)
)
