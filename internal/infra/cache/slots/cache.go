package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrCacheMiss возвращается, когда ключ отсутствует в кеше
	ErrCacheMiss = errors.New("slots.cache: cache miss")

	// ErrCacheUnavailable возвращается при ошибках Redis
	ErrCacheUnavailable = errors.New("slots.cache: cache unavailable")
)

// Cache кеш рассчитанных слотов доступности в Redis
// Слоты можно отдавать чуть устаревшими: запись бронирования
// всегда перепроверяет занятость по журналу внутри транзакции,
// поэтому короткий TTL безопасен
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает новый экземпляр кеша слотов
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key строит ключ кеша для запроса слотов
func Key(vendorID, itemID int64, date time.Time) string {
	return fmt.Sprintf("slots:%d:%d:%s", vendorID, itemID, date.Format("2006-01-02"))
}

// Get читает слоты из кеша
func (c *Cache) Get(ctx context.Context, key string) ([]domain.TimeSlot, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - %v", ErrCacheUnavailable, err)
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal: %v", ErrCacheUnavailable, err)
	}

	return slots, nil
}

// Set сохраняет слоты в кеш с TTL
func (c *Cache) Set(ctx context.Context, key string, slots []domain.TimeSlot) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: Set - marshal: %v", ErrCacheUnavailable, err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - %v", ErrCacheUnavailable, err)
	}

	return nil
}

// InvalidateVendor удаляет все закешированные слоты вендора
// Вызывается после записи, отмены или переназначения бронирования
func (c *Cache) InvalidateVendor(ctx context.Context, vendorID int64) error {
	pattern := fmt.Sprintf("slots:%d:*", vendorID)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: InvalidateVendor - scan: %v", ErrCacheUnavailable, err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: InvalidateVendor - del: %v", ErrCacheUnavailable, err)
	}

	return nil
}
