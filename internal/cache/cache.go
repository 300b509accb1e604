package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient подключается к Redis по URL и проверяет соединение
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ошибка при подключении к Redis: %w", err)
	}

	log.Info("✅ Успешное подключение к Redis")
	return rdb, nil
}

// JSONCache хранит значения в Redis в виде JSON
type JSONCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewJSONCache создаёт кеш с общим TTL
func NewJSONCache(rdb *redis.Client, ttl time.Duration) *JSONCache {
	return &JSONCache{rdb: rdb, ttl: ttl}
}

// GetJSON читает ключ в dst. false, если ключа нет.
func (c *JSONCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("повреждённое значение в кеше %s: %w", key, err)
	}
	return true, nil
}

// SetJSON записывает значение с TTL кеша
func (c *JSONCache) SetJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

// Delete удаляет ключи
func (c *JSONCache) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// ReputationCache хранит последнюю посчитанную репутацию пользователя
type ReputationCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewReputationCache создаёт кеш репутаций
func NewReputationCache(rdb *redis.Client, ttl time.Duration) *ReputationCache {
	return &ReputationCache{rdb: rdb, ttl: ttl}
}

func reputationKey(userID uuid.UUID) string {
	return "reputation:" + userID.String()
}

// GetReputation возвращает закешированную репутацию
func (c *ReputationCache) GetReputation(ctx context.Context, userID uuid.UUID) (float64, bool, error) {
	raw, err := c.rdb.Get(ctx, reputationKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("повреждённая репутация в кеше: %w", err)
	}
	return v, true, nil
}

// SetReputation сохраняет репутацию
func (c *ReputationCache) SetReputation(ctx context.Context, userID uuid.UUID, reputation float64) error {
	return c.rdb.Set(ctx, reputationKey(userID), strconv.FormatFloat(reputation, 'f', -1, 64), c.ttl).Err()
}
