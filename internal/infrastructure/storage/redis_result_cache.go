package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/domain/port"
	"nutrition-bot/internal/logging"
)

// DefaultCacheTTL время жизни закэшированного результата.
const DefaultCacheTTL = 10 * time.Minute

// KeyValue подмножество команд Redis, нужное кэшу.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisKeyValue struct {
	client *redis.Client
}

func (k redisKeyValue) Get(ctx context.Context, key string) (string, error) {
	return k.client.Get(ctx, key).Result()
}

func (k redisKeyValue) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return k.client.Set(ctx, key, value, ttl).Err()
}

// cachedResult сериализованная форма успешного результата.
type cachedResult struct {
	ClassName       string   `json:"class_name"`
	ClassIndex      int      `json:"class_index"`
	Confidence      float32  `json:"confidence"`
	Bucket          string   `json:"bucket"`
	Description     string   `json:"description"`
	Severity        string   `json:"severity"`
	Recommendations []string `json:"recommendations"`
}

// RedisResultCache кэширует результаты анализа по отпечатку фото.
type RedisResultCache struct {
	kv  KeyValue
	ttl time.Duration
}

// OpenRedis подключается к Redis и проверяет соединение.
func OpenRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, logging.NewOperationError("storage.open_redis", "", err)
	}
	return client, nil
}

// NewRedisResultCache создаёт кэш поверх клиента go-redis.
func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	return NewResultCache(redisKeyValue{client: client}, ttl)
}

// NewResultCache создаёт кэш поверх произвольного хранилища ключ-значение.
func NewResultCache(kv KeyValue, ttl time.Duration) *RedisResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisResultCache{kv: kv, ttl: ttl}
}

// Get возвращает результат из кэша. Отсутствие ключа не ошибка.
func (c *RedisResultCache) Get(ctx context.Context, key string) (entity.AnalysisResult, bool, error) {
	raw, err := c.kv.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return entity.AnalysisResult{}, false, nil
	}
	if err != nil {
		return entity.AnalysisResult{}, false, logging.NewOperationError("cache.get", key, err)
	}

	var payload cachedResult
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return entity.AnalysisResult{}, false, logging.NewOperationError("cache.decode", key, err)
	}
	return payload.result(), true, nil
}

// Set сохраняет успешный результат; неуспешные не кэшируются.
func (c *RedisResultCache) Set(ctx context.Context, key string, result entity.AnalysisResult) error {
	if !result.Success {
		return nil
	}
	raw, err := json.Marshal(newCachedResult(result))
	if err != nil {
		return logging.NewOperationError("cache.encode", key, err)
	}
	return logging.NewOperationError("cache.set", key, c.kv.Set(ctx, key, string(raw), c.ttl))
}

func newCachedResult(r entity.AnalysisResult) cachedResult {
	return cachedResult{
		ClassName:       r.ClassName,
		ClassIndex:      r.ClassIndex,
		Confidence:      r.Confidence,
		Bucket:          string(r.Bucket),
		Description:     r.Description,
		Severity:        string(r.Severity),
		Recommendations: r.RecommendationList(),
	}
}

func (p cachedResult) result() entity.AnalysisResult {
	return entity.AnalysisResult{
		Success:         true,
		ClassName:       p.ClassName,
		ClassIndex:      p.ClassIndex,
		Confidence:      p.Confidence,
		Bucket:          entity.ConfidenceBucket(p.Bucket),
		Description:     p.Description,
		Severity:        entity.Severity(p.Severity),
		Recommendations: p.Recommendations,
	}
}

var _ port.ResultCache = (*RedisResultCache)(nil)
